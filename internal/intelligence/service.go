package intelligence

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
)

// CompletionProvider is the slice of the OpenAI client the service needs.
type CompletionProvider interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// Service is the insight facade. GenerateInsight is a total function: any
// stage failure degrades to the canonical fallback, never to an error.
type Service struct {
	collector  *Collector
	classifier *Classifier
	completion CompletionProvider
	logg       *logger.Logger
	now        func() time.Time
}

// NewService validates wiring and builds the insight service. completion may
// be nil when no API key is configured; every request then gets the fallback.
func NewService(collector *Collector, classifier *Classifier, completion CompletionProvider, logg *logger.Logger) (*Service, error) {
	if collector == nil {
		return nil, fmt.Errorf("insight service requires a collector")
	}
	if classifier == nil {
		return nil, fmt.Errorf("insight service requires a classifier")
	}
	if logg == nil {
		return nil, fmt.Errorf("insight service requires a logger")
	}
	return &Service{
		collector:  collector,
		classifier: classifier,
		completion: completion,
		logg:       logg,
		now:        time.Now,
	}, nil
}

// GenerateInsight produces the operational insight for one store. It always
// returns a well-formed Insight; a degraded result is indistinguishable in
// shape from a normal one.
func (s *Service) GenerateInsight(ctx context.Context, store Store) (out Insight) {
	ctx = s.logg.WithStoreID(ctx, store.ID)
	defer func() {
		if r := recover(); r != nil {
			s.logg.Warn(ctx, fmt.Sprintf("insight generation panicked: %v", r))
			out = FallbackInsight()
		}
	}()

	if err := validateStoreInput(store); err != nil {
		s.logg.Warn(ctx, "invalid store input: "+err.Error())
		return FallbackInsight()
	}

	classification := s.classifier.Classify(ctx, store)
	sctx := NewStoreContext(s.now().UTC(), store, classification)
	data := s.collector.Collect(ctx, store, sctx)

	if s.completion == nil {
		return FallbackInsight()
	}

	system, user := BuildPrompt(store, data, sctx)
	raw, err := s.completion.CompleteJSON(ctx, system, user)
	if err != nil {
		s.logg.Warn(ctx, "completion call failed: "+err.Error())
		return FallbackInsight()
	}
	return ParseInsight(raw, ShiftPhase(sctx.Hour))
}

// validateStoreInput rejects stores that cannot be safely fed to providers.
// It runs before any network call.
func validateStoreInput(store Store) error {
	if strings.TrimSpace(store.ID) == "" {
		return fmt.Errorf("store id is required")
	}
	if strings.TrimSpace(store.City) == "" || strings.TrimSpace(store.State) == "" {
		return fmt.Errorf("store city and state are required")
	}
	for _, v := range []float64{store.Latitude, store.Longitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("store coordinates must be finite")
		}
	}
	if store.Latitude == 0 && store.Longitude == 0 {
		return fmt.Errorf("store coordinates are unset")
	}
	return nil
}
