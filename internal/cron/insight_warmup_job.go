package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sliceops-ai/sliceops-backend/internal/intelligence"
	"github.com/sliceops-ai/sliceops-backend/internal/locations"
	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
	"go.uber.org/multierr"
)

const defaultWarmupStoreTimeout = 30 * time.Second

// InsightWarmupJobParams configures the insight warmup job.
type InsightWarmupJobParams struct {
	Logger       *logger.Logger
	Locations    warmupLocationSource
	Insights     insightGenerator
	StoreTimeout time.Duration
}

type warmupLocationSource interface {
	ListActive(ctx context.Context) ([]models.Location, error)
}

type insightGenerator interface {
	GenerateInsight(ctx context.Context, store intelligence.Store) intelligence.Insight
}

// NewInsightWarmupJob constructs the job that pre-generates insights for
// every active location. Running it on a schedule keeps the external signal
// caches populated so interactive requests hit warm data.
func NewInsightWarmupJob(params InsightWarmupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Locations == nil {
		return nil, fmt.Errorf("location source required")
	}
	if params.Insights == nil {
		return nil, fmt.Errorf("insight generator required")
	}
	timeout := params.StoreTimeout
	if timeout <= 0 {
		timeout = defaultWarmupStoreTimeout
	}
	return &insightWarmupJob{
		logg:      params.Logger,
		locations: params.Locations,
		insights:  params.Insights,
		timeout:   timeout,
	}, nil
}

type insightWarmupJob struct {
	logg      *logger.Logger
	locations warmupLocationSource
	insights  insightGenerator
	timeout   time.Duration
}

func (j *insightWarmupJob) Name() string { return "insight-warmup" }

func (j *insightWarmupJob) Run(ctx context.Context) error {
	locs, err := j.locations.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active locations: %w", err)
	}

	var errs []error
	warmed := 0
	for i := range locs {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("warmup interrupted after %d locations: %w", warmed, ctx.Err()))
			break
		}
		store := locations.ToIntelligenceStore(&locs[i])
		if err := validateWarmTarget(store); err != nil {
			errs = append(errs, fmt.Errorf("location %s: %w", store.ID, err))
			continue
		}
		storeCtx, cancel := context.WithTimeout(ctx, j.timeout)
		insight := j.insights.GenerateInsight(storeCtx, store)
		cancel()
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"store_id": store.ID,
			"severity": insight.Severity,
		})
		j.logg.Info(logCtx, "insight warmed")
		warmed++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"warmed": warmed, "skipped": len(locs) - warmed})
	j.logg.Info(logCtx, "insight warmup loop complete")
	return multierr.Combine(errs...)
}

// validateWarmTarget rejects locations the insight engine would refuse
// anyway, so misconfigured rows surface in the job error instead of being
// silently warmed into fallbacks.
func validateWarmTarget(store intelligence.Store) error {
	if store.ID == "" {
		return fmt.Errorf("missing id")
	}
	if store.City == "" || store.State == "" {
		return fmt.Errorf("missing city or state")
	}
	if store.Latitude == 0 && store.Longitude == 0 {
		return fmt.Errorf("missing coordinates")
	}
	return nil
}
