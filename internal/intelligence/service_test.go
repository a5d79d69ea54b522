package intelligence

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type stubCompletion struct {
	calls    int32
	response string
	err      error

	lastSystem string
	lastUser   string
}

func (s *stubCompletion) CompleteJSON(_ context.Context, system, user string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	s.lastSystem = system
	s.lastUser = user
	return s.response, s.err
}

func newTestService(t *testing.T, p FetcherParams, completion CompletionProvider) *Service {
	t.Helper()
	fetcher := newTestFetcher(t, p)
	collector, err := NewCollector(fetcher, newTestLogger())
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	classifier := NewClassifier(nil, time.Hour, newTestLogger())
	svc, err := NewService(collector, classifier, completion, newTestLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGenerateInsightFallbackWhenEverythingFails(t *testing.T) {
	// No providers configured at all and a failing completion call: the
	// caller still gets the canonical well-formed insight.
	completion := &stubCompletion{err: errors.New("timeout")}
	svc := newTestService(t, FetcherParams{}, completion)

	got := svc.GenerateInsight(context.Background(), testStore())
	if got != FallbackInsight() {
		t.Fatalf("expected fallback insight, got %+v", got)
	}
}

func TestGenerateInsightInvalidStoreShortCircuits(t *testing.T) {
	completion := &stubCompletion{response: `{"insight": "x"}`}
	svc := newTestService(t, FetcherParams{}, completion)

	cases := []Store{
		{},
		{ID: "s1", City: "SF"},
		{ID: "s1", City: "SF", State: "CA"},
	}
	for _, store := range cases {
		if got := svc.GenerateInsight(context.Background(), store); got != FallbackInsight() {
			t.Fatalf("expected fallback for %+v", store)
		}
	}
	if atomic.LoadInt32(&completion.calls) != 0 {
		t.Fatal("invalid stores must not reach the completion service")
	}
}

func TestGenerateInsightHappyPath(t *testing.T) {
	provider := &stubWeather{obs: weatherObs("Thunderstorm", 48)}
	completion := &stubCompletion{response: `{
		"insight": "Storm tonight, expect delivery surge.",
		"severity": "warning",
		"metrics": {"expectedOrderIncrease": 25, "recommendedExtraDrivers": 2, "primaryReason": "severe weather"},
		"action": "Add two drivers.",
		"carryoutPromotion": {"discount": 50, "message": "50% off carryout"}
	}`}
	svc := newTestService(t, FetcherParams{Weather: provider}, completion)

	got := svc.GenerateInsight(context.Background(), testStore())
	if got.Severity != SeverityWarning {
		t.Fatalf("expected warning severity, got %q", got.Severity)
	}
	if got.Metrics.ExpectedOrderIncrease != 25 {
		t.Fatalf("unexpected metrics %+v", got.Metrics)
	}
	if got.Carryout == nil || got.Carryout.Discount != 50 {
		t.Fatalf("expected carryout promotion, got %+v", got.Carryout)
	}
	if !strings.Contains(completion.lastUser, "Carryout opportunity active: 50%") {
		t.Fatalf("expected the computed carryout in the prompt:\n%s", completion.lastUser)
	}
}

func TestGenerateInsightNoCompletionConfigured(t *testing.T) {
	svc := newTestService(t, FetcherParams{}, nil)
	if got := svc.GenerateInsight(context.Background(), testStore()); got != FallbackInsight() {
		t.Fatalf("expected fallback without a completion provider, got %+v", got)
	}
}

func TestGenerateInsightIdempotentWithinTTL(t *testing.T) {
	weatherProvider := &stubWeather{obs: weatherObs("Rain", 55)}
	routeProvider := &stubRoutes{err: errors.New("down")}
	var eventCalls int32
	src := EventSource{Name: "alpha", Class: ClassGeneral, Search: func(context.Context, float64, float64, int, time.Time, time.Time) ([]RawEvent, error) {
		atomic.AddInt32(&eventCalls, 1)
		return nil, nil
	}}
	completion := &stubCompletion{response: `{"insight": "steady"}`}
	svc := newTestService(t, FetcherParams{
		Weather:      weatherProvider,
		Routes:       routeProvider,
		EventSources: []EventSource{src},
	}, completion)

	svc.GenerateInsight(context.Background(), testStore())
	svc.GenerateInsight(context.Background(), testStore())

	if got := atomic.LoadInt32(&weatherProvider.calls); got != 1 {
		t.Fatalf("expected 1 weather call across both requests, got %d", got)
	}
	if got := atomic.LoadInt32(&eventCalls); got != 1 {
		t.Fatalf("expected 1 event search across both requests, got %d", got)
	}
	// The failed traffic fetch is not cached, so it retries per request.
	if got := atomic.LoadInt32(&routeProvider.calls); got != 2 {
		t.Fatalf("expected 2 traffic attempts, got %d", got)
	}
}
