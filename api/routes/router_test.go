package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sliceops-ai/sliceops-backend/internal/blocks"
	"github.com/sliceops-ai/sliceops-backend/internal/intelligence"
	"github.com/sliceops-ai/sliceops-backend/internal/locations"
	"github.com/sliceops-ai/sliceops-backend/internal/workflows"
	"github.com/sliceops-ai/sliceops-backend/pkg/config"
	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubLocations struct{}

func (stubLocations) Create(context.Context, locations.CreateLocationDTO) (*locations.LocationDTO, error) {
	return &locations.LocationDTO{ID: uuid.New()}, nil
}

func (stubLocations) GetByID(context.Context, uuid.UUID) (*locations.LocationDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
}

func (stubLocations) List(context.Context, bool) ([]locations.LocationDTO, error) {
	return nil, nil
}

func (stubLocations) Update(context.Context, uuid.UUID, locations.UpdateLocationInput) (*locations.LocationDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
}

type stubBlocks struct{}

func (stubBlocks) Create(context.Context, blocks.CreateBlockDTO) (*blocks.BlockDTO, error) {
	return &blocks.BlockDTO{}, nil
}
func (stubBlocks) GetByID(context.Context, uuid.UUID) (*blocks.BlockDTO, error) {
	return &blocks.BlockDTO{}, nil
}
func (stubBlocks) ListByLocation(context.Context, uuid.UUID, time.Time) ([]blocks.BlockDTO, error) {
	return nil, nil
}
func (stubBlocks) ConfirmDriver(context.Context, uuid.UUID) (*blocks.BlockDTO, error) {
	return &blocks.BlockDTO{}, nil
}
func (stubBlocks) UpdateStatus(context.Context, uuid.UUID, enums.BlockStatus) (*blocks.BlockDTO, error) {
	return &blocks.BlockDTO{}, nil
}
func (stubBlocks) ExpirePast(context.Context, time.Time) (int64, error) { return 0, nil }

type stubWorkflows struct{}

func (stubWorkflows) Create(context.Context, workflows.CreateWorkflowDTO) (*workflows.WorkflowDTO, error) {
	return &workflows.WorkflowDTO{}, nil
}
func (stubWorkflows) GetByID(context.Context, uuid.UUID) (*workflows.WorkflowDTO, error) {
	return &workflows.WorkflowDTO{}, nil
}
func (stubWorkflows) ListByLocation(context.Context, uuid.UUID) ([]workflows.WorkflowDTO, error) {
	return nil, nil
}
func (stubWorkflows) CheckItem(context.Context, uuid.UUID, uuid.UUID, string) (*workflows.WorkflowDTO, error) {
	return &workflows.WorkflowDTO{}, nil
}

type stubInsights struct{}

func (stubInsights) GenerateInsight(context.Context, intelligence.Store) intelligence.Insight {
	return intelligence.Insight{Insight: "ok", Severity: "info"}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	return NewRouter(cfg, logg, stubPinger{}, stubPinger{}, prometheus.NewRegistry(), stubLocations{}, stubBlocks{}, stubWorkflows{}, stubInsights{})
}

func TestRouterWiresCoreRoutes(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/locations", http.StatusOK},
		{http.MethodGet, "/api/v1/locations/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodGet, "/api/v1/stores/" + uuid.NewString() + "/insight", http.StatusNotFound},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rec.Code)
		}
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected middleware to set a request id")
	}
}
