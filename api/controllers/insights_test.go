package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sliceops-ai/sliceops-backend/internal/intelligence"
	"github.com/sliceops-ai/sliceops-backend/internal/locations"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
	"github.com/sliceops-ai/sliceops-backend/pkg/types"
)

type stubGenerator struct {
	store intelligence.Store
}

func (s *stubGenerator) GenerateInsight(_ context.Context, store intelligence.Store) intelligence.Insight {
	s.store = store
	return intelligence.Insight{
		Insight:  "Evening rush starting early",
		Severity: "warning",
		Action:   "Add a driver at 16:30.",
	}
}

func TestStoreInsight(t *testing.T) {
	logg := testLogger()

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/nope/insight", nil)
		req = withURLParam(req, "storeId", "nope")
		rec := httptest.NewRecorder()
		StoreInsight(&stubLocationService{}, &stubGenerator{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown store", func(t *testing.T) {
		id := uuid.New()
		locSvc := &stubLocationService{err: pkgerrors.New(pkgerrors.CodeNotFound, "location not found")}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/"+id.String()+"/insight", nil)
		req = withURLParam(req, "storeId", id.String())
		rec := httptest.NewRecorder()
		StoreInsight(locSvc, &stubGenerator{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("success projects the location", func(t *testing.T) {
		id := uuid.New()
		locSvc := &stubLocationService{location: &locations.LocationDTO{
			ID:        id,
			Name:      "Downtown",
			City:      "San Francisco",
			State:     "CA",
			Latitude:  37.77,
			Longitude: -122.42,
			Timezone:  "GMT-07:00",
			Online:    true,
		}}
		generator := &stubGenerator{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/"+id.String()+"/insight", nil)
		req = withURLParam(req, "storeId", id.String())
		rec := httptest.NewRecorder()
		StoreInsight(locSvc, generator, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if generator.store.ID != id.String() || generator.store.Timezone != "GMT-07:00" {
			t.Fatalf("generator received a bad projection: %+v", generator.store)
		}

		var envelope types.SuccessEnvelope
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		data := envelope.Data.(map[string]any)
		if data["severity"] != "warning" {
			t.Fatalf("unexpected payload %v", data)
		}
	})
}
