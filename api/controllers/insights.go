package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sliceops-ai/sliceops-backend/api/responses"
	"github.com/sliceops-ai/sliceops-backend/internal/intelligence"
	"github.com/sliceops-ai/sliceops-backend/internal/locations"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
)

// InsightGenerator produces an operational insight for a store. It never
// fails: degraded inputs yield a fallback insight.
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, store intelligence.Store) intelligence.Insight
}

// StoreInsight resolves the store and runs the insight engine. The generation
// itself always succeeds, so the only error paths are lookup failures.
func StoreInsight(locSvc locations.Service, generator InsightGenerator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if locSvc == nil || generator == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insight engine unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "storeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}

		loc, err := locSvc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		insight := generator.GenerateInsight(r.Context(), storeFromLocation(loc))
		responses.WriteSuccess(w, insight)
	}
}

func storeFromLocation(loc *locations.LocationDTO) intelligence.Store {
	if loc == nil {
		return intelligence.Store{}
	}
	return intelligence.Store{
		ID:             loc.ID.String(),
		Name:           loc.Name,
		City:           loc.City,
		State:          loc.State,
		Latitude:       loc.Latitude,
		Longitude:      loc.Longitude,
		Timezone:       loc.Timezone,
		Online:         loc.Online,
		ForceOffline:   loc.ForceOffline,
		CashLimit:      loc.CashLimit,
		DeliveryFee:    loc.DeliveryFee,
		MinimumOrder:   loc.MinimumOrder,
		EstWaitMinutes: loc.EstWaitMinutes,
	}
}
