package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sliceops-ai/sliceops-backend/api/responses"
	"github.com/sliceops-ai/sliceops-backend/api/validators"
	"github.com/sliceops-ai/sliceops-backend/internal/blocks"
	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
)

type createBlockRequest struct {
	LocationID uuid.UUID `json:"location_id" validate:"required"`
	Date       time.Time `json:"date" validate:"required"`
	StartTime  string    `json:"start_time" validate:"required"`
	EndTime    string    `json:"end_time" validate:"required"`
	NeedDriver int       `json:"drivers_needed,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
}

func (req createBlockRequest) toInput() blocks.CreateBlockDTO {
	return blocks.CreateBlockDTO{
		LocationID: req.LocationID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		NeedDriver: req.NeedDriver,
		Notes:      req.Notes,
	}
}

func BlockCreate(svc blocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "block service unavailable"))
			return
		}

		var req createBlockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func BlockList(svc blocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "block service unavailable"))
			return
		}

		locationID, err := uuid.Parse(chi.URLParam(r, "locationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location id"))
			return
		}

		from, err := validators.ParseQueryTime(r, "from", time.Now().UTC().Truncate(24*time.Hour))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByLocation(r.Context(), locationID, from)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func BlockConfirmDriver(svc blocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "block service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "blockId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid block id"))
			return
		}

		updated, err := svc.ConfirmDriver(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

type updateBlockStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func BlockUpdateStatus(svc blocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "block service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "blockId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid block id"))
			return
		}

		var req updateBlockStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), id, enums.BlockStatus(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
