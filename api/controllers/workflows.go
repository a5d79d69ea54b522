package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sliceops-ai/sliceops-backend/api/responses"
	"github.com/sliceops-ai/sliceops-backend/api/validators"
	"github.com/sliceops-ai/sliceops-backend/internal/workflows"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
)

type createWorkflowRequest struct {
	LocationID uuid.UUID `json:"location_id" validate:"required"`
	Name       string    `json:"name,omitempty"`
	ShiftDate  time.Time `json:"shift_date" validate:"required"`
	Labels     []string  `json:"labels,omitempty"`
}

func (req createWorkflowRequest) toInput() workflows.CreateWorkflowDTO {
	return workflows.CreateWorkflowDTO{
		LocationID: req.LocationID,
		Name:       req.Name,
		ShiftDate:  req.ShiftDate,
		Labels:     req.Labels,
	}
}

func WorkflowCreate(svc workflows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
			return
		}

		var req createWorkflowRequest
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

func WorkflowList(svc workflows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
			return
		}

		locationID, err := uuid.Parse(chi.URLParam(r, "locationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location id"))
			return
		}

		list, err := svc.ListByLocation(r.Context(), locationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func WorkflowDetail(svc workflows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "workflowId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid workflow id"))
			return
		}

		wf, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, wf)
	}
}

type checkItemRequest struct {
	CheckedBy string `json:"checked_by" validate:"required"`
}

func WorkflowCheckItem(svc workflows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
			return
		}

		workflowID, err := uuid.Parse(chi.URLParam(r, "workflowId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid workflow id"))
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		var req checkItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.CheckItem(r.Context(), workflowID, itemID, req.CheckedBy)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
