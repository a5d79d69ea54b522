package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sliceops-ai/sliceops-backend/api/responses"
	"github.com/sliceops-ai/sliceops-backend/api/validators"
	"github.com/sliceops-ai/sliceops-backend/internal/locations"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
)

type createLocationRequest struct {
	ExternalID string          `json:"external_id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	City       string          `json:"city" validate:"required"`
	State      string          `json:"state" validate:"required"`
	Latitude   float64         `json:"latitude" validate:"latitude"`
	Longitude  float64         `json:"longitude" validate:"longitude"`
	Timezone   string          `json:"timezone,omitempty" validate:"omitempty,gmt_offset"`
	CashLimit  decimal.Decimal `json:"cash_limit,omitempty"`

	DeliveryFee  decimal.Decimal `json:"delivery_fee,omitempty"`
	MinimumOrder decimal.Decimal `json:"minimum_order,omitempty"`
}

func (req createLocationRequest) toInput() locations.CreateLocationDTO {
	return locations.CreateLocationDTO{
		ExternalID:   req.ExternalID,
		Name:         req.Name,
		City:         req.City,
		State:        req.State,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Timezone:     req.Timezone,
		CashLimit:    req.CashLimit,
		DeliveryFee:  req.DeliveryFee,
		MinimumOrder: req.MinimumOrder,
	}
}

func LocationCreate(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location service unavailable"))
			return
		}

		var req createLocationRequest
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

func LocationList(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location service unavailable"))
			return
		}

		activeOnly, err := validators.ParseQueryBool(r, "active", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func LocationDetail(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "locationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location id"))
			return
		}

		loc, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loc)
	}
}

type updateLocationRequest struct {
	Online         *bool            `json:"online,omitempty"`
	ForceOffline   *bool            `json:"force_offline,omitempty"`
	Timezone       *string          `json:"timezone,omitempty" validate:"omitempty,gmt_offset"`
	CashLimit      *decimal.Decimal `json:"cash_limit,omitempty"`
	DeliveryFee    *decimal.Decimal `json:"delivery_fee,omitempty"`
	MinimumOrder   *decimal.Decimal `json:"minimum_order,omitempty"`
	EstWaitMinutes *int             `json:"est_wait_minutes,omitempty"`
}

func (req updateLocationRequest) toInput() locations.UpdateLocationInput {
	return locations.UpdateLocationInput{
		Online:         req.Online,
		ForceOffline:   req.ForceOffline,
		Timezone:       req.Timezone,
		CashLimit:      req.CashLimit,
		DeliveryFee:    req.DeliveryFee,
		MinimumOrder:   req.MinimumOrder,
		EstWaitMinutes: req.EstWaitMinutes,
	}
}

func LocationUpdate(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "locationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location id"))
			return
		}

		var req updateLocationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
