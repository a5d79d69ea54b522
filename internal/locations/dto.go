package locations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sliceops-ai/sliceops-backend/internal/intelligence"
	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
)

// LocationDTO exposes store data in API responses.
type LocationDTO struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Timezone   string    `json:"timezone"`

	Online       bool `json:"online"`
	ForceOffline bool `json:"force_offline"`

	CashLimit      decimal.Decimal `json:"cash_limit"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	MinimumOrder   decimal.Decimal `json:"minimum_order"`
	EstWaitMinutes int             `json:"est_wait_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateLocationDTO holds creation-time data for a new store.
type CreateLocationDTO struct {
	ExternalID string
	Name       string
	City       string
	State      string
	Latitude   float64
	Longitude  float64
	Timezone   string

	CashLimit    decimal.Decimal
	DeliveryFee  decimal.Decimal
	MinimumOrder decimal.Decimal
}

// ToModel maps creation data onto a persistable row.
func (d CreateLocationDTO) ToModel() *models.Location {
	loc := &models.Location{
		ExternalID:   d.ExternalID,
		Name:         d.Name,
		City:         d.City,
		State:        d.State,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		Timezone:     d.Timezone,
		Online:       true,
		CashLimit:    d.CashLimit,
		DeliveryFee:  d.DeliveryFee,
		MinimumOrder: d.MinimumOrder,
	}
	if loc.Timezone == "" {
		loc.Timezone = "GMT-08:00"
	}
	return loc
}

// FromModel maps the persisted location into a DTO.
func FromModel(m *models.Location) *LocationDTO {
	if m == nil {
		return nil
	}
	return &LocationDTO{
		ID:             m.ID,
		ExternalID:     m.ExternalID,
		Name:           m.Name,
		City:           m.City,
		State:          m.State,
		Latitude:       m.Latitude,
		Longitude:      m.Longitude,
		Timezone:       m.Timezone,
		Online:         m.Online,
		ForceOffline:   m.ForceOffline,
		CashLimit:      m.CashLimit,
		DeliveryFee:    m.DeliveryFee,
		MinimumOrder:   m.MinimumOrder,
		EstWaitMinutes: m.EstWaitMinute,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ToIntelligenceStore projects a location into the shape the insight engine
// consumes.
func ToIntelligenceStore(m *models.Location) intelligence.Store {
	if m == nil {
		return intelligence.Store{}
	}
	return intelligence.Store{
		ID:             m.ID.String(),
		Name:           m.Name,
		City:           m.City,
		State:          m.State,
		Latitude:       m.Latitude,
		Longitude:      m.Longitude,
		Timezone:       m.Timezone,
		Online:         m.Online,
		ForceOffline:   m.ForceOffline,
		CashLimit:      m.CashLimit,
		DeliveryFee:    m.DeliveryFee,
		MinimumOrder:   m.MinimumOrder,
		EstWaitMinutes: m.EstWaitMinute,
	}
}
