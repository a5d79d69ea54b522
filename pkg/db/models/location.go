package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Location represents one pizza store as the schedulers and the
// intelligence engine see it.
type Location struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalID string    `gorm:"column:external_id;uniqueIndex;not null"`
	Name       string    `gorm:"column:name;not null"`
	City       string    `gorm:"column:city;not null"`
	State      string    `gorm:"column:state;not null"`
	Latitude   float64   `gorm:"column:latitude;not null"`
	Longitude  float64   `gorm:"column:longitude;not null"`

	// Timezone is a fixed offset string in GMT[+-]HH:MM form, as reported by
	// the upstream store directory. It is not an IANA zone name.
	Timezone string `gorm:"column:timezone;not null;default:'GMT-08:00'"`

	Online       bool `gorm:"column:online;not null;default:true"`
	ForceOffline bool `gorm:"column:force_offline;not null;default:false"`

	CashLimit     decimal.Decimal `gorm:"column:cash_limit;type:numeric(10,2)"`
	DeliveryFee   decimal.Decimal `gorm:"column:delivery_fee;type:numeric(10,2)"`
	MinimumOrder  decimal.Decimal `gorm:"column:minimum_order;type:numeric(10,2)"`
	EstWaitMinute int             `gorm:"column:est_wait_minutes;not null;default:30"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Location) TableName() string { return "locations" }
