package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
)

// Block is one driver shift block for a store on a given date.
type Block struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	LocationID uuid.UUID `gorm:"column:location_id;type:uuid;not null;index"`

	Date       time.Time         `gorm:"column:block_date;not null;index"`
	StartTime  string            `gorm:"column:start_time;not null"`
	EndTime    string            `gorm:"column:end_time;not null"`
	NeedDriver int               `gorm:"column:drivers_needed;not null;default:1"`
	Confirmed  int               `gorm:"column:drivers_confirmed;not null;default:0"`
	Status     enums.BlockStatus `gorm:"column:status;not null;default:'scheduled'"`
	Notes      *string           `gorm:"column:notes"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Block) TableName() string { return "blocks" }
