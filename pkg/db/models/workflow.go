package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
)

// Workflow is a shift-opening checklist run for a store.
type Workflow struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	LocationID uuid.UUID `gorm:"column:location_id;type:uuid;not null;index"`

	Name        string               `gorm:"column:name;not null"`
	ShiftDate   time.Time            `gorm:"column:shift_date;not null;index"`
	Status      enums.WorkflowStatus `gorm:"column:status;not null;default:'pending'"`
	CompletedAt *time.Time           `gorm:"column:completed_at"`

	Items []ChecklistItem `gorm:"foreignKey:WorkflowID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Workflow) TableName() string { return "workflows" }

// ChecklistItem is one task inside a workflow.
type ChecklistItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WorkflowID uuid.UUID `gorm:"column:workflow_id;type:uuid;not null;index"`

	Label     string     `gorm:"column:label;not null"`
	Position  int        `gorm:"column:position;not null;default:0"`
	Required  bool       `gorm:"column:required;not null;default:true"`
	CheckedAt *time.Time `gorm:"column:checked_at"`
	CheckedBy *string    `gorm:"column:checked_by"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ChecklistItem) TableName() string { return "checklist_items" }
