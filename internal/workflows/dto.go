package workflows

import (
	"time"

	"github.com/google/uuid"

	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
)

// WorkflowDTO exposes a shift-opening workflow with its checklist.
type WorkflowDTO struct {
	ID         uuid.UUID `json:"id"`
	LocationID uuid.UUID `json:"location_id"`

	Name        string               `json:"name"`
	ShiftDate   time.Time            `json:"shift_date"`
	Status      enums.WorkflowStatus `json:"status"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`

	Items []ChecklistItemDTO `json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChecklistItemDTO is one task inside a workflow.
type ChecklistItemDTO struct {
	ID        uuid.UUID  `json:"id"`
	Label     string     `json:"label"`
	Position  int        `json:"position"`
	Required  bool       `json:"required"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
	CheckedBy *string    `json:"checked_by,omitempty"`
}

// CreateWorkflowDTO holds creation-time data for a new workflow run.
type CreateWorkflowDTO struct {
	LocationID uuid.UUID
	Name       string
	ShiftDate  time.Time
	Labels     []string
}

// FromModel maps the persisted workflow into a DTO.
func FromModel(m *models.Workflow) *WorkflowDTO {
	if m == nil {
		return nil
	}
	items := make([]ChecklistItemDTO, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, ChecklistItemDTO{
			ID:        it.ID,
			Label:     it.Label,
			Position:  it.Position,
			Required:  it.Required,
			CheckedAt: it.CheckedAt,
			CheckedBy: it.CheckedBy,
		})
	}
	return &WorkflowDTO{
		ID:          m.ID,
		LocationID:  m.LocationID,
		Name:        m.Name,
		ShiftDate:   m.ShiftDate,
		Status:      m.Status,
		CompletedAt: m.CompletedAt,
		Items:       items,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
