package blocks

import (
	"time"

	"github.com/google/uuid"

	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
)

// BlockDTO exposes a driver shift block in API responses.
type BlockDTO struct {
	ID         uuid.UUID `json:"id"`
	LocationID uuid.UUID `json:"location_id"`

	Date       time.Time         `json:"date"`
	StartTime  string            `json:"start_time"`
	EndTime    string            `json:"end_time"`
	NeedDriver int               `json:"drivers_needed"`
	Confirmed  int               `json:"drivers_confirmed"`
	Status     enums.BlockStatus `json:"status"`
	Notes      *string           `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateBlockDTO holds creation-time data for a new block.
type CreateBlockDTO struct {
	LocationID uuid.UUID
	Date       time.Time
	StartTime  string
	EndTime    string
	NeedDriver int
	Notes      *string
}

// ToModel maps creation data onto a persistable row.
func (d CreateBlockDTO) ToModel() *models.Block {
	need := d.NeedDriver
	if need <= 0 {
		need = 1
	}
	return &models.Block{
		LocationID: d.LocationID,
		Date:       d.Date,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		NeedDriver: need,
		Status:     enums.BlockScheduled,
		Notes:      d.Notes,
	}
}

// FromModel maps the persisted block into a DTO.
func FromModel(m *models.Block) *BlockDTO {
	if m == nil {
		return nil
	}
	return &BlockDTO{
		ID:         m.ID,
		LocationID: m.LocationID,
		Date:       m.Date,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		NeedDriver: m.NeedDriver,
		Confirmed:  m.Confirmed,
		Status:     m.Status,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
