package blocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
)

// Repository handles block persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to block operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new block row.
func (r *Repository) Create(ctx context.Context, dto CreateBlockDTO) (*models.Block, error) {
	block := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(block).Error; err != nil {
		return nil, err
	}
	return block, nil
}

// FindByID loads a block by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Block, error) {
	var block models.Block
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&block).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

// ListByLocation returns blocks for a location on or after the given date.
func (r *Repository) ListByLocation(ctx context.Context, locationID uuid.UUID, from time.Time) ([]models.Block, error) {
	var list []models.Block
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND block_date >= ?", locationID, from).
		Order("block_date, start_time").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Update saves the provided block.
func (r *Repository) Update(ctx context.Context, block *models.Block) error {
	if block == nil {
		return fmt.Errorf("block is required")
	}
	return r.db.WithContext(ctx).Save(block).Error
}

// ExpireBefore marks unfilled blocks dated before the cutoff as expired and
// returns how many rows changed.
func (r *Repository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("block_date < ? AND status IN ?", cutoff, []enums.BlockStatus{enums.BlockScheduled, enums.BlockOpen}).
		Update("status", enums.BlockExpired)
	return res.RowsAffected, res.Error
}
