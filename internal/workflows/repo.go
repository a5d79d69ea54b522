package workflows

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
)

// Repository handles workflow persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to workflow operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a workflow with its checklist items in one transaction.
func (r *Repository) Create(ctx context.Context, wf *models.Workflow) error {
	if wf == nil {
		return fmt.Errorf("workflow is required")
	}
	return r.db.WithContext(ctx).Create(wf).Error
}

// FindByID loads a workflow and its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Workflow, error) {
	var wf models.Workflow
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("id = ?", id).
		First(&wf).Error; err != nil {
		return nil, err
	}
	return &wf, nil
}

// ListByLocation returns workflows for one location, newest shift first.
func (r *Repository) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]models.Workflow, error) {
	var list []models.Workflow
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("location_id = ?", locationID).
		Order("shift_date DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Update saves a workflow row (not its items).
func (r *Repository) Update(ctx context.Context, wf *models.Workflow) error {
	if wf == nil {
		return fmt.Errorf("workflow is required")
	}
	return r.db.WithContext(ctx).Omit("Items").Save(wf).Error
}

// UpdateItem saves one checklist item.
func (r *Repository) UpdateItem(ctx context.Context, item *models.ChecklistItem) error {
	if item == nil {
		return fmt.Errorf("checklist item is required")
	}
	return r.db.WithContext(ctx).Save(item).Error
}
