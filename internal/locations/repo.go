package locations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
)

// Repository handles location persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to location operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new location row.
func (r *Repository) Create(ctx context.Context, dto CreateLocationDTO) (*models.Location, error) {
	loc := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(loc).Error; err != nil {
		return nil, err
	}
	return loc, nil
}

// FindByID loads a location by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// FindByExternalID loads a location by the upstream directory id.
func (r *Repository) FindByExternalID(ctx context.Context, externalID string) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// ListActive returns all locations currently taking orders.
func (r *Repository) ListActive(ctx context.Context) ([]models.Location, error) {
	var locs []models.Location
	if err := r.db.WithContext(ctx).
		Where("online = ? AND force_offline = ?", true, false).
		Order("name").
		Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

// List returns all locations.
func (r *Repository) List(ctx context.Context) ([]models.Location, error) {
	var locs []models.Location
	if err := r.db.WithContext(ctx).Order("name").Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

// Update saves the provided location.
func (r *Repository) Update(ctx context.Context, loc *models.Location) error {
	if loc == nil {
		return fmt.Errorf("location is required")
	}
	return r.db.WithContext(ctx).Save(loc).Error
}
