package locations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sliceops-ai/sliceops-backend/pkg/db"
	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
)

type locationRepository interface {
	Create(ctx context.Context, dto CreateLocationDTO) (*models.Location, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	List(ctx context.Context) ([]models.Location, error)
	ListActive(ctx context.Context) ([]models.Location, error)
	Update(ctx context.Context, loc *models.Location) error
}

// Service exposes location operations.
type Service interface {
	Create(ctx context.Context, input CreateLocationDTO) (*LocationDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*LocationDTO, error)
	List(ctx context.Context, activeOnly bool) ([]LocationDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateLocationInput) (*LocationDTO, error)
}

type service struct {
	repo locationRepository
}

// NewService builds a location service with the provided repository.
func NewService(repo locationRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{repo: repo}, nil
}

// UpdateLocationInput captures the mutable operational fields of a store.
type UpdateLocationInput struct {
	Online         *bool
	ForceOffline   *bool
	Timezone       *string
	CashLimit      *decimal.Decimal
	DeliveryFee    *decimal.Decimal
	MinimumOrder   *decimal.Decimal
	EstWaitMinutes *int
}

func (s *service) Create(ctx context.Context, input CreateLocationDTO) (*LocationDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name is required")
	}
	if strings.TrimSpace(input.City) == "" || strings.TrimSpace(input.State) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location city and state are required")
	}
	loc, err := s.repo.Create(ctx, input)
	if err != nil {
		if db.IsUniqueViolation(err, "locations_external_id_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a location with this external id already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	return FromModel(loc), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*LocationDTO, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return FromModel(loc), nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]LocationDTO, error) {
	var (
		locs []models.Location
		err  error
	)
	if activeOnly {
		locs, err = s.repo.ListActive(ctx)
	} else {
		locs, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	out := make([]LocationDTO, 0, len(locs))
	for i := range locs {
		out = append(out, *FromModel(&locs[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateLocationInput) (*LocationDTO, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}

	if input.Online != nil {
		loc.Online = *input.Online
	}
	if input.ForceOffline != nil {
		loc.ForceOffline = *input.ForceOffline
	}
	if input.Timezone != nil {
		tz := strings.TrimSpace(*input.Timezone)
		if !strings.HasPrefix(tz, "GMT") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "timezone must be a GMT offset string")
		}
		loc.Timezone = tz
	}
	if input.CashLimit != nil {
		loc.CashLimit = *input.CashLimit
	}
	if input.DeliveryFee != nil {
		loc.DeliveryFee = *input.DeliveryFee
	}
	if input.MinimumOrder != nil {
		loc.MinimumOrder = *input.MinimumOrder
	}
	if input.EstWaitMinutes != nil {
		if *input.EstWaitMinutes < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "wait minutes cannot be negative")
		}
		loc.EstWaitMinute = *input.EstWaitMinutes
	}

	if err := s.repo.Update(ctx, loc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location")
	}
	return FromModel(loc), nil
}
