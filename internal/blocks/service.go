package blocks

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
)

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type blockRepository interface {
	Create(ctx context.Context, dto CreateBlockDTO) (*models.Block, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Block, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID, from time.Time) ([]models.Block, error)
	Update(ctx context.Context, block *models.Block) error
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service exposes driver block operations.
type Service interface {
	Create(ctx context.Context, input CreateBlockDTO) (*BlockDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BlockDTO, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID, from time.Time) ([]BlockDTO, error)
	ConfirmDriver(ctx context.Context, id uuid.UUID) (*BlockDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BlockStatus) (*BlockDTO, error)
	ExpirePast(ctx context.Context, now time.Time) (int64, error)
}

type service struct {
	repo blockRepository
}

// NewService builds a block service with the provided repository.
func NewService(repo blockRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("block repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateBlockDTO) (*BlockDTO, error) {
	if input.LocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id is required")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "block date is required")
	}
	if !clockRe.MatchString(input.StartTime) || !clockRe.MatchString(input.EndTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end must be HH:MM")
	}
	if input.StartTime >= input.EndTime {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "block must end after it starts")
	}

	block, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create block")
	}
	return FromModel(block), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*BlockDTO, error) {
	block, err := s.loadBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(block), nil
}

func (s *service) ListByLocation(ctx context.Context, locationID uuid.UUID, from time.Time) ([]BlockDTO, error) {
	list, err := s.repo.ListByLocation(ctx, locationID, from)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list blocks")
	}
	out := make([]BlockDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out, nil
}

// ConfirmDriver records one more confirmed driver on the block; the block
// flips to filled once confirmations reach the requested headcount.
func (s *service) ConfirmDriver(ctx context.Context, id uuid.UUID) (*BlockDTO, error) {
	block, err := s.loadBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	if block.Status == enums.BlockExpired || block.Status == enums.BlockCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "block is no longer open")
	}
	if block.Confirmed >= block.NeedDriver {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "block is already filled")
	}

	block.Confirmed++
	if block.Confirmed >= block.NeedDriver {
		block.Status = enums.BlockFilled
	} else {
		block.Status = enums.BlockOpen
	}
	if err := s.repo.Update(ctx, block); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update block")
	}
	return FromModel(block), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BlockStatus) (*BlockDTO, error) {
	if !status.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown block status")
	}
	block, err := s.loadBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	block.Status = status
	if err := s.repo.Update(ctx, block); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update block")
	}
	return FromModel(block), nil
}

// ExpirePast retires unfilled blocks older than the start of the current day.
func (s *service) ExpirePast(ctx context.Context, now time.Time) (int64, error) {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	n, err := s.repo.ExpireBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire blocks")
	}
	return n, nil
}

func (s *service) loadBlock(ctx context.Context, id uuid.UUID) (*models.Block, error) {
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "block not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load block")
	}
	return block, nil
}
