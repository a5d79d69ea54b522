package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
)

// DefaultOpeningChecklist is the template applied when a workflow is created
// without explicit labels.
var DefaultOpeningChecklist = []string{
	"Count opening till",
	"Check walk-in temperature",
	"Prep dough and toppings",
	"Verify oven temperature",
	"Confirm driver schedule",
	"Turn on online ordering",
}

type workflowRepository interface {
	Create(ctx context.Context, wf *models.Workflow) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Workflow, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]models.Workflow, error)
	Update(ctx context.Context, wf *models.Workflow) error
	UpdateItem(ctx context.Context, item *models.ChecklistItem) error
}

// Service exposes shift workflow operations.
type Service interface {
	Create(ctx context.Context, input CreateWorkflowDTO) (*WorkflowDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*WorkflowDTO, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]WorkflowDTO, error)
	CheckItem(ctx context.Context, workflowID, itemID uuid.UUID, checkedBy string) (*WorkflowDTO, error)
}

type service struct {
	repo workflowRepository
	now  func() time.Time
}

// NewService builds a workflow service with the provided repository.
func NewService(repo workflowRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("workflow repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateWorkflowDTO) (*WorkflowDTO, error) {
	if input.LocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workflow name is required")
	}
	if input.ShiftDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shift date is required")
	}

	labels := input.Labels
	if len(labels) == 0 {
		labels = DefaultOpeningChecklist
	}
	items := make([]models.ChecklistItem, 0, len(labels))
	for i, label := range labels {
		items = append(items, models.ChecklistItem{Label: label, Position: i, Required: true})
	}

	wf := &models.Workflow{
		LocationID: input.LocationID,
		Name:       input.Name,
		ShiftDate:  input.ShiftDate,
		Status:     enums.WorkflowPending,
		Items:      items,
	}
	if err := s.repo.Create(ctx, wf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create workflow")
	}
	return FromModel(wf), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*WorkflowDTO, error) {
	wf, err := s.loadWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(wf), nil
}

func (s *service) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]WorkflowDTO, error) {
	list, err := s.repo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list workflows")
	}
	out := make([]WorkflowDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out, nil
}

// CheckItem marks one checklist item done and rolls the workflow status up:
// in progress on the first check, completed when every required item is done.
func (s *service) CheckItem(ctx context.Context, workflowID, itemID uuid.UUID, checkedBy string) (*WorkflowDTO, error) {
	wf, err := s.loadWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	var item *models.ChecklistItem
	for i := range wf.Items {
		if wf.Items[i].ID == itemID {
			item = &wf.Items[i]
			break
		}
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checklist item not found")
	}
	if item.CheckedAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "item already checked")
	}

	now := s.now().UTC()
	item.CheckedAt = &now
	if by := strings.TrimSpace(checkedBy); by != "" {
		item.CheckedBy = &by
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update checklist item")
	}

	wf.Status = rollupStatus(wf)
	if wf.Status == enums.WorkflowCompleted && wf.CompletedAt == nil {
		wf.CompletedAt = &now
	}
	if err := s.repo.Update(ctx, wf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update workflow")
	}
	return FromModel(wf), nil
}

func rollupStatus(wf *models.Workflow) enums.WorkflowStatus {
	checked := 0
	requiredDone := true
	for i := range wf.Items {
		if wf.Items[i].CheckedAt != nil {
			checked++
		} else if wf.Items[i].Required {
			requiredDone = false
		}
	}
	switch {
	case checked == 0:
		return enums.WorkflowPending
	case requiredDone:
		return enums.WorkflowCompleted
	default:
		return enums.WorkflowInProgress
	}
}

func (s *service) loadWorkflow(ctx context.Context, id uuid.UUID) (*models.Workflow, error) {
	wf, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "workflow not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow")
	}
	return wf, nil
}
