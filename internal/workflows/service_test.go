package workflows

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
)

type stubWorkflowRepo struct {
	byID map[uuid.UUID]*models.Workflow
}

func newStubWorkflowRepo() *stubWorkflowRepo {
	return &stubWorkflowRepo{byID: make(map[uuid.UUID]*models.Workflow)}
}

func (s *stubWorkflowRepo) Create(_ context.Context, wf *models.Workflow) error {
	wf.ID = uuid.New()
	for i := range wf.Items {
		wf.Items[i].ID = uuid.New()
		wf.Items[i].WorkflowID = wf.ID
	}
	s.byID[wf.ID] = wf
	return nil
}

func (s *stubWorkflowRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Workflow, error) {
	wf, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return wf, nil
}

func (s *stubWorkflowRepo) ListByLocation(_ context.Context, locationID uuid.UUID) ([]models.Workflow, error) {
	var out []models.Workflow
	for _, wf := range s.byID {
		if wf.LocationID == locationID {
			out = append(out, *wf)
		}
	}
	return out, nil
}

func (s *stubWorkflowRepo) Update(_ context.Context, wf *models.Workflow) error {
	s.byID[wf.ID] = wf
	return nil
}

func (s *stubWorkflowRepo) UpdateItem(context.Context, *models.ChecklistItem) error {
	return nil
}

func validWorkflow() CreateWorkflowDTO {
	return CreateWorkflowDTO{
		LocationID: uuid.New(),
		Name:       "Morning open",
		ShiftDate:  time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateAppliesDefaultTemplate(t *testing.T) {
	svc, _ := NewService(newStubWorkflowRepo())

	dto, err := svc.Create(context.Background(), validWorkflow())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(dto.Items) != len(DefaultOpeningChecklist) {
		t.Fatalf("expected %d template items, got %d", len(DefaultOpeningChecklist), len(dto.Items))
	}
	if dto.Status != enums.WorkflowPending {
		t.Fatalf("expected pending, got %q", dto.Status)
	}
	if dto.Items[0].Position != 0 || dto.Items[1].Position != 1 {
		t.Fatal("expected positional ordering")
	}
}

func TestCreateValidates(t *testing.T) {
	svc, _ := NewService(newStubWorkflowRepo())

	bad := validWorkflow()
	bad.Name = "  "
	_, err := svc.Create(context.Background(), bad)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckItemRollsUpStatus(t *testing.T) {
	svc, _ := NewService(newStubWorkflowRepo())
	created, _ := svc.Create(context.Background(), CreateWorkflowDTO{
		LocationID: uuid.New(),
		Name:       "Morning open",
		ShiftDate:  time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
		Labels:     []string{"Count till", "Prep dough"},
	})

	dto, err := svc.CheckItem(context.Background(), created.ID, created.Items[0].ID, "sam")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if dto.Status != enums.WorkflowInProgress {
		t.Fatalf("expected in_progress, got %q", dto.Status)
	}
	if dto.Items[0].CheckedBy == nil || *dto.Items[0].CheckedBy != "sam" {
		t.Fatalf("expected checked_by recorded, got %+v", dto.Items[0].CheckedBy)
	}

	dto, err = svc.CheckItem(context.Background(), created.ID, created.Items[1].ID, "sam")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if dto.Status != enums.WorkflowCompleted {
		t.Fatalf("expected completed, got %q", dto.Status)
	}
	if dto.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}
}

func TestCheckItemConflictsOnRecheck(t *testing.T) {
	svc, _ := NewService(newStubWorkflowRepo())
	created, _ := svc.Create(context.Background(), CreateWorkflowDTO{
		LocationID: uuid.New(),
		Name:       "Morning open",
		ShiftDate:  time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
		Labels:     []string{"Count till"},
	})

	if _, err := svc.CheckItem(context.Background(), created.ID, created.Items[0].ID, ""); err != nil {
		t.Fatalf("check: %v", err)
	}
	_, err := svc.CheckItem(context.Background(), created.ID, created.Items[0].ID, "")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCheckItemUnknownItem(t *testing.T) {
	svc, _ := NewService(newStubWorkflowRepo())
	created, _ := svc.Create(context.Background(), validWorkflow())

	_, err := svc.CheckItem(context.Background(), created.ID, uuid.New(), "")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
