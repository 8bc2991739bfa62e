package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
)

type registrationRepoStub struct {
	kind          models.RegistrationKind
	registrations map[string]*models.Registration
	lastFilter    models.RegistrationFilter
}

func newRegistrationRepoStub(kind models.RegistrationKind) *registrationRepoStub {
	return &registrationRepoStub{kind: kind, registrations: make(map[string]*models.Registration)}
}

func (r *registrationRepoStub) Kind() models.RegistrationKind {
	return r.kind
}

func (r *registrationRepoStub) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error) {
	r.lastFilter = filter
	result := make([]models.RegistrationDetail, 0, len(r.registrations))
	for _, reg := range r.registrations {
		if filter.Status != nil && reg.Status != *filter.Status {
			continue
		}
		result = append(result, models.RegistrationDetail{Registration: *reg})
	}
	return result, len(result), nil
}

func (r *registrationRepoStub) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	if reg, ok := r.registrations[id]; ok {
		copy := *reg
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *registrationRepoStub) FindDetailByID(ctx context.Context, id string) (*models.RegistrationDetail, error) {
	reg, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.RegistrationDetail{Registration: *reg}, nil
}

func (r *registrationRepoStub) Create(ctx context.Context, registration *models.Registration) error {
	if registration.ID == "" {
		registration.ID = "reg-" + registration.StudentID
	}
	registration.Status = models.RegistrationStatusPending
	registration.RequestedAt = time.Now().UTC()
	copy := *registration
	r.registrations[registration.ID] = &copy
	return nil
}

func (r *registrationRepoStub) UpdateStatusIfPending(ctx context.Context, id string, status models.RegistrationStatus, decidedAt time.Time) error {
	reg, ok := r.registrations[id]
	if !ok || reg.Status != models.RegistrationStatusPending {
		return sql.ErrNoRows
	}
	reg.Status = status
	reg.DecidedAt = &decidedAt
	return nil
}

func (r *registrationRepoStub) CountByStatus(ctx context.Context) ([]models.RegistrationStatusCount, error) {
	counts := make(map[models.RegistrationStatus]int)
	for _, reg := range r.registrations {
		counts[reg.Status]++
	}
	result := make([]models.RegistrationStatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, models.RegistrationStatusCount{Status: status, Count: count})
	}
	return result, nil
}

func (r *registrationRepoStub) seed(id string, status models.RegistrationStatus) {
	r.registrations[id] = &models.Registration{
		ID:          id,
		StudentID:   "student-1",
		CourseID:    "course-1",
		Status:      status,
		RequestedAt: time.Now().UTC(),
	}
}

func newWorkflowService(stub *registrationRepoStub) *RegistrationService {
	return NewRegistrationService([]RegistrationStore{stub}, nil, nil)
}

func TestRegistrationServiceDecideApprovesPending(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindCourse)
	repo.seed("reg-1", models.RegistrationStatusPending)
	svc := newWorkflowService(repo)

	detail, err := svc.Decide(context.Background(), models.RegistrationKindCourse, "reg-1", models.RegistrationStatusApproved)
	require.NoError(t, err)
	require.Equal(t, models.RegistrationStatusApproved, detail.Status)
	require.NotNil(t, detail.DecidedAt)
}

func TestRegistrationServiceDecideIsTerminal(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindCourse)
	repo.seed("reg-1", models.RegistrationStatusPending)
	svc := newWorkflowService(repo)

	_, err := svc.Decide(context.Background(), models.RegistrationKindCourse, "reg-1", models.RegistrationStatusApproved)
	require.NoError(t, err)

	// Repeating the identical decision is still a conflict.
	_, err = svc.Decide(context.Background(), models.RegistrationKindCourse, "reg-1", models.RegistrationStatusApproved)
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))

	_, err = svc.Decide(context.Background(), models.RegistrationKindCourse, "reg-1", models.RegistrationStatusRejected)
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))

	current, err := svc.Get(context.Background(), models.RegistrationKindCourse, "reg-1")
	require.NoError(t, err)
	require.Equal(t, models.RegistrationStatusApproved, current.Status)
}

func TestRegistrationServiceDecideUnknownID(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindCourse)
	svc := newWorkflowService(repo)

	_, err := svc.Decide(context.Background(), models.RegistrationKindCourse, "missing", models.RegistrationStatusApproved)
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestRegistrationServiceDecideRejectsPendingDecision(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindCourse)
	repo.seed("reg-1", models.RegistrationStatusPending)
	svc := newWorkflowService(repo)

	_, err := svc.Decide(context.Background(), models.RegistrationKindCourse, "reg-1", models.RegistrationStatusPending)
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestRegistrationServiceDecideBulkIsolatesFailures(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindRetakeExam)
	repo.seed("a", models.RegistrationStatusPending)
	repo.seed("b", models.RegistrationStatusApproved)
	repo.seed("c", models.RegistrationStatusPending)
	svc := newWorkflowService(repo)

	result, err := svc.DecideBulk(context.Background(), models.RegistrationKindRetakeExam, []string{"a", "b", "c"}, models.RegistrationStatusApproved)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 3)
	require.Equal(t, 2, result.Applied)
	require.Equal(t, 1, result.Failed)

	require.Equal(t, "a", result.Outcomes[0].RegistrationID)
	require.True(t, result.Outcomes[0].Applied)
	require.Equal(t, "b", result.Outcomes[1].RegistrationID)
	require.False(t, result.Outcomes[1].Applied)
	require.Equal(t, appErrors.ErrInvalidTransition.Code, result.Outcomes[1].ErrorCode)
	require.Equal(t, "c", result.Outcomes[2].RegistrationID)
	require.True(t, result.Outcomes[2].Applied)

	// The already-approved item is untouched, the pending ones flipped.
	require.Equal(t, models.RegistrationStatusApproved, repo.registrations["a"].Status)
	require.Equal(t, models.RegistrationStatusApproved, repo.registrations["c"].Status)
}

func TestRegistrationServiceDecideBulkMissingID(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindRetakeCourse)
	repo.seed("7", models.RegistrationStatusPending)
	repo.seed("9", models.RegistrationStatusPending)
	svc := newWorkflowService(repo)

	result, err := svc.DecideBulk(context.Background(), models.RegistrationKindRetakeCourse, []string{"7", "8", "9"}, models.RegistrationStatusRejected)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 3)
	require.Equal(t, 2, result.Applied)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, appErrors.ErrNotFound.Code, result.Outcomes[1].ErrorCode)
}

func TestRegistrationServiceDecideBulkDeduplicates(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindCourse)
	repo.seed("reg-1", models.RegistrationStatusPending)
	svc := newWorkflowService(repo)

	result, err := svc.DecideBulk(context.Background(), models.RegistrationKindCourse, []string{"reg-1", "reg-1", "reg-1"}, models.RegistrationStatusApproved)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	require.Equal(t, 1, result.Applied)
	require.Equal(t, 0, result.Failed)
}

func TestRegistrationServiceDecideBulkEmpty(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindCourse)
	svc := newWorkflowService(repo)

	_, err := svc.DecideBulk(context.Background(), models.RegistrationKindCourse, nil, models.RegistrationStatusApproved)
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestRegistrationServiceListStatusFilter(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindCourse)
	repo.seed("reg-1", models.RegistrationStatusPending)
	repo.seed("reg-2", models.RegistrationStatusApproved)
	repo.seed("reg-3", models.RegistrationStatusRejected)
	svc := newWorkflowService(repo)

	pending := models.RegistrationStatusPending
	registrations, pagination, err := svc.List(context.Background(), models.RegistrationKindCourse, models.RegistrationFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, registrations, 1)
	require.Equal(t, models.RegistrationStatusPending, registrations[0].Status)
	require.Equal(t, 1, pagination.TotalCount)

	registrations, _, err = svc.List(context.Background(), models.RegistrationKindCourse, models.RegistrationFilter{})
	require.NoError(t, err)
	require.Len(t, registrations, 3)
}

func TestRegistrationServiceSubmitStartsPending(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindRetakeCourse)
	svc := newWorkflowService(repo)

	detail, err := svc.Submit(context.Background(), models.RegistrationKindRetakeCourse, SubmitRegistrationRequest{
		StudentID: "student-1",
		CourseID:  "course-1",
		Reason:    "failed final exam",
	})
	require.NoError(t, err)
	require.Equal(t, models.RegistrationStatusPending, detail.Status)
}

func TestRegistrationServiceSubmitValidation(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindCourse)
	svc := newWorkflowService(repo)

	_, err := svc.Submit(context.Background(), models.RegistrationKindCourse, SubmitRegistrationRequest{CourseID: "course-1"})
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestRegistrationServiceUnknownKind(t *testing.T) {
	repo := newRegistrationRepoStub(models.RegistrationKindCourse)
	svc := newWorkflowService(repo)

	_, err := svc.Get(context.Background(), models.RegistrationKind("bogus"), "reg-1")
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
