package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhan-trinh/phongdaotao/internal/models"
)

type dashboardRepoStub struct{}

func (dashboardRepoStub) CountCourses(ctx context.Context) (int, error) { return 12, nil }
func (dashboardRepoStub) CountClasses(ctx context.Context) (int, error) { return 7, nil }
func (dashboardRepoStub) CountUsersByRole(ctx context.Context, role models.UserRole) (int, error) {
	switch role {
	case models.RoleTeacher:
		return 5, nil
	case models.RoleStudent:
		return 120, nil
	}
	return 0, nil
}

type dashboardNotificationStub struct{}

func (dashboardNotificationStub) CountPublished(ctx context.Context) (int, error) { return 3, nil }

func TestDashboardServiceSummary(t *testing.T) {
	courseRepo := newRegistrationRepoStub(models.RegistrationKindCourse)
	courseRepo.seed("reg-1", models.RegistrationStatusPending)
	courseRepo.seed("reg-2", models.RegistrationStatusPending)
	courseRepo.seed("reg-3", models.RegistrationStatusApproved)
	retakeExamRepo := newRegistrationRepoStub(models.RegistrationKindRetakeExam)
	retakeExamRepo.seed("reg-4", models.RegistrationStatusRejected)
	retakeCourseRepo := newRegistrationRepoStub(models.RegistrationKindRetakeCourse)

	registrationSvc := NewRegistrationService([]RegistrationStore{courseRepo, retakeExamRepo, retakeCourseRepo}, nil, nil)
	svc := NewDashboardService(dashboardRepoStub{}, dashboardNotificationStub{}, registrationSvc, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, summary.Courses)
	require.Equal(t, 7, summary.Classes)
	require.Equal(t, 5, summary.Teachers)
	require.Equal(t, 120, summary.Students)
	require.Equal(t, 3, summary.PublishedNotices)
	require.Equal(t, 2, summary.PendingRegistrations[models.RegistrationKindCourse])
	require.Zero(t, summary.PendingRegistrations[models.RegistrationKindRetakeCourse])
	require.Len(t, summary.RegistrationCounts, 3)
}
