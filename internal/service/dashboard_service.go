package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
)

type dashboardStore interface {
	CountCourses(ctx context.Context) (int, error)
	CountClasses(ctx context.Context) (int, error)
	CountUsersByRole(ctx context.Context, role models.UserRole) (int, error)
}

type dashboardNotificationStore interface {
	CountPublished(ctx context.Context) (int, error)
}

type dashboardRegistrationCounter interface {
	StatusCounts(ctx context.Context, kind models.RegistrationKind) ([]models.RegistrationStatusCount, error)
}

// DashboardService assembles the landing-page summary counters.
type DashboardService struct {
	store         dashboardStore
	notifications dashboardNotificationStore
	registrations dashboardRegistrationCounter
	logger        *zap.Logger
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(store dashboardStore, notifications dashboardNotificationStore, registrations dashboardRegistrationCounter, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: store, notifications: notifications, registrations: registrations, logger: logger}
}

// Summary gathers all dashboard counters in one call.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{
		PendingRegistrations: make(map[models.RegistrationKind]int, len(models.RegistrationKinds)),
		RegistrationCounts:   make(map[models.RegistrationKind][]models.RegistrationStatusCount, len(models.RegistrationKinds)),
	}

	var err error
	if summary.Courses, err = s.store.CountCourses(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}
	if summary.Classes, err = s.store.CountClasses(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count classes")
	}
	if summary.Teachers, err = s.store.CountUsersByRole(ctx, models.RoleTeacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teachers")
	}
	if summary.Students, err = s.store.CountUsersByRole(ctx, models.RoleStudent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	if summary.PublishedNotices, err = s.notifications.CountPublished(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications")
	}

	for _, kind := range models.RegistrationKinds {
		counts, err := s.registrations.StatusCounts(ctx, kind)
		if err != nil {
			return nil, err
		}
		summary.RegistrationCounts[kind] = counts
		for _, count := range counts {
			if count.Status == models.RegistrationStatusPending {
				summary.PendingRegistrations[kind] = count.Count
			}
		}
	}
	return summary, nil
}
