package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
)

type notificationRepoStub struct {
	notifications map[string]*models.Notification
}

func newNotificationRepoStub() *notificationRepoStub {
	return &notificationRepoStub{notifications: make(map[string]*models.Notification)}
}

func (s *notificationRepoStub) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	result := make([]models.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if filter.PublishedOnly && !n.Published {
			continue
		}
		result = append(result, *n)
	}
	return result, len(result), nil
}

func (s *notificationRepoStub) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	if n, ok := s.notifications[id]; ok {
		copy := *n
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *notificationRepoStub) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = "notif-1"
	}
	copy := *notification
	s.notifications[notification.ID] = &copy
	return nil
}

func (s *notificationRepoStub) Update(ctx context.Context, notification *models.Notification) error {
	if _, ok := s.notifications[notification.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *notification
	s.notifications[notification.ID] = &copy
	return nil
}

func (s *notificationRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.notifications[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.notifications, id)
	return nil
}

func TestNotificationServiceCreate(t *testing.T) {
	repo := newNotificationRepoStub()
	svc := NewNotificationService(repo, 0, nil, nil)

	notification, err := svc.Create(context.Background(), NotificationRequest{
		Title:    "Lich thi hoc ky",
		Body:     "Lich thi se duoc cong bo vao tuan sau.",
		Audience: "STUDENTS",
	})
	require.NoError(t, err)
	require.Equal(t, models.NotificationAudienceStudents, notification.Audience)
	require.False(t, notification.Published)
}

func TestNotificationServiceCreateInvalidAudience(t *testing.T) {
	svc := NewNotificationService(newNotificationRepoStub(), 0, nil, nil)

	_, err := svc.Create(context.Background(), NotificationRequest{
		Title:    "x",
		Body:     "y",
		Audience: "EVERYONE",
	})
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestNotificationServiceBodyLengthCap(t *testing.T) {
	svc := NewNotificationService(newNotificationRepoStub(), 10, nil, nil)

	_, err := svc.Create(context.Background(), NotificationRequest{
		Title:    "x",
		Body:     strings.Repeat("a", 11),
		Audience: "ALL",
	})
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestNotificationServiceUpdateNotFound(t *testing.T) {
	svc := NewNotificationService(newNotificationRepoStub(), 0, nil, nil)

	_, err := svc.Update(context.Background(), "missing", NotificationRequest{
		Title:    "x",
		Body:     "y",
		Audience: "ALL",
	})
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
