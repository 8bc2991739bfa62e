package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
)

type notificationStore interface {
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	Create(ctx context.Context, notification *models.Notification) error
	Update(ctx context.Context, notification *models.Notification) error
	Delete(ctx context.Context, id string) error
}

// NotificationRequest is the payload for creating or updating a notification.
type NotificationRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	Body      string `json:"body" validate:"required"`
	Audience  string `json:"audience" validate:"required"`
	Published *bool  `json:"published"`
}

// NotificationService manages department-wide broadcast notifications.
type NotificationService struct {
	store         notificationStore
	maxBodyLength int
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewNotificationService constructs NotificationService. maxBodyLength caps
// the notification body; zero disables the cap.
func NewNotificationService(store notificationStore, maxBodyLength int, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{store: store, maxBodyLength: maxBodyLength, validator: validate, logger: logger}
}

func parseAudience(raw string) (models.NotificationAudience, error) {
	switch models.NotificationAudience(raw) {
	case models.NotificationAudienceAll, models.NotificationAudienceStudents, models.NotificationAudienceTeachers:
		return models.NotificationAudience(raw), nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "audience must be ALL, STUDENTS or TEACHERS")
}

// List returns notifications with pagination metadata.
func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, error) {
	notifications, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return notifications, pagination, nil
}

// Get returns one notification.
func (s *NotificationService) Get(ctx context.Context, id string) (*models.Notification, error) {
	notification, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notification")
	}
	return notification, nil
}

func (s *NotificationService) validatePayload(req NotificationRequest) (models.NotificationAudience, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}
	if s.maxBodyLength > 0 && len(req.Body) > s.maxBodyLength {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("body exceeds %d characters", s.maxBodyLength))
	}
	return parseAudience(req.Audience)
}

// Create records a new notification.
func (s *NotificationService) Create(ctx context.Context, req NotificationRequest) (*models.Notification, error) {
	audience, err := s.validatePayload(req)
	if err != nil {
		return nil, err
	}
	notification := &models.Notification{
		Title:    req.Title,
		Body:     req.Body,
		Audience: audience,
	}
	if req.Published != nil {
		notification.Published = *req.Published
	}
	if err := s.store.Create(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}
	s.logger.Info("notification created",
		zap.String("notification_id", notification.ID),
		zap.String("audience", string(audience)),
		zap.Bool("published", notification.Published))
	return notification, nil
}

// Update rewrites a notification.
func (s *NotificationService) Update(ctx context.Context, id string, req NotificationRequest) (*models.Notification, error) {
	audience, err := s.validatePayload(req)
	if err != nil {
		return nil, err
	}
	notification, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	notification.Title = req.Title
	notification.Body = req.Body
	notification.Audience = audience
	if req.Published != nil {
		notification.Published = *req.Published
	}
	if err := s.store.Update(ctx, notification); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notification")
	}
	return notification, nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notification")
	}
	return nil
}
