package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
	"github.com/nhan-trinh/phongdaotao/pkg/export"
)

type scheduleStore interface {
	ListByClass(ctx context.Context, classID string) ([]models.ClassScheduleDetail, error)
	ListByDay(ctx context.Context, dayOfWeek int) ([]models.ClassScheduleDetail, error)
	FindByID(ctx context.Context, id string) (*models.ClassSchedule, error)
	Create(ctx context.Context, slot *models.ClassSchedule) error
	Delete(ctx context.Context, id string) error
}

// ScheduleSlotRequest is the payload for adding a weekly timetable slot.
type ScheduleSlotRequest struct {
	ClassID   string `json:"class_id" validate:"required"`
	DayOfWeek int    `json:"day_of_week" validate:"min=1,max=7"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Room      string `json:"room" validate:"max=64"`
}

// ScheduleService manages weekly class timetables and their calendar export.
type ScheduleService struct {
	store     scheduleStore
	classes   classStore
	ics       *export.ICSExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs ScheduleService.
func NewScheduleService(store scheduleStore, classes classStore, ics *export.ICSExporter, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ics == nil {
		ics = export.NewICSExporter()
	}
	return &ScheduleService{store: store, classes: classes, ics: ics, validator: validate, logger: logger}
}

// ListByClass returns the timetable of one class.
func (s *ScheduleService) ListByClass(ctx context.Context, classID string) ([]models.ClassScheduleDetail, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	slots, err := s.store.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule")
	}
	return slots, nil
}

// ListByDay returns every slot falling on a weekday, across classes.
func (s *ScheduleService) ListByDay(ctx context.Context, dayOfWeek int) ([]models.ClassScheduleDetail, error) {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day_of_week must be between 1 and 7")
	}
	slots, err := s.store.ListByDay(ctx, dayOfWeek)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule")
	}
	return slots, nil
}

// Create adds a timetable slot to a class.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleSlotRequest) (*models.ClassSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must use HH:MM")
	}
	endClock, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must use HH:MM")
	}
	startClock, _ := time.Parse("15:04", req.StartTime)
	if !endClock.After(startClock) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	slot := &models.ClassSchedule{
		ClassID:   req.ClassID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	}
	if err := s.store.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule slot")
	}
	return slot, nil
}

// Delete removes a timetable slot.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule slot")
	}
	return nil
}

// ExportICS renders a class timetable as an iCalendar feed with weekly
// recurrence over the class date range.
func (s *ScheduleService) ExportICS(ctx context.Context, classID string) (string, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	slots, err := s.store.ListByClass(ctx, classID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule")
	}

	anchor := time.Now().UTC()
	if class.StartDate != nil {
		anchor = *class.StartDate
	}
	until := anchor.AddDate(0, 4, 0)
	if class.EndDate != nil {
		until = *class.EndDate
	}

	events := make([]export.ScheduleEvent, 0, len(slots))
	for _, slot := range slots {
		summary := class.Name
		if slot.CourseName != "" {
			summary = slot.CourseName + " - " + class.Name
		}
		events = append(events, export.ScheduleEvent{
			UID:       slot.ID,
			Summary:   summary,
			Location:  slot.Room,
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	feed, err := s.ics.Render(class.Name, events, anchor, until)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar")
	}
	return feed, nil
}
