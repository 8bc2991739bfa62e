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
)

type classStore interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id string) error
}

type rosterStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ClassRequest is the payload for creating or updating a class.
type ClassRequest struct {
	Code      string     `json:"code" validate:"required,max=32"`
	Name      string     `json:"name" validate:"required,max=255"`
	CourseID  string     `json:"course_id" validate:"required"`
	TeacherID *string    `json:"teacher_id"`
	Room      string     `json:"room" validate:"max=64"`
	Capacity  int        `json:"capacity" validate:"min=0,max=500"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// ClassService manages class offerings.
type ClassService struct {
	store     classStore
	courses   curriculumCourseStore
	roster    rosterStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(store classStore, courses curriculumCourseStore, roster rosterStore, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{store: store, courses: courses, roster: roster, validator: validate, logger: logger}
}

// List returns classes with joined course and teacher names.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, *models.Pagination, error) {
	classes, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
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
	return classes, pagination, nil
}

// Get returns one class.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

func (s *ClassService) validateRefs(ctx context.Context, req ClassRequest) error {
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if req.TeacherID != nil && *req.TeacherID != "" {
		teacher, err := s.roster.FindByID(ctx, *req.TeacherID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
		if teacher.Role != models.RoleTeacher {
			return appErrors.Clone(appErrors.ErrValidation, "assigned user is not a teacher")
		}
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	return nil
}

// Create adds a new class offering.
func (s *ClassService) Create(ctx context.Context, req ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if err := s.validateRefs(ctx, req); err != nil {
		return nil, err
	}

	class := &models.Class{
		Code:      req.Code,
		Name:      req.Name,
		CourseID:  req.CourseID,
		TeacherID: req.TeacherID,
		Room:      req.Room,
		Capacity:  req.Capacity,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.store.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	s.logger.Info("class created", zap.String("class_id", class.ID), zap.String("code", class.Code))
	return class, nil
}

// Update rewrites a class.
func (s *ClassService) Update(ctx context.Context, id string, req ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateRefs(ctx, req); err != nil {
		return nil, err
	}

	class.Code = req.Code
	class.Name = req.Name
	class.CourseID = req.CourseID
	class.TeacherID = req.TeacherID
	class.Room = req.Room
	class.Capacity = req.Capacity
	class.StartDate = req.StartDate
	class.EndDate = req.EndDate
	if err := s.store.Update(ctx, class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	s.logger.Info("class deleted", zap.String("class_id", id))
	return nil
}
