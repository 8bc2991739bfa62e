package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
)

type curriculumStore interface {
	List(ctx context.Context, filter models.CurriculumFilter) ([]models.CurriculumItemDetail, error)
	FindByID(ctx context.Context, id string) (*models.CurriculumItem, error)
	ExistsForCourseSemester(ctx context.Context, courseID string, semesterNo int, excludeID string) (bool, error)
	Create(ctx context.Context, item *models.CurriculumItem) error
	Update(ctx context.Context, item *models.CurriculumItem) error
	Delete(ctx context.Context, id string) error
}

type curriculumCourseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// CurriculumItemRequest is the payload for placing a course in the curriculum.
type CurriculumItemRequest struct {
	CourseID   string `json:"course_id" validate:"required"`
	SemesterNo int    `json:"semester_no" validate:"required,min=1,max=12"`
	ItemOrder  int    `json:"item_order" validate:"min=0"`
	Notes      string `json:"notes"`
}

// CurriculumService manages the per-semester curriculum layout.
type CurriculumService struct {
	store     curriculumStore
	courses   curriculumCourseStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCurriculumService constructs CurriculumService.
func NewCurriculumService(store curriculumStore, courses curriculumCourseStore, validate *validator.Validate, logger *zap.Logger) *CurriculumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumService{store: store, courses: courses, validator: validate, logger: logger}
}

// List returns curriculum items ordered by semester and item order.
func (s *CurriculumService) List(ctx context.Context, filter models.CurriculumFilter) ([]models.CurriculumItemDetail, error) {
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list curriculum")
	}
	return items, nil
}

// Create places a course in a semester. The same course cannot appear twice
// in the same semester.
func (s *CurriculumService) Create(ctx context.Context, req CurriculumItemRequest) (*models.CurriculumItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid curriculum payload")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	exists, err := s.store.ExistsForCourseSemester(ctx, req.CourseID, req.SemesterNo, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check curriculum placement")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already placed in this semester")
	}

	item := &models.CurriculumItem{
		CourseID:   req.CourseID,
		SemesterNo: req.SemesterNo,
		ItemOrder:  req.ItemOrder,
		Notes:      req.Notes,
	}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create curriculum item")
	}
	return item, nil
}

// Update moves or annotates a curriculum item.
func (s *CurriculumService) Update(ctx context.Context, id string, req CurriculumItemRequest) (*models.CurriculumItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid curriculum payload")
	}
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "curriculum item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum item")
	}
	exists, err := s.store.ExistsForCourseSemester(ctx, req.CourseID, req.SemesterNo, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check curriculum placement")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already placed in this semester")
	}

	item.CourseID = req.CourseID
	item.SemesterNo = req.SemesterNo
	item.ItemOrder = req.ItemOrder
	item.Notes = req.Notes
	if err := s.store.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "curriculum item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update curriculum item")
	}
	return item, nil
}

// Delete removes a curriculum item.
func (s *CurriculumService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "curriculum item not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete curriculum item")
	}
	return nil
}
