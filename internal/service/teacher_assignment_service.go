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

type teacherAssignmentStore interface {
	List(ctx context.Context, teacherID, classID string) ([]models.TeacherAssignmentDetail, error)
	FindByID(ctx context.Context, id string) (*models.TeacherAssignment, error)
	Exists(ctx context.Context, teacherID, classID string) (bool, error)
	Create(ctx context.Context, assignment *models.TeacherAssignment) error
	Delete(ctx context.Context, id string) error
}

// TeacherAssignmentRequest is the payload for assigning a teacher to a class.
type TeacherAssignmentRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	RoleNote  string `json:"role_note" validate:"max=255"`
}

// TeacherAssignmentService links teachers to the classes they teach.
type TeacherAssignmentService struct {
	store     teacherAssignmentStore
	roster    rosterStore
	classes   classStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherAssignmentService constructs TeacherAssignmentService.
func NewTeacherAssignmentService(store teacherAssignmentStore, roster rosterStore, classes classStore, validate *validator.Validate, logger *zap.Logger) *TeacherAssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherAssignmentService{store: store, roster: roster, classes: classes, validator: validate, logger: logger}
}

// List returns assignments, narrowable by teacher or class.
func (s *TeacherAssignmentService) List(ctx context.Context, teacherID, classID string) ([]models.TeacherAssignmentDetail, error) {
	assignments, err := s.store.List(ctx, teacherID, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Create assigns a teacher to a class. The pair is unique and the user must
// hold the teacher role.
func (s *TeacherAssignmentService) Create(ctx context.Context, req TeacherAssignmentRequest) (*models.TeacherAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	teacher, err := s.roster.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if teacher.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assigned user is not a teacher")
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	exists, err := s.store.Exists(ctx, req.TeacherID, req.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "teacher is already assigned to this class")
	}

	assignment := &models.TeacherAssignment{
		TeacherID: req.TeacherID,
		ClassID:   req.ClassID,
		RoleNote:  req.RoleNote,
	}
	if err := s.store.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	s.logger.Info("teacher assigned",
		zap.String("assignment_id", assignment.ID),
		zap.String("teacher_id", req.TeacherID),
		zap.String("class_id", req.ClassID))
	return assignment, nil
}

// Delete removes an assignment.
func (s *TeacherAssignmentService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}
