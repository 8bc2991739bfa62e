package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nhan-trinh/phongdaotao/internal/dto"
	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
)

// RegistrationStore is the per-kind persistence surface the workflow
// service runs against.
type RegistrationStore interface {
	Kind() models.RegistrationKind
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	FindDetailByID(ctx context.Context, id string) (*models.RegistrationDetail, error)
	Create(ctx context.Context, registration *models.Registration) error
	UpdateStatusIfPending(ctx context.Context, id string, status models.RegistrationStatus, decidedAt time.Time) error
	CountByStatus(ctx context.Context) ([]models.RegistrationStatusCount, error)
}

// SubmitRegistrationRequest describes a new registration submission.
type SubmitRegistrationRequest struct {
	StudentID     string   `json:"student_id" validate:"required"`
	CourseID      string   `json:"course_id" validate:"required"`
	Semester      string   `json:"semester"`
	PreviousGrade *float64 `json:"previous_grade"`
	Reason        string   `json:"reason"`
}

// RegistrationService enforces the approval workflow for every
// registration kind: a registration moves from PENDING to exactly one of
// APPROVED or REJECTED, and never out of a terminal status.
type RegistrationService struct {
	stores    map[models.RegistrationKind]RegistrationStore
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewRegistrationService constructs RegistrationService over per-kind stores.
func NewRegistrationService(stores []RegistrationStore, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	byKind := make(map[models.RegistrationKind]RegistrationStore, len(stores))
	for _, store := range stores {
		byKind[store.Kind()] = store
	}
	return &RegistrationService{stores: byKind, validator: validate, logger: logger}
}

// WithMetrics attaches a decision counter. MetricsService methods tolerate a
// nil receiver, so the service works without one.
func (s *RegistrationService) WithMetrics(metrics *MetricsService) *RegistrationService {
	s.metrics = metrics
	return s
}

func (s *RegistrationService) store(kind models.RegistrationKind) (RegistrationStore, error) {
	store, ok := s.stores[kind]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported registration kind")
	}
	return store, nil
}

// List returns registrations of a kind with pagination metadata.
func (s *RegistrationService) List(ctx context.Context, kind models.RegistrationKind, filter models.RegistrationFilter) ([]models.RegistrationDetail, *models.Pagination, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, nil, err
	}
	registrations, total, err := store.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
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
	return registrations, pagination, nil
}

// Get returns one registration with display fields.
func (s *RegistrationService) Get(ctx context.Context, kind models.RegistrationKind, id string) (*models.RegistrationDetail, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	detail, err := store.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return detail, nil
}

// Submit records a new pending registration.
func (s *RegistrationService) Submit(ctx context.Context, kind models.RegistrationKind, req SubmitRegistrationRequest) (*models.RegistrationDetail, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	registration := &models.Registration{
		StudentID:     req.StudentID,
		CourseID:      req.CourseID,
		Semester:      req.Semester,
		PreviousGrade: req.PreviousGrade,
		Reason:        req.Reason,
	}
	if err := store.Create(ctx, registration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
	}
	detail, err := store.FindDetailByID(ctx, registration.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration detail")
	}
	return detail, nil
}

// Decide applies one terminal decision to one registration. A registration
// that is absent fails with NOT_FOUND; one that is no longer pending fails
// with INVALID_TRANSITION, including a repeat of an identical decision.
func (s *RegistrationService) Decide(ctx context.Context, kind models.RegistrationKind, id string, decision models.Decision) (*models.RegistrationDetail, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	if decision != models.RegistrationStatusApproved && decision != models.RegistrationStatusRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision must be approved or rejected")
	}

	registration, err := store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	if registration.Status != models.RegistrationStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "registration already "+string(registration.Status))
	}

	decidedAt := time.Now().UTC()
	if err := store.UpdateStatusIfPending(ctx, id, decision, decidedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Raced with a concurrent decision between load and update.
			return nil, s.raceOutcome(ctx, store, id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update registration")
	}

	s.metrics.RecordDecision(string(kind), strings.ToLower(string(decision)))

	detail, err := store.FindDetailByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration detail")
	}
	return detail, nil
}

func (s *RegistrationService) raceOutcome(ctx context.Context, store RegistrationStore, id string) error {
	current, err := store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return appErrors.Clone(appErrors.ErrInvalidTransition, "registration already "+string(current.Status))
}

// DecideBulk applies Decide independently to every id. One id's failure
// never blocks the others; the result carries one outcome per distinct
// input id, in input order.
func (s *RegistrationService) DecideBulk(ctx context.Context, kind models.RegistrationKind, ids []string, decision models.Decision) (*dto.BulkDecideResult, error) {
	if _, err := s.store(kind); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "registration_ids must not be empty")
	}

	seen := make(map[string]struct{}, len(ids))
	result := &dto.BulkDecideResult{Outcomes: make([]dto.DecisionOutcome, 0, len(ids))}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		detail, err := s.Decide(ctx, kind, id, decision)
		if err != nil {
			appErr := appErrors.FromError(err)
			result.Outcomes = append(result.Outcomes, dto.DecisionOutcome{
				RegistrationID: id,
				ErrorCode:      appErr.Code,
				ErrorMessage:   appErr.Message,
			})
			result.Failed++
			s.logger.Warn("bulk decision item failed",
				zap.String("kind", string(kind)),
				zap.String("registration_id", id),
				zap.String("code", appErr.Code))
			continue
		}
		result.Outcomes = append(result.Outcomes, dto.DecisionOutcome{
			RegistrationID: id,
			Applied:        true,
			Status:         string(detail.Status),
		})
		result.Applied++
	}
	return result, nil
}

// StatusCounts returns per-status counters for one kind.
func (s *RegistrationService) StatusCounts(ctx context.Context, kind models.RegistrationKind) ([]models.RegistrationStatusCount, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	counts, err := store.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count registrations")
	}
	return counts, nil
}
