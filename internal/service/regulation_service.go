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

type regulationStore interface {
	List(ctx context.Context, filter models.RegulationFilter) ([]models.Regulation, error)
	FindByID(ctx context.Context, id string) (*models.Regulation, error)
	Create(ctx context.Context, regulation *models.Regulation) error
	Update(ctx context.Context, regulation *models.Regulation) error
	Delete(ctx context.Context, id string) error
}

// RegulationRequest is the payload for creating or updating a regulation.
type RegulationRequest struct {
	Title         string     `json:"title" validate:"required,max=255"`
	Body          string     `json:"body" validate:"required"`
	Category      string     `json:"category" validate:"max=64"`
	EffectiveDate *time.Time `json:"effective_date"`
	Active        *bool      `json:"is_active"`
}

// RegulationService manages training-department regulation documents.
type RegulationService struct {
	store     regulationStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegulationService constructs RegulationService.
func NewRegulationService(store regulationStore, validate *validator.Validate, logger *zap.Logger) *RegulationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegulationService{store: store, validator: validate, logger: logger}
}

// List returns regulations, active ones first unless inactive are requested.
func (s *RegulationService) List(ctx context.Context, filter models.RegulationFilter) ([]models.Regulation, error) {
	regulations, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list regulations")
	}
	return regulations, nil
}

// Get returns one regulation.
func (s *RegulationService) Get(ctx context.Context, id string) (*models.Regulation, error) {
	regulation, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "regulation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load regulation")
	}
	return regulation, nil
}

// Create publishes a new regulation.
func (s *RegulationService) Create(ctx context.Context, req RegulationRequest) (*models.Regulation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid regulation payload")
	}
	regulation := &models.Regulation{
		Title:         req.Title,
		Body:          req.Body,
		Category:      req.Category,
		EffectiveDate: req.EffectiveDate,
		Active:        true,
	}
	if req.Active != nil {
		regulation.Active = *req.Active
	}
	if err := s.store.Create(ctx, regulation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create regulation")
	}
	s.logger.Info("regulation created", zap.String("regulation_id", regulation.ID))
	return regulation, nil
}

// Update rewrites a regulation.
func (s *RegulationService) Update(ctx context.Context, id string, req RegulationRequest) (*models.Regulation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid regulation payload")
	}
	regulation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	regulation.Title = req.Title
	regulation.Body = req.Body
	regulation.Category = req.Category
	regulation.EffectiveDate = req.EffectiveDate
	if req.Active != nil {
		regulation.Active = *req.Active
	}
	if err := s.store.Update(ctx, regulation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "regulation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update regulation")
	}
	return regulation, nil
}

// Delete removes a regulation.
func (s *RegulationService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "regulation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete regulation")
	}
	return nil
}
