package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhan-trinh/phongdaotao/internal/models"
)

// RegulationRepository handles persistence of regulations.
type RegulationRepository struct {
	db *sqlx.DB
}

// NewRegulationRepository constructs the repository.
func NewRegulationRepository(db *sqlx.DB) *RegulationRepository {
	return &RegulationRepository{db: db}
}

// List returns regulations; inactive rows only when requested.
func (r *RegulationRepository) List(ctx context.Context, filter models.RegulationFilter) ([]models.Regulation, error) {
	base := "FROM regulations"
	var conditions []string
	var args []interface{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT id, title, body, category, effective_date, is_active, created_at
        %s ORDER BY effective_date DESC NULLS LAST, created_at DESC`, base+clause)

	var regulations []models.Regulation
	if err := r.db.SelectContext(ctx, &regulations, query, args...); err != nil {
		return nil, fmt.Errorf("list regulations: %w", err)
	}
	return regulations, nil
}

// FindByID returns a regulation by its ID.
func (r *RegulationRepository) FindByID(ctx context.Context, id string) (*models.Regulation, error) {
	const query = `SELECT id, title, body, category, effective_date, is_active, created_at FROM regulations WHERE id = $1`
	var regulation models.Regulation
	if err := r.db.GetContext(ctx, &regulation, query, id); err != nil {
		return nil, err
	}
	return &regulation, nil
}

// Create persists a new regulation.
func (r *RegulationRepository) Create(ctx context.Context, regulation *models.Regulation) error {
	if regulation.ID == "" {
		regulation.ID = uuid.NewString()
	}
	regulation.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO regulations (id, title, body, category, effective_date, is_active, created_at)
        VALUES (:id, :title, :body, :category, :effective_date, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, regulation); err != nil {
		return fmt.Errorf("create regulation: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a regulation.
func (r *RegulationRepository) Update(ctx context.Context, regulation *models.Regulation) error {
	const query = `UPDATE regulations SET title = :title, body = :body, category = :category,
        effective_date = :effective_date, is_active = :is_active
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, regulation)
	if err != nil {
		return fmt.Errorf("update regulation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check regulation update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a regulation.
func (r *RegulationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM regulations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete regulation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check regulation delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
