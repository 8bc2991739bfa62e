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

// CurriculumRepository handles persistence of curriculum items.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository constructs the repository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// List returns curriculum items with course display fields.
func (r *CurriculumRepository) List(ctx context.Context, filter models.CurriculumFilter) ([]models.CurriculumItemDetail, error) {
	base := `FROM curriculum_items ci
LEFT JOIN courses c ON c.id = ci.course_id`
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		conditions = append(conditions, fmt.Sprintf("ci.course_id = $%d", len(args)))
	}
	if filter.SemesterNo != nil {
		args = append(args, *filter.SemesterNo)
		conditions = append(conditions, fmt.Sprintf("ci.semester_no = $%d", len(args)))
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT ci.id, ci.course_id, ci.semester_no, ci.item_order, ci.notes, ci.created_at,
        c.name AS course_name, c.code AS course_code, c.credits AS credits
        %s ORDER BY ci.semester_no ASC, ci.item_order ASC, ci.id ASC`, base+clause)

	var items []models.CurriculumItemDetail
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list curriculum items: %w", err)
	}
	return items, nil
}

// FindByID returns a curriculum item.
func (r *CurriculumRepository) FindByID(ctx context.Context, id string) (*models.CurriculumItem, error) {
	const query = `SELECT id, course_id, semester_no, item_order, notes, created_at FROM curriculum_items WHERE id = $1`
	var item models.CurriculumItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsForCourseSemester checks the course/semester uniqueness constraint.
func (r *CurriculumRepository) ExistsForCourseSemester(ctx context.Context, courseID string, semesterNo int, excludeID string) (bool, error) {
	query := "SELECT 1 FROM curriculum_items WHERE course_id = $1 AND semester_no = $2"
	args := []interface{}{courseID, semesterNo}
	if excludeID != "" {
		args = append(args, excludeID)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}
	query += " LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check curriculum item: %w", err)
	}
	return true, nil
}

// Create persists a new curriculum item.
func (r *CurriculumRepository) Create(ctx context.Context, item *models.CurriculumItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO curriculum_items (id, course_id, semester_no, item_order, notes, created_at)
        VALUES (:id, :course_id, :semester_no, :item_order, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create curriculum item: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a curriculum item.
func (r *CurriculumRepository) Update(ctx context.Context, item *models.CurriculumItem) error {
	const query = `UPDATE curriculum_items SET semester_no = :semester_no, item_order = :item_order, notes = :notes WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update curriculum item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check curriculum update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a curriculum item.
func (r *CurriculumRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM curriculum_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete curriculum item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check curriculum delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
