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

// TeacherAssignmentRepository handles persistence of teacher assignments.
type TeacherAssignmentRepository struct {
	db *sqlx.DB
}

// NewTeacherAssignmentRepository constructs the repository.
func NewTeacherAssignmentRepository(db *sqlx.DB) *TeacherAssignmentRepository {
	return &TeacherAssignmentRepository{db: db}
}

// List returns assignments with joined teacher and class display fields.
func (r *TeacherAssignmentRepository) List(ctx context.Context, teacherID, classID string) ([]models.TeacherAssignmentDetail, error) {
	base := `FROM teacher_assignments ta
LEFT JOIN users u ON u.id = ta.teacher_id
LEFT JOIN classes cl ON cl.id = ta.class_id`
	var conditions []string
	var args []interface{}

	if teacherID != "" {
		args = append(args, teacherID)
		conditions = append(conditions, fmt.Sprintf("ta.teacher_id = $%d", len(args)))
	}
	if classID != "" {
		args = append(args, classID)
		conditions = append(conditions, fmt.Sprintf("ta.class_id = $%d", len(args)))
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT ta.id, ta.teacher_id, ta.class_id, ta.role_note, ta.created_at,
        u.full_name AS teacher_name, u.code AS teacher_code,
        cl.name AS class_name, cl.code AS class_code
        %s ORDER BY ta.created_at DESC, ta.id ASC`, base+clause)

	var assignments []models.TeacherAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return assignments, nil
}

// FindByID returns an assignment by its ID.
func (r *TeacherAssignmentRepository) FindByID(ctx context.Context, id string) (*models.TeacherAssignment, error) {
	const query = `SELECT id, teacher_id, class_id, role_note, created_at FROM teacher_assignments WHERE id = $1`
	var assignment models.TeacherAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Exists checks for a duplicate teacher/class pair.
func (r *TeacherAssignmentRepository) Exists(ctx context.Context, teacherID, classID string) (bool, error) {
	const query = "SELECT 1 FROM teacher_assignments WHERE teacher_id = $1 AND class_id = $2 LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, classID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher assignment: %w", err)
	}
	return true, nil
}

// Create persists a new assignment.
func (r *TeacherAssignmentRepository) Create(ctx context.Context, assignment *models.TeacherAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	assignment.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO teacher_assignments (id, teacher_id, class_id, role_note, created_at)
        VALUES (:id, :teacher_id, :class_id, :role_note, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create teacher assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment.
func (r *TeacherAssignmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM teacher_assignments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete teacher assignment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check assignment delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
