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

type registrationTable struct {
	name      string
	extraCols []string
}

var registrationTables = map[models.RegistrationKind]registrationTable{
	models.RegistrationKindCourse:       {name: "course_registrations", extraCols: []string{"semester"}},
	models.RegistrationKindRetakeExam:   {name: "retake_exam_registrations", extraCols: []string{"previous_grade", "reason"}},
	models.RegistrationKindRetakeCourse: {name: "retake_course_registrations", extraCols: []string{"previous_grade", "reason"}},
}

// RegistrationRepository handles persistence for one registration kind. It
// performs dumb row access only; transition rules live in the workflow
// service.
type RegistrationRepository struct {
	db    *sqlx.DB
	kind  models.RegistrationKind
	table registrationTable
}

// NewRegistrationRepository constructs the repository for a kind.
func NewRegistrationRepository(db *sqlx.DB, kind models.RegistrationKind) (*RegistrationRepository, error) {
	table, ok := registrationTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown registration kind %q", kind)
	}
	return &RegistrationRepository{db: db, kind: kind, table: table}, nil
}

// Kind returns the registration kind this repository serves.
func (r *RegistrationRepository) Kind() models.RegistrationKind {
	return r.kind
}

func (r *RegistrationRepository) columns(prefix string) string {
	cols := []string{"id", "student_id", "course_id", "status", "requested_at", "decided_at"}
	cols = append(cols, r.table.extraCols...)
	if prefix == "" {
		return strings.Join(cols, ", ")
	}
	prefixed := make([]string, len(cols))
	for i, col := range cols {
		prefixed[i] = prefix + "." + col
	}
	return strings.Join(prefixed, ", ")
}

// List returns registrations matching the filter with joined display
// fields, ordered by request time with a stable id tie-break.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error) {
	base := fmt.Sprintf(`FROM %s r
LEFT JOIN users u ON u.id = r.student_id
LEFT JOIN courses c ON c.id = r.course_id`, r.table.name)

	clause := ""
	var args []interface{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clause = fmt.Sprintf(" WHERE r.status = $%d", len(args))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s,
        u.full_name AS student_name, u.code AS student_code,
        c.name AS course_name, c.code AS course_code
        %s ORDER BY r.requested_at DESC, r.id ASC LIMIT %d OFFSET %d`,
		r.columns("r"), base+clause, size, offset)

	var registrations []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &registrations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.table.name, err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.table.name, err)
	}
	return registrations, total, nil
}

// FindByID returns a bare registration row.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.columns(""), r.table.name)
	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, query, id); err != nil {
		return nil, err
	}
	return &registration, nil
}

// FindDetailByID returns a registration with joined display fields.
func (r *RegistrationRepository) FindDetailByID(ctx context.Context, id string) (*models.RegistrationDetail, error) {
	query := fmt.Sprintf(`SELECT %s,
        u.full_name AS student_name, u.code AS student_code,
        c.name AS course_name, c.code AS course_code
        FROM %s r
        LEFT JOIN users u ON u.id = r.student_id
        LEFT JOIN courses c ON c.id = r.course_id
        WHERE r.id = $1`, r.columns("r"), r.table.name)
	var detail models.RegistrationDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a new pending registration.
func (r *RegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	if registration.RequestedAt.IsZero() {
		registration.RequestedAt = time.Now().UTC()
	}
	registration.Status = models.RegistrationStatusPending

	cols := []string{"id", "student_id", "course_id", "status", "requested_at"}
	cols = append(cols, r.table.extraCols...)
	named := make([]string, len(cols))
	for i, col := range cols {
		named[i] = ":" + col
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.table.name, strings.Join(cols, ", "), strings.Join(named, ", "))
	if _, err := r.db.NamedExecContext(ctx, query, registration); err != nil {
		return fmt.Errorf("create %s: %w", r.table.name, err)
	}
	return nil
}

// UpdateStatusIfPending applies a terminal status with the conditional
// guard that makes concurrent decisions on the same row safe: only a row
// still in PENDING is updated, and an untouched row surfaces as
// sql.ErrNoRows for the caller to re-check.
func (r *RegistrationRepository) UpdateStatusIfPending(ctx context.Context, id string, status models.RegistrationStatus, decidedAt time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET status = $2, decided_at = $3 WHERE id = $1 AND status = '%s'",
		r.table.name, models.RegistrationStatusPending)
	result, err := r.db.ExecContext(ctx, query, id, status, decidedAt)
	if err != nil {
		return fmt.Errorf("update %s status: %w", r.table.name, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s update rows: %w", r.table.name, err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByStatus returns per-status row counts for dashboards.
func (r *RegistrationRepository) CountByStatus(ctx context.Context) ([]models.RegistrationStatusCount, error) {
	query := fmt.Sprintf("SELECT status, COUNT(*) AS count FROM %s GROUP BY status ORDER BY status", r.table.name)
	var counts []models.RegistrationStatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count %s by status: %w", r.table.name, err)
	}
	return counts, nil
}
