package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhan-trinh/phongdaotao/internal/models"
)

// ScheduleRepository handles persistence of weekly class schedule slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByClass returns the weekly slots of one class in timetable order.
func (r *ScheduleRepository) ListByClass(ctx context.Context, classID string) ([]models.ClassScheduleDetail, error) {
	const query = `SELECT cs.id, cs.class_id, cs.day_of_week, cs.start_time, cs.end_time, cs.room, cs.created_at,
        cl.name AS class_name, cl.code AS class_code, c.name AS course_name
        FROM class_schedules cs
        LEFT JOIN classes cl ON cl.id = cs.class_id
        LEFT JOIN courses c ON c.id = cl.course_id
        WHERE cs.class_id = $1
        ORDER BY cs.day_of_week ASC, cs.start_time ASC, cs.id ASC`
	var slots []models.ClassScheduleDetail
	if err := r.db.SelectContext(ctx, &slots, query, classID); err != nil {
		return nil, fmt.Errorf("list class schedules: %w", err)
	}
	return slots, nil
}

// ListByDay returns every slot on a weekday across classes.
func (r *ScheduleRepository) ListByDay(ctx context.Context, dayOfWeek int) ([]models.ClassScheduleDetail, error) {
	const query = `SELECT cs.id, cs.class_id, cs.day_of_week, cs.start_time, cs.end_time, cs.room, cs.created_at,
        cl.name AS class_name, cl.code AS class_code, c.name AS course_name
        FROM class_schedules cs
        LEFT JOIN classes cl ON cl.id = cs.class_id
        LEFT JOIN courses c ON c.id = cl.course_id
        WHERE cs.day_of_week = $1
        ORDER BY cs.start_time ASC, cs.id ASC`
	var slots []models.ClassScheduleDetail
	if err := r.db.SelectContext(ctx, &slots, query, dayOfWeek); err != nil {
		return nil, fmt.Errorf("list day schedules: %w", err)
	}
	return slots, nil
}

// FindByID returns one schedule slot.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ClassSchedule, error) {
	const query = `SELECT id, class_id, day_of_week, start_time, end_time, room, created_at FROM class_schedules WHERE id = $1`
	var slot models.ClassSchedule
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create persists a new schedule slot.
func (r *ScheduleRepository) Create(ctx context.Context, slot *models.ClassSchedule) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	slot.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO class_schedules (id, class_id, day_of_week, start_time, end_time, room, created_at)
        VALUES (:id, :class_id, :day_of_week, :start_time, :end_time, :room, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create class schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule slot.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM class_schedules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete class schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check schedule delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
