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

// NotificationRepository handles persistence of notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// List returns notifications newest first.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	base := "FROM notifications"
	var conditions []string
	var args []interface{}

	if filter.Audience != nil {
		args = append(args, *filter.Audience)
		conditions = append(conditions, fmt.Sprintf("(audience = $%d OR audience = 'ALL')", len(args)))
	}
	if filter.PublishedOnly {
		conditions = append(conditions, "published = TRUE")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
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

	query := fmt.Sprintf(`SELECT id, title, body, audience, published, created_at
        %s ORDER BY created_at DESC, id ASC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	return notifications, total, nil
}

// FindByID returns a notification by its ID.
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	const query = `SELECT id, title, body, audience, published, created_at FROM notifications WHERE id = $1`
	var notification models.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		return nil, err
	}
	return &notification, nil
}

// Create persists a new notification.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	notification.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO notifications (id, title, body, audience, published, created_at)
        VALUES (:id, :title, :body, :audience, :published, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a notification.
func (r *NotificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	const query = `UPDATE notifications SET title = :title, body = :body, audience = :audience, published = :published WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, notification)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check notification update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a notification.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check notification delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountPublished returns the number of published notifications.
func (r *NotificationRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM notifications WHERE published = TRUE"); err != nil {
		return 0, fmt.Errorf("count published notifications: %w", err)
	}
	return count, nil
}
