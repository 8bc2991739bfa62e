package models

import "time"

// Regulation is a published training-department rule document.
type Regulation struct {
	ID            string     `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Body          string     `db:"body" json:"body"`
	Category      string     `db:"category" json:"category"`
	EffectiveDate *time.Time `db:"effective_date" json:"effective_date,omitempty"`
	Active        bool       `db:"is_active" json:"is_active"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// RegulationFilter provides filters for listing regulations.
type RegulationFilter struct {
	Category        string
	IncludeInactive bool
}

// NotificationAudience defines who a notification targets.
type NotificationAudience string

const (
	NotificationAudienceAll      NotificationAudience = "ALL"
	NotificationAudienceStudents NotificationAudience = "STUDENTS"
	NotificationAudienceTeachers NotificationAudience = "TEACHERS"
)

// Notification is a broadcast message from the training department.
type Notification struct {
	ID        string               `db:"id" json:"id"`
	Title     string               `db:"title" json:"title"`
	Body      string               `db:"body" json:"body"`
	Audience  NotificationAudience `db:"audience" json:"audience"`
	Published bool                 `db:"published" json:"published"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
}

// NotificationFilter provides filters for listing notifications.
type NotificationFilter struct {
	Audience      *NotificationAudience
	PublishedOnly bool
	Page          int
	PageSize      int
}
