package models

import (
	"strings"
	"time"
)

// RegistrationKind distinguishes the three registration tables.
type RegistrationKind string

const (
	RegistrationKindCourse       RegistrationKind = "course"
	RegistrationKindRetakeExam   RegistrationKind = "retake-exam"
	RegistrationKindRetakeCourse RegistrationKind = "retake-course"
)

// RegistrationKinds lists every supported kind in mount order.
var RegistrationKinds = []RegistrationKind{
	RegistrationKindCourse,
	RegistrationKindRetakeExam,
	RegistrationKindRetakeCourse,
}

// RegistrationStatus is the closed lifecycle of a registration. The only
// legal transitions are PENDING -> APPROVED and PENDING -> REJECTED; both
// outcomes are terminal.
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "PENDING"
	RegistrationStatusApproved RegistrationStatus = "APPROVED"
	RegistrationStatusRejected RegistrationStatus = "REJECTED"
)

// ParseRegistrationStatus resolves a case-insensitive status filter value.
// Unrecognised or empty input yields ok=false, which callers treat as
// "no filter".
func ParseRegistrationStatus(raw string) (RegistrationStatus, bool) {
	switch RegistrationStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case RegistrationStatusPending:
		return RegistrationStatusPending, true
	case RegistrationStatusApproved:
		return RegistrationStatusApproved, true
	case RegistrationStatusRejected:
		return RegistrationStatusRejected, true
	}
	return "", false
}

// Decision is a terminal status a reviewer may apply to a pending
// registration.
type Decision = RegistrationStatus

// ParseDecision accepts only the two terminal statuses, case-insensitively.
func ParseDecision(raw string) (Decision, bool) {
	status, ok := ParseRegistrationStatus(raw)
	if !ok || status == RegistrationStatusPending {
		return "", false
	}
	return status, true
}

// Registration is a student's request awaiting approval, one row of one of
// the three registration tables. StudentID, CourseID and RequestedAt are
// immutable after creation; Status is mutated only by the workflow service.
type Registration struct {
	ID            string             `db:"id" json:"id"`
	StudentID     string             `db:"student_id" json:"student_id"`
	CourseID      string             `db:"course_id" json:"course_id"`
	Semester      string             `db:"semester" json:"semester,omitempty"`
	PreviousGrade *float64           `db:"previous_grade" json:"previous_grade,omitempty"`
	Reason        string             `db:"reason" json:"reason,omitempty"`
	Status        RegistrationStatus `db:"status" json:"status"`
	RequestedAt   time.Time          `db:"requested_at" json:"requested_at"`
	DecidedAt     *time.Time         `db:"decided_at" json:"decided_at,omitempty"`
}

// RegistrationDetail enriches Registration with joined display fields.
type RegistrationDetail struct {
	Registration
	StudentName string `db:"student_name" json:"student_name"`
	StudentCode string `db:"student_code" json:"student_code"`
	CourseName  string `db:"course_name" json:"course_name"`
	CourseCode  string `db:"course_code" json:"course_code"`
}

// RegistrationFilter provides filters for listing registrations.
type RegistrationFilter struct {
	Status   *RegistrationStatus
	Page     int
	PageSize int
}

// RegistrationStatusCount is one row of the per-status dashboard counters.
type RegistrationStatusCount struct {
	Status RegistrationStatus `db:"status" json:"status"`
	Count  int                `db:"count" json:"count"`
}
