package models

import "time"

// Class is a scheduled offering of a course.
type Class struct {
	ID        string     `db:"id" json:"id"`
	Code      string     `db:"code" json:"code"`
	Name      string     `db:"name" json:"name"`
	CourseID  string     `db:"course_id" json:"course_id"`
	TeacherID *string    `db:"teacher_id" json:"teacher_id,omitempty"`
	Room      string     `db:"room" json:"room"`
	Capacity  int        `db:"capacity" json:"capacity"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// ClassDetail enriches Class with joined course and teacher names.
type ClassDetail struct {
	Class
	CourseName  string  `db:"course_name" json:"course_name"`
	CourseCode  string  `db:"course_code" json:"course_code"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// ClassFilter provides filters for listing classes.
type ClassFilter struct {
	CourseID  string
	TeacherID string
	Search    string
	Page      int
	PageSize  int
}

// ClassSchedule is one weekly slot of a class timetable.
type ClassSchedule struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Room      string    `db:"room" json:"room"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassScheduleDetail enriches a slot with class display fields.
type ClassScheduleDetail struct {
	ClassSchedule
	ClassName  string `db:"class_name" json:"class_name"`
	ClassCode  string `db:"class_code" json:"class_code"`
	CourseName string `db:"course_name" json:"course_name"`
}

// TeacherAssignment links a teacher to a class.
type TeacherAssignment struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	RoleNote  string    `db:"role_note" json:"role_note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherAssignmentDetail enriches an assignment with display fields.
type TeacherAssignmentDetail struct {
	TeacherAssignment
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	TeacherCode string `db:"teacher_code" json:"teacher_code"`
	ClassName   string `db:"class_name" json:"class_name"`
	ClassCode   string `db:"class_code" json:"class_code"`
}
