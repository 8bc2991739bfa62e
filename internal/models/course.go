package models

import "time"

// Course represents a course offered by the training department.
type Course struct {
	ID            string    `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	Name          string    `db:"name" json:"name"`
	Credits       int       `db:"credits" json:"credits"`
	Department    string    `db:"department" json:"department"`
	Description   string    `db:"description" json:"description"`
	Prerequisites string    `db:"prerequisites" json:"prerequisites"`
	Active        bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter provides filters for listing courses.
type CourseFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}

// CurriculumItem places a course inside a semester of the curriculum.
type CurriculumItem struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	SemesterNo int       `db:"semester_no" json:"semester_no"`
	ItemOrder  int       `db:"item_order" json:"item_order"`
	Notes      string    `db:"notes" json:"notes"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CurriculumItemDetail enriches CurriculumItem with course display fields.
type CurriculumItemDetail struct {
	CurriculumItem
	CourseName string `db:"course_name" json:"course_name"`
	CourseCode string `db:"course_code" json:"course_code"`
	Credits    int    `db:"credits" json:"credits"`
}

// CurriculumFilter provides filters for listing curriculum items.
type CurriculumFilter struct {
	CourseID   string
	SemesterNo *int
}
