package models

import "time"

// Grade is a final score a student earned in a class.
type Grade struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Score     float64   `db:"score" json:"score"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GradeBand is one bucket of a grade distribution.
type GradeBand struct {
	Band  string `db:"band" json:"band"`
	Count int    `db:"count" json:"count"`
}

// CourseGradeSummary aggregates per-course grade statistics.
type CourseGradeSummary struct {
	CourseID     string  `db:"course_id" json:"course_id"`
	CourseCode   string  `db:"course_code" json:"course_code"`
	CourseName   string  `db:"course_name" json:"course_name"`
	GradedCount  int     `db:"graded_count" json:"graded_count"`
	AverageScore float64 `db:"average_score" json:"average_score"`
	PassCount    int     `db:"pass_count" json:"pass_count"`
	PassRate     float64 `db:"pass_rate" json:"pass_rate"`
}

// GradeReport is the full server-computed grade report.
type GradeReport struct {
	PassThreshold float64              `json:"pass_threshold"`
	Distribution  []GradeBand          `json:"distribution"`
	Courses       []CourseGradeSummary `json:"courses"`
	GeneratedAt   time.Time            `json:"generated_at"`
}

// GradeReportFilter narrows a grade report.
type GradeReportFilter struct {
	CourseID     string
	ClassID      string
	Semester     string
	AcademicYear string
}

// TestScore is one test result on the 0-100 scale, distinct from the final
// grade a student earns in a class.
type TestScore struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	TestType     string    `db:"test_type" json:"test_type"`
	TestDate     time.Time `db:"test_date" json:"test_date"`
	Score        float64   `db:"score" json:"score"`
	Semester     string    `db:"semester" json:"semester"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// TestScoreFilter narrows a test-score report.
type TestScoreFilter struct {
	CourseID     string
	ClassID      string
	TestType     string
	Semester     string
	AcademicYear string
}

// TestTypeAverage aggregates test scores of one test type.
type TestTypeAverage struct {
	TestType     string  `db:"test_type" json:"test_type"`
	TestCount    int     `db:"test_count" json:"test_count"`
	AverageScore float64 `db:"average_score" json:"average_score"`
}

// TestScoreTrendPoint is the average score of one test date.
type TestScoreTrendPoint struct {
	TestDate     time.Time `db:"test_date" json:"test_date"`
	TestCount    int       `db:"test_count" json:"test_count"`
	AverageScore float64   `db:"average_score" json:"average_score"`
}

// TestScoreStats summarises a filtered set of test scores.
type TestScoreStats struct {
	TestCount    int     `db:"test_count" json:"test_count"`
	AverageScore float64 `db:"average_score" json:"average_score"`
	HighestScore float64 `db:"highest_score" json:"highest_score"`
	LowestScore  float64 `db:"lowest_score" json:"lowest_score"`
	PassCount    int     `db:"pass_count" json:"pass_count"`
	PassRate     float64 `db:"pass_rate" json:"pass_rate"`
}

// TestScoreReport is the full server-computed test-score report. Trend is
// present only when the filter names a specific course and test type.
type TestScoreReport struct {
	PassThreshold float64               `json:"pass_threshold"`
	Stats         TestScoreStats        `json:"stats"`
	Distribution  []GradeBand           `json:"distribution"`
	TestTypes     []TestTypeAverage     `json:"test_types"`
	Trend         []TestScoreTrendPoint `json:"trend,omitempty"`
	GeneratedAt   time.Time             `json:"generated_at"`
}

// DashboardSummary holds the landing-page counters.
type DashboardSummary struct {
	Courses              int                                            `json:"courses"`
	Classes              int                                            `json:"classes"`
	Teachers             int                                            `json:"teachers"`
	Students             int                                            `json:"students"`
	PublishedNotices     int                                            `json:"published_notifications"`
	PendingRegistrations map[RegistrationKind]int                       `json:"pending_registrations"`
	RegistrationCounts   map[RegistrationKind][]RegistrationStatusCount `json:"registration_counts"`
}

// ExportFormat enumerates report export renderings.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatPDF  ExportFormat = "pdf"
)

// ExportJobStatus is the lifecycle of an asynchronous export.
type ExportJobStatus string

const (
	ExportJobStatusQueued ExportJobStatus = "QUEUED"
	ExportJobStatusDone   ExportJobStatus = "DONE"
	ExportJobStatusFailed ExportJobStatus = "FAILED"
)

// ExportJob tracks one asynchronous report export.
type ExportJob struct {
	ID          string          `json:"id"`
	Format      ExportFormat    `json:"format"`
	Status      ExportJobStatus `json:"status"`
	FileName    string          `json:"file_name,omitempty"`
	ContentType string          `json:"content_type,omitempty"`
	Error       string          `json:"error,omitempty"`
	RequestedAt time.Time       `json:"requested_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}
