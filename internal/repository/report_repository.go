package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nhan-trinh/phongdaotao/internal/models"
)

// ReportRepository exposes read-optimised aggregate queries for reports and
// the dashboard. All aggregation happens in SQL rather than in Go.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// GradeDistribution buckets all grades into letter bands. Band cut-offs follow
// the 10-point grading scale used throughout the data model.
func (r *ReportRepository) GradeDistribution(ctx context.Context, filter models.GradeReportFilter) ([]models.GradeBand, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT band, COUNT(*) AS count FROM (
        SELECT CASE
            WHEN g.score >= 8.5 THEN 'A'
            WHEN g.score >= 7.0 THEN 'B'
            WHEN g.score >= 5.5 THEN 'C'
            WHEN g.score >= 4.0 THEN 'D'
            ELSE 'F'
        END AS band
        FROM grades g
        JOIN classes cl ON cl.id = g.class_id
        WHERE 1=1`)
	var args []interface{}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		builder.WriteString(fmt.Sprintf(" AND cl.course_id = $%d", len(args)))
	}
	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		builder.WriteString(fmt.Sprintf(" AND g.class_id = $%d", len(args)))
	}
	if filter.Semester != "" {
		args = append(args, filter.Semester)
		builder.WriteString(fmt.Sprintf(" AND g.semester = $%d", len(args)))
	}
	if filter.AcademicYear != "" {
		args = append(args, filter.AcademicYear)
		builder.WriteString(fmt.Sprintf(" AND g.academic_year = $%d", len(args)))
	}
	builder.WriteString(") banded GROUP BY band ORDER BY band ASC")

	var bands []models.GradeBand
	if err := r.db.SelectContext(ctx, &bands, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query grade distribution: %w", err)
	}
	return bands, nil
}

// CourseGradeSummaries computes per-course averages and pass rates. The pass
// threshold is a configured score, not a hard-coded constant.
func (r *ReportRepository) CourseGradeSummaries(ctx context.Context, filter models.GradeReportFilter, passThreshold float64) ([]models.CourseGradeSummary, error) {
	var builder strings.Builder
	args := []interface{}{passThreshold}
	builder.WriteString(`SELECT c.id AS course_id, c.code AS course_code, c.name AS course_name,
        COUNT(g.id) AS graded_count,
        COALESCE(AVG(g.score), 0) AS average_score,
        SUM(CASE WHEN g.score >= $1 THEN 1 ELSE 0 END) AS pass_count,
        CASE WHEN COUNT(g.id) = 0 THEN 0
             ELSE (SUM(CASE WHEN g.score >= $1 THEN 1 ELSE 0 END)::DECIMAL / COUNT(g.id)) * 100
        END AS pass_rate
        FROM courses c
        JOIN classes cl ON cl.course_id = c.id
        JOIN grades g ON g.class_id = cl.id
        WHERE 1=1`)
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		builder.WriteString(fmt.Sprintf(" AND c.id = $%d", len(args)))
	}
	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		builder.WriteString(fmt.Sprintf(" AND cl.id = $%d", len(args)))
	}
	if filter.Semester != "" {
		args = append(args, filter.Semester)
		builder.WriteString(fmt.Sprintf(" AND g.semester = $%d", len(args)))
	}
	if filter.AcademicYear != "" {
		args = append(args, filter.AcademicYear)
		builder.WriteString(fmt.Sprintf(" AND g.academic_year = $%d", len(args)))
	}
	builder.WriteString(" GROUP BY c.id, c.code, c.name ORDER BY c.code ASC")

	var summaries []models.CourseGradeSummary
	if err := r.db.SelectContext(ctx, &summaries, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query course grade summaries: %w", err)
	}
	return summaries, nil
}

func appendTestScoreFilters(builder *strings.Builder, args *[]interface{}, filter models.TestScoreFilter) {
	if filter.CourseID != "" {
		*args = append(*args, filter.CourseID)
		builder.WriteString(fmt.Sprintf(" AND cl.course_id = $%d", len(*args)))
	}
	if filter.ClassID != "" {
		*args = append(*args, filter.ClassID)
		builder.WriteString(fmt.Sprintf(" AND t.class_id = $%d", len(*args)))
	}
	if filter.TestType != "" {
		*args = append(*args, filter.TestType)
		builder.WriteString(fmt.Sprintf(" AND t.test_type = $%d", len(*args)))
	}
	if filter.Semester != "" {
		*args = append(*args, filter.Semester)
		builder.WriteString(fmt.Sprintf(" AND t.semester = $%d", len(*args)))
	}
	if filter.AcademicYear != "" {
		*args = append(*args, filter.AcademicYear)
		builder.WriteString(fmt.Sprintf(" AND t.academic_year = $%d", len(*args)))
	}
}

// TestScoreDistribution buckets test scores into 20-point ranges on the
// 0-100 test scale.
func (r *ReportRepository) TestScoreDistribution(ctx context.Context, filter models.TestScoreFilter) ([]models.GradeBand, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT band, COUNT(*) AS count FROM (
        SELECT CASE
            WHEN t.score <= 20 THEN '0-20'
            WHEN t.score <= 40 THEN '21-40'
            WHEN t.score <= 60 THEN '41-60'
            WHEN t.score <= 80 THEN '61-80'
            ELSE '81-100'
        END AS band
        FROM test_scores t
        JOIN classes cl ON cl.id = t.class_id
        WHERE 1=1`)
	var args []interface{}
	appendTestScoreFilters(&builder, &args, filter)
	builder.WriteString(") banded GROUP BY band ORDER BY band ASC")

	var bands []models.GradeBand
	if err := r.db.SelectContext(ctx, &bands, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query test score distribution: %w", err)
	}
	return bands, nil
}

// TestTypeAverages computes the average score per test type.
func (r *ReportRepository) TestTypeAverages(ctx context.Context, filter models.TestScoreFilter) ([]models.TestTypeAverage, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT t.test_type,
        COUNT(t.id) AS test_count,
        COALESCE(AVG(t.score), 0) AS average_score
        FROM test_scores t
        JOIN classes cl ON cl.id = t.class_id
        WHERE 1=1`)
	var args []interface{}
	appendTestScoreFilters(&builder, &args, filter)
	builder.WriteString(" GROUP BY t.test_type ORDER BY t.test_type ASC")

	var averages []models.TestTypeAverage
	if err := r.db.SelectContext(ctx, &averages, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query test type averages: %w", err)
	}
	return averages, nil
}

// TestScoreTrend computes the average score per test date, oldest first.
func (r *ReportRepository) TestScoreTrend(ctx context.Context, filter models.TestScoreFilter) ([]models.TestScoreTrendPoint, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT t.test_date,
        COUNT(t.id) AS test_count,
        COALESCE(AVG(t.score), 0) AS average_score
        FROM test_scores t
        JOIN classes cl ON cl.id = t.class_id
        WHERE 1=1`)
	var args []interface{}
	appendTestScoreFilters(&builder, &args, filter)
	builder.WriteString(" GROUP BY t.test_date ORDER BY t.test_date ASC")

	var points []models.TestScoreTrendPoint
	if err := r.db.SelectContext(ctx, &points, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query test score trend: %w", err)
	}
	return points, nil
}

// TestScoreStats summarises the filtered test scores in a single query.
func (r *ReportRepository) TestScoreStats(ctx context.Context, filter models.TestScoreFilter, passThreshold float64) (*models.TestScoreStats, error) {
	var builder strings.Builder
	args := []interface{}{passThreshold}
	builder.WriteString(`SELECT COUNT(t.id) AS test_count,
        COALESCE(AVG(t.score), 0) AS average_score,
        COALESCE(MAX(t.score), 0) AS highest_score,
        COALESCE(MIN(t.score), 0) AS lowest_score,
        COALESCE(SUM(CASE WHEN t.score >= $1 THEN 1 ELSE 0 END), 0) AS pass_count,
        CASE WHEN COUNT(t.id) = 0 THEN 0
             ELSE (SUM(CASE WHEN t.score >= $1 THEN 1 ELSE 0 END)::DECIMAL / COUNT(t.id)) * 100
        END AS pass_rate
        FROM test_scores t
        JOIN classes cl ON cl.id = t.class_id
        WHERE 1=1`)
	appendTestScoreFilters(&builder, &args, filter)

	var stats models.TestScoreStats
	if err := r.db.GetContext(ctx, &stats, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query test score stats: %w", err)
	}
	return &stats, nil
}

// CountCourses returns the number of active courses.
func (r *ReportRepository) CountCourses(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM courses WHERE is_active = TRUE"); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return count, nil
}

// CountClasses returns the total number of classes.
func (r *ReportRepository) CountClasses(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM classes"); err != nil {
		return 0, fmt.Errorf("count classes: %w", err)
	}
	return count, nil
}

// CountUsersByRole returns the number of users holding the given role.
func (r *ReportRepository) CountUsersByRole(ctx context.Context, role models.UserRole) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users WHERE role = $1", role); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return count, nil
}
