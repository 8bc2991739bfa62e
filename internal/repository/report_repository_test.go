package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nhan-trinh/phongdaotao/internal/models"
)

func newReportRepoMock(t *testing.T) (*ReportRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewReportRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestReportRepositoryTestScoreDistributionFilters(t *testing.T) {
	repo, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"band", "count"}).
		AddRow("41-60", 2).
		AddRow("61-80", 5)
	mock.ExpectQuery(`SELECT band, COUNT\(\*\) AS count FROM.+FROM test_scores t.+AND cl\.course_id = \$1 AND t\.test_type = \$2 AND t\.semester = \$3`).
		WithArgs("course-1", "midterm", "1").
		WillReturnRows(rows)

	bands, err := repo.TestScoreDistribution(context.Background(), models.TestScoreFilter{
		CourseID: "course-1",
		TestType: "midterm",
		Semester: "1",
	})
	require.NoError(t, err)
	require.Len(t, bands, 2)
	require.Equal(t, "61-80", bands[1].Band)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryTestScoreStats(t *testing.T) {
	repo, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"test_count", "average_score", "highest_score", "lowest_score", "pass_count", "pass_rate"}).
		AddRow(4, 71.25, 95.0, 42.0, 3, 75.0)
	mock.ExpectQuery(`SELECT COUNT\(t\.id\) AS test_count.+FROM test_scores t.+AND t\.class_id = \$2`).
		WithArgs(60.0, "class-1").
		WillReturnRows(rows)

	stats, err := repo.TestScoreStats(context.Background(), models.TestScoreFilter{ClassID: "class-1"}, 60.0)
	require.NoError(t, err)
	require.Equal(t, 4, stats.TestCount)
	require.Equal(t, 75.0, stats.PassRate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryTestScoreTrend(t *testing.T) {
	repo, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	first := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"test_date", "test_count", "average_score"}).
		AddRow(first, 3, 68.0).
		AddRow(first.AddDate(0, 0, 7), 3, 74.5)
	mock.ExpectQuery(`SELECT t\.test_date.+FROM test_scores t.+GROUP BY t\.test_date ORDER BY t\.test_date ASC`).
		WithArgs("course-1", "midterm").
		WillReturnRows(rows)

	points, err := repo.TestScoreTrend(context.Background(), models.TestScoreFilter{
		CourseID: "course-1",
		TestType: "midterm",
	})
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.True(t, points[0].TestDate.Before(points[1].TestDate))
	require.NoError(t, mock.ExpectationsWereMet())
}
