package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nhan-trinh/phongdaotao/internal/models"
)

func newRegistrationRepoMock(t *testing.T, kind models.RegistrationKind) (*RegistrationRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	repo, err := NewRegistrationRepository(sqlx.NewDb(db, "sqlmock"), kind)
	require.NoError(t, err)
	return repo, mock, func() { db.Close() }
}

func TestNewRegistrationRepositoryUnknownKind(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewRegistrationRepository(sqlx.NewDb(db, "sqlmock"), models.RegistrationKind("bogus"))
	require.Error(t, err)
}

func TestRegistrationRepositoryCreateForcesPending(t *testing.T) {
	repo, mock, cleanup := newRegistrationRepoMock(t, models.RegistrationKindCourse)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course_registrations")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	registration := &models.Registration{
		StudentID: "student-1",
		CourseID:  "course-1",
		Semester:  "2026A",
		Status:    models.RegistrationStatusApproved, // ignored, rows start pending
	}
	require.NoError(t, repo.Create(context.Background(), registration))
	require.NotEmpty(t, registration.ID)
	require.Equal(t, models.RegistrationStatusPending, registration.Status)
	require.False(t, registration.RequestedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryListStatusFilter(t *testing.T) {
	repo, mock, cleanup := newRegistrationRepoMock(t, models.RegistrationKindRetakeExam)
	defer cleanup()

	grade := 3.5
	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "status", "requested_at", "decided_at", "previous_grade", "reason", "student_name", "student_code", "course_name", "course_code"}).
		AddRow("reg-1", "student-1", "course-1", "PENDING", time.Now(), nil, grade, "failed", "Tran Van A", "SV001", "Giai tich 1", "MATH101")
	mock.ExpectQuery(`SELECT r\.id, r\.student_id, r\.course_id.+FROM retake_exam_registrations r`).
		WithArgs("PENDING").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM retake_exam_registrations r`).
		WithArgs("PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	pending := models.RegistrationStatusPending
	list, total, err := repo.List(context.Background(), models.RegistrationFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, total)
	require.Equal(t, "reg-1", list[0].ID)
	require.Equal(t, "SV001", list[0].StudentCode)
	require.NotNil(t, list[0].PreviousGrade)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryUpdateStatusIfPending(t *testing.T) {
	repo, mock, cleanup := newRegistrationRepoMock(t, models.RegistrationKindCourse)
	defer cleanup()

	decidedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE course_registrations SET status = $2, decided_at = $3 WHERE id = $1 AND status = 'PENDING'")).
		WithArgs("reg-1", models.RegistrationStatusApproved, decidedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatusIfPending(context.Background(), "reg-1", models.RegistrationStatusApproved, decidedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryUpdateStatusAlreadyDecided(t *testing.T) {
	repo, mock, cleanup := newRegistrationRepoMock(t, models.RegistrationKindCourse)
	defer cleanup()

	decidedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE course_registrations")).
		WithArgs("reg-1", models.RegistrationStatusRejected, decidedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatusIfPending(context.Background(), "reg-1", models.RegistrationStatusRejected, decidedAt)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryCountByStatus(t *testing.T) {
	repo, mock, cleanup := newRegistrationRepoMock(t, models.RegistrationKindRetakeCourse)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("APPROVED", 4).
		AddRow("PENDING", 2).
		AddRow("REJECTED", 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM retake_course_registrations GROUP BY status")).
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 3)
	require.Equal(t, models.RegistrationStatusApproved, counts[0].Status)
	require.Equal(t, 4, counts[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}
