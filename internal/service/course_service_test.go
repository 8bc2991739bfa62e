package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
)

type courseRepoStub struct {
	courses    map[string]*models.Course
	references map[string]int
}

func newCourseRepoStub() *courseRepoStub {
	return &courseRepoStub{courses: make(map[string]*models.Course), references: make(map[string]int)}
}

func (s *courseRepoStub) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	result := make([]models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		result = append(result, *course)
	}
	return result, len(result), nil
}

func (s *courseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if course, ok := s.courses[id]; ok {
		copy := *course
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	for _, course := range s.courses {
		if course.Code == code && course.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = "course-" + course.Code
	}
	copy := *course
	s.courses[course.ID] = &copy
	return nil
}

func (s *courseRepoStub) Update(ctx context.Context, course *models.Course) error {
	if _, ok := s.courses[course.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *course
	s.courses[course.ID] = &copy
	return nil
}

func (s *courseRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.courses, id)
	return nil
}

func (s *courseRepoStub) CountReferences(ctx context.Context, id string) (int, error) {
	return s.references[id], nil
}

func TestCourseServiceCreate(t *testing.T) {
	repo := newCourseRepoStub()
	svc := NewCourseService(repo, nil, nil)

	course, err := svc.Create(context.Background(), CourseRequest{Code: "MATH101", Name: "Giai tich 1", Credits: 3})
	require.NoError(t, err)
	require.NotEmpty(t, course.ID)
	require.True(t, course.Active)
}

func TestCourseServiceCreateDuplicateCode(t *testing.T) {
	repo := newCourseRepoStub()
	svc := NewCourseService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CourseRequest{Code: "MATH101", Name: "Giai tich 1", Credits: 3})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CourseRequest{Code: "MATH101", Name: "Giai tich nang cao", Credits: 4})
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestCourseServiceCreateValidation(t *testing.T) {
	svc := NewCourseService(newCourseRepoStub(), nil, nil)

	_, err := svc.Create(context.Background(), CourseRequest{Name: "missing code", Credits: 3})
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCourseServiceDeleteBlockedByReferences(t *testing.T) {
	repo := newCourseRepoStub()
	repo.courses["course-1"] = &models.Course{ID: "course-1", Code: "MATH101"}
	repo.references["course-1"] = 2
	svc := NewCourseService(repo, nil, nil)

	err := svc.Delete(context.Background(), "course-1")
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrConflict))
	require.Contains(t, repo.courses, "course-1")
}

func TestCourseServiceDeleteUnreferenced(t *testing.T) {
	repo := newCourseRepoStub()
	repo.courses["course-1"] = &models.Course{ID: "course-1", Code: "MATH101"}
	svc := NewCourseService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "course-1"))
	require.NotContains(t, repo.courses, "course-1")
}

func TestCourseServiceGetNotFound(t *testing.T) {
	svc := NewCourseService(newCourseRepoStub(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestCourseServiceUpdateKeepsActiveWhenOmitted(t *testing.T) {
	repo := newCourseRepoStub()
	repo.courses["course-1"] = &models.Course{ID: "course-1", Code: "MATH101", Name: "Giai tich 1", Credits: 3, Active: true}
	svc := NewCourseService(repo, nil, nil)

	course, err := svc.Update(context.Background(), "course-1", CourseRequest{Code: "MATH101", Name: "Giai tich 1 (sua)", Credits: 4})
	require.NoError(t, err)
	require.True(t, course.Active)
	require.Equal(t, 4, course.Credits)
}
