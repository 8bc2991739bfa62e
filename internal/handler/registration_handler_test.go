package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	"github.com/nhan-trinh/phongdaotao/internal/service"
)

type registrationStoreStub struct {
	kind          models.RegistrationKind
	registrations map[string]*models.Registration
	lastFilter    models.RegistrationFilter
}

func newRegistrationStoreStub(kind models.RegistrationKind) *registrationStoreStub {
	return &registrationStoreStub{kind: kind, registrations: make(map[string]*models.Registration)}
}

func (s *registrationStoreStub) Kind() models.RegistrationKind { return s.kind }

func (s *registrationStoreStub) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error) {
	s.lastFilter = filter
	result := make([]models.RegistrationDetail, 0, len(s.registrations))
	for _, reg := range s.registrations {
		if filter.Status != nil && reg.Status != *filter.Status {
			continue
		}
		result = append(result, models.RegistrationDetail{Registration: *reg})
	}
	return result, len(result), nil
}

func (s *registrationStoreStub) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	if reg, ok := s.registrations[id]; ok {
		copy := *reg
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *registrationStoreStub) FindDetailByID(ctx context.Context, id string) (*models.RegistrationDetail, error) {
	reg, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.RegistrationDetail{Registration: *reg}, nil
}

func (s *registrationStoreStub) Create(ctx context.Context, registration *models.Registration) error {
	if registration.ID == "" {
		registration.ID = "reg-new"
	}
	registration.Status = models.RegistrationStatusPending
	registration.RequestedAt = time.Now().UTC()
	copy := *registration
	s.registrations[registration.ID] = &copy
	return nil
}

func (s *registrationStoreStub) UpdateStatusIfPending(ctx context.Context, id string, status models.RegistrationStatus, decidedAt time.Time) error {
	reg, ok := s.registrations[id]
	if !ok || reg.Status != models.RegistrationStatusPending {
		return sql.ErrNoRows
	}
	reg.Status = status
	reg.DecidedAt = &decidedAt
	return nil
}

func (s *registrationStoreStub) CountByStatus(ctx context.Context) ([]models.RegistrationStatusCount, error) {
	return nil, nil
}

func newRegistrationTestHandler(stub *registrationStoreStub) *RegistrationHandler {
	svc := service.NewRegistrationService([]service.RegistrationStore{stub}, nil, nil)
	return NewRegistrationHandler(svc, stub.kind)
}

type testEnvelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestRegistrationHandlerDecideSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := newRegistrationStoreStub(models.RegistrationKindCourse)
	stub.registrations["reg-1"] = &models.Registration{ID: "reg-1", Status: models.RegistrationStatusPending}
	handler := newRegistrationTestHandler(stub)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/course-registrations/decide",
		strings.NewReader(`{"registration_id":"reg-1","status":"Approved"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Decide(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, models.RegistrationStatusApproved, stub.registrations["reg-1"].Status)
}

func TestRegistrationHandlerDecideAlreadyDecided(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := newRegistrationStoreStub(models.RegistrationKindCourse)
	stub.registrations["reg-1"] = &models.Registration{ID: "reg-1", Status: models.RegistrationStatusRejected}
	handler := newRegistrationTestHandler(stub)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/course-registrations/decide",
		strings.NewReader(`{"registration_id":"reg-1","status":"approved"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Decide(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "error", envelope.Status)
	assert.Equal(t, "INVALID_TRANSITION", envelope.Code)
}

func TestRegistrationHandlerDecideNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRegistrationTestHandler(newRegistrationStoreStub(models.RegistrationKindCourse))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/course-registrations/decide",
		strings.NewReader(`{"registration_id":"missing","status":"rejected"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Decide(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegistrationHandlerDecideInvalidStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRegistrationTestHandler(newRegistrationStoreStub(models.RegistrationKindCourse))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/course-registrations/decide",
		strings.NewReader(`{"registration_id":"reg-1","status":"pending"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Decide(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegistrationHandlerDecideBulkPartialFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := newRegistrationStoreStub(models.RegistrationKindRetakeExam)
	stub.registrations["a"] = &models.Registration{ID: "a", Status: models.RegistrationStatusPending}
	stub.registrations["b"] = &models.Registration{ID: "b", Status: models.RegistrationStatusApproved}
	handler := newRegistrationTestHandler(stub)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/retake-exam-registrations/decide/bulk",
		strings.NewReader(`{"registration_ids":["a","b"],"status":"approved"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.DecideBulk(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	var result struct {
		Outcomes []struct {
			RegistrationID string `json:"registration_id"`
			Applied        bool   `json:"applied"`
			ErrorCode      string `json:"error_code"`
		} `json:"outcomes"`
		Applied int `json:"applied"`
		Failed  int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Outcomes[0].Applied)
	assert.Equal(t, "INVALID_TRANSITION", result.Outcomes[1].ErrorCode)
}

func TestRegistrationHandlerListStatusFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := newRegistrationStoreStub(models.RegistrationKindCourse)
	handler := newRegistrationTestHandler(stub)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/course-registrations?status=PeNdInG", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastFilter.Status)
	assert.Equal(t, models.RegistrationStatusPending, *stub.lastFilter.Status)
}

func TestRegistrationHandlerListIgnoresUnknownStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := newRegistrationStoreStub(models.RegistrationKindCourse)
	handler := newRegistrationTestHandler(stub)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/course-registrations?status=banana", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, stub.lastFilter.Status)
}

func TestRegistrationHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := newRegistrationStoreStub(models.RegistrationKindRetakeCourse)
	handler := newRegistrationTestHandler(stub)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/retake-course-registrations",
		strings.NewReader(`{"student_id":"student-1","course_id":"course-1","reason":"failed"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, stub.registrations, 1)
}
