package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edumgmt-api/internal/dto"
	"github.com/noah-isme/edumgmt-api/internal/middleware"
	"github.com/noah-isme/edumgmt-api/internal/models"
	"github.com/noah-isme/edumgmt-api/internal/service"
)

type exportReaderMock struct {
	items []dto.AdminRequestItem
}

func (m *exportReaderMock) ListAll(ctx context.Context, status *models.RequestStatus) ([]dto.AdminRequestItem, error) {
	return m.items, nil
}

func newJSONContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestRequestHandlerCreateInvalidBody(t *testing.T) {
	handler := NewRequestHandler(nil, nil, nil, nil)
	c, recorder := newJSONContext(t, http.MethodPost, "/teacher/leave-requests", []byte(`not json`))

	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeEnvelope(t, recorder)
	assert.Equal(t, false, body["success"])
}

func TestRequestHandlerUpdateInvalidBody(t *testing.T) {
	handler := NewRequestHandler(nil, nil, nil, nil)
	c, recorder := newJSONContext(t, http.MethodPut, "/teacher/leave-requests/req-1", []byte(`{`))
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}

	handler.Update(c)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRequestHandlerApproveInvalidBody(t *testing.T) {
	handler := NewRequestHandler(nil, nil, nil, nil)
	c, recorder := newJSONContext(t, http.MethodPost, "/academic/sub-tutor-requests/req-1/approve", []byte(`{`))
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}

	handler.Approve(c)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeEnvelope(t, recorder)
	assert.Equal(t, false, body["success"])
}

func TestRequestHandlerExportSetsDownloadHeaders(t *testing.T) {
	reason := "medical"
	reader := &exportReaderMock{items: []dto.AdminRequestItem{{
		ID:          "req-1",
		BatchName:   "Batch Alpha",
		RequestType: string(models.RequestTypeLeave),
		Status:      string(models.RequestStatusApproved),
		Reason:      &reason,
		DateFrom:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		DateTo:      time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC),
	}}}
	exports := service.NewExportService(reader, true, nil, nil, nil)
	handler := NewRequestHandler(nil, nil, exports, nil)

	c, recorder := newJSONContext(t, http.MethodGet, "/academic/sub-tutor-requests/export?format=csv", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "ac-1", Role: models.RoleAcademic})

	handler.Export(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/csv", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "attachment; filename=")
	assert.Contains(t, recorder.Body.String(), "Batch Alpha")
}

func TestRequestHandlerExportForbiddenForTeachers(t *testing.T) {
	exports := service.NewExportService(&exportReaderMock{}, true, nil, nil, nil)
	handler := NewRequestHandler(nil, nil, exports, nil)

	c, recorder := newJSONContext(t, http.MethodGet, "/academic/sub-tutor-requests/export", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleTeacher})

	handler.Export(c)

	require.Equal(t, http.StatusForbidden, recorder.Code)
}
