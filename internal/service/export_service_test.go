package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edumgmt-api/internal/dto"
	"github.com/noah-isme/edumgmt-api/internal/models"
	appErrors "github.com/noah-isme/edumgmt-api/pkg/errors"
)

type exportRequestsStub struct {
	items    []dto.AdminRequestItem
	statuses []*models.RequestStatus
}

func (s *exportRequestsStub) ListAll(ctx context.Context, status *models.RequestStatus) ([]dto.AdminRequestItem, error) {
	s.statuses = append(s.statuses, status)
	return s.items, nil
}

func exportItemFixture() dto.AdminRequestItem {
	teacher := "Alice"
	sub := "Bob"
	return dto.AdminRequestItem{
		ID:              "req-1",
		BatchID:         "batch-1",
		BatchName:       "Batch Alpha",
		RequestType:     "LEAVE",
		Status:          "APPROVED",
		MainTeacherName: &teacher,
		SubTeacherName:  &sub,
		DateFrom:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		DateTo:          time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		CreatedAt:       time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC),
	}
}

func TestExportServiceCSV(t *testing.T) {
	repo := &exportRequestsStub{items: []dto.AdminRequestItem{exportItemFixture()}}
	service := NewExportService(repo, true, zap.NewNop(), nil, nil)

	result, err := service.RequestsReport(context.Background(), academicClaims(), "csv", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Payload)
	assert.Contains(t, body, "Batch Alpha")
	assert.Contains(t, body, "2024-01-10")
	assert.Contains(t, body, "Alice")
}

func TestExportServiceDefaultsToCSV(t *testing.T) {
	repo := &exportRequestsStub{}
	service := NewExportService(repo, true, zap.NewNop(), nil, nil)

	result, err := service.RequestsReport(context.Background(), academicClaims(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
}

func TestExportServicePDF(t *testing.T) {
	repo := &exportRequestsStub{items: []dto.AdminRequestItem{exportItemFixture()}}
	service := NewExportService(repo, true, zap.NewNop(), nil, nil)

	result, err := service.RequestsReport(context.Background(), academicClaims(), "pdf", "APPROVED")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.Payload)
	require.Len(t, repo.statuses, 1)
	require.NotNil(t, repo.statuses[0])
	assert.Equal(t, models.RequestStatusApproved, *repo.statuses[0])
}

func TestExportServiceUnknownFormat(t *testing.T) {
	service := NewExportService(&exportRequestsStub{}, true, zap.NewNop(), nil, nil)

	_, err := service.RequestsReport(context.Background(), academicClaims(), "xlsx", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceUnknownStatus(t *testing.T) {
	service := NewExportService(&exportRequestsStub{}, true, zap.NewNop(), nil, nil)

	_, err := service.RequestsReport(context.Background(), academicClaims(), "csv", "CANCELLED")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceDisabled(t *testing.T) {
	service := NewExportService(&exportRequestsStub{}, false, zap.NewNop(), nil, nil)

	_, err := service.RequestsReport(context.Background(), academicClaims(), "csv", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestExportServiceTeacherForbidden(t *testing.T) {
	service := NewExportService(&exportRequestsStub{}, true, zap.NewNop(), nil, nil)

	_, err := service.RequestsReport(context.Background(), teacherClaims("user-1"), "csv", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestBuildRequestsDataset(t *testing.T) {
	dataset := buildRequestsDataset([]dto.AdminRequestItem{exportItemFixture()})
	assert.Equal(t, []string{"ID", "Batch", "Type", "Status", "Main Teacher", "Substitute", "From", "To", "Reason", "Created At"}, dataset.Headers)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "Bob", dataset.Rows[0]["Substitute"])
	assert.Equal(t, "", dataset.Rows[0]["Reason"])
}
