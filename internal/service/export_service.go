package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edumgmt-api/internal/dto"
	"github.com/noah-isme/edumgmt-api/internal/models"
	appErrors "github.com/noah-isme/edumgmt-api/pkg/errors"
	"github.com/noah-isme/edumgmt-api/pkg/export"
)

// ExportFormat identifies a supported report rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type exportRequestReader interface {
	ListAll(ctx context.Context, status *models.RequestStatus) ([]dto.AdminRequestItem, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered report ready to be written to the response.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the admin leave / substitution report.
type ExportService struct {
	requests exportRequestReader
	csv      csvRenderer
	pdf      pdfRenderer
	enabled  bool
	now      func() time.Time
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(requests exportRequestReader, enabled bool, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		requests: requests,
		csv:      csv,
		pdf:      pdf,
		enabled:  enabled,
		now:      time.Now,
		logger:   logger,
	}
}

// RequestsReport renders every request (optionally filtered by status) as a
// CSV or PDF download for academic/admin callers.
func (s *ExportService) RequestsReport(ctx context.Context, claims *models.JWTClaims, rawFormat, rawStatus string) (*ExportResult, error) {
	if err := requireAcademic(claims); err != nil {
		return nil, err
	}
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	format := ExportFormat(strings.ToLower(strings.TrimSpace(rawFormat)))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", rawFormat))
	}

	var status *models.RequestStatus
	if rawStatus != "" {
		candidate := models.RequestStatus(strings.ToUpper(rawStatus))
		if !candidate.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", rawStatus))
		}
		status = &candidate
	}

	items, err := s.requests.ListAll(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load requests")
	}

	dataset := buildRequestsDataset(items)
	title := "Leave & Substitution Requests"
	if status != nil {
		title = fmt.Sprintf("%s (%s)", title, *status)
	}

	var payload []byte
	var contentType string
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := fmt.Sprintf("requests_%s.%s", s.now().UTC().Format("20060102_150405"), format)
	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func buildRequestsDataset(items []dto.AdminRequestItem) export.Dataset {
	headers := []string{"ID", "Batch", "Type", "Status", "Main Teacher", "Substitute", "From", "To", "Reason", "Created At"}
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, map[string]string{
			"ID":           item.ID,
			"Batch":        item.BatchName,
			"Type":         item.RequestType,
			"Status":       item.Status,
			"Main Teacher": derefString(item.MainTeacherName),
			"Substitute":   derefString(item.SubTeacherName),
			"From":         item.DateFrom.Format(dateLayout),
			"To":           item.DateTo.Format(dateLayout),
			"Reason":       derefString(item.Reason),
			"Created At":   item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func derefString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
