package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edumgmt-api/internal/dto"
	"github.com/noah-isme/edumgmt-api/internal/service"
	appErrors "github.com/noah-isme/edumgmt-api/pkg/errors"
	"github.com/noah-isme/edumgmt-api/pkg/response"
)

// RequestHandler exposes the leave / substitution request lifecycle and the
// effective-batch resolver.
type RequestHandler struct {
	requests *service.RequestService
	resolver *service.ResolverService
	exports  *service.ExportService
	metrics  *service.MetricsService
}

// NewRequestHandler creates a new handler.
func NewRequestHandler(requests *service.RequestService, resolver *service.ResolverService, exports *service.ExportService, metrics *service.MetricsService) *RequestHandler {
	return &RequestHandler{requests: requests, resolver: resolver, exports: exports, metrics: metrics}
}

// Create godoc
// @Summary Create leave or substitution request
// @Description Creates a PENDING request for a batch the caller owns
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.CreateRequestPayload true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/leave-requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var payload dto.CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	req, err := h.requests.Create(c.Request.Context(), claimsFromContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.CountRequestEvent(string(req.RequestType), string(req.Status))
	response.Created(c, req)
}

// ListMine godoc
// @Summary List own requests
// @Description Lists every request raised by the calling teacher
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /teacher/leave-requests [get]
func (h *RequestHandler) ListMine(c *gin.Context) {
	items, err := h.requests.ListMine(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, nil)
}

// Update godoc
// @Summary Update a pending request
// @Description Updates a PENDING request owned by the caller
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.UpdateRequestPayload true "Request payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teacher/leave-requests/{id} [put]
func (h *RequestHandler) Update(c *gin.Context) {
	var payload dto.UpdateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	req, err := h.requests.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, req, nil)
}

// Delete godoc
// @Summary Delete a pending request
// @Description Deletes a PENDING request owned by the caller
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teacher/leave-requests/{id} [delete]
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.requests.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "request deleted")
}

// EffectiveBatches godoc
// @Summary Resolve effective batches
// @Description Computes the batches the caller is responsible for on a date
// @Tags Requests
// @Produce json
// @Param date query string true "Target date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/effective-batches [get]
func (h *RequestHandler) EffectiveBatches(c *gin.Context) {
	batches, err := h.resolver.EffectiveBatches(c.Request.Context(), claimsFromContext(c), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, batches, nil)
}

// AdminList godoc
// @Summary List all requests
// @Description Lists every request, optionally filtered by status
// @Tags Requests
// @Produce json
// @Param status query string false "Status filter (PENDING, APPROVED, REJECTED)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /academic/sub-tutor-requests [get]
func (h *RequestHandler) AdminList(c *gin.Context) {
	items, err := h.requests.AdminList(c.Request.Context(), claimsFromContext(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, nil)
}

// Approve godoc
// @Summary Approve a request
// @Description Approves a PENDING request and assigns a substitute
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.ApproveRequestPayload true "Approval payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /academic/sub-tutor-requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *gin.Context) {
	var payload dto.ApproveRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
		return
	}

	req, err := h.requests.Approve(c.Request.Context(), claimsFromContext(c), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.CountRequestEvent(string(req.RequestType), string(req.Status))
	response.JSON(c, http.StatusOK, req, nil)
}

// Reject godoc
// @Summary Reject a request
// @Description Rejects a PENDING request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /academic/sub-tutor-requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *gin.Context) {
	req, err := h.requests.Reject(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.CountRequestEvent(string(req.RequestType), string(req.Status))
	response.JSON(c, http.StatusOK, req, nil)
}

// Export godoc
// @Summary Export requests report
// @Description Renders all requests as a CSV or PDF download
// @Tags Requests
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format (csv or pdf, default csv)"
// @Param status query string false "Status filter"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /academic/sub-tutor-requests/export [get]
func (h *RequestHandler) Export(c *gin.Context) {
	result, err := h.exports.RequestsReport(c.Request.Context(), claimsFromContext(c), c.Query("format"), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
