package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edumgmt-api/internal/dto"
	"github.com/noah-isme/edumgmt-api/internal/service"
	"github.com/noah-isme/edumgmt-api/pkg/response"
)

// TeacherHandler exposes the teacher roster and teacher self-service lookups.
type TeacherHandler struct {
	service *service.TeacherService
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(svc *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{service: svc}
}

// List godoc
// @Summary List teachers
// @Description Lists the teacher roster with pagination and search
// @Tags Teachers
// @Produce json
// @Param search query string false "Name or email search"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	filter := dto.TeacherFilter{
		Search:   c.Query("search"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}

	items, pagination, err := h.service.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, pagination)
}

// MyID godoc
// @Summary Resolve own teacher id
// @Description Returns the teacher record id for the calling user
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/my-id [get]
func (h *TeacherHandler) MyID(c *gin.Context) {
	teacherID, err := h.service.MyTeacherID(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"teacher_id": teacherID}, nil)
}

// MyBatches godoc
// @Summary List own batches
// @Description Lists the batches the caller owns today, excluding leave days
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/batches [get]
func (h *TeacherHandler) MyBatches(c *gin.Context) {
	batches, err := h.service.MyBatches(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, batches, nil)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
