package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/policy"
	"github.com/SAP-F-2025/score-service/internal/services"
	"github.com/SAP-F-2025/score-service/internal/utils"
	"github.com/SAP-F-2025/score-service/internal/validator"
)

type ScoreHandler struct {
	BaseHandler
	service   services.ScoreService
	export    services.ExportService
	validator *validator.Validator
}

func NewScoreHandler(service services.ScoreService, export services.ExportService, validator *validator.Validator, logger utils.Logger) *ScoreHandler {
	return &ScoreHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
		validator:   validator,
	}
}

// GetScores answers a score query by student or by course
// @Summary Query scores
// @Description Get the scores and statistics of a student or of a course. courseId wins when both are given.
// @Tags scores
// @Produce json
// @Param studentId query string false "Seven digit student id"
// @Param courseId query string false "Course id (CS + three digits)"
// @Success 200 {object} models.ScoreQueryResult
// @Failure 400 {object} models.ScoreQueryResult "Missing studentId or courseId"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} models.ScoreQueryResult "Internal server error"
// @Router /scores [get]
func (h *ScoreHandler) GetScores(c *gin.Context) {
	kind, key, ok := h.authorizeQuery(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Querying scores", "kind", kind, "key", key)

	result, err := h.service.Query(c.Request.Context(), kind, key)
	if err != nil {
		if errors.Is(err, services.ErrValidationFailed) {
			h.handleServiceError(c, err)
			return
		}
		h.LogError(c, err, "Score query failed", "kind", kind, "key", key)
		c.JSON(http.StatusInternalServerError, models.EmptyResult(kind, services.MsgInternalError))
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportScores renders a score query as a spreadsheet
// @Summary Export scores
// @Description Download the scores and statistics of a student or of a course as an xlsx workbook
// @Tags scores
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param studentId query string false "Seven digit student id"
// @Param courseId query string false "Course id (CS + three digits)"
// @Success 200 {file} file
// @Failure 400 {object} models.ScoreQueryResult "Missing studentId or courseId"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /scores/export [get]
func (h *ScoreHandler) ExportScores(c *gin.Context) {
	kind, key, ok := h.authorizeQuery(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting scores", "kind", kind, "key", key)

	file, err := h.export.ExportScores(c.Request.Context(), kind, key)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// authorizeQuery parses the query parameters and checks the principal may
// issue the query. It writes the response and returns ok=false otherwise.
func (h *ScoreHandler) authorizeQuery(c *gin.Context) (models.QueryKind, string, bool) {
	principal, err := GetPrincipalFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return "", "", false
	}

	var req validator.ScoreQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.handleServiceError(c, fmt.Errorf("%w: %v", services.ErrValidationFailed, err))
		return "", "", false
	}

	if req.StudentID == "" && req.CourseID == "" {
		c.JSON(http.StatusBadRequest, models.EmptyResult(models.QueryByCourse, services.MsgMissingKey))
		return "", "", false
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return "", "", false
	}

	kind, key := models.QueryByStudent, req.StudentID
	if req.CourseID != "" {
		kind, key = models.QueryByCourse, req.CourseID
	}

	// Malformed keys are answered with a not-found result by the service, so
	// the policy is only consulted for well-formed ones.
	if !principal.Role.Valid() || (validator.IsQueryKey(kind, key) && !policy.CanIssueQuery(principal, kind, key)) {
		utils.GetLogger(c, h.logger).Warn("Score query denied", "username", principal.Username, "kind", kind)
		h.forbidden(c)
		return "", "", false
	}

	return kind, key, true
}
