package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/score-service/internal/services"
	"github.com/SAP-F-2025/score-service/internal/utils"
	"github.com/SAP-F-2025/score-service/internal/validator"
)

type StudentHandler struct {
	BaseHandler
	service   services.StudentService
	validator *validator.Validator
}

func NewStudentHandler(service services.StudentService, validator *validator.Validator, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   validator,
	}
}

// ListStudents returns the students visible to the current principal
// @Summary List students
// @Description Students only ever see their own record; staff may narrow with role and username.
// @Tags students
// @Produce json
// @Param role query string false "Role filter (ADMIN, TEACHER, STUDENT)"
// @Param username query string false "Username filter"
// @Success 200 {array} models.Student
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	principal, err := GetPrincipalFromContext(c)
	if err != nil {
		h.handleServiceError(c, services.ErrUnauthorized)
		return
	}

	var req validator.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.handleServiceError(c, fmt.Errorf("%w: %v", services.ErrValidationFailed, err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Listing students", "role", principal.Role)

	students, err := h.service.List(c.Request.Context(), principal, services.StudentListParams{
		Role:     req.Role,
		Username: req.Username,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
