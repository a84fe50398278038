package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/services"
	"github.com/SAP-F-2025/score-service/internal/utils"
	"github.com/SAP-F-2025/score-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	service   services.PrincipalService
	validator *validator.Validator
}

func NewUserHandler(service services.PrincipalService, validator *validator.Validator, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   validator,
	}
}

// GetUser looks a user up by username, falling back to display name
// @Summary Look up a user
// @Description Students may only look themselves up; anyone else is reported as not found.
// @Tags users
// @Produce json
// @Param username query string true "Username or display name"
// @Success 200 {object} models.UserSummary
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	principal, err := GetPrincipalFromContext(c)
	if err != nil {
		h.handleServiceError(c, services.ErrUnauthorized)
		return
	}

	var req validator.UserLookupRequest
	_ = c.ShouldBindQuery(&req)
	if req.Username == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: "username is required",
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Looking up user", "username", req.Username)

	user, err := h.service.LookupUser(c.Request.Context(), principal, req.Username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "User not found",
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers lists accounts for administrators
// @Summary List users
// @Tags admin
// @Produce json
// @Param role query string false "Role filter (ADMIN, TEACHER, STUDENT)"
// @Success 200 {array} models.UserSummary
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req validator.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.handleServiceError(c, fmt.Errorf("%w: %v", services.ErrValidationFailed, err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Listing users", "role", req.Role)

	var role *models.UserRole
	if r, ok := models.ParseRole(req.Role); ok {
		role = &r
	}

	users, err := h.service.ListUsers(c.Request.Context(), role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
