package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/policy"
	"github.com/SAP-F-2025/score-service/internal/services"
	"github.com/SAP-F-2025/score-service/internal/session"
	"github.com/SAP-F-2025/score-service/internal/utils"
	"github.com/SAP-F-2025/score-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	principals   services.PrincipalService
	sessions     *session.Manager
	validator    *validator.Validator
	cookieName   string
	secureCookie bool
}

type AuthHandlerConfig struct {
	Principals   services.PrincipalService
	Sessions     *session.Manager
	Validator    *validator.Validator
	CookieName   string
	SecureCookie bool
	Logger       utils.Logger
}

func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  NewBaseHandler(cfg.Logger),
		principals:   cfg.Principals,
		sessions:     cfg.Sessions,
		validator:    cfg.Validator,
		cookieName:   cfg.CookieName,
		secureCookie: cfg.SecureCookie,
	}
}

// Login exchanges credentials for a session token
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: "Invalid request body",
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Login attempt", "username", req.Username)

	principal, err := h.principals.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	token, expiresAt, err := h.sessions.Issue(c.Request.Context(), *principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		Principal: *principal,
	})
}

// Logout revokes the current session, or all sessions of the user
// @Summary Log out
// @Tags auth
// @Param all query bool false "End every session of the user"
// @Success 204
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req validator.LogoutRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: "Invalid query parameters",
		})
		return
	}

	if claims, ok := getSessionClaims(c); ok && h.sessions != nil {
		if err := h.revoke(c, claims, req.All); err != nil {
			h.handleServiceError(c, err)
			return
		}
	}

	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) revoke(c *gin.Context, claims *session.Claims, all bool) error {
	if !all {
		if err := h.sessions.Revoke(c.Request.Context(), claims); err != nil {
			return err
		}
		h.LogRequest(c, "Logged out")
		return nil
	}

	n, err := h.sessions.RevokeAll(c.Request.Context(), claims.Username)
	if err != nil {
		return err
	}
	h.LogRequest(c, "Logged out everywhere", "sessions", n)
	return nil
}

// GetSession returns the current principal and its capabilities
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	principal, err := GetPrincipalFromContext(c)
	if err != nil {
		h.handleServiceError(c, services.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		Principal:    *principal,
		Capabilities: policy.CapabilitiesFor(principal.Role),
	})
}
