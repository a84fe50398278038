package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/score-service/internal/config"
	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/policy"
	"github.com/SAP-F-2025/score-service/internal/services"
	"github.com/SAP-F-2025/score-service/internal/session"
	"github.com/SAP-F-2025/score-service/internal/utils"
)

// CasdoorVerifier verifies tokens issued by a Casdoor server.
type CasdoorVerifier interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// NewCasdoorVerifier builds a Casdoor SDK client from cfg.
func NewCasdoorVerifier(cfg config.CasdoorConfig) CasdoorVerifier {
	return casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)
}

// AuthMiddleware authenticates requests with either a locally issued session
// token or a Casdoor token, then resolves the principal.
type AuthMiddleware struct {
	BaseHandler
	provider   string
	cookieName string
	sessions   *session.Manager
	casdoor    CasdoorVerifier
	principals services.PrincipalService
}

type AuthMiddlewareConfig struct {
	Provider   string
	CookieName string
	Sessions   *session.Manager
	Casdoor    CasdoorVerifier
	Principals services.PrincipalService
	Logger     utils.Logger
}

func NewAuthMiddleware(cfg AuthMiddlewareConfig) *AuthMiddleware {
	return &AuthMiddleware{
		BaseHandler: NewBaseHandler(cfg.Logger),
		provider:    cfg.Provider,
		cookieName:  cfg.CookieName,
		sessions:    cfg.Sessions,
		casdoor:     cfg.Casdoor,
		principals:  cfg.Principals,
	}
}

// Authenticate returns a Gin middleware that rejects unauthenticated
// requests with 401 and stores the principal in the context.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := am.extractToken(c)
		if token == "" {
			am.unauthorized(c)
			return
		}

		principal, claims, err := am.authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrStoreUnavailable) {
				am.handleServiceError(c, err)
				c.Abort()
				return
			}
			utils.GetLogger(c, am.logger).Debug("Authentication failed", "error", err)
			am.unauthorized(c)
			return
		}

		c.Set(principalKey, principal)
		if claims != nil {
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

// RequireRoleMiddleware checks that the principal has one of roles. ADMIN
// always passes.
func (am *AuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := GetPrincipalFromContext(c)
		if err != nil {
			am.forbidden(c)
			return
		}

		for _, role := range roles {
			if principal.Role == role || principal.Role == models.RoleAdmin {
				c.Next()
				return
			}
		}
		am.forbidden(c)
	}
}

// PathPolicyMiddleware applies the per-role path restrictions to every route
// under apiPrefix.
func (am *AuthMiddleware) PathPolicyMiddleware(apiPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := GetPrincipalFromContext(c)
		if err != nil {
			am.forbidden(c)
			return
		}

		path := strings.TrimPrefix(c.FullPath(), apiPrefix)
		if !policy.CanAccessPath(principal.Role, path) {
			am.forbidden(c)
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) authenticate(ctx context.Context, token string) (*models.Principal, *session.Claims, error) {
	switch am.provider {
	case config.AuthProviderCasdoor:
		if am.casdoor == nil {
			return nil, nil, fmt.Errorf("casdoor provider not configured")
		}
		cc, err := am.casdoor.ParseJwtToken(token)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid casdoor token: %w", err)
		}
		principal, err := am.principals.Resolve(ctx, claimsFromCasdoor(cc))
		return principal, nil, err

	default:
		claims, err := am.sessions.Parse(ctx, token)
		if err != nil {
			return nil, nil, err
		}
		principal, err := am.principals.Resolve(ctx, claims.SessionClaims)
		if err != nil {
			return nil, nil, err
		}
		return principal, claims, nil
	}
}

func (am *AuthMiddleware) extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if am.cookieName != "" {
		if cookie, err := c.Cookie(am.cookieName); err == nil {
			return cookie
		}
	}
	return ""
}

func (am *AuthMiddleware) unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: "Authentication required",
	})
}

// claimsFromCasdoor maps a Casdoor token onto session claims. An unmapped
// user type leaves the role empty so the resolver looks the user up.
func claimsFromCasdoor(cc *casdoorsdk.Claims) models.SessionClaims {
	return models.SessionClaims{
		UserID:   cc.User.Id,
		Name:     cc.User.DisplayName,
		Username: cc.User.Name,
		Role:     string(mapCasdoorType(cc.User.Type)),
	}
}

func mapCasdoorType(casdoorType string) models.UserRole {
	switch strings.ToLower(casdoorType) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "teacher", "instructor", "educator":
		return models.RoleTeacher
	case "student", "learner":
		return models.RoleStudent
	default:
		return ""
	}
}
