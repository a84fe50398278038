package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/session"
)

const (
	principalKey = "principal"
	claimsKey    = "session_claims"
)

// GetPrincipalFromContext returns the principal set by the auth middleware.
func GetPrincipalFromContext(c *gin.Context) (*models.Principal, error) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, fmt.Errorf("principal not found in context")
	}

	p, ok := v.(*models.Principal)
	if !ok || p == nil {
		return nil, fmt.Errorf("invalid principal type in context")
	}
	return p, nil
}

// getSessionClaims returns the local session claims, if the request carried
// a locally issued token.
func getSessionClaims(c *gin.Context) (*session.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*session.Claims)
	return claims, ok && claims != nil
}
