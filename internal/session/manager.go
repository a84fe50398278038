package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/utils"
)

const keyPrefix = "session:"

// jtiPattern matches exactly one uuid session id.
const jtiPattern = "????????-????-????-????-????????????"

var (
	ErrInvalidToken   = errors.New("invalid session token")
	ErrSessionRevoked = errors.New("session revoked")
)

// Claims is the payload of a locally issued session token. The registered
// jti identifies the session record in the store.
type Claims struct {
	models.SessionClaims
	jwt.RegisteredClaims
}

// record is what the store keeps per live session.
type record struct {
	Username string    `json:"username"`
	Role     string    `json:"role"`
	IssuedAt time.Time `json:"issued_at"`
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	store  *Store
	logger utils.Logger
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, store *Store, logger utils.Logger) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for p and registers the session.
func (m *Manager) Issue(ctx context.Context, p models.Principal) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	jti := uuid.NewString()

	claims := Claims{
		SessionClaims: models.SessionClaims{
			UserID:   p.ID,
			Name:     p.Name,
			Username: p.Username,
			Role:     string(p.Role),
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	rec := record{Username: p.Username, Role: string(p.Role), IssuedAt: now}
	if err := m.store.Put(ctx, sessionKey(p.Username, jti), rec, m.ttl); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to register session: %w", err)
	}

	m.logger.Debug("Session issued", "username", p.Username, "jti", jti)
	return token, expiresAt, nil
}

// Parse verifies the token signature and expiry, then checks that the session
// has not been revoked. Without a backing store revocation is not tracked.
func (m *Manager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || claims.Username == "" {
		return nil, ErrInvalidToken
	}

	var rec record
	err = m.store.Get(ctx, sessionKey(claims.Username, claims.ID), &rec)
	switch {
	case errors.Is(err, ErrStoreNotAvailable):
		return claims, nil
	case errors.Is(err, ErrSessionNotFound):
		return nil, ErrSessionRevoked
	case err != nil:
		return nil, err
	case rec.Username != claims.Username:
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke ends the session identified by claims.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if err := m.store.Delete(ctx, sessionKey(claims.Username, claims.ID)); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	m.logger.Debug("Session revoked", "username", claims.Username, "jti", claims.ID)
	return nil
}

// RevokeAll ends every session of username and returns how many were live.
func (m *Manager) RevokeAll(ctx context.Context, username string) (int, error) {
	n, err := m.store.DeletePattern(ctx, sessionKey(escapeGlob(username), jtiPattern))
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	m.logger.Debug("Sessions revoked", "username", username, "count", n)
	return n, nil
}

func sessionKey(username, jti string) string {
	return username + ":" + jti
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

// escapeGlob quotes the Redis SCAN glob metacharacters in s.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
