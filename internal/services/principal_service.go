package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/score-service/internal/metrics"
	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/policy"
	"github.com/SAP-F-2025/score-service/internal/repositories"
)

type principalService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewPrincipalService(repo repositories.Repository, logger *slog.Logger) PrincipalService {
	return &principalService{
		repo:   repo,
		logger: logger,
	}
}

// Resolve turns session claims into a Principal. Claims with a recognised
// role are trusted as they are; otherwise the account is looked up by
// username, then by name.
func (s *principalService) Resolve(ctx context.Context, claims models.SessionClaims) (*models.Principal, error) {
	if role, ok := models.ParseRole(claims.Role); ok && claims.Username != "" {
		return &models.Principal{
			ID:       claims.UserID,
			Name:     claims.Name,
			Username: claims.Username,
			Role:     role,
		}, nil
	}

	ident := claims.Username
	if ident == "" {
		ident = claims.Name
	}
	if ident == "" {
		return nil, fmt.Errorf("%w: session carries no identity", ErrUnauthorized)
	}

	user, err := s.findUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Resolved principal from store", "username", user.Username, "role", user.Role)
	return principalFromUser(user), nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords fail the same way.
func (s *principalService) Authenticate(ctx context.Context, username, password string) (*models.Principal, error) {
	user, err := s.repo.User().GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return nil, storeError("failed to get user", err)
	}

	if err := user.CheckPassword(password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("accepted").Inc()
	return principalFromUser(user), nil
}

// LookupUser finds an account by username or, failing that, by name. A user
// the principal may not see is reported as not found.
func (s *principalService) LookupUser(ctx context.Context, principal *models.Principal, username string) (*models.UserSummary, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if !policy.CanLookupUser(principal, user) {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}

	summary := user.Summary()
	return &summary, nil
}

func (s *principalService) ListUsers(ctx context.Context, role *models.UserRole) ([]models.UserSummary, error) {
	users, err := s.repo.User().List(ctx, repositories.UserFilters{Role: role})
	if err != nil {
		return nil, storeError("failed to list users", err)
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	return summaries, nil
}

func (s *principalService) findUser(ctx context.Context, ident string) (*models.User, error) {
	user, err := s.repo.User().GetByUsername(ctx, ident)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeError("failed to get user", err)
	}

	user, err = s.repo.User().GetByName(ctx, ident)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, ident)
		}
		return nil, storeError("failed to get user", err)
	}
	return user, nil
}

func principalFromUser(u *models.User) *models.Principal {
	return &models.Principal{
		ID:       strconv.FormatUint(uint64(u.ID), 10),
		Name:     u.Name,
		Username: u.Username,
		Role:     u.Role,
	}
}
