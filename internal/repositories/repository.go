package repositories

import (
	"context"
	"errors"
)

// ErrNotFound is returned (wrapped) when a looked-up entity does not exist.
var ErrNotFound = errors.New("record not found")

// Repository groups the read-only gateways over the four relations.
type Repository interface {
	Student() StudentRepository
	Course() CourseRepository
	Score() ScoreRepository
	User() UserRepository

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
