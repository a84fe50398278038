package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/score-service/internal/repositories"
)

// DefaultStoreTimeout bounds a single store call when no timeout is configured.
const DefaultStoreTimeout = 5 * time.Second

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewSharedHelpers(db *gorm.DB, timeout time.Duration) *SharedHelpers {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &SharedHelpers{db: db, timeout: timeout}
}

// Session returns a DB handle bound to ctx with the store timeout applied.
// The returned cancel func must be called once the query has finished.
func (h *SharedHelpers) Session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	return h.db.WithContext(ctx), cancel
}

// Exists reports whether any row of model matches the condition.
func (h *SharedHelpers) Exists(ctx context.Context, model interface{}, query string, args ...interface{}) (bool, error) {
	db, cancel := h.Session(ctx)
	defer cancel()

	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// wrapNotFound maps gorm.ErrRecordNotFound to repositories.ErrNotFound.
func wrapNotFound(err error, entity, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %q: %w", entity, key, repositories.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", entity, err)
}

// orderScoresByCourse and orderScoresByStudent keep joined score rows stable.
func orderScoresByCourse(db *gorm.DB) *gorm.DB {
	return db.Order("scores.course_id ASC")
}

func orderScoresByStudent(db *gorm.DB) *gorm.DB {
	return db.Order("scores.student_id ASC")
}
