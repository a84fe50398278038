package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/repositories"
)

type UserPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewUserPostgreSQL(db *gorm.DB, timeout time.Duration) repositories.UserRepository {
	return &UserPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db, timeout),
	}
}

func (u *UserPostgreSQL) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	db, cancel := u.helpers.Session(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrapNotFound(err, "user", username)
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByName(ctx context.Context, name string) (*models.User, error) {
	db, cancel := u.helpers.Session(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("name = ?", name).Order("id ASC").First(&user).Error; err != nil {
		return nil, wrapNotFound(err, "user", name)
	}
	return &user, nil
}

func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	db, cancel := u.helpers.Session(ctx)
	defer cancel()

	query := db.Model(&models.User{})
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}

	users := []*models.User{}
	if err := query.Order("username ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
