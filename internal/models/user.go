package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// ParseRole normalises a role claim. Unknown values return ok=false.
func ParseRole(s string) (UserRole, bool) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleTeacher:
		return RoleTeacher, true
	case RoleStudent:
		return RoleStudent, true
	default:
		return "", false
	}
}

// IsStaff reports whether the role has full score visibility.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleTeacher
}

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher || r == RoleStudent
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:100"`
	PasswordHash []byte   `json:"-" gorm:"column:password;not null"`
	Name         string   `json:"name" gorm:"not null;size:100;index"`
	Role         UserRole `json:"role" gorm:"not null;size:20;default:STUDENT"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// SetPassword hashes pwd with bcrypt and stores the hash.
func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// UserSummary is the public projection returned by /users.
type UserSummary struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	Username string   `json:"username"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Role:     u.Role,
		Username: u.Username,
	}
}
