// Package policy decides what an authenticated principal may see. Every
// function denies by default: an unrecognised role gets nothing.
package policy

import (
	"strings"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/validator"
)

// CanIssueQuery reports whether p may run a score query of kind for key.
// Staff may query any well-formed key; a student may only query their own
// student id.
func CanIssueQuery(p *models.Principal, kind models.QueryKind, key string) bool {
	if p == nil {
		return false
	}

	switch p.Role {
	case models.RoleAdmin, models.RoleTeacher:
		return validator.IsQueryKey(kind, key)
	case models.RoleStudent:
		return kind == models.QueryByStudent && key != "" && key == p.Username
	default:
		return false
	}
}

// VisibleStudents filters all down to the students p may see. A student sees
// at most the record whose student id equals their username.
func VisibleStudents(p *models.Principal, all []*models.Student) []*models.Student {
	if p == nil {
		return []*models.Student{}
	}

	switch p.Role {
	case models.RoleAdmin, models.RoleTeacher:
		return all
	case models.RoleStudent:
		visible := make([]*models.Student, 0, 1)
		for _, s := range all {
			if s.StudentID == p.Username {
				visible = append(visible, s)
			}
		}
		return visible
	default:
		return []*models.Student{}
	}
}

// CanLookupUser reports whether p may read the account record of u.
func CanLookupUser(p *models.Principal, u *models.User) bool {
	if p == nil || u == nil {
		return false
	}

	switch p.Role {
	case models.RoleAdmin, models.RoleTeacher:
		return true
	case models.RoleStudent:
		return u.Username == p.Username
	default:
		return false
	}
}

// CapabilitiesFor returns the UI capability flags of role.
func CapabilitiesFor(role models.UserRole) models.Capabilities {
	switch role {
	case models.RoleAdmin:
		return models.Capabilities{
			ManageUsers:   true,
			ManageCourses: true,
			ViewAllScores: true,
			ExportScores:  true,
		}
	case models.RoleTeacher:
		return models.Capabilities{
			ManageCourses: true,
			ViewAllScores: true,
			ExportScores:  true,
		}
	default:
		return models.Capabilities{}
	}
}

var restrictedPrefixes = map[models.UserRole][]string{
	models.RoleAdmin:   nil,
	models.RoleTeacher: {"/admin"},
	models.RoleStudent: {"/admin", "/teacher"},
}

// CanAccessPath applies the role path restrictions to a route path relative
// to the API root, e.g. "/admin/users".
func CanAccessPath(role models.UserRole, path string) bool {
	blocked, ok := restrictedPrefixes[role]
	if !ok {
		return false
	}

	for _, prefix := range blocked {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return false
		}
	}
	return true
}
