package validator

// ScoreQueryRequest is the query string of GET /scores. Key formats are not
// enforced here: a malformed key is answered with a not-found result.
type ScoreQueryRequest struct {
	StudentID string `form:"studentId" validate:"required_without=CourseID"`
	CourseID  string `form:"courseId" validate:"required_without=StudentID"`
}

// StudentListRequest is the query string of GET /students.
type StudentListRequest struct {
	Role     string `form:"role" validate:"omitempty,user_role"`
	Username string `form:"username" validate:"omitempty,max=100"`
}

// UserLookupRequest is the query string of GET /users.
type UserLookupRequest struct {
	Username string `form:"username" validate:"required,max=100"`
}

// UserListRequest is the query string of GET /admin/users.
type UserListRequest struct {
	Role string `form:"role" validate:"omitempty,user_role"`
}

// LogoutRequest is the query string of POST /auth/logout. All ends every
// session of the principal instead of the current one.
type LogoutRequest struct {
	All bool `form:"all"`
}
