package models

import "time"

// UserRole represents the available roles for the RBAC system. The set is
// closed: every endpoint matches against these constants, never raw strings.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleAcademic UserRole = "ACADEMIC"
	RoleTeacher  UserRole = "TEACHER"
	RoleFinance  UserRole = "FINANCE"
)

// Valid reports whether the role is one of the known constants.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAcademic, RoleTeacher, RoleFinance:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
