package auth

// Package auth contains domain-level types for sessions and roles.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role is the application's closed role enumeration.
// Keep string form for easy persistence and template use.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// Roles lists every member of the enumeration in menu order.
func Roles() []Role { return []Role{RoleAdmin, RoleTeacher, RoleStudent} }

// Valid reports whether r is a member of the enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// Slug is the lowercase form used in translation keys and URL prefixes.
func (r Role) Slug() string { return strings.ToLower(string(r)) }

// RawUser is the backend-shaped user record handed off by the login application.
type RawUser struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      string  `json:"role"`
	SchoolID  *string `json:"school_id"`
}

// User is the normalized user exposed to the rest of the application.
type User struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// Session is the normalized view of what the session store holds for one browser.
// ExpiresAt is zero when the access token carries no readable expiry.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         User
	RawUser      RawUser
	ExpiresAt    time.Time
}

// DisplayName joins first and last names with a single space and trims the result.
func DisplayName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

