// Package models defines the wire models exchanged with the chatdesk backend.
package models

import "github.com/dmitrijs2005/chatdesk/internal/common"

// User is the profile returned by /users/me/ and /admin/users/.
type User struct {
	ID       int         `json:"id"`
	Username string      `json:"username"`
	IsAdmin  bool        `json:"is_admin"`
	Plan     common.Plan `json:"user_plan"`
}

// Role is the human-readable role label shown on dashboards.
func (u User) Role() string {
	if u.IsAdmin {
		return "Administrator"
	}
	return "Regular User"
}

// RegisterRequest is the POST /users/ body.
type RegisterRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Plan     common.Plan `json:"user_plan"`
}

// UpdatePlanRequest is the PATCH /users/me/update-plan body.
type UpdatePlanRequest struct {
	Plan common.Plan `json:"user_plan"`
}

// UpdatePasswordRequest is the PATCH /users/me/update-password body.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Dashboard is the free-form payload of the dashboard endpoints.
type Dashboard map[string]any

// Message returns the "message" field when the backend sends one.
func (d Dashboard) Message() string {
	if s, ok := d["message"].(string); ok {
		return s
	}
	return ""
}
