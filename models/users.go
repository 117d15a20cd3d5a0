package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a portal user.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	DepartmentID *uuid.UUID `json:"departmentId,omitempty"`
	Roles        []string   `json:"roles"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// UserRolesRequest replaces the role set of a user.
type UserRolesRequest struct {
	Roles []string `json:"roles"`
}
