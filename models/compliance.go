package models

import (
	"time"

	"github.com/google/uuid"
)

// Checklist is a compliance checklist item tracked through the status cycle.
type Checklist struct {
	ID           uuid.UUID  `json:"id"`
	Code         string     `json:"code"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DepartmentID *uuid.UUID `json:"departmentId,omitempty"`
	Assignee     string     `json:"assignee"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CreatedBy    string     `json:"createdBy"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ChecklistFilter narrows checklist listings.
type ChecklistFilter struct {
	Status       string
	DepartmentID *uuid.UUID
}

// Education is a security-education session record.
type Education struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	Title         string     `json:"title"`
	CourseType    string     `json:"courseType"`
	DepartmentID  *uuid.UUID `json:"departmentId,omitempty"`
	Instructor    string     `json:"instructor"`
	ScheduledAt   *time.Time `json:"scheduledAt,omitempty"`
	AttendeeCount int        `json:"attendeeCount"`
	Status        string     `json:"status"`
	Progress      int        `json:"progress"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedBy     string     `json:"createdBy"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Revision records a change to a controlled compliance document.
type Revision struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	DocumentTitle string    `json:"documentTitle"`
	Version       string    `json:"version"`
	Summary       string    `json:"summary"`
	RevisedBy     string    `json:"revisedBy"`
	RevisedAt     time.Time `json:"revisedAt"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// StatusChange is the outcome of a status toggle.
type StatusChange struct {
	ID          uuid.UUID  `json:"id"`
	From        string     `json:"from"`
	To          string     `json:"to"`
	Progress    int        `json:"progress"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	// Completed is set when the toggle entered the terminal state.
	Completed bool `json:"completed"`
}
