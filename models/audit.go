package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an audit trail entry for a change made through the portal.
type AuditLog struct {
	ID         uuid.UUID `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Actor      string    `json:"actor"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entityId"`
	Action     string    `json:"action"`
	Details    string    `json:"details,omitempty"`
}
