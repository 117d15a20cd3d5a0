package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/securegate/admin-portal/models"
)

const (
	DefaultAuditLimit = 200
	MaxAuditLimit     = 1000
)

// InsertAuditLog stores an audit event. Replayed events with a known id are ignored.
func (p *PortalDB) InsertAuditLog(ctx context.Context, e models.AuditLog) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = p.now()
	}

	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO audit_logs (id, occurred_at, actor, entity, entity_id, action, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.OccurredAt, e.Actor, e.Entity, e.EntityID, e.Action, e.Details)
	if err != nil {
		return fmt.Errorf("error inserting audit log: %w", err)
	}
	return nil
}

// Publish writes the event straight to the audit table. It is used when no
// message broker is configured.
func (p *PortalDB) Publish(e models.AuditLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.InsertAuditLog(ctx, e)
}

// GetAuditLogs retrieves the latest audit entries, optionally for one entity.
func (p *PortalDB) GetAuditLogs(ctx context.Context, entity string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	if limit > MaxAuditLimit {
		limit = MaxAuditLimit
	}

	rows, err := p.DB.QueryContext(ctx, `
		SELECT id, occurred_at, actor, entity, entity_id, action, details
		FROM audit_logs WHERE ($1::text = '' OR entity = $1)
		ORDER BY occurred_at DESC LIMIT $2`, entity, limit)
	if err != nil {
		return nil, fmt.Errorf("error retrieving audit logs: %w", err)
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.OccurredAt, &e.Actor, &e.Entity, &e.EntityID, &e.Action, &e.Details); err != nil {
			return nil, fmt.Errorf("error scanning audit log: %w", err)
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}
