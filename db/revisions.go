package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/securegate/admin-portal/internal/sequence"
	"github.com/securegate/admin-portal/models"
)

// GetRevisions retrieves active document revisions, newest first.
func (p *PortalDB) GetRevisions(ctx context.Context) ([]models.Revision, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT id, code, document_title, version, summary, revised_by, revised_at, is_active, created_at
		FROM revisions WHERE is_active ORDER BY revised_at DESC, code DESC`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving revisions: %w", err)
	}
	defer rows.Close()

	revisions := []models.Revision{}
	for rows.Next() {
		var r models.Revision
		if err := rows.Scan(&r.ID, &r.Code, &r.DocumentTitle, &r.Version, &r.Summary, &r.RevisedBy, &r.RevisedAt, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

// CreateRevision assigns the next revision code and inserts the record.
func (p *PortalDB) CreateRevision(ctx context.Context, r *models.Revision, gen *sequence.Generator) error {
	return p.withTx(ctx, func(tx *sql.Tx) error {
		code, err := p.nextCode(ctx, tx, "revisions", gen)
		if err != nil {
			return err
		}

		r.ID = uuid.New()
		r.Code = code
		r.CreatedAt = p.now()
		r.IsActive = true
		if r.RevisedAt.IsZero() {
			r.RevisedAt = r.CreatedAt
		}

		_, err = p.execQuery(ctx, tx, `
			INSERT INTO revisions (id, code, document_title, version, summary, revised_by, revised_at, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)`,
			r.ID, r.Code, r.DocumentTitle, r.Version, r.Summary, r.RevisedBy, r.RevisedAt, r.CreatedAt)
		if err != nil {
			return fmt.Errorf("error inserting revision: %w", err)
		}
		return nil
	})
}

// DeleteRevision soft deletes a revision.
func (p *PortalDB) DeleteRevision(ctx context.Context, id uuid.UUID) error {
	err := p.execOne(ctx, `UPDATE revisions SET is_active = FALSE WHERE id = $1 AND is_active`, id)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("error deleting revision: %w", err)
	}
	return err
}
