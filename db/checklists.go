package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/securegate/admin-portal/internal/sequence"
	"github.com/securegate/admin-portal/internal/status"
	"github.com/securegate/admin-portal/models"
)

const checklistColumns = `id, code, title, description, department_id, assignee, status, progress,
	due_date, completed_at, created_by, is_active, created_at, updated_at`

func scanChecklist(row interface{ Scan(...interface{}) error }) (models.Checklist, error) {
	var c models.Checklist
	err := row.Scan(&c.ID, &c.Code, &c.Title, &c.Description, &c.DepartmentID, &c.Assignee, &c.Status, &c.Progress,
		&c.DueDate, &c.CompletedAt, &c.CreatedBy, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetChecklists retrieves active checklists matching the filter.
func (p *PortalDB) GetChecklists(ctx context.Context, filter models.ChecklistFilter) ([]models.Checklist, error) {
	conds := []string{"is_active"}
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		conds = append(conds, fmt.Sprintf("department_id = $%d", len(args)))
	}

	query := `SELECT ` + checklistColumns + ` FROM checklists WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY code DESC`
	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving checklists: %w", err)
	}
	defer rows.Close()

	checklists := []models.Checklist{}
	for rows.Next() {
		c, err := scanChecklist(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning checklist: %w", err)
		}
		checklists = append(checklists, c)
	}
	return checklists, rows.Err()
}

// GetChecklist retrieves a single active checklist. A missing checklist is (nil, nil).
func (p *PortalDB) GetChecklist(ctx context.Context, id uuid.UUID) (*models.Checklist, error) {
	c, err := scanChecklist(p.DB.QueryRowContext(ctx, `SELECT `+checklistColumns+` FROM checklists WHERE id = $1 AND is_active`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning checklist: %w", err)
	}
	return &c, nil
}

// CreateChecklist assigns the next checklist code and inserts the checklist
// in the same transaction.
func (p *PortalDB) CreateChecklist(ctx context.Context, c *models.Checklist, gen *sequence.Generator) error {
	return p.withTx(ctx, func(tx *sql.Tx) error {
		code, err := p.nextCode(ctx, tx, "checklists", gen)
		if err != nil {
			return err
		}

		c.ID = uuid.New()
		c.Code = code
		c.CreatedAt = p.now()
		c.UpdatedAt = c.CreatedAt
		c.IsActive = true

		_, err = p.execQuery(ctx, tx, `
			INSERT INTO checklists (id, code, title, description, department_id, assignee, status, progress,
				due_date, completed_at, created_by, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE, $12, $13)`,
			c.ID, c.Code, c.Title, c.Description, c.DepartmentID, c.Assignee, c.Status, c.Progress,
			c.DueDate, c.CompletedAt, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error inserting checklist: %w", err)
		}
		return nil
	})
}

// UpdateChecklist updates the editable fields of an active checklist. Status
// only changes through ToggleChecklistStatus.
func (p *PortalDB) UpdateChecklist(ctx context.Context, c *models.Checklist) error {
	c.UpdatedAt = p.now()
	err := p.execOne(ctx, `
		UPDATE checklists SET title = $2, description = $3, department_id = $4, assignee = $5,
			progress = $6, due_date = $7, updated_at = $8
		WHERE id = $1 AND is_active`,
		c.ID, c.Title, c.Description, c.DepartmentID, c.Assignee, c.Progress, c.DueDate, c.UpdatedAt)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("error updating checklist: %w", err)
	}
	return err
}

// ToggleChecklistStatus advances a checklist one step along cycle. The row is
// locked for the read-modify-write. A missing checklist is (nil, nil).
func (p *PortalDB) ToggleChecklistStatus(ctx context.Context, id uuid.UUID, cycle status.Cycle) (*models.StatusChange, error) {
	return p.toggleStatus(ctx, "checklists", id, cycle)
}

// DeleteChecklist soft deletes a checklist.
func (p *PortalDB) DeleteChecklist(ctx context.Context, id uuid.UUID) error {
	return p.softDelete(ctx, "checklists", id)
}

// toggleStatus is shared by every table with status, progress and completed_at columns.
func (p *PortalDB) toggleStatus(ctx context.Context, table string, id uuid.UUID, cycle status.Cycle) (*models.StatusChange, error) {
	var change *models.StatusChange
	err := p.withTx(ctx, func(tx *sql.Tx) error {
		var (
			current     string
			progress    int
			completedAt *time.Time
		)
		err := tx.QueryRowContext(ctx, `SELECT status, progress, completed_at FROM `+table+` WHERE id = $1 AND is_active FOR UPDATE`, id).
			Scan(&current, &progress, &completedAt)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return fmt.Errorf("error reading status: %w", err)
		}

		t, err := cycle.Advance(current, progress, completedAt, p.now())
		if err != nil {
			return err
		}

		_, err = p.execQuery(ctx, tx, `UPDATE `+table+` SET status = $2, progress = $3, completed_at = $4, updated_at = $5 WHERE id = $1`,
			id, t.To, t.Progress, t.CompletedAt, p.now())
		if err != nil {
			return fmt.Errorf("error updating status: %w", err)
		}

		change = &models.StatusChange{ID: id, From: t.From, To: t.To, Progress: t.Progress, CompletedAt: t.CompletedAt, Completed: t.EnteredTerminal(cycle)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

func (p *PortalDB) softDelete(ctx context.Context, table string, id uuid.UUID) error {
	err := p.execOne(ctx, `UPDATE `+table+` SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active`, id, p.now())
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("error deleting from %s: %w", table, err)
	}
	return err
}
