package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/securegate/admin-portal/internal/sequence"
	"github.com/securegate/admin-portal/internal/status"
	"github.com/securegate/admin-portal/models"
)

const educationColumns = `id, code, title, course_type, department_id, instructor, scheduled_at, attendee_count,
	status, progress, completed_at, created_by, is_active, created_at, updated_at`

func scanEducation(row interface{ Scan(...interface{}) error }) (models.Education, error) {
	var e models.Education
	err := row.Scan(&e.ID, &e.Code, &e.Title, &e.CourseType, &e.DepartmentID, &e.Instructor, &e.ScheduledAt, &e.AttendeeCount,
		&e.Status, &e.Progress, &e.CompletedAt, &e.CreatedBy, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// GetEducations retrieves all active security-education records.
func (p *PortalDB) GetEducations(ctx context.Context) ([]models.Education, error) {
	rows, err := p.DB.QueryContext(ctx, `SELECT `+educationColumns+` FROM security_educations WHERE is_active ORDER BY code DESC`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving educations: %w", err)
	}
	defer rows.Close()

	educations := []models.Education{}
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning education: %w", err)
		}
		educations = append(educations, e)
	}
	return educations, rows.Err()
}

// GetEducation retrieves a single active record. A missing record is (nil, nil).
func (p *PortalDB) GetEducation(ctx context.Context, id uuid.UUID) (*models.Education, error) {
	e, err := scanEducation(p.DB.QueryRowContext(ctx, `SELECT `+educationColumns+` FROM security_educations WHERE id = $1 AND is_active`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning education: %w", err)
	}
	return &e, nil
}

// CreateEducation assigns the next education code and inserts the record.
func (p *PortalDB) CreateEducation(ctx context.Context, e *models.Education, gen *sequence.Generator) error {
	return p.withTx(ctx, func(tx *sql.Tx) error {
		code, err := p.nextCode(ctx, tx, "security_educations", gen)
		if err != nil {
			return err
		}

		e.ID = uuid.New()
		e.Code = code
		e.CreatedAt = p.now()
		e.UpdatedAt = e.CreatedAt
		e.IsActive = true

		_, err = p.execQuery(ctx, tx, `
			INSERT INTO security_educations (id, code, title, course_type, department_id, instructor, scheduled_at,
				attendee_count, status, progress, completed_at, created_by, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE, $13, $14)`,
			e.ID, e.Code, e.Title, e.CourseType, e.DepartmentID, e.Instructor, e.ScheduledAt,
			e.AttendeeCount, e.Status, e.Progress, e.CompletedAt, e.CreatedBy, e.CreatedAt, e.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error inserting education: %w", err)
		}
		return nil
	})
}

// UpdateEducation updates the editable fields of an active record.
func (p *PortalDB) UpdateEducation(ctx context.Context, e *models.Education) error {
	e.UpdatedAt = p.now()
	err := p.execOne(ctx, `
		UPDATE security_educations SET title = $2, course_type = $3, department_id = $4, instructor = $5,
			scheduled_at = $6, attendee_count = $7, progress = $8, updated_at = $9
		WHERE id = $1 AND is_active`,
		e.ID, e.Title, e.CourseType, e.DepartmentID, e.Instructor, e.ScheduledAt, e.AttendeeCount, e.Progress, e.UpdatedAt)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("error updating education: %w", err)
	}
	return err
}

// ToggleEducationStatus advances a record one step along cycle.
func (p *PortalDB) ToggleEducationStatus(ctx context.Context, id uuid.UUID, cycle status.Cycle) (*models.StatusChange, error) {
	return p.toggleStatus(ctx, "security_educations", id, cycle)
}

// DeleteEducation soft deletes a record.
func (p *PortalDB) DeleteEducation(ctx context.Context, id uuid.UUID) error {
	return p.softDelete(ctx, "security_educations", id)
}
