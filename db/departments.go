package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/securegate/admin-portal/models"
)

const departmentColumns = `id, name, description, is_active, created_at, updated_at`

func scanDepartment(row interface{ Scan(...interface{}) error }) (models.Department, error) {
	var d models.Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// GetDepartments retrieves all active departments.
func (p *PortalDB) GetDepartments(ctx context.Context) ([]models.Department, error) {
	rows, err := p.DB.QueryContext(ctx, `SELECT `+departmentColumns+` FROM departments WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving departments: %w", err)
	}
	defer rows.Close()

	departments := []models.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// GetDepartment retrieves a single active department. A missing department is (nil, nil).
func (p *PortalDB) GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	d, err := scanDepartment(p.DB.QueryRowContext(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1 AND is_active`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning department: %w", err)
	}
	return &d, nil
}

// CreateDepartment inserts a new department. A previously deleted department
// with the same name is reactivated under its original id.
func (p *PortalDB) CreateDepartment(ctx context.Context, d *models.Department) error {
	d.CreatedAt = p.now()
	d.UpdatedAt = d.CreatedAt
	d.IsActive = true

	err := p.DB.QueryRowContext(ctx, `
		INSERT INTO departments (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $5)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, is_active = TRUE,
			created_at = EXCLUDED.created_at, updated_at = EXCLUDED.updated_at
		WHERE departments.is_active = FALSE
		RETURNING id`,
		uuid.New(), d.Name, d.Description, d.CreatedAt, d.UpdatedAt).Scan(&d.ID)
	if err == sql.ErrNoRows {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("error inserting department: %w", err)
	}
	return nil
}

// UpdateDepartment updates an active department.
func (p *PortalDB) UpdateDepartment(ctx context.Context, d *models.Department) error {
	d.UpdatedAt = p.now()
	err := p.execOne(ctx, `UPDATE departments SET name = $2, description = $3, updated_at = $4 WHERE id = $1 AND is_active`,
		d.ID, d.Name, d.Description, d.UpdatedAt)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("error updating department: %w", err)
	}
	return err
}

// DeleteDepartment soft deletes a department.
func (p *PortalDB) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	err := p.execOne(ctx, `UPDATE departments SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active`, id, p.now())
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("error deleting department: %w", err)
	}
	return err
}
