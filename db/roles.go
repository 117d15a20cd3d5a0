package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/securegate/admin-portal/models"
)

// GetRoles retrieves all active roles.
func (p *PortalDB) GetRoles(ctx context.Context) ([]models.Role, error) {
	rows, err := p.DB.QueryContext(ctx, `SELECT code, name, description, is_active, created_at FROM roles WHERE is_active ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving roles: %w", err)
	}
	defer rows.Close()

	roles := []models.Role{}
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.Code, &r.Name, &r.Description, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// GetRole retrieves a single active role. A missing role is (nil, nil).
func (p *PortalDB) GetRole(ctx context.Context, code string) (*models.Role, error) {
	var r models.Role
	err := p.DB.QueryRowContext(ctx, `SELECT code, name, description, is_active, created_at FROM roles WHERE code = $1 AND is_active`, code).
		Scan(&r.Code, &r.Name, &r.Description, &r.IsActive, &r.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning role: %w", err)
	}
	return &r, nil
}

// CreateRole inserts a role. A previously deleted role with the same code
// is reactivated.
func (p *PortalDB) CreateRole(ctx context.Context, r *models.Role) error {
	r.CreatedAt = p.now()
	r.IsActive = true
	err := p.execOne(ctx, `
		INSERT INTO roles (code, name, description, is_active, created_at) VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
			is_active = TRUE, created_at = EXCLUDED.created_at
		WHERE roles.is_active = FALSE`,
		r.Code, r.Name, r.Description, r.CreatedAt)
	if err == ErrNotFound {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("error inserting role: %w", err)
	}
	return nil
}

// UpdateRole updates the name and description of an active role.
func (p *PortalDB) UpdateRole(ctx context.Context, r *models.Role) error {
	err := p.execOne(ctx, `UPDATE roles SET name = $2, description = $3 WHERE code = $1 AND is_active`, r.Code, r.Name, r.Description)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("error updating role: %w", err)
	}
	return err
}

// DeleteRole soft deletes a role, its grants to users and its menu permissions.
func (p *PortalDB) DeleteRole(ctx context.Context, code string) error {
	return p.withTx(ctx, func(tx *sql.Tx) error {
		n, err := p.execQuery(ctx, tx, `UPDATE roles SET is_active = FALSE WHERE code = $1 AND is_active`, code)
		if err != nil {
			return fmt.Errorf("error deleting role: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}

		if _, err := p.execQuery(ctx, tx, `UPDATE user_roles SET is_active = FALSE WHERE role_code = $1`, code); err != nil {
			return fmt.Errorf("error deleting role grants: %w", err)
		}
		if _, err := p.execQuery(ctx, tx, `UPDATE role_menu_permissions SET is_active = FALSE WHERE role_code = $1`, code); err != nil {
			return fmt.Errorf("error deleting role permissions: %w", err)
		}
		return nil
	})
}

// RoleMenuPermissions retrieves the active menu permissions of an active role.
func (p *PortalDB) RoleMenuPermissions(ctx context.Context, roleCode string) ([]models.RoleMenuPermission, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT rmp.role_code, rmp.menu_path, m.category, m.page_label,
			rmp.can_read, rmp.can_create, rmp.can_update, rmp.can_delete, rmp.can_export
		FROM role_menu_permissions rmp
		JOIN menus m ON m.path = rmp.menu_path
		JOIN roles r ON r.code = rmp.role_code
		WHERE rmp.role_code = $1 AND rmp.is_active AND r.is_active
		ORDER BY m.sort_order, m.path`, roleCode)
	if err != nil {
		return nil, fmt.Errorf("error retrieving role permissions: %w", err)
	}
	defer rows.Close()

	perms := []models.RoleMenuPermission{}
	for rows.Next() {
		var rp models.RoleMenuPermission
		if err := rows.Scan(&rp.RoleCode, &rp.MenuPath, &rp.Category, &rp.PageLabel,
			&rp.CanRead, &rp.CanCreate, &rp.CanUpdate, &rp.CanDelete, &rp.CanExport); err != nil {
			return nil, fmt.Errorf("error scanning role permission: %w", err)
		}
		perms = append(perms, rp)
	}
	return perms, rows.Err()
}

// SetRolePermissions replaces the menu permissions of an active role.
func (p *PortalDB) SetRolePermissions(ctx context.Context, roleCode string, perms []models.RoleMenuPermission) error {
	return p.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE code = $1 AND is_active)`, roleCode).Scan(&exists)
		if err != nil {
			return fmt.Errorf("error checking role: %w", err)
		}
		if !exists {
			return ErrNotFound
		}

		if _, err := p.execQuery(ctx, tx, `UPDATE role_menu_permissions SET is_active = FALSE WHERE role_code = $1`, roleCode); err != nil {
			return fmt.Errorf("error clearing role permissions: %w", err)
		}

		for _, rp := range perms {
			_, err := p.execQuery(ctx, tx, `
				INSERT INTO role_menu_permissions (role_code, menu_path, can_read, can_create, can_update, can_delete, can_export, is_active)
				VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
				ON CONFLICT (role_code, menu_path) DO UPDATE SET
					can_read = EXCLUDED.can_read, can_create = EXCLUDED.can_create, can_update = EXCLUDED.can_update,
					can_delete = EXCLUDED.can_delete, can_export = EXCLUDED.can_export, is_active = TRUE`,
				roleCode, rp.MenuPath, rp.CanRead, rp.CanCreate, rp.CanUpdate, rp.CanDelete, rp.CanExport)
			if err != nil {
				return fmt.Errorf("error saving permission for %s: %w", rp.MenuPath, err)
			}
		}
		return nil
	})
}

// GetMenus retrieves the reference list of menus.
func (p *PortalDB) GetMenus(ctx context.Context) ([]models.Menu, error) {
	rows, err := p.DB.QueryContext(ctx, `SELECT path, category, page_label, sort_order FROM menus ORDER BY sort_order, path`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving menus: %w", err)
	}
	defer rows.Close()

	menus := []models.Menu{}
	for rows.Next() {
		var m models.Menu
		if err := rows.Scan(&m.Path, &m.Category, &m.PageLabel, &m.SortOrder); err != nil {
			return nil, fmt.Errorf("error scanning menu: %w", err)
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}
