package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/securegate/admin-portal/models"
)

const userColumns = `u.id, u.username, u.email, u.full_name, u.department_id, u.is_active, u.created_at, u.updated_at,
	COALESCE(ARRAY(SELECT ur.role_code FROM user_roles ur WHERE ur.user_id = u.id AND ur.is_active ORDER BY ur.role_code), '{}')`

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var u models.User
	var roles pq.StringArray
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.DepartmentID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &roles)
	u.Roles = []string(roles)
	return u, err
}

// GetUsers retrieves all active users with their active roles.
func (p *PortalDB) GetUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.is_active ORDER BY u.username`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser retrieves a single active user. A missing user is (nil, nil).
func (p *PortalDB) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1 AND u.is_active`
	u, err := scanUser(p.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a user and grants its initial roles. A previously
// deleted user with the same username is reactivated under its original id.
func (p *PortalDB) CreateUser(ctx context.Context, u *models.User) error {
	u.CreatedAt = p.now()
	u.UpdatedAt = u.CreatedAt
	u.IsActive = true

	return p.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO users (id, username, email, full_name, department_id, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7)
			ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email, full_name = EXCLUDED.full_name,
				department_id = EXCLUDED.department_id, is_active = TRUE,
				created_at = EXCLUDED.created_at, updated_at = EXCLUDED.updated_at
			WHERE users.is_active = FALSE
			RETURNING id`,
			uuid.New(), u.Username, u.Email, u.FullName, u.DepartmentID, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
		if err == sql.ErrNoRows {
			return ErrAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("error inserting user: %w", err)
		}
		return p.grantRoles(ctx, tx, u.ID, u.Roles)
	})
}

// UpdateUser updates the profile fields of an active user.
func (p *PortalDB) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = p.now()
	err := p.execOne(ctx, `
		UPDATE users SET email = $2, full_name = $3, department_id = $4, updated_at = $5
		WHERE id = $1 AND is_active`,
		u.ID, u.Email, u.FullName, u.DepartmentID, u.UpdatedAt)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("error updating user: %w", err)
	}
	return err
}

// SetUserRoles replaces the active role set of a user.
func (p *PortalDB) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	return p.withTx(ctx, func(tx *sql.Tx) error {
		n, err := p.execQuery(ctx, tx, `UPDATE users SET updated_at = $2 WHERE id = $1 AND is_active`, userID, p.now())
		if err != nil {
			return fmt.Errorf("error updating user: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}

		if _, err := p.execQuery(ctx, tx, `UPDATE user_roles SET is_active = FALSE WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("error revoking user roles: %w", err)
		}
		return p.grantRoles(ctx, tx, userID, roles)
	})
}

func (p *PortalDB) grantRoles(ctx context.Context, tx *sql.Tx, userID uuid.UUID, roles []string) error {
	for _, role := range roles {
		_, err := p.execQuery(ctx, tx, `
			INSERT INTO user_roles (user_id, role_code, is_active) VALUES ($1, $2, TRUE)
			ON CONFLICT (user_id, role_code) DO UPDATE SET is_active = TRUE`,
			userID, role)
		if err != nil {
			return fmt.Errorf("error granting role %s: %w", role, err)
		}
	}
	return nil
}

// DeleteUser soft deletes a user together with its role grants.
func (p *PortalDB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return p.withTx(ctx, func(tx *sql.Tx) error {
		n, err := p.execQuery(ctx, tx, `UPDATE users SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active`, userID, p.now())
		if err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}

		if _, err := p.execQuery(ctx, tx, `UPDATE user_roles SET is_active = FALSE WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("error deleting user roles: %w", err)
		}
		return nil
	})
}

// UserRoleCodes returns the active role codes granted to username.
func (p *PortalDB) UserRoleCodes(ctx context.Context, username string) ([]string, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT ur.role_code FROM user_roles ur
		JOIN users u ON u.id = ur.user_id
		JOIN roles r ON r.code = ur.role_code
		WHERE u.username = $1 AND u.is_active AND ur.is_active AND r.is_active
		ORDER BY ur.role_code`, username)
	if err != nil {
		return nil, fmt.Errorf("error retrieving user roles: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("error scanning user role: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
