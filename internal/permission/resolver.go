// Package permission merges role-based menu permissions into the effective
// permissions of a user.
package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/securegate/admin-portal/models"
)

// ErrNoRoles is returned when there is no role to resolve permissions for.
var ErrNoRoles = errors.New("no role information")

// Action is a capability flag on a menu path.
type Action string

const (
	Read   Action = "read"
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
	Export Action = "export"
)

// MenuPermission is the merged permission record for one menu path.
type MenuPermission struct {
	Category  string `json:"category"`
	PageLabel string `json:"pageLabel"`
	Read      bool   `json:"read"`
	Create    bool   `json:"create"`
	Update    bool   `json:"update"`
	Delete    bool   `json:"delete"`
	Export    bool   `json:"export"`
}

// Allows reports whether the flag for action is set.
func (p MenuPermission) Allows(action Action) bool {
	switch action {
	case Read:
		return p.Read
	case Create:
		return p.Create
	case Update:
		return p.Update
	case Delete:
		return p.Delete
	case Export:
		return p.Export
	}
	return false
}

// Set maps menu paths to merged permissions. Paths no role holds are absent.
type Set map[string]MenuPermission

// Allows reports whether action is permitted on menuPath.
func (s Set) Allows(menuPath string, action Action) bool {
	p, ok := s[menuPath]
	return ok && p.Allows(action)
}

// Store fetches the menu permission rows of a single role.
type Store interface {
	RoleMenuPermissions(ctx context.Context, roleCode string) ([]models.RoleMenuPermission, error)
}

// Resolver resolves role codes into a merged permission set.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve fetches the rows of every role and merges them.
func (r *Resolver) Resolve(ctx context.Context, roleCodes []string) (Set, error) {
	roleCodes = NormalizeRoles(roleCodes)
	if len(roleCodes) == 0 {
		return nil, ErrNoRoles
	}

	rowsByRole := make([][]models.RoleMenuPermission, 0, len(roleCodes))
	for _, code := range roleCodes {
		rows, err := r.store.RoleMenuPermissions(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("error retrieving permissions for role %s: %w", code, err)
		}
		rowsByRole = append(rowsByRole, rows)
	}

	return Merge(rowsByRole...), nil
}

// Merge ORs every flag across roles per menu path. Category and page label
// come from the first record seen for a path, in role order.
func Merge(rowsByRole ...[]models.RoleMenuPermission) Set {
	merged := make(Set)
	for _, rows := range rowsByRole {
		for _, row := range rows {
			p, seen := merged[row.MenuPath]
			if !seen {
				p.Category = row.Category
				p.PageLabel = row.PageLabel
			}
			p.Read = p.Read || row.CanRead
			p.Create = p.Create || row.CanCreate
			p.Update = p.Update || row.CanUpdate
			p.Delete = p.Delete || row.CanDelete
			p.Export = p.Export || row.CanExport
			merged[row.MenuPath] = p
		}
	}
	return merged
}

// NormalizeRoles drops blank and repeated codes, keeping first-seen order.
func NormalizeRoles(roleCodes []string) []string {
	return lo.Uniq(lo.Compact(roleCodes))
}
