package models

import "time"

// Role represents a role that can be granted to users.
type Role struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Menu is a navigable page of the dashboard.
type Menu struct {
	Path      string `json:"path"`
	Category  string `json:"category"`
	PageLabel string `json:"pageLabel"`
	SortOrder int    `json:"sortOrder"`
}

// RoleMenuPermission is one role's capability flags on a menu path.
type RoleMenuPermission struct {
	RoleCode  string `json:"roleCode"`
	MenuPath  string `json:"menuPath"`
	Category  string `json:"category"`
	PageLabel string `json:"pageLabel"`
	CanRead   bool   `json:"canRead"`
	CanCreate bool   `json:"canCreate"`
	CanUpdate bool   `json:"canUpdate"`
	CanDelete bool   `json:"canDelete"`
	CanExport bool   `json:"canExport"`
}

// Menu paths guarded by the API. They match the rows seeded into menus.
const (
	MenuDashboard   = "/dashboard"
	MenuUsers       = "/admin/users"
	MenuRoles       = "/admin/roles"
	MenuDepartments = "/admin/departments"
	MenuAuditLogs   = "/admin/audit-logs"
	MenuChecklists  = "/compliance/checklists"
	MenuRevisions   = "/compliance/revisions"
	MenuEducation   = "/security/education"
)
