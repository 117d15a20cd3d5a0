package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/internal/i18n"
	"github.com/securegate/admin-portal/models"
)

// GetRolesService lists active roles.
func (svc *DirectoryService) GetRolesService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	roles, err := svc.DB.GetRoles(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve roles from database")
		HandleStoreError(w, r, err)
		return
	}

	HandleSuccessResponse(w, http.StatusOK, roles)
}

// CreateRoleService creates a role.
func (svc *DirectoryService) CreateRoleService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var role models.Role
	if !decodeBody(w, r, &role) {
		return
	}

	role.Code = strings.ToUpper(strings.TrimSpace(role.Code))
	if role.Code == "" {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "code")
		return
	}
	if role.Name == "" {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "name")
		return
	}

	if err := svc.DB.CreateRole(r.Context(), &role); err != nil {
		logger.Error().Err(err).Str("role_code", role.Code).Msg("Failed to create role in database")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Str("role_code", role.Code).Msg("Role created successfully")
	audit(svc.Events, r, "role", role.Code, "create", role.Name)

	location := fmt.Sprintf("%s/%s", r.URL.Path, role.Code)
	HandleSuccessResponse(w, http.StatusCreated, role, location)
}

// UpdateRoleService updates the name and description of a role.
func (svc *DirectoryService) UpdateRoleService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	code := mux.Vars(r)["role-code"]

	var role models.Role
	if !decodeBody(w, r, &role) {
		return
	}
	role.Code = code

	if err := svc.DB.UpdateRole(r.Context(), &role); err != nil {
		logger.Error().Err(err).Str("role_code", code).Msg("Database error updating role")
		HandleStoreError(w, r, err)
		return
	}

	updated, err := svc.DB.GetRole(r.Context(), code)
	if err != nil {
		logger.Error().Err(err).Str("role_code", code).Msg("Failed to reload updated role")
		HandleStoreError(w, r, err)
		return
	}
	if updated == nil {
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}

	audit(svc.Events, r, "role", code, "update", "")
	HandleSuccessResponse(w, http.StatusOK, updated)
}

// DeleteRoleService soft deletes a role with its grants and permissions.
func (svc *DirectoryService) DeleteRoleService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	code := mux.Vars(r)["role-code"]

	if err := svc.DB.DeleteRole(r.Context(), code); err != nil {
		logger.Error().Err(err).Str("role_code", code).Msg("Database error deleting role")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Str("role_code", code).Msg("Role deleted successfully")
	audit(svc.Events, r, "role", code, "delete", "")
	HandleSuccessResponse(w, http.StatusNoContent, nil)
}

// GetRolePermissionsService lists the menu permissions of one role.
func (svc *DirectoryService) GetRolePermissionsService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	code := mux.Vars(r)["role-code"]

	role, err := svc.DB.GetRole(r.Context(), code)
	if err != nil {
		logger.Error().Err(err).Str("role_code", code).Msg("Database error retrieving role")
		HandleStoreError(w, r, err)
		return
	}
	if role == nil {
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}

	perms, err := svc.DB.RoleMenuPermissions(r.Context(), code)
	if err != nil {
		logger.Error().Err(err).Str("role_code", code).Msg("Database error retrieving role permissions")
		HandleStoreError(w, r, err)
		return
	}

	HandleSuccessResponse(w, http.StatusOK, perms)
}

// SetRolePermissionsService replaces the menu permissions of one role.
func (svc *DirectoryService) SetRolePermissionsService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	code := mux.Vars(r)["role-code"]

	var perms []models.RoleMenuPermission
	if !decodeBody(w, r, &perms) {
		return
	}
	for _, p := range perms {
		if p.MenuPath == "" {
			HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "menuPath")
			return
		}
	}

	if err := svc.DB.SetRolePermissions(r.Context(), code, perms); err != nil {
		logger.Error().Err(err).Str("role_code", code).Msg("Database error saving role permissions")
		HandleStoreError(w, r, err)
		return
	}

	saved, err := svc.DB.RoleMenuPermissions(r.Context(), code)
	if err != nil {
		logger.Error().Err(err).Str("role_code", code).Msg("Failed to reload role permissions")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Str("role_code", code).Int("permission_count", len(saved)).Msg("Role permissions replaced")
	audit(svc.Events, r, "role", code, "permissions", fmt.Sprintf("%d menus", len(saved)))
	HandleSuccessResponse(w, http.StatusOK, saved)
}

// GetMenusService lists the reference menus.
func (svc *DirectoryService) GetMenusService(w http.ResponseWriter, r *http.Request) {
	menus, err := svc.DB.GetMenus(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to retrieve menus from database")
		HandleStoreError(w, r, err)
		return
	}
	HandleSuccessResponse(w, http.StatusOK, menus)
}
