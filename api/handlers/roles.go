package handlers

import (
	"net/http"

	"github.com/securegate/admin-portal/api/services"
)

// GetRoles godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Role}
// @Router /roles [get]
func GetRoles(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetRolesService(w, r)
	}
}

// CreateRole godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Param role body models.Role true "Role"
// @Success 201 {object} models.Response{data=models.Role}
// @Failure 400 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /roles [post]
func CreateRole(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateRoleService(w, r)
	}
}

// UpdateRole godoc
// @Summary Update a role
// @Tags roles
// @Accept json
// @Produce json
// @Param role-code path string true "Role code"
// @Param role body models.Role true "Role"
// @Success 200 {object} models.Response{data=models.Role}
// @Failure 404 {object} models.Response
// @Router /roles/{role-code} [put]
func UpdateRole(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateRoleService(w, r)
	}
}

// DeleteRole godoc
// @Summary Delete a role
// @Description Soft delete a role, its grants and its menu permissions
// @Tags roles
// @Param role-code path string true "Role code"
// @Success 204
// @Failure 404 {object} models.Response
// @Router /roles/{role-code} [delete]
func DeleteRole(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteRoleService(w, r)
	}
}

// GetRolePermissions godoc
// @Summary List the menu permissions of a role
// @Tags roles
// @Produce json
// @Param role-code path string true "Role code"
// @Success 200 {object} models.Response{data=[]models.RoleMenuPermission}
// @Failure 404 {object} models.Response
// @Router /roles/{role-code}/permissions [get]
func GetRolePermissions(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetRolePermissionsService(w, r)
	}
}

// SetRolePermissions godoc
// @Summary Replace the menu permissions of a role
// @Tags roles
// @Accept json
// @Produce json
// @Param role-code path string true "Role code"
// @Param permissions body []models.RoleMenuPermission true "Permissions"
// @Success 200 {object} models.Response{data=[]models.RoleMenuPermission}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /roles/{role-code}/permissions [put]
func SetRolePermissions(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.SetRolePermissionsService(w, r)
	}
}

// GetMenus godoc
// @Summary List menus
// @Tags roles
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Menu}
// @Router /menus [get]
func GetMenus(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetMenusService(w, r)
	}
}

// GetMyPermissions godoc
// @Summary Effective permissions of the caller
// @Description Menu permissions merged across every role of the caller
// @Tags permissions
// @Produce json
// @Success 200 {object} models.Response{data=permission.Set}
// @Failure 401 {object} models.Response
// @Router /me/permissions [get]
func GetMyPermissions(svc *services.PermissionService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetMyPermissionsService(w, r)
	}
}
