package handlers

import (
	"net/http"

	"github.com/securegate/admin-portal/api/services"
)

// GetUsers godoc
// @Summary List users
// @Description List active users with their role codes
// @Tags users
// @Produce json
// @Success 200 {object} models.Response{data=[]models.User}
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /users [get]
func GetUsers(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetUsersService(w, r)
	}
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param user-id path string true "User ID"
// @Success 200 {object} models.Response{data=models.User}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /users/{user-id} [get]
func GetUser(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetUserService(w, r)
	}
}

// CreateUser godoc
// @Summary Create a user
// @Description Create a user and grant the listed roles
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.User true "User"
// @Success 201 {object} models.Response{data=models.User}
// @Failure 400 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /users [post]
func CreateUser(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateUserService(w, r)
	}
}

// UpdateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param user-id path string true "User ID"
// @Param user body models.User true "User"
// @Success 200 {object} models.Response{data=models.User}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /users/{user-id} [put]
func UpdateUser(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateUserService(w, r)
	}
}

// SetUserRoles godoc
// @Summary Replace the roles of a user
// @Tags users
// @Accept json
// @Produce json
// @Param user-id path string true "User ID"
// @Param roles body models.UserRolesRequest true "Role codes"
// @Success 200 {object} models.Response{data=models.UserRolesRequest}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /users/{user-id}/roles [put]
func SetUserRoles(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.SetUserRolesService(w, r)
	}
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Soft delete a user and its role grants
// @Tags users
// @Param user-id path string true "User ID"
// @Success 204
// @Failure 404 {object} models.Response
// @Router /users/{user-id} [delete]
func DeleteUser(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteUserService(w, r)
	}
}
