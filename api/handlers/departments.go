package handlers

import (
	"net/http"

	"github.com/securegate/admin-portal/api/services"
)

// GetDepartments godoc
// @Summary List departments
// @Tags departments
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Department}
// @Router /departments [get]
func GetDepartments(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetDepartmentsService(w, r)
	}
}

// GetDepartment godoc
// @Summary Get a department
// @Tags departments
// @Produce json
// @Param department-id path string true "Department ID"
// @Success 200 {object} models.Response{data=models.Department}
// @Failure 404 {object} models.Response
// @Router /departments/{department-id} [get]
func GetDepartment(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetDepartmentService(w, r)
	}
}

// CreateDepartment godoc
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Param department body models.Department true "Department"
// @Success 201 {object} models.Response{data=models.Department}
// @Failure 409 {object} models.Response
// @Router /departments [post]
func CreateDepartment(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateDepartmentService(w, r)
	}
}

// UpdateDepartment godoc
// @Summary Update a department
// @Tags departments
// @Accept json
// @Produce json
// @Param department-id path string true "Department ID"
// @Param department body models.Department true "Department"
// @Success 200 {object} models.Response{data=models.Department}
// @Failure 404 {object} models.Response
// @Router /departments/{department-id} [put]
func UpdateDepartment(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateDepartmentService(w, r)
	}
}

// DeleteDepartment godoc
// @Summary Delete a department
// @Tags departments
// @Param department-id path string true "Department ID"
// @Success 204
// @Failure 404 {object} models.Response
// @Router /departments/{department-id} [delete]
func DeleteDepartment(svc *services.DirectoryService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteDepartmentService(w, r)
	}
}
