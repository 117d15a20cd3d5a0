package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/internal/i18n"
	"github.com/securegate/admin-portal/models"
)

func (svc *DirectoryService) GetDepartmentsService(w http.ResponseWriter, r *http.Request) {
	departments, err := svc.DB.GetDepartments(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to retrieve departments from database")
		HandleStoreError(w, r, err)
		return
	}
	HandleSuccessResponse(w, http.StatusOK, departments)
}

func (svc *DirectoryService) GetDepartmentService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "department-id")
	if !ok {
		return
	}

	department, err := svc.DB.GetDepartment(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Str("department_id", id.String()).Msg("Database error retrieving department")
		HandleStoreError(w, r, err)
		return
	}
	if department == nil {
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}
	HandleSuccessResponse(w, http.StatusOK, department)
}

func (svc *DirectoryService) CreateDepartmentService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var department models.Department
	if !decodeBody(w, r, &department) {
		return
	}
	department.Name = strings.TrimSpace(department.Name)
	if department.Name == "" {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "name")
		return
	}

	if err := svc.DB.CreateDepartment(r.Context(), &department); err != nil {
		logger.Error().Err(err).Str("name", department.Name).Msg("Failed to create department in database")
		HandleStoreError(w, r, err)
		return
	}

	audit(svc.Events, r, "department", department.ID.String(), "create", department.Name)
	location := fmt.Sprintf("%s/%s", r.URL.Path, department.ID)
	HandleSuccessResponse(w, http.StatusCreated, department, location)
}

func (svc *DirectoryService) UpdateDepartmentService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "department-id")
	if !ok {
		return
	}

	var department models.Department
	if !decodeBody(w, r, &department) {
		return
	}
	department.ID = id
	department.Name = strings.TrimSpace(department.Name)
	if department.Name == "" {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "name")
		return
	}

	if err := svc.DB.UpdateDepartment(r.Context(), &department); err != nil {
		logger.Error().Err(err).Str("department_id", id.String()).Msg("Database error updating department")
		HandleStoreError(w, r, err)
		return
	}

	updated, err := svc.DB.GetDepartment(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Str("department_id", id.String()).Msg("Failed to reload updated department")
		HandleStoreError(w, r, err)
		return
	}
	if updated == nil {
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}

	audit(svc.Events, r, "department", id.String(), "update", department.Name)
	HandleSuccessResponse(w, http.StatusOK, updated)
}

func (svc *DirectoryService) DeleteDepartmentService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "department-id")
	if !ok {
		return
	}

	if err := svc.DB.DeleteDepartment(r.Context(), id); err != nil {
		logger.Error().Err(err).Str("department_id", id.String()).Msg("Database error deleting department")
		HandleStoreError(w, r, err)
		return
	}

	audit(svc.Events, r, "department", id.String(), "delete", "")
	HandleSuccessResponse(w, http.StatusNoContent, nil)
}
