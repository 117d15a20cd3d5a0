package handlers

import (
	"net/http"

	"github.com/securegate/admin-portal/api/services"
)

// GetChecklists godoc
// @Summary List checklists
// @Tags checklists
// @Produce json
// @Param status query string false "Status filter" Enums(waiting, in_progress, done, hold)
// @Param department query string false "Department ID"
// @Success 200 {object} models.Response{data=[]models.Checklist}
// @Failure 400 {object} models.Response
// @Router /checklists [get]
func GetChecklists(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetChecklistsService(w, r)
	}
}

// GetChecklist godoc
// @Summary Get a checklist
// @Tags checklists
// @Produce json
// @Param checklist-id path string true "Checklist ID"
// @Success 200 {object} models.Response{data=models.Checklist}
// @Failure 404 {object} models.Response
// @Router /checklists/{checklist-id} [get]
func GetChecklist(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetChecklistService(w, r)
	}
}

// CreateChecklist godoc
// @Summary Create a checklist
// @Description The code is generated as PREFIX-YY-NNN
// @Tags checklists
// @Accept json
// @Produce json
// @Param checklist body models.Checklist true "Checklist"
// @Success 201 {object} models.Response{data=models.Checklist}
// @Failure 400 {object} models.Response
// @Router /checklists [post]
func CreateChecklist(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateChecklistService(w, r)
	}
}

// UpdateChecklist godoc
// @Summary Update a checklist
// @Tags checklists
// @Accept json
// @Produce json
// @Param checklist-id path string true "Checklist ID"
// @Param checklist body models.Checklist true "Checklist"
// @Success 200 {object} models.Response{data=models.Checklist}
// @Failure 404 {object} models.Response
// @Router /checklists/{checklist-id} [put]
func UpdateChecklist(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateChecklistService(w, r)
	}
}

// ToggleChecklistStatus godoc
// @Summary Advance the status of a checklist
// @Description waiting -> in_progress -> done -> hold -> waiting
// @Tags checklists
// @Produce json
// @Param checklist-id path string true "Checklist ID"
// @Success 200 {object} models.Response{data=models.StatusChange}
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /checklists/{checklist-id}/status [put]
func ToggleChecklistStatus(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ToggleChecklistStatusService(w, r)
	}
}

// DeleteChecklist godoc
// @Summary Delete a checklist
// @Tags checklists
// @Param checklist-id path string true "Checklist ID"
// @Success 204
// @Failure 404 {object} models.Response
// @Router /checklists/{checklist-id} [delete]
func DeleteChecklist(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteChecklistService(w, r)
	}
}

// GetEducations godoc
// @Summary List security education sessions
// @Tags educations
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Education}
// @Router /educations [get]
func GetEducations(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetEducationsService(w, r)
	}
}

// GetEducation godoc
// @Summary Get a security education session
// @Tags educations
// @Produce json
// @Param education-id path string true "Education ID"
// @Success 200 {object} models.Response{data=models.Education}
// @Failure 404 {object} models.Response
// @Router /educations/{education-id} [get]
func GetEducation(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetEducationService(w, r)
	}
}

// CreateEducation godoc
// @Summary Create a security education session
// @Tags educations
// @Accept json
// @Produce json
// @Param education body models.Education true "Education"
// @Success 201 {object} models.Response{data=models.Education}
// @Failure 400 {object} models.Response
// @Router /educations [post]
func CreateEducation(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateEducationService(w, r)
	}
}

// UpdateEducation godoc
// @Summary Update a security education session
// @Tags educations
// @Accept json
// @Produce json
// @Param education-id path string true "Education ID"
// @Param education body models.Education true "Education"
// @Success 200 {object} models.Response{data=models.Education}
// @Failure 404 {object} models.Response
// @Router /educations/{education-id} [put]
func UpdateEducation(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateEducationService(w, r)
	}
}

// ToggleEducationStatus godoc
// @Summary Advance the status of a security education session
// @Description scheduled -> ongoing -> completed -> postponed -> scheduled
// @Tags educations
// @Produce json
// @Param education-id path string true "Education ID"
// @Success 200 {object} models.Response{data=models.StatusChange}
// @Failure 404 {object} models.Response
// @Router /educations/{education-id}/status [put]
func ToggleEducationStatus(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ToggleEducationStatusService(w, r)
	}
}

// DeleteEducation godoc
// @Summary Delete a security education session
// @Tags educations
// @Param education-id path string true "Education ID"
// @Success 204
// @Failure 404 {object} models.Response
// @Router /educations/{education-id} [delete]
func DeleteEducation(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteEducationService(w, r)
	}
}

// GetRevisions godoc
// @Summary List document revisions
// @Tags revisions
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Revision}
// @Router /revisions [get]
func GetRevisions(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetRevisionsService(w, r)
	}
}

// CreateRevision godoc
// @Summary Record a document revision
// @Tags revisions
// @Accept json
// @Produce json
// @Param revision body models.Revision true "Revision"
// @Success 201 {object} models.Response{data=models.Revision}
// @Failure 400 {object} models.Response
// @Router /revisions [post]
func CreateRevision(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateRevisionService(w, r)
	}
}

// DeleteRevision godoc
// @Summary Delete a document revision
// @Tags revisions
// @Param revision-id path string true "Revision ID"
// @Success 204
// @Failure 404 {object} models.Response
// @Router /revisions/{revision-id} [delete]
func DeleteRevision(svc *services.ComplianceService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteRevisionService(w, r)
	}
}

// GetAuditLogs godoc
// @Summary List audit events
// @Tags audit
// @Produce json
// @Param entity query string false "Entity filter"
// @Param limit query int false "Maximum number of entries" default(200)
// @Success 200 {object} models.Response{data=[]models.AuditLog}
// @Router /audit-logs [get]
func GetAuditLogs(svc *services.AuditService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetAuditLogsService(w, r)
	}
}
