package services

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/internal/i18n"
	"github.com/securegate/admin-portal/internal/status"
	"github.com/securegate/admin-portal/models"
)

// GetChecklistsService lists active checklists, optionally filtered by status
// and department.
func (svc *ComplianceService) GetChecklistsService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var filter models.ChecklistFilter
	if s := r.URL.Query().Get("status"); s != "" {
		if !status.ChecklistCycle.Valid(s) {
			HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidStatus, nil)
			return
		}
		filter.Status = s
	}
	if d := r.URL.Query().Get("department"); d != "" {
		id, err := uuid.Parse(d)
		if err != nil {
			HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidID, err)
			return
		}
		filter.DepartmentID = &id
	}

	checklists, err := svc.DB.GetChecklists(r.Context(), filter)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve checklists from database")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Int("checklist_count", len(checklists)).Msg("Successfully retrieved checklists")
	HandleSuccessResponse(w, http.StatusOK, checklists)
}

func (svc *ComplianceService) GetChecklistService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "checklist-id")
	if !ok {
		return
	}

	checklist, err := svc.DB.GetChecklist(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Str("checklist_id", id.String()).Msg("Database error retrieving checklist")
		HandleStoreError(w, r, err)
		return
	}
	if checklist == nil {
		logger.Warn().Str("checklist_id", id.String()).Msg("Checklist not found")
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}
	HandleSuccessResponse(w, http.StatusOK, checklist)
}

// CreateChecklistService creates a checklist with the next sequential code.
func (svc *ComplianceService) CreateChecklistService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var checklist models.Checklist
	if !decodeBody(w, r, &checklist) {
		return
	}

	checklist.Title = strings.TrimSpace(checklist.Title)
	if checklist.Title == "" {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "title")
		return
	}
	if !validProgress(checklist.Progress) {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidProgress, nil)
		return
	}
	if !initialStatus(&checklist.Status, &checklist.Progress, &checklist.CompletedAt, status.ChecklistCycle) {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidStatus, nil)
		return
	}
	checklist.CreatedBy = actor(r)

	if err := svc.DB.CreateChecklist(r.Context(), &checklist, svc.ChecklistCodes); err != nil {
		logger.Error().Err(err).Msg("Failed to create checklist in database")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Str("checklist_id", checklist.ID.String()).Str("code", checklist.Code).Msg("Checklist created successfully")
	audit(svc.Events, r, "checklist", checklist.ID.String(), "create", checklist.Code)

	location := fmt.Sprintf("%s/%s", r.URL.Path, checklist.ID)
	HandleSuccessResponse(w, http.StatusCreated, checklist, location)
}

func (svc *ComplianceService) UpdateChecklistService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "checklist-id")
	if !ok {
		return
	}

	var checklist models.Checklist
	if !decodeBody(w, r, &checklist) {
		return
	}
	checklist.ID = id
	checklist.Title = strings.TrimSpace(checklist.Title)
	if checklist.Title == "" {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "title")
		return
	}
	if !validProgress(checklist.Progress) {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidProgress, nil)
		return
	}

	if err := svc.DB.UpdateChecklist(r.Context(), &checklist); err != nil {
		logger.Error().Err(err).Str("checklist_id", id.String()).Msg("Database error updating checklist")
		HandleStoreError(w, r, err)
		return
	}

	updated, err := svc.DB.GetChecklist(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Str("checklist_id", id.String()).Msg("Failed to reload updated checklist")
		HandleStoreError(w, r, err)
		return
	}
	if updated == nil {
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}

	audit(svc.Events, r, "checklist", id.String(), "update", updated.Code)
	HandleSuccessResponse(w, http.StatusOK, updated)
}

// ToggleChecklistStatusService advances a checklist one step along its status
// cycle and notifies the compliance team when it is completed.
func (svc *ComplianceService) ToggleChecklistStatusService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "checklist-id")
	if !ok {
		return
	}

	change, err := svc.DB.ToggleChecklistStatus(r.Context(), id, status.ChecklistCycle)
	if err != nil {
		logger.Error().Err(err).Str("checklist_id", id.String()).Msg("Failed to toggle checklist status")
		HandleStoreError(w, r, err)
		return
	}
	if change == nil {
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}

	logger.Info().Str("checklist_id", id.String()).Str("from", change.From).Str("to", change.To).Msg("Checklist status changed")
	audit(svc.Events, r, "checklist", id.String(), "status", change.From+" -> "+change.To)

	if change.Completed {
		svc.notifyChecklistDone(r, id)
	}

	HandleSuccessResponse(w, http.StatusOK, change)
}

func (svc *ComplianceService) DeleteChecklistService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "checklist-id")
	if !ok {
		return
	}

	if err := svc.DB.DeleteChecklist(r.Context(), id); err != nil {
		logger.Error().Err(err).Str("checklist_id", id.String()).Msg("Database error deleting checklist")
		HandleStoreError(w, r, err)
		return
	}

	audit(svc.Events, r, "checklist", id.String(), "delete", "")
	HandleSuccessResponse(w, http.StatusNoContent, nil)
}

// initialStatus defaults an empty status to the start of cycle and stamps
// completion when a record is created already complete. It reports false for
// states outside the cycle.
func initialStatus(state *string, progress *int, completedAt **time.Time, cycle status.Cycle) bool {
	if *state == "" {
		*state = cycle.Initial()
	}
	if !cycle.Valid(*state) {
		return false
	}
	if *state == cycle.Terminal() {
		now := time.Now().UTC()
		*completedAt = &now
		*progress = 100
	} else {
		*completedAt = nil
	}
	return true
}
