package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/internal/i18n"
	"github.com/securegate/admin-portal/internal/status"
	"github.com/securegate/admin-portal/models"
)

func (svc *ComplianceService) GetEducationsService(w http.ResponseWriter, r *http.Request) {
	educations, err := svc.DB.GetEducations(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to retrieve educations from database")
		HandleStoreError(w, r, err)
		return
	}
	HandleSuccessResponse(w, http.StatusOK, educations)
}

func (svc *ComplianceService) GetEducationService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "education-id")
	if !ok {
		return
	}

	education, err := svc.DB.GetEducation(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Str("education_id", id.String()).Msg("Database error retrieving education")
		HandleStoreError(w, r, err)
		return
	}
	if education == nil {
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}
	HandleSuccessResponse(w, http.StatusOK, education)
}

func (svc *ComplianceService) CreateEducationService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var education models.Education
	if !decodeBody(w, r, &education) {
		return
	}

	education.Title = strings.TrimSpace(education.Title)
	if education.Title == "" {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "title")
		return
	}
	if !validProgress(education.Progress) {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidProgress, nil)
		return
	}
	if education.AttendeeCount < 0 {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgBadRequest, nil)
		return
	}
	if !initialStatus(&education.Status, &education.Progress, &education.CompletedAt, status.EducationCycle) {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidStatus, nil)
		return
	}
	education.CreatedBy = actor(r)

	if err := svc.DB.CreateEducation(r.Context(), &education, svc.EducationCodes); err != nil {
		logger.Error().Err(err).Msg("Failed to create education in database")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Str("education_id", education.ID.String()).Str("code", education.Code).Msg("Education created successfully")
	audit(svc.Events, r, "education", education.ID.String(), "create", education.Code)

	location := fmt.Sprintf("%s/%s", r.URL.Path, education.ID)
	HandleSuccessResponse(w, http.StatusCreated, education, location)
}

func (svc *ComplianceService) UpdateEducationService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "education-id")
	if !ok {
		return
	}

	var education models.Education
	if !decodeBody(w, r, &education) {
		return
	}
	education.ID = id
	education.Title = strings.TrimSpace(education.Title)
	if education.Title == "" {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "title")
		return
	}
	if !validProgress(education.Progress) {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidProgress, nil)
		return
	}

	if err := svc.DB.UpdateEducation(r.Context(), &education); err != nil {
		logger.Error().Err(err).Str("education_id", id.String()).Msg("Database error updating education")
		HandleStoreError(w, r, err)
		return
	}

	updated, err := svc.DB.GetEducation(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Str("education_id", id.String()).Msg("Failed to reload updated education")
		HandleStoreError(w, r, err)
		return
	}
	if updated == nil {
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}

	audit(svc.Events, r, "education", id.String(), "update", updated.Code)
	HandleSuccessResponse(w, http.StatusOK, updated)
}

func (svc *ComplianceService) ToggleEducationStatusService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "education-id")
	if !ok {
		return
	}

	change, err := svc.DB.ToggleEducationStatus(r.Context(), id, status.EducationCycle)
	if err != nil {
		logger.Error().Err(err).Str("education_id", id.String()).Msg("Failed to toggle education status")
		HandleStoreError(w, r, err)
		return
	}
	if change == nil {
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}

	audit(svc.Events, r, "education", id.String(), "status", change.From+" -> "+change.To)
	HandleSuccessResponse(w, http.StatusOK, change)
}

func (svc *ComplianceService) DeleteEducationService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "education-id")
	if !ok {
		return
	}

	if err := svc.DB.DeleteEducation(r.Context(), id); err != nil {
		logger.Error().Err(err).Str("education_id", id.String()).Msg("Database error deleting education")
		HandleStoreError(w, r, err)
		return
	}

	audit(svc.Events, r, "education", id.String(), "delete", "")
	HandleSuccessResponse(w, http.StatusNoContent, nil)
}
