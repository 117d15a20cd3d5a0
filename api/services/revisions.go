package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/internal/i18n"
	"github.com/securegate/admin-portal/models"
)

func (svc *ComplianceService) GetRevisionsService(w http.ResponseWriter, r *http.Request) {
	revisions, err := svc.DB.GetRevisions(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to retrieve revisions from database")
		HandleStoreError(w, r, err)
		return
	}
	HandleSuccessResponse(w, http.StatusOK, revisions)
}

// CreateRevisionService records a document revision under the next revision code.
func (svc *ComplianceService) CreateRevisionService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var revision models.Revision
	if !decodeBody(w, r, &revision) {
		return
	}

	revision.DocumentTitle = strings.TrimSpace(revision.DocumentTitle)
	if revision.DocumentTitle == "" {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "documentTitle")
		return
	}
	if revision.RevisedBy == "" {
		revision.RevisedBy = actor(r)
	}

	if err := svc.DB.CreateRevision(r.Context(), &revision, svc.RevisionCodes); err != nil {
		logger.Error().Err(err).Msg("Failed to create revision in database")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Str("revision_id", revision.ID.String()).Str("code", revision.Code).Msg("Revision created successfully")
	audit(svc.Events, r, "revision", revision.ID.String(), "create", revision.Code)

	location := fmt.Sprintf("%s/%s", r.URL.Path, revision.ID)
	HandleSuccessResponse(w, http.StatusCreated, revision, location)
}

func (svc *ComplianceService) DeleteRevisionService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, ok := parseUUIDVar(w, r, "revision-id")
	if !ok {
		return
	}

	if err := svc.DB.DeleteRevision(r.Context(), id); err != nil {
		logger.Error().Err(err).Str("revision_id", id.String()).Msg("Database error deleting revision")
		HandleStoreError(w, r, err)
		return
	}

	audit(svc.Events, r, "revision", id.String(), "delete", "")
	HandleSuccessResponse(w, http.StatusNoContent, nil)
}
