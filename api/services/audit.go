package services

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/db"
)

// GetAuditLogsService returns the most recent audit events, newest first.
func (svc *AuditService) GetAuditLogsService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	entity := r.URL.Query().Get("entity")
	limit := queryInt(r, "limit", db.DefaultAuditLimit)
	if limit <= 0 {
		limit = db.DefaultAuditLimit
	}
	if limit > db.MaxAuditLimit {
		limit = db.MaxAuditLimit
	}

	logs, err := svc.DB.GetAuditLogs(r.Context(), entity, limit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve audit logs")
		HandleStoreError(w, r, err)
		return
	}
	HandleSuccessResponse(w, http.StatusOK, logs)
}
