package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/api/middleware"
	"github.com/securegate/admin-portal/db"
	"github.com/securegate/admin-portal/internal/events"
	"github.com/securegate/admin-portal/internal/i18n"
	"github.com/securegate/admin-portal/internal/status"
	"github.com/securegate/admin-portal/models"
)

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most current data
	w.Header().Set("Cache-Control", "max-age=0")

	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// HandleSuccessResponse wraps data in the success envelope.
func HandleSuccessResponse(w http.ResponseWriter, statusCode int, data interface{}, location ...string) {
	if statusCode == http.StatusNoContent {
		WriteResponse(w, statusCode, nil)
		return
	}
	WriteResponse(w, statusCode, models.Response{Success: true, Data: data}, location...)
}

// HandleErrResponse writes the error envelope with a localized message. A
// *pq.Error is passed through as the error code.
func HandleErrResponse(w http.ResponseWriter, r *http.Request, statusCode int, msgKey string, err error, args ...interface{}) {
	response := models.Response{
		Success: false,
		Error:   i18n.T(r, msgKey, args...),
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		response.ErrorCode = pqErr.Code.Name()
	}

	WriteResponse(w, statusCode, response)
}

// HandleStoreError maps store errors onto HTTP status codes.
func HandleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var pqErr *pq.Error
	var unknown *status.UnknownStateError

	switch {
	case errors.Is(err, db.ErrNotFound):
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, err)
	case errors.Is(err, db.ErrAlreadyExists):
		HandleErrResponse(w, r, http.StatusConflict, i18n.MsgAlreadyExists, err)
	case errors.As(err, &unknown):
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidStatus, err)
	case errors.As(err, &pqErr):
		switch pqErr.Code.Name() {
		case "unique_violation":
			HandleErrResponse(w, r, http.StatusConflict, i18n.MsgAlreadyExists, err)
		case "foreign_key_violation", "check_violation", "invalid_text_representation":
			HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgBadRequest, err)
		default:
			HandleErrResponse(w, r, http.StatusInternalServerError, i18n.MsgInternal, err)
		}
	default:
		HandleErrResponse(w, r, http.StatusInternalServerError, i18n.MsgInternal, err)
	}
}

// actor returns the username of the caller, or "" when unauthenticated.
func actor(r *http.Request) string {
	claims, _ := middleware.ClaimsFrom(r)
	return claims.Username
}

// parseUUIDVar reads a uuid path variable, writing a 400 when it is invalid.
func parseUUIDVar(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str(name, mux.Vars(r)[name]).Msg("Invalid identifier")
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidID, err)
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody decodes the JSON request body, writing a 400 when it is invalid.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgInvalidBody, err)
		return false
	}
	return true
}

// queryInt reads an integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

func validProgress(p int) bool {
	return p >= 0 && p <= 100
}

// audit publishes an audit event. Failures are logged and never fail the request.
func audit(notifier events.Notifier, r *http.Request, entity, entityID, action, details string) {
	if notifier == nil {
		return
	}
	event := models.AuditLog{
		Actor:    actor(r),
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := notifier.Publish(event); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("entity", entity).Str("entity_id", entityID).Msg("Failed to publish audit event")
	}
}
