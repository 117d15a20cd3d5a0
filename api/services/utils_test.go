package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lib/pq"
	"github.com/securegate/admin-portal/db"
	"github.com/securegate/admin-portal/internal/status"
	"github.com/securegate/admin-portal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelope decodes a response with a typed data field.
type envelope[T any] struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	Data      T      `json:"data"`
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env), "response should be valid JSON")
	return env
}

func TestHandleStoreError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		pqCode  string
	}{
		{"not found", fmt.Errorf("update: %w", db.ErrNotFound), http.StatusNotFound, "resource not found", ""},
		{"already exists", db.ErrAlreadyExists, http.StatusConflict, "already exists", ""},
		{"unique violation", &pq.Error{Code: "23505"}, http.StatusConflict, "already exists", "unique_violation"},
		{"foreign key violation", &pq.Error{Code: "23503"}, http.StatusBadRequest, "", "foreign_key_violation"},
		{"unknown state", &status.UnknownStateError{State: "archived"}, http.StatusBadRequest, "", ""},
		{"other", errors.New("connection reset"), http.StatusInternalServerError, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			w := httptest.NewRecorder()

			HandleStoreError(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			env := decodeEnvelope[any](t, w)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
			if tt.message != "" {
				assert.Equal(t, tt.message, env.Error)
			}
			assert.Equal(t, tt.pqCode, env.ErrorCode)
		})
	}
}

func TestHandleErrResponse_Localized(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")
	w := httptest.NewRecorder()

	HandleStoreError(w, r, &pq.Error{Code: "23505"})

	assert.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope[any](t, w)
	assert.Equal(t, "이미 존재합니다", env.Error)
}

func TestHandleSuccessResponse(t *testing.T) {
	w := httptest.NewRecorder()
	HandleSuccessResponse(w, http.StatusCreated, models.Role{Code: "ADMIN"}, "/api/roles/ADMIN")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/roles/ADMIN", w.Header().Get("Location"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	env := decodeEnvelope[models.Role](t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "ADMIN", env.Data.Code)

	w = httptest.NewRecorder()
	HandleSuccessResponse(w, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestAudit_PublishFailureIsIgnored(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("Publish", models.AuditLog{Entity: "user", EntityID: "1", Action: "delete"}).
		Return(errors.New("broker down"))

	r := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	assert.NotPanics(t, func() { audit(notifier, r, "user", "1", "delete", "") })
	assert.NotPanics(t, func() { audit(nil, r, "user", "1", "delete", "") })

	notifier.AssertExpectations(t)
}
