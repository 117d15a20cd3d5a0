package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/securegate/admin-portal/api/middleware"
	"github.com/securegate/admin-portal/db"
	"github.com/securegate/admin-portal/internal/authn"
	"github.com/securegate/admin-portal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func withClaims(r *http.Request, username string, roles ...string) *http.Request {
	claims := authn.Claims{Username: username}
	claims.RealmAccess.Roles = roles
	ctx := context.WithValue(r.Context(), middleware.ClaimsKey, claims)
	return r.WithContext(ctx)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(v)
	assert.NoError(t, err)
	return bytes.NewReader(body)
}

func TestGetUsersService(t *testing.T) {
	mockDB := new(MockDirectoryStore)
	users := []models.User{
		{ID: uuid.New(), Username: "alice", Roles: []string{"ADMIN"}},
		{ID: uuid.New(), Username: "bob", Roles: []string{"AUDITOR"}},
	}
	mockDB.On("GetUsers", mock.Anything).Return(users, nil)

	svc := DirectoryService{DB: mockDB}

	r := withClaims(httptest.NewRequest(http.MethodGet, "/api/users", nil), "alice")
	w := httptest.NewRecorder()
	svc.GetUsersService(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope[[]models.User](t, w)
	assert.True(t, env.Success)
	assert.Len(t, env.Data, 2)
	assert.Equal(t, "bob", env.Data[1].Username)

	mockDB.AssertExpectations(t)
}

func TestGetUserService_NotFound(t *testing.T) {
	mockDB := new(MockDirectoryStore)
	userID := uuid.New()
	mockDB.On("GetUser", mock.Anything, userID).Return(nil, nil)

	svc := DirectoryService{DB: mockDB}

	r := httptest.NewRequest(http.MethodGet, "/api/users/"+userID.String(), nil)
	r = mux.SetURLVars(r, map[string]string{"user-id": userID.String()})
	w := httptest.NewRecorder()
	svc.GetUserService(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope[any](t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "resource not found", env.Error)
}

func TestGetUserService_InvalidID(t *testing.T) {
	svc := DirectoryService{DB: new(MockDirectoryStore)}

	r := httptest.NewRequest(http.MethodGet, "/api/users/not-a-uuid", nil)
	r = mux.SetURLVars(r, map[string]string{"user-id": "not-a-uuid"})
	w := httptest.NewRecorder()
	svc.GetUserService(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUserService(t *testing.T) {
	mockDB := new(MockDirectoryStore)
	notifier := new(MockNotifier)
	newID := uuid.New()

	mockDB.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "carol" && assert.ObjectsAreEqual([]string{"ADMIN", "AUDITOR"}, u.Roles)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = newID
	}).Return(nil)
	notifier.On("Publish", mock.MatchedBy(func(e models.AuditLog) bool {
		return e.Entity == "user" && e.Action == "create" && e.Actor == "alice" && e.EntityID == newID.String()
	})).Return(nil)

	svc := DirectoryService{DB: mockDB, Events: notifier}

	payload := models.User{Username: " carol ", Email: "carol@example.com", Roles: []string{"ADMIN", "", "AUDITOR", "ADMIN"}}
	r := withClaims(httptest.NewRequest(http.MethodPost, "/api/users", jsonBody(t, payload)), "alice")
	w := httptest.NewRecorder()
	svc.CreateUserService(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/users/"+newID.String(), w.Header().Get("Location"))
	env := decodeEnvelope[models.User](t, w)
	assert.Equal(t, "carol", env.Data.Username)
	assert.Equal(t, newID, env.Data.ID)

	mockDB.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateUserService_MissingUsername(t *testing.T) {
	mockDB := new(MockDirectoryStore)
	svc := DirectoryService{DB: mockDB}

	r := httptest.NewRequest(http.MethodPost, "/api/users", jsonBody(t, models.User{Email: "x@example.com"}))
	w := httptest.NewRecorder()
	svc.CreateUserService(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope[any](t, w)
	assert.Equal(t, "required field missing: username", env.Error)
	mockDB.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestCreateUserService_Duplicate(t *testing.T) {
	mockDB := new(MockDirectoryStore)
	mockDB.On("CreateUser", mock.Anything, mock.Anything).Return(db.ErrAlreadyExists)

	svc := DirectoryService{DB: mockDB}

	r := httptest.NewRequest(http.MethodPost, "/api/users", jsonBody(t, models.User{Username: "alice"}))
	w := httptest.NewRecorder()
	svc.CreateUserService(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSetUserRolesService(t *testing.T) {
	mockDB := new(MockDirectoryStore)
	userID := uuid.New()
	mockDB.On("SetUserRoles", mock.Anything, userID, []string{"AUDITOR"}).Return(nil)

	svc := DirectoryService{DB: mockDB}

	body := jsonBody(t, models.UserRolesRequest{Roles: []string{"AUDITOR", "AUDITOR"}})
	r := httptest.NewRequest(http.MethodPut, "/api/users/"+userID.String()+"/roles", body)
	r = mux.SetURLVars(r, map[string]string{"user-id": userID.String()})
	w := httptest.NewRecorder()
	svc.SetUserRolesService(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope[models.UserRolesRequest](t, w)
	assert.Equal(t, []string{"AUDITOR"}, env.Data.Roles)
	mockDB.AssertExpectations(t)
}

func TestDeleteUserService(t *testing.T) {
	mockDB := new(MockDirectoryStore)
	userID := uuid.New()
	mockDB.On("DeleteUser", mock.Anything, userID).Return(nil)

	svc := DirectoryService{DB: mockDB}

	r := httptest.NewRequest(http.MethodDelete, "/api/users/"+userID.String(), nil)
	r = mux.SetURLVars(r, map[string]string{"user-id": userID.String()})
	w := httptest.NewRecorder()
	svc.DeleteUserService(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
	mockDB.AssertExpectations(t)
}

func TestDeleteUserService_NotFound(t *testing.T) {
	mockDB := new(MockDirectoryStore)
	userID := uuid.New()
	mockDB.On("DeleteUser", mock.Anything, userID).Return(db.ErrNotFound)

	svc := DirectoryService{DB: mockDB}

	r := httptest.NewRequest(http.MethodDelete, "/api/users/"+userID.String(), nil)
	r = mux.SetURLVars(r, map[string]string{"user-id": userID.String()})
	w := httptest.NewRecorder()
	svc.DeleteUserService(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserService_DeletedBeforeReload(t *testing.T) {
	mockDB := new(MockDirectoryStore)
	notifier := new(MockNotifier)
	userID := uuid.New()
	mockDB.On("UpdateUser", mock.Anything, mock.Anything).Return(nil)
	mockDB.On("GetUser", mock.Anything, userID).Return(nil, nil)

	svc := DirectoryService{DB: mockDB, Events: notifier}

	r := withClaims(httptest.NewRequest(http.MethodPut, "/api/users/"+userID.String(), jsonBody(t, models.User{Email: "jdoe@example.com"})), "alice")
	r = mux.SetURLVars(r, map[string]string{"user-id": userID.String()})
	w := httptest.NewRecorder()
	svc.UpdateUserService(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope[any](t, w)
	assert.Equal(t, "resource not found", env.Error)
	notifier.AssertNotCalled(t, "Publish", mock.Anything)
}
