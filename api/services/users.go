package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/securegate/admin-portal/internal/i18n"
	"github.com/securegate/admin-portal/models"
)

// GetUsersService lists active users with their roles.
func (svc *DirectoryService) GetUsersService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	users, err := svc.DB.GetUsers(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve users from database")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Int("user_count", len(users)).Msg("Successfully retrieved users")
	HandleSuccessResponse(w, http.StatusOK, users)
}

// GetUserService retrieves a single user.
func (svc *DirectoryService) GetUserService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := parseUUIDVar(w, r, "user-id")
	if !ok {
		return
	}

	user, err := svc.DB.GetUser(r.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID.String()).Msg("Database error retrieving user")
		HandleStoreError(w, r, err)
		return
	}
	if user == nil {
		logger.Warn().Str("user_id", userID.String()).Msg("User not found")
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}

	HandleSuccessResponse(w, http.StatusOK, user)
}

// CreateUserService creates a user and grants the requested roles.
func (svc *DirectoryService) CreateUserService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var user models.User
	if !decodeBody(w, r, &user) {
		return
	}

	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" {
		HandleErrResponse(w, r, http.StatusBadRequest, i18n.MsgMissingField, nil, "username")
		return
	}
	user.Roles = lo.Uniq(lo.Compact(user.Roles))

	if err := svc.DB.CreateUser(r.Context(), &user); err != nil {
		logger.Error().Err(err).Str("username", user.Username).Msg("Failed to create user in database")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("User created successfully")
	audit(svc.Events, r, "user", user.ID.String(), "create", user.Username)

	location := fmt.Sprintf("%s/%s", r.URL.Path, user.ID)
	HandleSuccessResponse(w, http.StatusCreated, user, location)
}

// UpdateUserService updates the profile of a user.
func (svc *DirectoryService) UpdateUserService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := parseUUIDVar(w, r, "user-id")
	if !ok {
		return
	}

	var user models.User
	if !decodeBody(w, r, &user) {
		return
	}
	user.ID = userID

	if err := svc.DB.UpdateUser(r.Context(), &user); err != nil {
		logger.Error().Err(err).Str("user_id", userID.String()).Msg("Database error updating user")
		HandleStoreError(w, r, err)
		return
	}

	updated, err := svc.DB.GetUser(r.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to reload updated user")
		HandleStoreError(w, r, err)
		return
	}
	if updated == nil {
		HandleErrResponse(w, r, http.StatusNotFound, i18n.MsgNotFound, nil)
		return
	}

	logger.Info().Str("user_id", userID.String()).Msg("User updated successfully")
	audit(svc.Events, r, "user", userID.String(), "update", "")
	HandleSuccessResponse(w, http.StatusOK, updated)
}

// SetUserRolesService replaces the role set of a user.
func (svc *DirectoryService) SetUserRolesService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := parseUUIDVar(w, r, "user-id")
	if !ok {
		return
	}

	var req models.UserRolesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	roles := lo.Uniq(lo.Compact(req.Roles))

	if err := svc.DB.SetUserRoles(r.Context(), userID, roles); err != nil {
		logger.Error().Err(err).Str("user_id", userID.String()).Msg("Database error setting user roles")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Str("user_id", userID.String()).Strs("roles", roles).Msg("User roles replaced")
	audit(svc.Events, r, "user", userID.String(), "roles", strings.Join(roles, ","))
	HandleSuccessResponse(w, http.StatusOK, models.UserRolesRequest{Roles: roles})
}

// DeleteUserService soft deletes a user and its role grants.
func (svc *DirectoryService) DeleteUserService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := parseUUIDVar(w, r, "user-id")
	if !ok {
		return
	}

	if err := svc.DB.DeleteUser(r.Context(), userID); err != nil {
		logger.Error().Err(err).Str("user_id", userID.String()).Msg("Database error deleting user")
		HandleStoreError(w, r, err)
		return
	}

	logger.Info().Str("user_id", userID.String()).Msg("User deleted successfully")
	audit(svc.Events, r, "user", userID.String(), "delete", "")
	HandleSuccessResponse(w, http.StatusNoContent, nil)
}
