package services

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/internal/i18n"
	"github.com/securegate/admin-portal/internal/permission"
)

// GetMyPermissionsService returns the caller's merged menu permissions, which
// the front end uses to build its navigation.
func (svc *PermissionService) GetMyPermissionsService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	set, err := svc.Guard.Permissions(r)
	if err != nil {
		if errors.Is(err, permission.ErrNoRoles) {
			HandleErrResponse(w, r, http.StatusUnauthorized, i18n.MsgNoRoles, err)
			return
		}
		logger.Error().Err(err).Msg("Failed to resolve permissions")
		HandleStoreError(w, r, err)
		return
	}
	HandleSuccessResponse(w, http.StatusOK, set)
}
