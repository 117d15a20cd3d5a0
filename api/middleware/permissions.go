package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/internal/i18n"
	"github.com/securegate/admin-portal/internal/permission"
)

// RoleSource looks up role grants for users whose token carries none.
type RoleSource interface {
	UserRoleCodes(ctx context.Context, username string) ([]string, error)
}

// PermissionGuard resolves the caller's merged menu permissions and checks
// them against the permission each route requires.
type PermissionGuard struct {
	resolver        *permission.Resolver
	roles           RoleSource
	roleClaimPrefix string
}

func NewPermissionGuard(store permission.Store, roles RoleSource, roleClaimPrefix string) *PermissionGuard {
	return &PermissionGuard{
		resolver:        permission.NewResolver(store),
		roles:           roles,
		roleClaimPrefix: roleClaimPrefix,
	}
}

// RoleCodes returns the caller's role codes, from the token first and from
// the user's stored grants otherwise.
func (g *PermissionGuard) RoleCodes(r *http.Request) ([]string, error) {
	claims, ok := ClaimsFrom(r)
	if !ok {
		return nil, permission.ErrNoRoles
	}

	codes := claims.RoleCodes(g.roleClaimPrefix)
	if len(codes) > 0 || g.roles == nil || claims.Username == "" {
		return codes, nil
	}
	return g.roles.UserRoleCodes(r.Context(), claims.Username)
}

// Permissions returns the caller's merged permissions, resolving them at most
// once per request.
func (g *PermissionGuard) Permissions(r *http.Request) (permission.Set, error) {
	if set, ok := r.Context().Value(PermissionsKey).(permission.Set); ok {
		return set, nil
	}

	codes, err := g.RoleCodes(r)
	if err != nil {
		return nil, err
	}
	return g.resolver.Resolve(r.Context(), codes)
}

// RequirePermission only lets requests through whose roles grant action on menuPath.
func (g *PermissionGuard) RequirePermission(menuPath string, action permission.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("menu_path", menuPath).
					Str("action", string(action)).Logger()

				set, err := g.Permissions(r)
				if err != nil {
					if errors.Is(err, permission.ErrNoRoles) {
						logger.Warn().Msg("no role information for request")
						writeError(w, r, http.StatusUnauthorized, i18n.MsgNoRoles)
						return
					}
					logger.Error().Err(err).Msg("failed to resolve permissions")
					writeError(w, r, http.StatusInternalServerError, i18n.MsgInternal)
					return
				}

				if !set.Allows(menuPath, action) {
					logger.Warn().Msg("permission denied")
					writeError(w, r, http.StatusForbidden, i18n.MsgForbidden)
					return
				}

				ctx := context.WithValue(r.Context(), PermissionsKey, set)
				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}
