package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/securegate/admin-portal/internal/authn"
	"github.com/securegate/admin-portal/internal/i18n"
	"github.com/securegate/admin-portal/models"
)

type contextKey string
type tokenKey string

const ClaimsKey contextKey = "claims"
const PermissionsKey contextKey = "permissions"
const TokenKey tokenKey = "token"

// JWTMiddleware parses the bearer JWT and adds its claims to the request
// context. With a non-empty secret the HS256 signature is verified too.
func JWTMiddleware(secret string) func(http.Handler) http.Handler {
	parse := authn.ParseClaims
	if secret != "" {
		parse = func(token string) (authn.Claims, error) {
			return authn.VerifyClaims(token, secret)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("handler", "JWTMiddleware").Logger()

				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					logger.Debug().Msg("authorization header missing")
					writeError(w, r, http.StatusUnauthorized, i18n.MsgUnauthorized)
					return
				}

				// Check the Authorization header format
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if token == authHeader {
					logger.Error().Msg("invalid token format")
					writeError(w, r, http.StatusUnauthorized, i18n.MsgUnauthorized)
					return
				}

				claims, err := parse(token)
				if err != nil {
					logger.Error().Err(err).Msg("invalid bearer jwt token")
					writeError(w, r, http.StatusUnauthorized, i18n.MsgUnauthorized)
					return
				}

				if claims.Username == "" {
					claims.Username = claims.Subject
				}

				ctx := context.WithValue(r.Context(), TokenKey, token)
				ctx = context.WithValue(ctx, ClaimsKey, claims)

				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}

// ClaimsFrom returns the claims stored by JWTMiddleware.
func ClaimsFrom(r *http.Request) (authn.Claims, bool) {
	claims, ok := r.Context().Value(ClaimsKey).(authn.Claims)
	return claims, ok
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, msgKey string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(models.Response{Success: false, Error: i18n.T(r, msgKey)})
}
