package authn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/samber/lo"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrInvalidClaims = errors.New("invalid claims")
var ErrInvalidSignature = errors.New("invalid jwt signature")

type Claims struct {
	jwt.StandardClaims
	Username    string `json:"preferred_username"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// ParseClaims decodes the token without checking its signature. Tokens are
// expected to have been verified upstream by the gateway.
func ParseClaims(token string) (Claims, error) {
	claims := Claims{}
	// Check if token is JWT by attempting to parse it
	if t, err := jwt.ParseWithClaims(token, &claims, nil); err != nil {
		// Ignore validation errors (no need to check signing of key)
		if _, ok := err.(*jwt.ValidationError); !ok {
			return claims, ErrInvalidJWT
		}

		if t == nil {
			return claims, ErrInvalidClaims
		}
	}
	return claims, nil
}

// VerifyClaims decodes the token and checks its HS256 signature and expiry
// against secret.
func VerifyClaims(token, secret string) (Claims, error) {
	claims := Claims{}
	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorMalformed != 0 {
			return claims, ErrInvalidJWT
		}
		return claims, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !t.Valid {
		return claims, ErrInvalidClaims
	}
	return claims, nil
}

// RoleCodes returns the realm roles that map to portal roles. With a prefix
// only roles carrying it are kept, with the prefix stripped.
func (c Claims) RoleCodes(prefix string) []string {
	roles := c.RealmAccess.Roles
	if prefix != "" {
		roles = lo.FilterMap(roles, func(role string, _ int) (string, bool) {
			if !strings.HasPrefix(role, prefix) {
				return "", false
			}
			return strings.TrimPrefix(role, prefix), true
		})
	}
	return lo.Uniq(lo.Compact(roles))
}
