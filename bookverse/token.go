package bookverse

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken means the bearer token is not a JWT, so nothing can be read
// from it. The token is still usable.
var ErrOpaqueToken = errors.New("token is not a JWT")

// TokenExpiry reads the exp claim of a JWT bearer token without verifying the
// signature; the client never holds the signing key. ok is false when the
// token has no exp claim.
func TokenExpiry(token string) (exp time.Time, ok bool, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, ErrOpaqueToken
	}
	nd, err := claims.GetExpirationTime()
	if err != nil || nd == nil {
		return time.Time{}, false, nil
	}
	return nd.Time, true, nil
}
