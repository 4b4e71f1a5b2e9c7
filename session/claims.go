package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the exp claim from an access token without verifying
// its signature. The token stays an opaque bearer credential for all
// authorization purposes; expiry is read purely for diagnostics (status
// output, bootstrap logging). Returns false for tokens that are not JWTs or
// carry no exp claim.
func TokenExpiry(rawToken string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(rawToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
