package sdk

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessRefreshSkew is how close to expiry an access token may get before
// the pipeline refreshes it ahead of a request.
const AccessRefreshSkew = 30 * time.Second

// tokenExpiry reads the exp claim from a JWT-shaped access token without
// verifying the signature. Tokens are inspected locally only to schedule
// refreshes, never to authorize.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// tokenExpiringSoon reports whether the token's exp claim falls within
// skew of now. Tokens without a readable exp claim are never considered
// expiring; the server remains the authority on their validity.
func tokenExpiringSoon(token string, skew time.Duration, now time.Time) bool {
	exp, ok := tokenExpiry(token)
	if !ok {
		return false
	}
	return exp.Sub(now) <= skew
}
