// Package token issues and verifies the stateless bearer tokens used for
// session authorization. Tokens are self-contained: validity is a function
// of signature and expiry only, never of server-side state.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid covers every verification failure except expiry: malformed
// tokens, wrong signing method, bad signatures.
var ErrInvalid = errors.New("invalid token")

// ExpiredError reports a structurally valid token whose expiry has passed.
// ExpiredAt is surfaced to clients so they can distinguish "re-login" from
// "tampered token".
type ExpiredError struct {
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("token expired at %s", e.ExpiredAt.Format(time.RFC3339))
}

// Claims is the identity fact set embedded in every token.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given claims with an expiry of now+ttl.
// The subject must already be set to the user id.
func Issue(secret []byte, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the embedded claims.
// Expired tokens return *ExpiredError; any other failure returns ErrInvalid.
func Parse(raw string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			// Claims are decoded before validation, so the original
			// expiry is available here.
			exp := time.Time{}
			if claims.ExpiresAt != nil {
				exp = claims.ExpiresAt.Time
			}
			return nil, &ExpiredError{ExpiredAt: exp}
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if !tok.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
