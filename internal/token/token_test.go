package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	signed, err := Issue(secret, Claims{
		Name:  "Ada",
		Email: "ada@campus.edu",
		Role:  "student",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user-42",
		},
	}, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "ada@campus.edu", claims.Email)
	assert.Equal(t, "student", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	signed, err := Issue(secret, Claims{
		Role:             "student",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(signed, secret)
	require.Error(t, err)

	var expired *ExpiredError
	require.ErrorAs(t, err, &expired, "expired token must not collapse into ErrInvalid")
	assert.False(t, errors.Is(err, ErrInvalid))
	assert.WithinDuration(t, time.Now().Add(-time.Minute), expired.ExpiredAt, time.Minute)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := Issue([]byte("right-secret"), Claims{
		Role:             "student",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u2"},
	}, time.Hour)
	require.NoError(t, err)

	_, err = Parse(signed, []byte("wrong-secret"))
	require.ErrorIs(t, err, ErrInvalid)

	var expired *ExpiredError
	assert.False(t, errors.As(err, &expired))
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Parse("abc.def.ghi", []byte("k"))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestParse_RejectsUnexpectedAlg(t *testing.T) {
	t.Parallel()

	// alg=none style tokens must never verify.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u3"},
	})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Parse(signed, []byte("secret"))
	require.ErrorIs(t, err, ErrInvalid)
}
