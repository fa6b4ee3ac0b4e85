package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestNewAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	now := time.Now().UTC()

	token, exp, err := NewAccessToken(secret, userID, now, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessClaimsFromToken_Expired(t *testing.T) {
	t.Parallel()

	token, _, err := NewAccessToken(secret, uuid.NewString(), time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, secret)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, IsExpired(err))
}

func TestAccessClaimsFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewAccessToken(secret, uuid.NewString(), time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, []byte("other"))
	require.Error(t, err)
	assert.False(t, IsExpired(err))
}

func TestAccessClaimsFromToken_RejectsOtherAlg(t *testing.T) {
	t.Parallel()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x"},
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, secret)
	require.Error(t, err)
}

func TestCookies(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	c := CreateCookie(AccessCookie, "tok", "/", exp, true)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)

	d := DeleteCookie(AccessCookie, "/", false)
	assert.Equal(t, -1, d.MaxAge)
	assert.Empty(t, d.Value)
}

func TestAccessClaimsFromToken_RejectsForeignIssuer(t *testing.T) {
	t.Parallel()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}
