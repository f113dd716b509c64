package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordAuthorizer(t *testing.T) {
	a := NewPasswordAuthorizer("s3cret")

	assert.True(t, a.Authorize("s3cret"))
	assert.False(t, a.Authorize("s3cret "))
	assert.False(t, a.Authorize(""))
	assert.False(t, a.Authorize("other"))
}

func TestPasswordAuthorizer_EmptySecretDeniesAll(t *testing.T) {
	a := NewPasswordAuthorizer("")

	assert.False(t, a.Authorize(""))
	assert.False(t, a.Authorize("anything"))
}

func TestTokenService_RoundTrip(t *testing.T) {
	ts := NewTokenService("key", time.Hour)

	token, exp, err := ts.Sign(Identity{UserID: 7, Username: "mika"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, 7, id.UserID)
	assert.Equal(t, "mika", id.Username)
}

func TestTokenService_Rejects(t *testing.T) {
	ts := NewTokenService("key", time.Hour)
	token, _, err := ts.Sign(Identity{UserID: 7, Username: "mika"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenService("other", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired, _, err := NewTokenService("key", -time.Minute).Sign(Identity{UserID: 7})
		require.NoError(t, err)
		_, err = ts.Parse(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ts.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenService_EmptySecretDisablesTokens(t *testing.T) {
	ts := NewTokenService("", time.Hour)
	assert.False(t, ts.Enabled())

	_, _, err := ts.Sign(Identity{UserID: 1, Username: "victim"})
	assert.ErrorIs(t, err, ErrTokensDisabled)

	// a token signed with an empty HMAC key must not verify either
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           1,
		Username:         "victim",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: ts.Issuer},
	})
	raw, err := forged.SigningString()
	require.NoError(t, err)
	_, err = ts.Parse(raw + ".")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
