package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(ignoreExp bool) *JWTManager {
	return NewJWTManager("super-secret", time.Hour, 7*24*time.Hour, ignoreExp)
}

func TestIssuePair_BothTokensDecodeToUser(t *testing.T) {
	t.Parallel()
	m := newTestJWT(true)

	pair, err := m.IssuePair("user-123")
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	access, err := m.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", access.UserID)

	refresh, err := m.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", refresh.UserID)
}

func TestIssuePair_Expiries(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := newTestJWT(true)
	m.now = func() time.Time { return fixed }

	pair, err := m.IssuePair("u1")
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), pair.AccessTokenExpiry)
	assert.Equal(t, fixed.Add(7*24*time.Hour), pair.RefreshTokenExpiry)
}

func TestVerifyRefresh_Expired(t *testing.T) {
	t.Parallel()
	m := newTestJWT(true)
	m.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	pair, err := m.IssuePair("u1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyRefresh(pair.RefreshToken)
	assert.Error(t, err)
}

func TestVerifyAccess_ExpirationPolicy(t *testing.T) {
	t.Parallel()
	issuer := newTestJWT(true)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := issuer.IssuePair("u1")
	require.NoError(t, err)

	lenient := newTestJWT(true)
	claims, err := lenient.VerifyAccess(pair.AccessToken)
	require.NoError(t, err, "expired access token is accepted when expiration is ignored")
	assert.Equal(t, "u1", claims.UserID)

	strict := newTestJWT(false)
	_, err = strict.VerifyAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestVerify_WrongSecretAndMalformed(t *testing.T) {
	t.Parallel()
	pair, err := NewJWTManager("right", time.Hour, time.Hour, true).IssuePair("u2")
	require.NoError(t, err)

	other := NewJWTManager("wrong", time.Hour, time.Hour, true)
	_, err = other.VerifyAccess(pair.AccessToken)
	assert.Error(t, err, "signature must be checked even when expiration is ignored")
	_, err = other.VerifyRefresh(pair.RefreshToken)
	assert.Error(t, err)

	_, err = other.VerifyRefresh("not.a.jwt")
	assert.Error(t, err)
	_, err = other.VerifyRefresh("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
