package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", "geoqr", 1)

	token, err := m.GenerateToken("user-1", "alice", "pro")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "pro", claims.Plan)
	assert.Equal(t, "geoqr", claims.Issuer)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	token, err := NewManager("other", "geoqr", 1).GenerateToken("user-1", "", "")
	require.NoError(t, err)

	_, err = NewManager("secret", "geoqr", 1).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsWrongIssuer(t *testing.T) {
	token, err := NewManager("secret", "someone-else", 1).GenerateToken("user-1", "", "")
	require.NoError(t, err)

	_, err = NewManager("secret", "geoqr", 1).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewManager("secret", "geoqr", -1)
	token, err := m.GenerateToken("user-1", "", "")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewManager("secret", "geoqr", 1).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewManager("secret", "geoqr", 1).GenerateToken("", "", "")
	assert.Error(t, err)
}
