package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndValidate(t *testing.T) {
	m, err := NewManager("secret", "scout")
	require.NoError(t, err)

	token, err := m.Issue("user-1", []string{"admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole("reader"))
}

func TestManager_Rejects(t *testing.T) {
	m, err := NewManager("secret", "scout")
	require.NoError(t, err)

	expired, err := m.Issue("user-1", nil, -time.Minute)
	require.NoError(t, err)
	_, err = m.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other, err := NewManager("other-secret", "scout")
	require.NoError(t, err)
	forged, err := other.Issue("user-1", []string{"admin"}, time.Hour)
	require.NoError(t, err)
	_, err = m.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := NewManager("secret", "someone-else")
	require.NoError(t, err)
	token, err := foreign.Issue("user-1", nil, time.Hour)
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManager_MissingKey(t *testing.T) {
	_, err := NewManager("", "")
	assert.ErrorIs(t, err, ErrMissingKey)
}
