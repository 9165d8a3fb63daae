package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueValidate(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)
	tok, jti, exp, err := m.Issue(7, "ops@example.com", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.True(t, exp.After(time.Now()))

	claims, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AdminID)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)
	tok, _, _, err := m.Issue(1, "a@b.c", "admin")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "correct horse"))
	assert.False(t, CheckPassword(h, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}
