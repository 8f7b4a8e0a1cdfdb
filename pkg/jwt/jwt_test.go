package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	service := NewService("test-secret-key-123456789", time.Hour)

	token, err := service.Issue(42, "Alice", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.MemberID)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
}

func TestVerify_ExpiredToken(t *testing.T) {
	// Negative expiry produces a token that is already expired
	service := NewService("test-secret-key-123456789", -time.Minute)

	token, err := service.Issue(42, "Alice", "alice@example.com")
	require.NoError(t, err)

	claims, err := service.Verify(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "expired")
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewService("secret-one-123456789", time.Hour)
	verifier := NewService("secret-two-123456789", time.Hour)

	token, err := issuer.Issue(7, "Bob", "bob@example.com")
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestVerify_MalformedToken(t *testing.T) {
	service := NewService("test-secret-key-123456789", time.Hour)

	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		claims, err := service.Verify(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	service := NewService("test-secret-key-123456789", time.Hour)

	token, err := service.Issue(42, "Alice", "alice@example.com")
	require.NoError(t, err)

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)

	claims, err := service.Verify(strings.Join(parts, "."))
	assert.Error(t, err)
	assert.Nil(t, claims)
}
