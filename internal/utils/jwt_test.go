package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := NewToken("test-secret", 42, 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, err := VerifyToken("test-secret", tok)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	tok, err := NewToken("test-secret", 7, 30)
	require.NoError(t, err)

	_, err = VerifyToken("other-secret", tok)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyTokenExpired(t *testing.T) {
	// Negative TTL puts the expiry in the past.
	tok, err := NewToken("test-secret", 7, -1)
	require.NoError(t, err)

	_, err = VerifyToken("test-secret", tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTokenMalformed(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := VerifyToken("test-secret", raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, "raw=%q", raw)
	}
}
