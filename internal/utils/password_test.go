package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw1", 4) // minimal cost keeps the test fast
	require.NoError(t, err)
	require.NotEqual(t, "pw1", hash)

	assert.True(t, VerifyPassword(hash, "pw1"))
	assert.False(t, VerifyPassword(hash, "pw2"))
	assert.False(t, VerifyPassword("not-a-hash", "pw1"))
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	a, err := HashPassword("pw1", 4)
	require.NoError(t, err)
	b, err := HashPassword("pw1", 4)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword(a, "pw1"))
	assert.True(t, VerifyPassword(b, "pw1"))
}
