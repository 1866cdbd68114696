package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Str0ngP@ss!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Str0ngP@ss!", hash)

	assert.True(t, CheckPassword(hash, "Str0ngP@ss!"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("Str0ngP@ss!")
	require.NoError(t, err)
	second, err := HashPassword("Str0ngP@ss!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
