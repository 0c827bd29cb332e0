package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("S3curePass", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "S3curePass", hash)

	assert.True(t, CheckPassword("S3curePass", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestHashPasswordOutOfRangeCost(t *testing.T) {
	// Falls back to the default cost instead of failing.
	hash, err := HashPassword("S3curePass", 99)
	require.NoError(t, err)
	assert.True(t, CheckPassword("S3curePass", hash))
}
