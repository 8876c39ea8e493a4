package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hashed)

	assert.True(t, CheckPassword("s3cret-pass", hashed))
	assert.False(t, CheckPassword("wrong-pass", hashed))
	assert.False(t, CheckPassword("s3cret-pass", "not-a-hash"))
}
