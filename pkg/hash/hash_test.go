package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", h)

	assert.True(t, CheckPassword(h, "Secret123"))
	assert.False(t, CheckPassword(h, "secret123"))
	assert.False(t, CheckPassword("", "Secret123"))
	assert.False(t, NeedsRehash(h))
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestNeedsRehash(t *testing.T) {
	t.Parallel()

	cheap, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, NeedsRehash(string(cheap)))
	assert.True(t, NeedsRehash("not-a-digest"))
}
