// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "123456")

	ok, err := VerifyPassword("123456", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("654321", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyLegacyBcryptUpgrades(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("hunter22"), 10)
	require.NoError(t, err)

	ok, newHash, err := VerifyPasswordWithRehash("hunter22", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, newHash)
	assert.True(t, strings.HasPrefix(newHash, "$argon2id$"))

	ok, newHash, err = VerifyPasswordWithRehash("wrong", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)

	empty := ""
	ok, _, err = VerifyPasswordTimingSafe("anything", &empty)
	require.NoError(t, err)
	assert.False(t, ok)

	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	ok, newHash, err = VerifyPasswordTimingSafe("secret1", &hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, newHash)
}

func TestVerifyPasswordRejectsUnknownFormat(t *testing.T) {
	_, err := VerifyPassword("x", "plaintext")
	assert.ErrorIs(t, err, ErrUnsupportedHash)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%`, EscapeLike("50%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\`, EscapeLike(`c:\`))
}
