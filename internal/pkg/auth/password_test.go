package auth

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fixtureSalt       = "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="
	fixtureSecretHash = "9AVkxgCiJpR6FeE++rZTTQ=="
	fixtureWrongHash  = "H9MEtFKW/j0TRrf4cBkXuA=="
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func fixtureSaltBytes(t *testing.T) []byte {
	t.Helper()
	salt, err := base64.StdEncoding.DecodeString(fixtureSalt)
	require.NoError(t, err)
	return salt
}

func TestPBKDF2Hasher_KnownVector(t *testing.T) {
	hasher := NewPBKDF2Hasher(nil)

	assert.Equal(t, fixtureSecretHash, hasher.HashWithSalt("secret1", fixtureSaltBytes(t)))
	assert.Equal(t, fixtureWrongHash, hasher.HashWithSalt("wrong", fixtureSaltBytes(t)))
	assert.True(t, hasher.Verify("secret1", fixtureSalt, fixtureSecretHash))
	assert.False(t, hasher.Verify("wrong", fixtureSalt, fixtureSecretHash))
}

func TestPBKDF2Hasher_HashRoundTrip(t *testing.T) {
	hasher := NewPBKDF2Hasher(nil)

	hash, salt, err := hasher.Hash("Passw0rd!")
	require.NoError(t, err)

	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	require.NoError(t, err)
	assert.Len(t, rawSalt, SaltLength)

	rawHash, err := base64.StdEncoding.DecodeString(hash)
	require.NoError(t, err)
	assert.Len(t, rawHash, PBKDF2KeyLength)

	assert.True(t, hasher.Verify("Passw0rd!", salt, hash))
	assert.False(t, hasher.Verify("Passw0rd?", salt, hash))
	assert.False(t, hasher.Verify("", salt, hash))

	otherHash, otherSalt, err := hasher.Hash("Passw0rd!")
	require.NoError(t, err)
	assert.NotEqual(t, salt, otherSalt)
	assert.NotEqual(t, hash, otherHash)
}

func TestPBKDF2Hasher_VerifyTrimsStoredValues(t *testing.T) {
	hasher := NewPBKDF2Hasher(nil)
	assert.True(t, hasher.Verify("secret1", fixtureSalt+"  ", " "+fixtureSecretHash))
}

func TestPBKDF2Hasher_VerifyFailsClosedOnMalformedInput(t *testing.T) {
	var buf bytes.Buffer
	hasher := NewPBKDF2Hasher(slog.New(slog.NewJSONHandler(&buf, nil)))

	assert.False(t, hasher.Verify("secret1", "not base64!", fixtureSecretHash))
	assert.Contains(t, buf.String(), "malformed salt")

	buf.Reset()
	assert.False(t, hasher.Verify("secret1", fixtureSalt, "%%%"))
	assert.Contains(t, buf.String(), "malformed hash")

	assert.False(t, hasher.Verify("secret1", fixtureSalt, ""))
}

func TestPBKDF2Hasher_HashSaltFailure(t *testing.T) {
	hasher := NewPBKDF2Hasher(nil)
	hasher.random = failingReader{}

	_, _, err := hasher.Hash("secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate salt")
}
