package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Canonical PBKDF2 parameters shared by registration, migration and login.
const (
	PBKDF2Iterations = 100000
	PBKDF2KeyLength  = 16
	SaltLength       = 32
)

// PasswordHasher defines hashing strategy for credentials.
type PasswordHasher interface {
	// Hash derives a key for password with a fresh random salt. Both results are base64 encoded.
	Hash(password string) (hash string, salt string, err error)
	// Verify reports whether password matches the stored base64 hash and salt.
	Verify(password, salt, hash string) bool
}

// PBKDF2Hasher hashes passwords with PBKDF2-HMAC-SHA256.
type PBKDF2Hasher struct {
	iterations int
	keyLength  int
	saltLength int
	random     io.Reader
	logger     *slog.Logger
}

// NewPBKDF2Hasher creates PBKDF2Hasher with the canonical parameters.
func NewPBKDF2Hasher(logger *slog.Logger) *PBKDF2Hasher {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &PBKDF2Hasher{
		iterations: PBKDF2Iterations,
		keyLength:  PBKDF2KeyLength,
		saltLength: SaltLength,
		random:     rand.Reader,
		logger:     logger,
	}
}

// Hash returns base64 hash and salt for provided password.
func (h *PBKDF2Hasher) Hash(password string) (string, string, error) {
	salt := make([]byte, h.saltLength)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	return h.HashWithSalt(password, salt), base64.StdEncoding.EncodeToString(salt), nil
}

// HashWithSalt derives the base64 encoded key of password for a raw salt.
func (h *PBKDF2Hasher) HashWithSalt(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, h.iterations, h.keyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// Verify recomputes the hash and compares it in constant time.
// Malformed stored values never match.
func (h *PBKDF2Hasher) Verify(password, salt, hash string) bool {
	salt = strings.TrimSpace(salt)
	hash = strings.TrimSpace(hash)

	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		h.logger.Warn("password verification: malformed salt", slog.String("error", err.Error()))
		return false
	}
	if _, err := base64.StdEncoding.DecodeString(hash); err != nil {
		h.logger.Warn("password verification: malformed hash", slog.String("error", err.Error()))
		return false
	}

	computed := h.HashWithSalt(password, rawSalt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
