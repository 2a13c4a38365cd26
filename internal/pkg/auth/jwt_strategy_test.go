package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStrategy(now time.Time) *JWTStrategy {
	return NewJWTStrategy("top-secret-signing-key", Options{
		TTL:      30 * time.Minute,
		Issuer:   "betacycle",
		Audience: "betacycle-clients",
		Now:      func() time.Time { return now },
	})
}

func TestNewJWTStrategy_Defaults(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	assert.Equal(t, defaultTTL, strategy.ttl)
	assert.NotNil(t, strategy.now)
	assert.Equal(t, "jwt", strategy.Name())
}

func TestJWTStrategy_IssueAndParse(t *testing.T) {
	strategy := newTestStrategy(fixedNow)

	token, err := strategy.IssueToken("alice", model.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := strategy.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "betacycle", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"betacycle-clients"}, claims.Audience)
	assert.Equal(t, fixedNow.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestJWTStrategy_UsesNameAndRoleClaimNames(t *testing.T) {
	strategy := newTestStrategy(fixedNow)
	token, err := strategy.IssueToken("alice@x.com", model.RoleUser)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"name":"alice@x.com"`)
	assert.Contains(t, string(payload), `"role":"user"`)
}

func TestJWTStrategy_RejectsTamperedPayload(t *testing.T) {
	strategy := newTestStrategy(fixedNow)
	token, err := strategy.IssueToken("bob", model.RoleUser)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(payload), `"role":"user"`, `"role":"admin"`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = strategy.ParseToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTStrategy_RejectsForeignKey(t *testing.T) {
	foreign := NewJWTStrategy("another-key", Options{
		Issuer:   "betacycle",
		Audience: "betacycle-clients",
		Now:      func() time.Time { return fixedNow },
	})
	token, err := foreign.IssueToken("alice", model.RoleAdmin)
	require.NoError(t, err)

	_, err = newTestStrategy(fixedNow).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTStrategy_RejectsExpired(t *testing.T) {
	token, err := newTestStrategy(fixedNow).IssueToken("alice", model.RoleUser)
	require.NoError(t, err)

	_, err = newTestStrategy(fixedNow.Add(31 * time.Minute)).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTStrategy_RejectsWrongIssuerOrAudience(t *testing.T) {
	token, err := newTestStrategy(fixedNow).IssueToken("alice", model.RoleUser)
	require.NoError(t, err)

	otherIssuer := NewJWTStrategy("top-secret-signing-key", Options{
		Issuer:   "someone-else",
		Audience: "betacycle-clients",
		Now:      func() time.Time { return fixedNow },
	})
	_, err = otherIssuer.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherAudience := NewJWTStrategy("top-secret-signing-key", Options{
		Issuer:   "betacycle",
		Audience: "backoffice",
		Now:      func() time.Time { return fixedNow },
	})
	_, err = otherAudience.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTStrategy_RejectsUnsignedAndGarbage(t *testing.T) {
	strategy := newTestStrategy(fixedNow)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Name: "mallory",
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "betacycle",
			Audience:  jwt.ClaimStrings{"betacycle-clients"},
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = strategy.ParseToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = strategy.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = strategy.ParseToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTStrategy_RejectsUnknownRoleClaim(t *testing.T) {
	strategy := newTestStrategy(fixedNow)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Name: "alice",
		Role: model.Role("root"),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "betacycle",
			Audience:  jwt.ClaimStrings{"betacycle-clients"},
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
		},
	}).SignedString([]byte("top-secret-signing-key"))
	require.NoError(t, err)

	_, err = strategy.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, model.ErrUnknownRole)
}

func TestJWTStrategy_IssueFailures(t *testing.T) {
	strategy := newTestStrategy(fixedNow)

	_, err := strategy.IssueToken("", model.RoleUser)
	assert.ErrorIs(t, err, ErrTokenIssue)

	_, err = strategy.IssueToken("alice", model.Role("superuser"))
	assert.ErrorIs(t, err, ErrTokenIssue)
	assert.ErrorIs(t, err, model.ErrUnknownRole)

	_, err = NewJWTStrategy("", Options{}).IssueToken("alice", model.RoleUser)
	assert.ErrorIs(t, err, ErrTokenIssue)
}
