package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

var (
	ErrInvalidToken = errors.New("invalid auth token")
	ErrTokenIssue   = errors.New("issue auth token")
)

const defaultTTL = time.Hour

// Claims carried by BetaCycle bearer tokens.
type Claims struct {
	Name string     `json:"name"`
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTStrategy issues HS256 signed JWTs.
type JWTStrategy struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &JWTStrategy{
		secret:   []byte(secret),
		issuer:   opts.Issuer,
		audience: opts.Audience,
		ttl:      ttl,
		now:      now,
	}
}

// IssueToken signs a token for name with role.
func (s *JWTStrategy) IssueToken(name string, role model.Role) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrTokenIssue)
	}
	if !role.Valid() {
		return "", fmt.Errorf("%w: %w", ErrTokenIssue, model.ErrUnknownRole)
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: empty signing key", ErrTokenIssue)
	}

	now := s.now()
	claims := Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenIssue, err)
	}
	return signed, nil
}

// ParseToken validates signature, issuer, audience and lifetime of token.
func (s *JWTStrategy) ParseToken(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	role, err := model.ParseRole(string(claims.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidToken)
	}
	claims.Role = role
	return claims, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
