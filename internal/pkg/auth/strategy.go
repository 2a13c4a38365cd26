package auth

import (
	"time"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(name string, role model.Role) (string, error)
}

// TokenParser validates bearer tokens.
type TokenParser interface {
	ParseToken(token string) (*Claims, error)
}

// Strategy issues and validates bearer tokens.
type Strategy interface {
	TokenIssuer
	TokenParser
	Name() string
}

// Options tune token issuance.
type Options struct {
	TTL      time.Duration
	Issuer   string
	Audience string
	Now      func() time.Time
}
