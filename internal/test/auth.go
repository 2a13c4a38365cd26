package test

import (
	"context"

	"github.com/polkiloo/betacycle/internal/domain/model"
	pkgAuth "github.com/polkiloo/betacycle/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn   func(string) (string, string, error)
	VerifyFn func(password, salt, hash string) bool
}

// Hash returns a predictable hash and salt for the supplied password.
func (h HasherStub) Hash(password string) (string, string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, "salt", nil
}

// Verify matches hashes produced by Hash. The salt is ignored.
func (h HasherStub) Verify(password, salt, hash string) bool {
	if h.VerifyFn != nil {
		return h.VerifyFn(password, salt, hash)
	}
	return hash == "hash:"+password
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(string, model.Role) (string, error)
	ParseFn func(string) (*pkgAuth.Claims, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(name string, role model.Role) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(name, role)
	}
	return "token:" + name + ":" + role.String(), nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (*pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return &pkgAuth.Claims{Name: "alice@x.com", Role: model.RoleUser}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	LoginFn        func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (model.Principal, error)
	ParseFn        func(string) (model.Principal, error)
}

// Login returns token for successful login scenarios.
func (s AuthFacadeStub) Login(ctx context.Context, username, password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, username, password)
	}
	return "token", nil
}

// Authenticate returns a user principal unless overridden.
func (s AuthFacadeStub) Authenticate(ctx context.Context, username, password string) (model.Principal, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, username, password)
	}
	return model.Principal{Name: username, Role: model.RoleUser}, nil
}

// ParseToken returns a user principal unless overridden.
func (s AuthFacadeStub) ParseToken(token string) (model.Principal, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.Principal{Name: "alice@x.com", Role: model.RoleUser}, nil
}

// BetaCycleFacadeStub aggregates facade dependencies for HTTP layer tests.
type BetaCycleFacadeStub struct {
	AuthFacadeStub
	AccountFacadeStub
	TraceFacadeStub
	HealthFacadeStub
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
