package auth

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/betacycle/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
)

type hasherParams struct {
	fx.In

	Logger *slog.Logger
}

func newPasswordHasher(p hasherParams) PasswordHasher {
	return NewPBKDF2Hasher(p.Logger)
}

type strategyParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newTokenStrategy(p strategyParams) Strategy {
	if p.Config.UsesDefaultJWTSecret() && p.Logger != nil {
		p.Logger.Warn("jwt: signing with the built-in default secret, set JWT_SECRET or JWT_SECRET_FILE")
	}
	return NewJWTStrategy(p.Config.JWTSecret, Options{
		TTL:      p.Config.JWTExpiration,
		Issuer:   p.Config.JWTIssuer,
		Audience: p.Config.JWTAudience,
	})
}
