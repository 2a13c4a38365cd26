package di

import (
	"github.com/polkiloo/betacycle/internal/app"
	"github.com/polkiloo/betacycle/internal/config"
	"github.com/polkiloo/betacycle/internal/logger"
	"github.com/polkiloo/betacycle/internal/pkg/auth"
	"github.com/polkiloo/betacycle/internal/server/http/handlers"
	"github.com/polkiloo/betacycle/internal/server/http/router"
	"github.com/polkiloo/betacycle/internal/storage/postgres"
	"github.com/polkiloo/betacycle/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage, l *postgres.LegacyStorage) app.HealthChecker {
			return app.HealthCheckers{s, l}
		}),
		fx.Provide(func(f *app.BetaCycleFacade) handlers.BetaCycleFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
