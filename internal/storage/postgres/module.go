package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/betacycle/internal/config"
	"github.com/polkiloo/betacycle/internal/domain/repository"
)

// Module wires both PostgreSQL stores and their repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage, newLegacyStorage),
	fx.Provide(
		func(s *Storage) repository.Factory { return s },
		func(f repository.Factory) repository.UserRepository { return f.Users() },
		func(f repository.Factory) repository.CredentialRepository { return f.Credentials() },
		func(f repository.Factory) repository.TraceRepository { return f.Traces() },
		func(s *LegacyStorage) repository.LegacyCustomerRepository { return s.Customers() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func newLegacyStorage(p storageParams) (*LegacyStorage, error) {
	return NewLegacy(p.Ctx, p.Config.LegacyDatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage, legacy *LegacyStorage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			legacy.Close()
			return nil
		},
	})
}
