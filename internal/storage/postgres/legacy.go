package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/domain/model"
	"github.com/polkiloo/betacycle/internal/domain/repository"
)

// LegacyStorage reads the AdventureWorks customer table. Sessions are read only.
type LegacyStorage struct {
	pool   pgxPool
	logger *slog.Logger
}

type legacyCustomerRepository struct {
	storage *LegacyStorage
}

// NewLegacy connects to the legacy store and verifies it is reachable.
func NewLegacy(ctx context.Context, dsn string, logger *slog.Logger) (*LegacyStorage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse legacy dsn: %w", err)
	}
	if cfg.ConnConfig.RuntimeParams == nil {
		cfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	cfg.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect legacy db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping legacy db: %w", err)
	}

	return &LegacyStorage{pool: pool, logger: orDiscard(logger)}, nil
}

// Close releases database resources.
func (s *LegacyStorage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// HealthCheck pings the database.
func (s *LegacyStorage) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *LegacyStorage) Customers() repository.LegacyCustomerRepository {
	return &legacyCustomerRepository{storage: s}
}

func (r *legacyCustomerRepository) GetByEmail(ctx context.Context, email string) (*model.LegacyCustomer, error) {
	const query = `SELECT customerid, firstname, lastname, COALESCE(phone, ''), emailaddress, passwordhash, passwordsalt
                   FROM saleslt.customer WHERE lower(emailaddress)=lower($1) ORDER BY customerid LIMIT 1`
	var c model.LegacyCustomer
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(
		&c.CustomerID, &c.FirstName, &c.LastName, &c.Phone, &c.EmailAddress, &c.PasswordHash, &c.PasswordSalt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		r.storage.logger.ErrorContext(ctx, "postgres: legacy customer lookup failed", slog.String("error", err.Error()))
		return nil, err
	}
	return &c, nil
}
