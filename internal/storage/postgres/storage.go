package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/domain/model"
	"github.com/polkiloo/betacycle/internal/domain/repository"
)

const uniqueViolation = "23505"

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by the PostgreSQL user store.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type credentialRepository struct {
	storage *Storage
}

type traceRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: orDiscard(logger)}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// HealthCheck pings the database.
func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Credentials() repository.CredentialRepository {
	return &credentialRepository{storage: s}
}

func (s *Storage) Traces() repository.TraceRepository {
	return &traceRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            surname TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            mail TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
            legacy_customer_id BIGINT UNIQUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS credentials (
            id BIGSERIAL PRIMARY KEY,
            password_hash TEXT NOT NULL,
            salt TEXT NOT NULL,
            user_id BIGINT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE
        )`,
		`CREATE TABLE IF NOT EXISTS log_traces (
            id BIGSERIAL PRIMARY KEY,
            machine_name TEXT NOT NULL,
            logged TIMESTAMPTZ NOT NULL,
            level TEXT NOT NULL,
            message TEXT NOT NULL
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_mail_lower ON users (lower(mail))`,
		`CREATE INDEX IF NOT EXISTS idx_log_traces_logged ON log_traces(logged DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

const selectUser = `SELECT id, name, surname, phone, mail, role, legacy_customer_id, created_at FROM users`

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Phone, &u.Mail, &role, &u.LegacyCustomerID, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	parsed, err := model.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %d role %q: %w", u.ID, role, err)
	}
	u.Role = parsed
	return &u, nil
}

// GetByMail matches mail case-insensitively, like the unique index on lower(mail).
func (r *userRepository) GetByMail(ctx context.Context, mail string) (*model.User, error) {
	user, err := scanUser(r.storage.pool.QueryRow(ctx, selectUser+` WHERE lower(mail)=lower($1)`, mail))
	r.storage.logLookupError(ctx, "user by mail", err)
	return user, err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := scanUser(r.storage.pool.QueryRow(ctx, selectUser+` WHERE id=$1`, id))
	r.storage.logLookupError(ctx, "user by id", err)
	return user, err
}

func (r *userRepository) CreateWithCredential(ctx context.Context, user model.User, credential model.Credential) (*model.User, error) {
	const insertUser = `INSERT INTO users (name, surname, phone, mail, role, legacy_customer_id)
                        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	const insertCredential = `INSERT INTO credentials (password_hash, salt, user_id) VALUES ($1, $2, $3) RETURNING id`

	if !user.Role.Valid() {
		return nil, model.ErrUnknownRole
	}

	created := user
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertUser,
			user.Name, user.Surname, user.Phone, user.Mail, string(user.Role), user.LegacyCustomerID,
		).Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			return err
		}

		cred := credential
		cred.UserID = created.ID
		if err := tx.QueryRow(ctx, insertCredential, cred.PasswordHash, cred.Salt, cred.UserID).Scan(&cred.ID); err != nil {
			return err
		}
		created.Credential = &cred
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.storage.logger.InfoContext(ctx, "postgres: user already exists",
				slog.String("constraint", pgErr.ConstraintName))
			return nil, domainErrors.ErrAlreadyExists
		}
		r.storage.logger.ErrorContext(ctx, "postgres: create user failed", slog.String("error", err.Error()))
		return nil, err
	}
	return &created, nil
}

// --- CredentialRepository implementation ---

func (r *credentialRepository) GetByUserID(ctx context.Context, userID int64) (*model.Credential, error) {
	const query = `SELECT id, password_hash, salt, user_id FROM credentials WHERE user_id=$1`
	var c model.Credential
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&c.ID, &c.PasswordHash, &c.Salt, &c.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		r.storage.logLookupError(ctx, "credential by user id", err)
		return nil, err
	}
	return &c, nil
}

// --- TraceRepository implementation ---

func (r *traceRepository) CreateBatch(ctx context.Context, traces []model.LogTrace) error {
	if len(traces) == 0 {
		return nil
	}
	const insert = `INSERT INTO log_traces (machine_name, logged, level, message) VALUES ($1, $2, $3, $4)`
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, trace := range traces {
			if _, err := tx.Exec(ctx, insert, trace.MachineName, trace.Logged, string(trace.Level), trace.Message); err != nil {
				return err
			}
		}
		return nil
	})
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return logger
}

func (s *Storage) logLookupError(ctx context.Context, what string, err error) {
	if err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		return
	}
	s.logger.ErrorContext(ctx, "postgres: lookup failed", slog.String("lookup", what), slog.String("error", err.Error()))
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}
