package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/domain/model"
	"github.com/polkiloo/betacycle/internal/domain/repository"
	"github.com/polkiloo/betacycle/internal/logger"
	pkgAuth "github.com/polkiloo/betacycle/internal/pkg/auth"
)

// LoginUseCase authenticates customers against the user store and migrates
// customers still living in the legacy store on their first successful login.
type LoginUseCase struct {
	users       repository.UserRepository
	credentials repository.CredentialRepository
	legacy      repository.LegacyCustomerRepository
	hasher      pkgAuth.PasswordHasher
	tokens      pkgAuth.Strategy
	logger      *slog.Logger
}

// NewLoginUseCase constructs LoginUseCase.
func NewLoginUseCase(
	users repository.UserRepository,
	credentials repository.CredentialRepository,
	legacy repository.LegacyCustomerRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	log *slog.Logger,
) *LoginUseCase {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &LoginUseCase{
		users:       users,
		credentials: credentials,
		legacy:      legacy,
		hasher:      hasher,
		tokens:      strategy,
		logger:      log,
	}
}

// Login authenticates the customer and issues a bearer token for them.
func (u *LoginUseCase) Login(ctx context.Context, username, password string) (token string, err error) {
	defer func() {
		if r := recover(); r != nil {
			token, err = "", u.recovered("login", r)
		}
	}()

	principal, err := u.authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err = u.tokens.IssueToken(principal.Name, principal.Role)
	if err != nil {
		u.logger.ErrorContext(ctx, "login: token issue failed", "user", principal.Name, "error", err)
		return "", fmt.Errorf("%w: %w", domainErrors.ErrUnexpected, err)
	}

	u.logger.InfoContext(ctx, "login: token issued", "user", principal.Name, "role", principal.Role.String())
	return token, nil
}

// Authenticate runs the same flow as Login without issuing a token.
func (u *LoginUseCase) Authenticate(ctx context.Context, username, password string) (principal model.Principal, err error) {
	defer func() {
		if r := recover(); r != nil {
			principal, err = model.Principal{}, u.recovered("authenticate", r)
		}
	}()
	return u.authenticate(ctx, username, password)
}

// ParseToken validates a bearer token and returns its principal.
func (u *LoginUseCase) ParseToken(token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	claims, err := u.tokens.ParseToken(token)
	if err != nil {
		return model.Principal{}, err
	}
	return model.Principal{Name: claims.Name, Role: claims.Role}, nil
}

func (u *LoginUseCase) authenticate(ctx context.Context, username, password string) (model.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		u.logger.WarnContext(ctx, "login: credentials not provided")
		return model.Principal{}, domainErrors.ErrCredentialsNotProvided
	}

	log := u.logger.With("user", username)

	user, err := u.users.GetByMail(ctx, username)
	switch {
	case err == nil:
		return u.verifyStored(ctx, log, user, password)
	case errors.Is(err, model.ErrUnknownRole):
		log.Log(ctx, logger.LevelFatal, "login: stored role is not recognised", "error", err)
		return model.Principal{}, fmt.Errorf("%w: %w", domainErrors.ErrDataIntegrity, err)
	case !errors.Is(err, domainErrors.ErrNotFound):
		log.ErrorContext(ctx, "login: user lookup failed", "error", err)
		return model.Principal{}, fmt.Errorf("%w: %w", domainErrors.ErrUnexpected, err)
	}

	return u.migrate(ctx, log, username, password)
}

// verifyStored checks password against the credential of a user already in the new store.
func (u *LoginUseCase) verifyStored(ctx context.Context, log *slog.Logger, user *model.User, password string) (model.Principal, error) {
	credential, err := u.credentials.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			log.Log(ctx, logger.LevelFatal, "login: user has no credential", "user_id", user.ID)
			return model.Principal{}, domainErrors.ErrDataIntegrity
		}
		log.ErrorContext(ctx, "login: credential lookup failed", "user_id", user.ID, "error", err)
		return model.Principal{}, fmt.Errorf("%w: %w", domainErrors.ErrUnexpected, err)
	}

	if !u.hasher.Verify(password, credential.Salt, credential.PasswordHash) {
		log.WarnContext(ctx, "login: wrong password")
		return model.Principal{}, domainErrors.ErrInvalidCredentials
	}

	log.InfoContext(ctx, "login: authenticated", "role", user.Role.String())
	return model.Principal{Name: user.Mail, Role: user.Role}, nil
}

// migrate authenticates against the legacy store and copies the customer into the new store.
func (u *LoginUseCase) migrate(ctx context.Context, log *slog.Logger, username, password string) (model.Principal, error) {
	customer, err := u.legacy.GetByEmail(ctx, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			log.WarnContext(ctx, "login: user is not registered")
			return model.Principal{}, domainErrors.ErrNotRegistered
		}
		log.ErrorContext(ctx, "login: legacy lookup failed", "error", err)
		return model.Principal{}, fmt.Errorf("%w: %w", domainErrors.ErrUnexpected, err)
	}

	if !u.hasher.Verify(password, customer.PasswordSalt, customer.PasswordHash) {
		log.WarnContext(ctx, "login: wrong password for legacy customer", "customer_id", customer.CustomerID)
		return model.Principal{}, domainErrors.ErrInvalidCredentials
	}

	legacyID := customer.CustomerID
	user := model.User{
		Name:             customer.FirstName,
		Surname:          customer.LastName,
		Phone:            customer.Phone,
		Mail:             customer.EmailAddress,
		Role:             model.RoleUser,
		LegacyCustomerID: &legacyID,
	}
	credential := model.Credential{
		PasswordHash: customer.PasswordHash,
		Salt:         customer.PasswordSalt,
	}

	_, err = u.users.CreateWithCredential(ctx, user, credential)
	switch {
	case err == nil:
		log.InfoContext(ctx, "login: legacy customer migrated", "customer_id", customer.CustomerID)
		return model.Principal{Name: user.Mail, Role: model.RoleUser}, nil
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		// A concurrent login migrated the same customer first.
		log.WarnContext(ctx, "login: customer migrated concurrently, re-reading", "customer_id", customer.CustomerID)
		stored, lookupErr := u.users.GetByMail(ctx, username)
		if lookupErr != nil {
			log.ErrorContext(ctx, "login: re-read after migration race failed", "error", lookupErr)
			return model.Principal{}, fmt.Errorf("%w: %w", domainErrors.ErrMigrationFailed, lookupErr)
		}
		return u.verifyStored(ctx, log, stored, password)
	default:
		log.ErrorContext(ctx, "login: migration failed", "customer_id", customer.CustomerID, "error", err)
		return model.Principal{}, fmt.Errorf("%w: %w", domainErrors.ErrMigrationFailed, err)
	}
}

func (u *LoginUseCase) recovered(op string, r any) error {
	u.logger.Error("login: recovered from panic", "op", op, "panic", fmt.Sprint(r))
	return fmt.Errorf("%w: panic in %s: %v", domainErrors.ErrUnexpected, op, r)
}
