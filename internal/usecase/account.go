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
	pkgAuth "github.com/polkiloo/betacycle/internal/pkg/auth"
)

// AccountUseCase registers new customers and serves profile lookups.
type AccountUseCase struct {
	users  repository.UserRepository
	legacy repository.LegacyCustomerRepository
	hasher pkgAuth.PasswordHasher
	logger *slog.Logger
}

// NewAccountUseCase constructs AccountUseCase.
func NewAccountUseCase(
	users repository.UserRepository,
	legacy repository.LegacyCustomerRepository,
	hasher pkgAuth.PasswordHasher,
	log *slog.Logger,
) *AccountUseCase {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &AccountUseCase{users: users, legacy: legacy, hasher: hasher, logger: log}
}

// Register creates a user with a freshly salted credential. Mails known to
// either store are rejected so that a legacy customer is only ever migrated.
func (u *AccountUseCase) Register(ctx context.Context, user model.User, password string) (*model.User, error) {
	user = normalizeUser(user)
	if user.Name == "" || user.Surname == "" || user.Mail == "" || password == "" {
		return nil, domainErrors.ErrInvalidInput
	}
	if !ValidateMail(user.Mail) {
		return nil, fmt.Errorf("%w: malformed mail", domainErrors.ErrInvalidInput)
	}

	log := u.logger.With("user", user.Mail)

	if _, err := u.users.GetByMail(ctx, user.Mail); err == nil {
		log.WarnContext(ctx, "register: mail already registered")
		return nil, domainErrors.ErrAlreadyExists
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	if _, err := u.legacy.GetByEmail(ctx, user.Mail); err == nil {
		log.WarnContext(ctx, "register: mail belongs to a legacy customer")
		return nil, domainErrors.ErrAlreadyExists
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	hash, salt, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user.ID = 0
	user.Role = model.RoleUser
	user.LegacyCustomerID = nil
	created, err := u.users.CreateWithCredential(ctx, user, model.Credential{PasswordHash: hash, Salt: salt})
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "register: user created", "user_id", created.ID)
	return created, nil
}

// Profile returns the stored user registered under mail.
func (u *AccountUseCase) Profile(ctx context.Context, mail string) (*model.User, error) {
	mail = strings.TrimSpace(mail)
	if mail == "" {
		return nil, domainErrors.ErrInvalidInput
	}
	return u.users.GetByMail(ctx, mail)
}

// ProfileByID returns the stored user with id.
func (u *AccountUseCase) ProfileByID(ctx context.Context, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, domainErrors.ErrInvalidInput
	}
	return u.users.GetByID(ctx, id)
}
