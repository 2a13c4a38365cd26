package repository

import (
	"context"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

// UserRepository describes persistence operations for users of the new store.
type UserRepository interface {
	GetByMail(ctx context.Context, mail string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// CreateWithCredential inserts user and credential atomically.
	// A duplicate mail or legacy id yields errors.ErrAlreadyExists.
	CreateWithCredential(ctx context.Context, user model.User, credential model.Credential) (*model.User, error)
}

// CredentialRepository gives access to password credentials.
type CredentialRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*model.Credential, error)
}
