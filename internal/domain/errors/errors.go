package errors

import "errors"

// Storage level outcomes.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

// Login outcomes. Every failure of the login flow is reported as one of these.
var (
	ErrCredentialsNotProvided = errors.New("credentials not provided")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrNotRegistered          = errors.New("not registered")
	ErrDataIntegrity          = errors.New("data integrity fault")
	ErrMigrationFailed        = errors.New("migration failed")
	ErrUnexpected             = errors.New("unexpected failure")
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("temporarily unavailable")
)
