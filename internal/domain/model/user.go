package model

import "time"

// User is a customer registered in the new user store.
type User struct {
	ID               int64
	Name             string
	Surname          string
	Phone            string
	Mail             string
	Role             Role
	LegacyCustomerID *int64
	Credential       *Credential
	CreatedAt        time.Time
}

// Credential holds the base64 encoded PBKDF2 hash and salt of a user password.
type Credential struct {
	ID           int64
	PasswordHash string
	Salt         string
	UserID       int64
}

// Principal identifies an authenticated caller.
type Principal struct {
	Name string
	Role Role
}
