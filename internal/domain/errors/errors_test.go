package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"credentials not provided", ErrCredentialsNotProvided},
		{"invalid credentials", ErrInvalidCredentials},
		{"not registered", ErrNotRegistered},
		{"data integrity", ErrDataIntegrity},
		{"migration failed", ErrMigrationFailed},
		{"unexpected", ErrUnexpected},
		{"invalid input", ErrInvalidInput},
		{"unavailable", ErrUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tc.err)
			if !stdErrors.Is(wrapped, tc.err) {
				t.Fatalf("expected wrapped error to match: %v", tc.err)
			}
		})
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrAlreadyExists, ErrNotFound, ErrCredentialsNotProvided, ErrInvalidCredentials,
		ErrNotRegistered, ErrDataIntegrity, ErrMigrationFailed, ErrUnexpected,
		ErrInvalidInput, ErrUnavailable,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && stdErrors.Is(a, b) {
				t.Fatalf("expected %v and %v to be distinct", a, b)
			}
		}
	}
}
