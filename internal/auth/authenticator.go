// Package auth verifies freelancer accounts and issues the session tokens the
// REST API accepts.
package auth

import (
	"context"

	"github.com/mmynk/freelancepay/internal/models"
)

// Authenticator creates and verifies accounts. AuthService depends on it
// rather than on PasswordAuthenticator so its handlers can be exercised with
// any credential scheme.
type Authenticator interface {
	// Register stores a new account. Emails are unique ignoring case;
	// a taken email yields ErrEmailExists.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate returns the account when the credential matches and
	// ErrInvalidCredentials otherwise, without telling which part was wrong.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential reports ErrWeakPassword for unacceptable credentials.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
