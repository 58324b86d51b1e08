package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/freelancepay/internal/models"
	"github.com/mmynk/freelancepay/internal/storage"
)

// Password length bounds. bcrypt ignores everything past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	ErrEmailExists        = errors.New("email already registered")
)

// UserStorage is the slice of the store the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// PasswordAuthenticator keeps bcrypt hashes of freelancer passwords.
type PasswordAuthenticator struct {
	users UserStorage
	cost  int
	// decoy is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	decoy []byte
}

func NewPasswordAuthenticator(users UserStorage) *PasswordAuthenticator {
	a := &PasswordAuthenticator{users: users, cost: bcrypt.DefaultCost}
	a.decoy = decoyHash(a.cost)
	return a
}

// WithCost returns a copy hashing at cost. Tests pass bcrypt.MinCost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	c := *a
	c.cost = cost
	c.decoy = decoyHash(cost)
	return &c
}

func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	switch {
	case len([]rune(credential)) < MinPasswordLength:
		return ErrWeakPassword
	case len(credential) > MaxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

// Register stores a freelancer under a lower-cased email.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, name, credential string) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}
	email = canonicalEmail(email)

	switch _, err := a.users.GetUserByEmail(ctx, email); {
	case err == nil:
		return nil, ErrEmailExists
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to check email %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, strings.TrimSpace(name), string(hash))
	err = a.users.CreateUser(ctx, user)
	switch {
	case errors.Is(err, storage.ErrConflict):
		// lost a race on the unique email index
		return nil, ErrEmailExists
	case err != nil:
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.users.GetUserByEmail(ctx, canonicalEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(a.decoy, []byte(credential))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func decoyHash(cost int) []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("freelancepay-decoy"), cost)
	return hash
}

func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
