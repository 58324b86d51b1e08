package models

import (
	"strings"
	"time"
)

// User represents a registered freelancer account.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's login address (unique).
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password. Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is when the account was registered.
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a user that has not been persisted yet.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

// Initials returns the upper-cased first letters of each word of the name.
func (u User) Initials() string {
	var out []rune
	inWord := false
	for _, r := range u.Name {
		if r == ' ' {
			inWord = false
			continue
		}
		if !inWord {
			out = append(out, r)
			inWord = true
		}
	}
	return strings.ToUpper(string(out))
}

// FirstName returns the first word of the name.
func (u User) FirstName() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
