package models

import "time"

// Client represents a customer the freelancer bills.
type Client struct {
	// ID is the unique identifier for the client.
	ID int64 `json:"id"`

	// Name is the client's display name. Never empty.
	Name string `json:"name"`

	// Email is the client's contact address, unique per account.
	Email string `json:"email"`

	// Phone is optional.
	Phone string `json:"phone"`

	// CreatedAt is set by the server and never changes.
	CreatedAt time.Time `json:"created_at"`
}

// ClientInput carries the caller-settable fields of a client, for both
// create and update.
type ClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
