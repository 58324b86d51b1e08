package app

import (
	"math"
	"net/mail"
	"strings"

	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/models"
)

// InvoiceForm is what the user fills in to create or edit an invoice.
// Description may be models.CustomDescription, in which case
// CustomDescription must hold the real text.
type InvoiceForm struct {
	ClientID          int64
	Amount            *float64
	Description       string
	CustomDescription string
	DueDate           string
}

// Credentials are the login/registration form fields.
type Credentials struct {
	Name     string
	Email    string
	Password string
}

func errInvalidFilter(f models.StatusFilter) error {
	return failure.Localf("Unknown filter %q: use all, unpaid or paid.", string(f))
}

func validateID(id int64, what string) error {
	if id <= 0 {
		return failure.Localf("A valid %s ID is required.", what)
	}
	return nil
}

// validateClient trims the fields and checks the required ones.
func validateClient(in models.ClientInput) (models.ClientInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Email == "" {
		return in, failure.Localf("Name and email are required.")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return in, failure.Localf("Please enter a valid email address.")
	}
	return in, nil
}

// resolveDescription replaces the Custom preset by its free text.
func resolveDescription(desc, custom string) (string, error) {
	desc = strings.TrimSpace(desc)
	if desc != models.CustomDescription {
		return desc, nil
	}
	custom = strings.TrimSpace(custom)
	if custom == "" {
		return "", failure.Localf("Please enter a custom description.")
	}
	return custom, nil
}

func validateAmount(amount *float64) error {
	if amount == nil {
		return failure.Localf("Amount is required.")
	}
	if math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return failure.Localf("Amount must be a number.")
	}
	if *amount < 0 {
		return failure.Localf("Amount must be non-negative.")
	}
	return nil
}

func (f InvoiceForm) dueDate() (models.Date, error) {
	d, err := models.ParseDate(f.DueDate)
	if err != nil {
		return models.Date{}, failure.Localf("Due date must be YYYY-MM-DD.")
	}
	return d, nil
}

// toInput validates a creation form.
func (f InvoiceForm) toInput() (models.InvoiceInput, error) {
	if f.ClientID <= 0 || f.Amount == nil {
		return models.InvoiceInput{}, failure.Localf("Client and amount are required.")
	}
	if err := validateAmount(f.Amount); err != nil {
		return models.InvoiceInput{}, err
	}
	desc, err := resolveDescription(f.Description, f.CustomDescription)
	if err != nil {
		return models.InvoiceInput{}, err
	}
	due, err := f.dueDate()
	if err != nil {
		return models.InvoiceInput{}, err
	}
	return models.InvoiceInput{ClientID: f.ClientID, Amount: f.Amount, Description: desc, DueDate: due}, nil
}

// toUpdate validates an edit form. ClientID is ignored: an invoice never
// changes owner.
func (f InvoiceForm) toUpdate() (models.InvoiceUpdate, error) {
	if err := validateAmount(f.Amount); err != nil {
		return models.InvoiceUpdate{}, err
	}
	desc, err := resolveDescription(f.Description, f.CustomDescription)
	if err != nil {
		return models.InvoiceUpdate{}, err
	}
	due, err := f.dueDate()
	if err != nil {
		return models.InvoiceUpdate{}, err
	}
	return models.InvoiceUpdate{Amount: f.Amount, Description: desc, DueDate: due}, nil
}
