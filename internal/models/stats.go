package models

// Stats are the per-user dashboard totals.
type Stats struct {
	TotalClients  int     `json:"total_clients"`
	TotalInvoices int     `json:"total_invoices"`
	PaidTotal     float64 `json:"paid_total"`
	UnpaidTotal   float64 `json:"unpaid_total"`
}

// StatusFilter selects which invoices a view shows.
type StatusFilter string

const (
	FilterAll    StatusFilter = "all"
	FilterUnpaid StatusFilter = "unpaid"
	FilterPaid   StatusFilter = "paid"
)

// Valid reports whether f is one of the three known filters.
func (f StatusFilter) Valid() bool {
	switch f {
	case FilterAll, FilterUnpaid, FilterPaid:
		return true
	}
	return false
}

// Matches reports whether an invoice with status s passes the filter.
func (f StatusFilter) Matches(s InvoiceStatus) bool {
	return f == FilterAll || InvoiceStatus(f) == s
}
