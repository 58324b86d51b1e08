package calculator

import "github.com/mmynk/freelancepay/internal/models"

// Summary holds the derived dashboard figures.
type Summary struct {
	models.Stats
	Revenue        float64 `json:"revenue"`         // Paid plus unpaid totals
	AverageInvoice float64 `json:"average_invoice"` // Revenue per invoice, 0 without invoices
	CollectionRate float64 `json:"collection_rate"` // Share of revenue already paid, in [0, 1]
}

// Summarize derives revenue figures from the server's stats.
func Summarize(stats models.Stats) Summary {
	s := Summary{Stats: stats, Revenue: stats.PaidTotal + stats.UnpaidTotal}
	if stats.TotalInvoices > 0 {
		s.AverageInvoice = s.Revenue / float64(stats.TotalInvoices)
	}
	if s.Revenue > 0 {
		s.CollectionRate = stats.PaidTotal / s.Revenue
	}
	return s
}

// Recent returns the first n invoices in server order, which is newest first.
func Recent(invoices []models.Invoice, n int) []models.Invoice {
	if n <= 0 {
		return nil
	}
	if len(invoices) < n {
		n = len(invoices)
	}
	out := make([]models.Invoice, n)
	copy(out, invoices[:n])
	return out
}
