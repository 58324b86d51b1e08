package calculator

import (
	"sort"
	"time"

	"github.com/mmynk/freelancepay/internal/models"
)

// ClientBalance represents the billing position of one client.
type ClientBalance struct {
	ClientID    int64   `json:"client_id"`
	ClientName  string  `json:"client_name"`
	Invoiced    float64 `json:"invoiced"`    // Sum of all invoice amounts
	Paid        float64 `json:"paid"`        // Sum of paid invoice amounts
	Outstanding float64 `json:"outstanding"` // Sum of unpaid invoice amounts
	Overdue     float64 `json:"overdue"`     // Unpaid amounts whose due date has passed
	OpenCount   int     `json:"open_count"`  // Number of unpaid invoices
}

// CalculateClientBalances aggregates invoices per client.
//
// Algorithm:
// - Every invoice adds its amount to Invoiced
// - Paid invoices add to Paid, unpaid ones to Outstanding and OpenCount
// - Unpaid invoices due before today also add to Overdue
// - Result is ordered by Outstanding descending, then client name
func CalculateClientBalances(invoices []models.Invoice, today time.Time) []ClientBalance {
	balances := make(map[int64]*ClientBalance)

	for _, inv := range invoices {
		bal, exists := balances[inv.ClientID]
		if !exists {
			bal = &ClientBalance{ClientID: inv.ClientID, ClientName: inv.ClientName}
			balances[inv.ClientID] = bal
		}

		bal.Invoiced += inv.Amount
		if inv.Status == models.StatusPaid {
			bal.Paid += inv.Amount
			continue
		}

		bal.Outstanding += inv.Amount
		bal.OpenCount++
		if inv.IsOverdue(today) {
			bal.Overdue += inv.Amount
		}
	}

	result := make([]ClientBalance, 0, len(balances))
	for _, bal := range balances {
		result = append(result, *bal)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Outstanding != result[j].Outstanding {
			return result[i].Outstanding > result[j].Outstanding
		}
		if result[i].ClientName != result[j].ClientName {
			return result[i].ClientName < result[j].ClientName
		}
		return result[i].ClientID < result[j].ClientID
	})

	return result
}
