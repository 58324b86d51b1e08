package render

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mmynk/freelancepay/internal/calculator"
	"github.com/mmynk/freelancepay/internal/models"
)

func (r *Renderer) table(header string, rows [][]string) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Clients prints the client list.
func (r *Renderer) Clients(clients []models.Client) error {
	if r.format == FormatJSON {
		return r.JSON(nonNil(clients))
	}
	if len(clients) == 0 {
		return r.Line("No clients found")
	}
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			fmt.Sprint(c.ID),
			c.Name,
			c.Email,
			orDefault(c.Phone, notProvided),
			Date(c.CreatedAt),
		})
	}
	return r.table("ID\tNAME\tEMAIL\tPHONE\tCREATED", rows)
}

// Invoices prints the invoice list.
func (r *Renderer) Invoices(invoices []models.Invoice) error {
	if r.format == FormatJSON {
		return r.JSON(nonNil(invoices))
	}
	if len(invoices) == 0 {
		return r.Line("No invoices found")
	}
	rows := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []string{
			fmt.Sprint(inv.ID),
			inv.ClientName,
			r.Money(inv.Amount),
			strings.ToUpper(string(inv.Status)),
			inv.DisplayDescription(),
			Date(inv.DueDate.Time),
		})
	}
	return r.table("ID\tCLIENT\tAMOUNT\tSTATUS\tDESCRIPTION\tDUE", rows)
}

// Summary prints the dashboard figures.
func (r *Renderer) Summary(s calculator.Summary) error {
	if r.format == FormatJSON {
		return r.JSON(s)
	}
	rows := [][]string{
		{"Clients:", fmt.Sprint(s.TotalClients)},
		{"Invoices:", fmt.Sprint(s.TotalInvoices)},
		{"Paid:", r.Money(s.PaidTotal)},
		{"Unpaid:", r.Money(s.UnpaidTotal)},
		{"Total revenue:", r.Money(s.Revenue)},
		{"Average invoice:", r.Money(s.AverageInvoice)},
		{"Collected:", Percent(s.CollectionRate)},
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 1, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return nil
}

// Dashboard prints the summary followed by the most recent invoices.
func (r *Renderer) Dashboard(s calculator.Summary, recent []models.Invoice) error {
	if r.format == FormatJSON {
		return r.JSON(struct {
			calculator.Summary
			Recent []models.Invoice `json:"recent_invoices"`
		}{s, nonNil(recent)})
	}
	if err := r.Summary(s); err != nil {
		return err
	}
	if err := r.Line("\nRecent invoices:"); err != nil {
		return err
	}
	if len(recent) == 0 {
		return r.Line("No invoices yet")
	}
	return r.Invoices(recent)
}

// Balances prints the per-client balances.
func (r *Renderer) Balances(balances []calculator.ClientBalance) error {
	if r.format == FormatJSON {
		return r.JSON(nonNil(balances))
	}
	if len(balances) == 0 {
		return r.Line("No invoices yet")
	}
	rows := make([][]string, 0, len(balances))
	for _, b := range balances {
		rows = append(rows, []string{
			b.ClientName,
			r.Money(b.Invoiced),
			r.Money(b.Paid),
			r.Money(b.Outstanding),
			r.Money(b.Overdue),
			fmt.Sprint(b.OpenCount),
		})
	}
	return r.table("CLIENT\tINVOICED\tPAID\tOUTSTANDING\tOVERDUE\tOPEN", rows)
}

// User prints the account.
func (r *Renderer) User(u models.User) error {
	if r.format == FormatJSON {
		return r.JSON(u)
	}
	return r.Line("%s <%s> (%s)", u.Name, u.Email, u.Initials())
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
