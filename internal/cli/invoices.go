package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/freelancepay/internal/app"
	"github.com/mmynk/freelancepay/internal/models"
)

func (r *runner) invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"invoice"},
		Short:   "Manage invoices",
	}
	cmd.AddCommand(
		r.invoicesListCmd(),
		r.invoicesAddCmd(),
		r.invoicesEditCmd(),
		r.invoicesStatusCmd("pay", "Mark an invoice as paid", app.ActionMarkPaid),
		r.invoicesStatusCmd("unpay", "Mark an invoice as unpaid", app.ActionMarkUnpaid),
		r.invoicesDeleteCmd(),
	)
	return cmd
}

func (r *runner) invoicesListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List invoices, optionally only paid or unpaid ones",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.filterInvoices(cmd, status)
		},
	}
	cmd.Flags().StringVar(&status, "status", string(models.FilterAll), "all, unpaid or paid")
	return cmd
}

func (r *runner) filterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter [all|unpaid|paid]",
		Short: "Show the invoices with the given status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := string(models.FilterAll)
			if len(args) == 1 {
				status = args[0]
			}
			return r.filterInvoices(cmd, status)
		},
	}
}

func (r *runner) filterInvoices(cmd *cobra.Command, status string) error {
	if err := r.requireLogin(cmd.Context()); err != nil {
		return err
	}
	r.show()
	return r.dispatch(cmd.Context(), app.Command{Action: app.ActionFilterInvoices, Filter: models.StatusFilter(status)})
}

type invoiceFlags struct {
	clientID int64
	amount   float64
	form     app.InvoiceForm
}

func (f *invoiceFlags) register(cmd *cobra.Command, withClient bool) {
	if withClient {
		cmd.Flags().Int64Var(&f.clientID, "client", 0, "ID of the client to bill")
	}
	cmd.Flags().Float64Var(&f.amount, "amount", 0, "amount billed")
	cmd.Flags().StringVar(&f.form.Description, "description", "",
		fmt.Sprintf("one of %s, or any text", strings.Join(models.DescriptionPresets, ", ")))
	cmd.Flags().StringVar(&f.form.CustomDescription, "custom", "", "text used when --description is "+models.CustomDescription)
	cmd.Flags().StringVar(&f.form.DueDate, "due", "", "due date, YYYY-MM-DD")
}

func (r *runner) invoicesAddCmd() *cobra.Command {
	var f invoiceFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Bill a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			form := f.form
			form.ClientID = f.clientID
			if cmd.Flags().Changed("amount") {
				form.Amount = &f.amount
			}
			return r.dispatch(cmd.Context(), app.Command{Action: app.ActionCreateInvoice, Invoice: form})
		},
	}
	f.register(cmd, true)
	return cmd
}

func (r *runner) invoicesEditCmd() *cobra.Command {
	var f invoiceFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change an invoice; omitted fields keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "invoice")
			if err != nil {
				return err
			}
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			current, ok := r.findInvoice(id)
			if !ok {
				return operationFailed(fmt.Errorf("invoice %d not found", id))
			}

			flags := cmd.Flags()
			form := f.form
			amount := current.Amount
			if flags.Changed("amount") {
				amount = f.amount
			}
			form.Amount = &amount
			if !flags.Changed("description") {
				form.Description = current.Description
			}
			if !flags.Changed("due") {
				form.DueDate = current.DueDate.String()
			}
			return r.dispatch(cmd.Context(), app.Command{Action: app.ActionUpdateInvoice, ID: id, Invoice: form})
		},
	}
	f.register(cmd, false)
	return cmd
}

func (r *runner) invoicesStatusCmd(use, short string, action app.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "invoice")
			if err != nil {
				return err
			}
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			return r.dispatch(cmd.Context(), app.Command{Action: action, ID: id})
		},
	}
}

func (r *runner) invoicesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an invoice",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "invoice")
			if err != nil {
				return err
			}
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			return r.dispatch(cmd.Context(), app.Command{Action: app.ActionDeleteInvoice, ID: id})
		},
	}
}

func (r *runner) findInvoice(id int64) (models.Invoice, bool) {
	for _, inv := range r.app.State().Invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return models.Invoice{}, false
}
