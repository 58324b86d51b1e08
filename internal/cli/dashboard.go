package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/freelancepay/internal/calculator"
	"github.com/mmynk/freelancepay/internal/export"
)

const recentInvoices = 5

func (r *runner) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Aliases: []string{"dashboard"},
		Short:   "Show totals and the most recent invoices",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			st := r.app.State()
			return r.renderer.Dashboard(calculator.Summarize(st.Stats), calculator.Recent(st.Invoices, recentInvoices))
		},
	}
}

func (r *runner) balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show what each client has been billed, paid and still owes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			return r.renderer.Balances(calculator.CalculateClientBalances(r.app.State().Invoices, r.env.Now()))
		},
	}
}

func (r *runner) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export DEST",
		Short: "Write all clients and invoices to a file or s3://bucket/key",
		Long: "Write a JSON snapshot of the account. Destinations ending in .gz are gzip\n" +
			"compressed and destinations ending in .zst are zstd compressed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := export.ParseTarget(args[0])
			if err != nil {
				return invalidInvocation(err)
			}
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			snap, err := export.FromState(r.app.State(), r.env.Now())
			if err != nil {
				return operationFailed(err)
			}

			opts := []export.Option{export.WithLogger(r.logger)}
			if target.IsS3() {
				api := r.env.S3
				if api == nil {
					client, err := export.NewS3Client(cmd.Context(), export.S3Config{Region: r.cfg.S3Region, Endpoint: r.cfg.S3Endpoint})
					if err != nil {
						return operationFailed(err)
					}
					api = client
				}
				opts = append(opts, export.WithS3(api))
			}

			if err := export.New(opts...).Export(cmd.Context(), target, snap); err != nil {
				return operationFailed(err)
			}
			return r.renderer.Line("Exported %d clients and %d invoices to %s", len(snap.Clients), len(snap.Invoices), target)
		},
	}
}
