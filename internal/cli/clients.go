package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/freelancepay/internal/app"
	"github.com/mmynk/freelancepay/internal/models"
)

func (r *runner) clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"client"},
		Short:   "Manage clients",
	}
	cmd.AddCommand(
		r.clientsListCmd(),
		r.clientsAddCmd(),
		r.clientsEditCmd(),
		r.clientsDeleteCmd(),
	)
	return cmd
}

func (r *runner) clientsListCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List clients, optionally narrowed by name or email",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.searchClients(cmd, search)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive match on name or email")
	return cmd
}

func (r *runner) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [term]",
		Short: "Show the clients whose name or email contains term",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			return r.searchClients(cmd, term)
		},
	}
}

func (r *runner) searchClients(cmd *cobra.Command, term string) error {
	if err := r.requireLogin(cmd.Context()); err != nil {
		return err
	}
	r.show()
	return r.dispatch(cmd.Context(), app.Command{Action: app.ActionSearchClients, Term: term})
}

func clientFlags(cmd *cobra.Command, in *models.ClientInput) {
	cmd.Flags().StringVar(&in.Name, "name", "", "client name")
	cmd.Flags().StringVar(&in.Email, "email", "", "client email")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "client phone")
}

func (r *runner) clientsAddCmd() *cobra.Command {
	var in models.ClientInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			return r.dispatch(cmd.Context(), app.Command{Action: app.ActionCreateClient, Client: in})
		},
	}
	clientFlags(cmd, &in)
	return cmd
}

func (r *runner) clientsEditCmd() *cobra.Command {
	var in models.ClientInput
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a client; omitted fields keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "client")
			if err != nil {
				return err
			}
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			current, ok := r.findClient(id)
			if !ok {
				return operationFailed(fmt.Errorf("client %d not found", id))
			}

			flags := cmd.Flags()
			if !flags.Changed("name") {
				in.Name = current.Name
			}
			if !flags.Changed("email") {
				in.Email = current.Email
			}
			if !flags.Changed("phone") {
				in.Phone = current.Phone
			}
			return r.dispatch(cmd.Context(), app.Command{Action: app.ActionUpdateClient, ID: id, Client: in})
		},
	}
	clientFlags(cmd, &in)
	return cmd
}

func (r *runner) clientsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a client and all their invoices",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "client")
			if err != nil {
				return err
			}
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			return r.dispatch(cmd.Context(), app.Command{Action: app.ActionDeleteClient, ID: id})
		},
	}
}

func (r *runner) findClient(id int64) (models.Client, bool) {
	for _, c := range r.app.State().Clients {
		if c.ID == id {
			return c, true
		}
	}
	return models.Client{}, false
}
