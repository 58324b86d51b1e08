package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/freelancepay/internal/app"
)

func (r *runner) loginCmd() *cobra.Command {
	var creds app.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.askPassword(&creds); err != nil {
				return err
			}
			if err := r.dispatch(cmd.Context(), app.Command{Action: app.ActionLogin, Credentials: creds}); err != nil {
				return err
			}
			return r.saveToken()
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password, prompted for when omitted")
	return cmd
}

func (r *runner) registerCmd() *cobra.Command {
	var creds app.Credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.askPassword(&creds); err != nil {
				return err
			}
			if err := r.dispatch(cmd.Context(), app.Command{Action: app.ActionRegister, Credentials: creds}); err != nil {
				return err
			}
			return r.saveToken()
		},
	}
	cmd.Flags().StringVar(&creds.Name, "name", "", "your full name")
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password, prompted for when omitted")
	return cmd
}

func (r *runner) askPassword(creds *app.Credentials) error {
	if creds.Password != "" {
		return nil
	}
	password, err := r.prompt("Password: ")
	if err != nil {
		return operationFailed(err)
	}
	creds.Password = password
	return nil
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if r.gw.Token() == "" && !r.app.Authenticated() {
				return &ExitError{Code: ExitUnauthenticated, Err: errNotLoggedIn}
			}
			res, err := r.do(cmd.Context(), app.Command{Action: app.ActionLogout})
			if err != nil || !res.OK() {
				return err
			}
			return r.saveToken()
		},
	}
}

func (r *runner) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			return r.renderer.User(*r.app.User())
		},
	}
}

func (r *runner) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload clients, invoices and stats from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			return r.dispatch(cmd.Context(), app.Command{Action: app.ActionRefresh})
		},
	}
}
