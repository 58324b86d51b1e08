// Package cli is the freelancepay command line. One-shot commands suit
// scripts; the shell command keeps one session and its caches open between
// commands.
//
// Exit codes:
//
//	0  success, or a confirmation the user declined
//	1  the operation failed
//	2  invalid invocation (unknown command, bad flag or argument)
//	3  not authenticated
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/freelancepay/internal/app"
	"github.com/mmynk/freelancepay/internal/config"
	"github.com/mmynk/freelancepay/internal/export"
	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/gateway"
	"github.com/mmynk/freelancepay/internal/render"
	"github.com/mmynk/freelancepay/pkg/logging"
)

const (
	ExitSuccess           = 0
	ExitFailure           = 1
	ExitInvalidInvocation = 2
	ExitUnauthenticated   = 3
)

var (
	errNotLoggedIn    = errors.New("not logged in: run 'freelancepay login' first")
	errSessionExpired = errors.New("session expired or server unreachable: run 'freelancepay login' again")
)

// ExitError carries the exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
	// reported errors were already shown by the notifier.
	reported bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func invalidInvocation(err error) error {
	return &ExitError{Code: ExitInvalidInvocation, Err: err}
}

func operationFailed(err error) error {
	return &ExitError{Code: ExitFailure, Err: err}
}

// Env is the process boundary the commands run against.
type Env struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// HTTPClient replaces the API transport when set.
	HTTPClient *http.Client
	// S3 replaces the client built from the config for s3:// exports.
	S3 export.PutObjectAPI
	// Now defaults to time.Now.
	Now func() time.Time
}

// Run executes one command line and returns the process exit code.
func Run(ctx context.Context, args []string, env Env) int {
	if env.In == nil {
		env.In = strings.NewReader("")
	}
	if env.Now == nil {
		env.Now = time.Now
	}
	r := &runner{env: env, in: bufio.NewReader(env.In)}
	return r.exitCode(r.execute(ctx, args))
}

type options struct {
	configPath string
	apiURL     string
	yes        bool
	output     string
	query      string
	verbose    bool
}

// runner holds everything one invocation (or one shell) works with.
type runner struct {
	env  Env
	in   *bufio.Reader
	opts options

	configPath string
	cfg        config.Client
	logger     *slog.Logger
	renderer   *render.Renderer
	view       *render.View
	notifier   app.Notifier
	gw         *gateway.Client
	app        *app.App

	ready   bool
	inShell bool
}

func (r *runner) execute(ctx context.Context, args []string) error {
	root := r.rootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// exitCode prints err unless it was already reported and maps it to an exit
// code. Errors cobra produces itself are invocation errors.
func (r *runner) exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.reported {
			fmt.Fprintln(r.env.ErrOut, "Error:", exitErr.Error())
		}
		return exitErr.Code
	}
	fmt.Fprintln(r.env.ErrOut, "Error:", err)
	return ExitInvalidInvocation
}

func (r *runner) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "freelancepay",
		Short:         "Track clients and invoices from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return r.setup()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(r.env.Out)
	root.SetErr(r.env.ErrOut)

	flags := root.PersistentFlags()
	flags.StringVar(&r.opts.configPath, "config", config.DefaultClientPath(), "config file")
	flags.StringVar(&r.opts.apiURL, "api-url", "", "API base URL, overrides the config file")
	flags.BoolVarP(&r.opts.yes, "yes", "y", false, "answer yes to every confirmation")
	flags.StringVarP(&r.opts.output, "output", "o", string(render.FormatTable), "output format: table or json")
	flags.StringVar(&r.opts.query, "query", "", "JMESPath expression applied to JSON output")
	flags.BoolVarP(&r.opts.verbose, "verbose", "v", false, "log API requests to stderr")

	root.AddCommand(
		r.loginCmd(),
		r.registerCmd(),
		r.logoutCmd(),
		r.whoamiCmd(),
		r.refreshCmd(),
		r.statsCmd(),
		r.balancesCmd(),
		r.exportCmd(),
		r.clientsCmd(),
		r.searchCmd(),
		r.invoicesCmd(),
		r.filterCmd(),
		r.shellCmd(),
	)
	return root
}

// setup wires config, logging, rendering, the gateway and the App. Inside the
// shell it has already run and the global flags of each line are ignored.
func (r *runner) setup() error {
	if r.ready {
		return nil
	}
	format, err := render.ParseFormat(r.opts.output)
	if err != nil {
		return invalidInvocation(err)
	}
	cfg, err := config.LoadClient(r.opts.configPath)
	if err != nil {
		return operationFailed(err)
	}
	if r.opts.apiURL != "" {
		cfg.APIURL = r.opts.apiURL
	}
	renderer, err := render.New(r.env.Out, render.Config{Format: format, Currency: cfg.Currency, Query: r.opts.query})
	if err != nil {
		return invalidInvocation(err)
	}

	r.logger = logging.NewCLI(r.env.ErrOut, r.opts.verbose)
	gwOpts := []gateway.Option{gateway.WithToken(cfg.Token), gateway.WithLogger(r.logger)}
	if r.env.HTTPClient != nil {
		gwOpts = append(gwOpts, gateway.WithHTTPClient(r.env.HTTPClient))
	}
	r.gw = gateway.New(cfg.APIURL, gwOpts...)

	// Keep stdout parseable when it carries JSON.
	notifyOut := r.env.Out
	if renderer.Format() == render.FormatJSON {
		notifyOut = r.env.ErrOut
	}
	r.view = render.NewView(renderer, r.logger)
	r.view.SetMuted(true)
	r.notifier = render.NewNotifier(notifyOut, r.env.ErrOut)
	r.app = app.New(r.gw,
		app.WithView(r.view),
		app.WithNotifier(r.notifier),
		app.WithConfirmer(app.ConfirmFunc(r.confirm)),
		app.WithLogger(r.logger),
	)

	r.configPath = r.opts.configPath
	r.cfg = cfg
	r.renderer = renderer
	r.ready = true
	return nil
}

// confirm asks on stderr and reads the answer from stdin.
func (r *runner) confirm(prompt string) bool {
	if r.opts.yes {
		return true
	}
	answer, err := r.prompt(prompt + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// prompt reads one trimmed line. End of input yields what was read so far.
func (r *runner) prompt(label string) (string, error) {
	fmt.Fprint(r.env.ErrOut, label)
	line, err := r.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// requireLogin runs the session gate unless a session is already open. It
// never makes a request without a stored token.
func (r *runner) requireLogin(ctx context.Context) error {
	if r.app.Authenticated() {
		return nil
	}
	if r.gw.Token() == "" {
		return &ExitError{Code: ExitUnauthenticated, Err: errNotLoggedIn}
	}
	if r.app.CheckSession(ctx) != app.Authenticated {
		r.forgetRejectedToken()
		return &ExitError{Code: ExitUnauthenticated, Err: errSessionExpired}
	}
	return nil
}

// forgetRejectedToken drops the saved token once the server has refused it,
// so later commands report "not logged in" without sending it again.
func (r *runner) forgetRejectedToken() {
	if !r.app.SessionRejected() || r.gw.Token() == "" {
		return
	}
	r.gw.ClearToken()
	if err := r.saveToken(); err != nil {
		r.logger.Warn("Failed to clear the saved session", "path", r.configPath, "error", err)
	}
}

func (r *runner) dispatch(ctx context.Context, cmd app.Command) error {
	_, err := r.do(ctx, cmd)
	return err
}

// do runs one operation. Declined confirmations are not notified by the App,
// so they are reported here. A session the server refused along the way,
// even while refetching after a successful write, ends with
// ExitUnauthenticated.
func (r *runner) do(ctx context.Context, cmd app.Command) (app.Result, error) {
	hadSession := r.app.Authenticated()
	res := r.app.Dispatch(ctx, cmd)
	if res.Outcome == app.Declined {
		r.notifier.Notify(res)
	}
	err := resultError(res)
	if hadSession && !r.app.Authenticated() && r.app.SessionRejected() {
		r.forgetRejectedToken()
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			exitErr.Code = ExitUnauthenticated
		} else {
			// The App has already notified the expired session.
			err = &ExitError{Code: ExitUnauthenticated, Err: errSessionExpired, reported: true}
		}
	}
	return res, err
}

// resultError maps a failed operation to its exit code. The notifier has
// already shown the message. Rejected credentials are an ordinary failure.
func resultError(res app.Result) error {
	if res.Outcome != app.Failure {
		return nil
	}
	code := ExitFailure
	if res.Kind() == failure.Unauthorized && res.Action != app.ActionLogin && res.Action != app.ActionRegister {
		code = ExitUnauthenticated
	}
	err := res.Err
	if err == nil {
		err = errors.New(res.Message)
	}
	return &ExitError{Code: code, Err: err, reported: true}
}

// saveToken persists the gateway's current token, empty after a logout.
// Only the token is written; flag and environment overrides stay out of the
// file.
func (r *runner) saveToken() error {
	r.cfg.Token = r.gw.Token()
	if err := config.SaveToken(r.configPath, r.cfg.Token); err != nil {
		return operationFailed(err)
	}
	r.logger.Debug("Session saved", "path", r.configPath)
	return nil
}

// show prints through the view, which stays muted in one-shot mode until a
// command has something to display.
func (r *runner) show() {
	r.view.SetMuted(false)
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidInvocation(fmt.Errorf("invalid %s ID %q", what, arg))
	}
	return id, nil
}
