package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/freelancepay/internal/app"
)

const shellPrompt = "freelancepay> "

func (r *runner) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands against one open session",
		Long: "Start an interactive session. Every command of the CLI is available without\n" +
			"the freelancepay prefix. Lists are redrawn after each change; search and\n" +
			"filter work on the loaded data without contacting the server. Type exit to quit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if r.inShell {
				return invalidInvocation(errors.New("already in a shell"))
			}
			return r.shell(cmd.Context())
		},
	}
}

// shell reads commands until exit or end of input. Each line runs through a
// fresh command tree so flags never leak between lines, while the App and
// its caches live for the whole session.
func (r *runner) shell(ctx context.Context) error {
	r.inShell = true
	defer func() { r.inShell = false }()

	r.show()
	if r.gw.Token() != "" {
		if r.app.CheckSession(ctx) != app.Authenticated {
			r.forgetRejectedToken()
		}
	} else {
		r.view.ShowLogin()
	}

	for {
		fmt.Fprint(r.env.Out, shellPrompt)
		line, readErr := r.in.ReadString('\n')
		line = strings.TrimSpace(line)

		switch line {
		case "":
		case "exit", "quit":
			return nil
		default:
			args, err := splitArgs(line)
			if err != nil {
				fmt.Fprintln(r.env.ErrOut, "Error:", err)
				break
			}
			r.exitCode(r.execute(ctx, args))
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				fmt.Fprintln(r.env.Out)
				return nil
			}
			return operationFailed(fmt.Errorf("failed to read input: %w", readErr))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// splitArgs splits a shell line into words. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, c := range line {
		switch {
		case escaped:
			word.WriteRune(c)
			escaped = false
		case c == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				word.WriteRune(c)
			}
		case c == '"' || c == '\'':
			quote, inWord = c, true
		case c == ' ' || c == '\t':
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(c)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		args = append(args, word.String())
	}
	return args, nil
}
