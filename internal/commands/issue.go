package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"ghdaily/internal/builder"
	"ghdaily/internal/exitcode"
	"ghdaily/internal/output"
	"ghdaily/internal/service"
)

func init() {
	Register(&IssueCmd{})
}

// IssueCmd implements the issue command.
type IssueCmd struct{}

func (c *IssueCmd) Name() string       { return "issue" }
func (c *IssueCmd) Aliases() []string  { return []string{"create"} }
func (c *IssueCmd) Synopsis() string   { return "Create today's task issue via the GitHub API" }
func (c *IssueCmd) Usage() string      { return "ghdaily issue [common flags] [<text...> | -]" }
func (c *IssueCmd) NeedsService() bool { return true }

func (c *IssueCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *IssueCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	text, err := taskText(env, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to read task text: %v\n", err)
		return exitcode.UserError
	}

	b, err := env.Builder()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	_, err = b.CreateIssue(ctx, text)
	switch {
	case err == nil:
		if !env.Config.Quiet {
			fmt.Fprintln(out, output.MsgIssueCreated)
		}
		return exitcode.Success
	case errors.Is(err, builder.ErrEmptyText):
		fmt.Fprintln(errOut, output.MsgEmptyText)
		return exitcode.UserError
	case errors.Is(err, builder.ErrNoToken):
		return exitcode.AuthError
	case errors.Is(err, builder.ErrTokenUnavailable):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintln(errOut, output.IssueFailed(failureDetail(err)))
		return exitcode.BackendError
	}
}

// taskText joins args, or reads stdin when there are none or the only arg is "-".
func taskText(env *Env, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	if env.Stdin == nil {
		return "", nil
	}
	data, err := io.ReadAll(env.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// failureDetail returns the raw response body for API errors and the error
// text otherwise.
func failureDetail(err error) string {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return err.Error()
}
