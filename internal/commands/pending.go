package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"ghdaily/internal/builder"
	"ghdaily/internal/exitcode"
	"ghdaily/internal/output"
)

func init() {
	Register(&PendingCmd{})
}

// PendingCmd implements the pending command.
type PendingCmd struct{}

func (c *PendingCmd) Name() string       { return "pending" }
func (c *PendingCmd) Aliases() []string  { return nil }
func (c *PendingCmd) Synopsis() string   { return "List open issues waiting for the nightly run" }
func (c *PendingCmd) Usage() string      { return "ghdaily pending [common flags]" }
func (c *PendingCmd) NeedsService() bool { return true }

func (c *PendingCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PendingCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	b, err := env.Builder()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	issues, err := b.PendingIssues(ctx)
	if errors.Is(err, builder.ErrNoToken) {
		return exitcode.AuthError
	}
	if errors.Is(err, builder.ErrTokenUnavailable) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", failureDetail(err))
		return exitcode.BackendError
	}

	if len(issues) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, output.MsgNoPending)
		}
		return exitcode.Success
	}
	for _, issue := range issues {
		output.FormatIssue(out, issue)
	}
	return exitcode.Success
}
