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
	Register(&RunCmd{})
}

// RunCmd implements the run command.
type RunCmd struct{}

func (c *RunCmd) Name() string       { return "run" }
func (c *RunCmd) Aliases() []string  { return []string{"dispatch"} }
func (c *RunCmd) Synopsis() string   { return "Trigger the nightly workflow" }
func (c *RunCmd) Usage() string      { return "ghdaily run [common flags]" }
func (c *RunCmd) NeedsService() bool { return true }

func (c *RunCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RunCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	b, err := env.Builder()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	err = b.TriggerWorkflow(ctx)
	switch {
	case err == nil:
		if !env.Config.Quiet {
			fmt.Fprintln(out, output.MsgWorkflowTriggered)
		}
		return exitcode.Success
	case errors.Is(err, builder.ErrNoToken):
		return exitcode.AuthError
	case errors.Is(err, builder.ErrTokenUnavailable):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintln(errOut, output.WorkflowFailed(failureDetail(err)))
		return exitcode.BackendError
	}
}
