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
	Register(&OpenCmd{})
}

// OpenCmd implements the open command.
type OpenCmd struct {
	printOnly bool
}

// SetPrintOnly sets the --print flag (for testing).
func (c *OpenCmd) SetPrintOnly(v bool) {
	c.printOnly = v
}

func (c *OpenCmd) Name() string       { return "open" }
func (c *OpenCmd) Aliases() []string  { return nil }
func (c *OpenCmd) Synopsis() string   { return "Open a prefilled new-issue page in the browser" }
func (c *OpenCmd) Usage() string      { return "ghdaily open [common flags] [--print] [<text...> | -]" }
func (c *OpenCmd) NeedsService() bool { return false }

func (c *OpenCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.printOnly, "print", false, "")
}

func (c *OpenCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
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

	if c.printOnly {
		u, err := b.IssueURL(text)
		if err != nil {
			fmt.Fprintln(errOut, output.MsgEmptyText)
			return exitcode.UserError
		}
		fmt.Fprintln(out, u)
		return exitcode.Success
	}

	u, err := b.OpenIssueURL(ctx, text)
	switch {
	case err == nil:
		if !env.Config.Quiet {
			fmt.Fprintln(out, u)
		}
		return exitcode.Success
	case errors.Is(err, builder.ErrEmptyText):
		fmt.Fprintln(errOut, output.MsgEmptyText)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		fmt.Fprintln(errOut, "Open this URL in your browser:")
		fmt.Fprintln(errOut, u)
		return exitcode.BackendError
	}
}
