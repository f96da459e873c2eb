package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ghdaily/internal/credential"
	"ghdaily/internal/exitcode"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Store a GitHub personal access token" }
func (c *LoginCmd) Usage() string      { return "ghdaily login [common flags]" }
func (c *LoginCmd) NeedsService() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.Tokens == nil {
		fmt.Fprintln(errOut, "error: no credential store configured")
		return exitcode.AuthError
	}

	// Check if already logged in
	existing, found, err := env.Tokens.Store.Get(credential.TokenKey)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if found && existing != "" {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	fmt.Fprintln(errOut, "Create a token at https://github.com/settings/tokens")
	fmt.Fprintln(errOut, "Grant 'public_repo' to file issues and 'workflow' to trigger the nightly run.")

	_, ok, err := env.Tokens.Token(ctx, credential.ScopeRepo)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if !ok {
		fmt.Fprintln(errOut, "error: no token entered")
		return exitcode.AuthError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
