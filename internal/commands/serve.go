package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"ghdaily/internal/credential"
	"ghdaily/internal/exitcode"
	"ghdaily/internal/web"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Serve the task form on a local port" }
func (c *ServeCmd) Usage() string      { return "ghdaily serve [common flags] [--addr <host:port>]" }
func (c *ServeCmd) NeedsService() bool { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.Tokens == nil {
		fmt.Fprintln(errOut, "error: no credential store configured")
		return exitcode.AuthError
	}

	addr := c.addr
	if addr == "" {
		addr = env.Config.ServeAddr
	}

	if !env.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// The server has no operator to prompt; the token must already be stored.
	serverEnv := *env
	serverEnv.Tokens = credential.NewResolver(env.Tokens.Store, credential.NoPrompter)
	b, err := serverEnv.Builder()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "Serving http://%s (Ctrl+C to stop)\n", addr)
	}
	if err := web.New(b, env.Log).Run(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
