// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"ghdaily/internal/builder"
	"ghdaily/internal/commands"
	"ghdaily/internal/config"
	"ghdaily/internal/credential"
	"ghdaily/internal/exitcode"
	"ghdaily/internal/logger"
	"ghdaily/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	prompter credential.Prompter
	opener   builder.Opener
	stdin    io.Reader
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPrompter sets how missing tokens are requested.
func WithPrompter(p credential.Prompter) Option {
	return func(d *Dispatcher) {
		d.prompter = p
	}
}

// WithOpener sets the browser opener.
func WithOpener(o builder.Opener) Option {
	return func(d *Dispatcher) {
		d.opener = o
	}
}

// WithStdin sets the reader used for task text.
func WithStdin(r io.Reader) Option {
	return func(d *Dispatcher) {
		d.stdin = r
	}
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
// Without options it never prompts, opens URLs with the system browser and
// reads no stdin.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		factory:  factory,
		prompter: credential.NoPrompter,
		opener:   builder.OpenerFunc(browser.OpenURL),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> help
	if len(args) == 0 {
		return d.dispatch(ctx, "help", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		// Check for missing flag value
		if strings.HasPrefix(errStr, "flag needs an argument:") {
			flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
			return exitcode.UserError
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// A lone "-" means stdin; anything else starting with - is an unknown flag
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && positionalArgs[0] != "-" && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log := logger.New(debug, errOut)
	defer func() { _ = log.Sync() }()
	log.Debug("dispatch", zap.String("command", cmd.Name()), zap.String("config", cfg.Dir), zap.String("repo", cfg.Repository))

	env := &commands.Env{
		Config: cfg,
		Tokens: credential.NewResolver(credential.NewFileStore(cfg.CredentialsPath()), d.prompter),
		Opener: d.opener,
		Stdin:  d.stdin,
		Log:    log,
	}

	if cmd.NeedsService() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend configured")
			return exitcode.BackendError
		}
		svc, err := d.factory(ctx, cfg, log)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		env.Service = svc
	}

	code := cmd.Run(ctx, env, positionalArgs, out, errOut)
	log.Debug("done", zap.String("command", cmd.Name()), zap.String("status", exitcode.Name(code)))
	return code
}
