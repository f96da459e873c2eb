// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"time"

	"go.uber.org/zap"

	"ghdaily/internal/builder"
	"ghdaily/internal/config"
	"ghdaily/internal/credential"
	"ghdaily/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsService returns true if the command talks to the GitHub API.
	// Commands like help, version, login, logout, open return false.
	NeedsService() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// Env carries everything a command needs.
type Env struct {
	// Config is always provided (config dir, repository settings).
	Config *config.Config

	// Service is nil if NeedsService() returns false.
	Service service.Service

	// Tokens resolves the cached PAT, prompting when allowed.
	Tokens *credential.Resolver

	// Opener opens URLs in a browser.
	Opener builder.Opener

	// Stdin supplies task text when none is given as arguments.
	Stdin io.Reader

	// Log is a no-op logger unless --debug is set.
	Log *zap.Logger

	// Now overrides time.Now (tests).
	Now func() time.Time
}

// Builder creates a request builder from the environment.
func (e *Env) Builder() (*builder.Builder, error) {
	opts := []builder.Option{builder.WithLogger(e.logger())}
	if e.Opener != nil {
		opts = append(opts, builder.WithOpener(e.Opener))
	}
	if e.Now != nil {
		opts = append(opts, builder.WithClock(e.Now))
	}

	var tokens builder.TokenSource
	if e.Tokens != nil {
		tokens = e.Tokens
	}
	return builder.New(e.Config, e.Service, tokens, opts...)
}

func (e *Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
