package credential

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// Scope hints shown when asking for a token.
const (
	ScopeRepo     = "public_repo"
	ScopeWorkflow = "workflow"
)

// Prompter asks the operator for a token.
// An empty result means the operator declined.
type Prompter interface {
	Prompt(ctx context.Context, scopeHint string) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, scopeHint string) (string, error)

// Prompt implements Prompter.
func (f PrompterFunc) Prompt(ctx context.Context, scopeHint string) (string, error) {
	return f(ctx, scopeHint)
}

// NoPrompter always declines. Used where no operator is attached.
var NoPrompter = PrompterFunc(func(context.Context, string) (string, error) {
	return "", nil
})

// FormPrompter asks for the token with a masked terminal input.
type FormPrompter struct {
	In         io.Reader
	Out        io.Writer
	Accessible bool
}

// Prompt implements Prompter. Aborting the form counts as declining.
func (p *FormPrompter) Prompt(ctx context.Context, scopeHint string) (string, error) {
	var token string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(PromptText(scopeHint)).
				EchoMode(huh.EchoModePassword).
				Value(&token),
		),
	).WithAccessible(p.Accessible)
	if p.In != nil {
		form = form.WithInput(p.In)
	}
	if p.Out != nil {
		form = form.WithOutput(p.Out)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return token, nil
}

// PromptText is the question shown to the operator.
func PromptText(scopeHint string) string {
	return fmt.Sprintf("Enter a GitHub Personal Access Token with '%s' scope (stored in your config directory)", scopeHint)
}

// Resolver returns the cached token or asks for one.
//
// The cache holds a single token regardless of the scope it was requested
// for; scopeHint only changes the prompt text.
type Resolver struct {
	Store    Store
	Prompter Prompter
}

// NewResolver creates a Resolver. A nil prompter never prompts.
func NewResolver(store Store, prompter Prompter) *Resolver {
	if prompter == nil {
		prompter = NoPrompter
	}
	return &Resolver{Store: store, Prompter: prompter}
}

// Token returns the cached token, or prompts and caches the answer.
// ok is false when no token is cached and the operator declined.
func (r *Resolver) Token(ctx context.Context, scopeHint string) (token string, ok bool, err error) {
	cached, found, err := r.Store.Get(TokenKey)
	if err != nil {
		return "", false, fmt.Errorf("failed to read token: %w", err)
	}
	if found && cached != "" {
		return cached, true, nil
	}

	answer, err := r.Prompter.Prompt(ctx, scopeHint)
	if err != nil {
		return "", false, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false, nil
	}

	if err := r.Store.Set(TokenKey, answer); err != nil {
		return "", false, fmt.Errorf("failed to save token: %w", err)
	}
	return answer, true, nil
}
