// Package builder turns daily task text into GitHub issue requests,
// prefilled new-issue URLs and workflow dispatches.
package builder

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"ghdaily/internal/config"
	"ghdaily/internal/credential"
	"ghdaily/internal/service"
)

// TitlePrefix precedes the date in every issue title.
const TitlePrefix = "Tasks for "

var (
	// ErrEmptyText is returned when the task text is empty after trimming.
	ErrEmptyText = errors.New("task text is empty")

	// ErrNoToken is returned when no token is cached and none was supplied.
	ErrNoToken = errors.New("no token")

	// ErrTokenUnavailable wraps failures reading or prompting for the token.
	ErrTokenUnavailable = errors.New("token unavailable")
)

// TokenSource resolves the personal access token for a scope hint.
type TokenSource interface {
	Token(ctx context.Context, scopeHint string) (string, bool, error)
}

// Opener opens a URL in the operator's browser.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

// Open implements Opener.
func (f OpenerFunc) Open(url string) error { return f(url) }

// Builder performs the three outbound actions against one repository.
type Builder struct {
	svc    service.Service
	tokens TokenSource
	opener Opener
	now    func() time.Time
	log    *zap.Logger

	repo     config.Repo
	label    string
	workflow string
	ref      string
	webURL   string
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithOpener sets the browser opener used by OpenIssueURL.
func WithOpener(o Opener) Option {
	return func(b *Builder) {
		b.opener = o
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		b.log = log
	}
}

// New creates a Builder for the repository described by cfg.
// svc and tokens may be nil when only OpenIssueURL is used.
func New(cfg *config.Config, svc service.Service, tokens TokenSource, opts ...Option) (*Builder, error) {
	repo, err := cfg.Repo()
	if err != nil {
		return nil, err
	}

	b := &Builder{
		svc:      svc,
		tokens:   tokens,
		now:      time.Now,
		log:      zap.NewNop(),
		repo:     repo,
		label:    cfg.Label,
		workflow: cfg.Workflow,
		ref:      cfg.Ref,
		webURL:   strings.TrimRight(cfg.WebURL, "/"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Title returns the issue title for the UTC date of t.
func Title(t time.Time) string {
	return TitlePrefix + t.UTC().Format("2006-01-02")
}

// Title returns today's issue title.
func (b *Builder) Title() string {
	return Title(b.now())
}

// NewIssue builds the issue payload for text.
func (b *Builder) NewIssue(text string) (service.Issue, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return service.Issue{}, ErrEmptyText
	}
	return service.Issue{
		Title:  b.Title(),
		Body:   body,
		Labels: []string{b.label},
	}, nil
}

// CreateIssue files today's issue with text as its body.
func (b *Builder) CreateIssue(ctx context.Context, text string) (service.CreatedIssue, error) {
	issue, err := b.NewIssue(text)
	if err != nil {
		return service.CreatedIssue{}, err
	}

	token, err := b.token(ctx, credential.ScopeRepo)
	if err != nil {
		return service.CreatedIssue{}, err
	}

	b.log.Debug("creating issue", zap.String("repo", b.repo.String()), zap.String("title", issue.Title))
	created, err := b.svc.CreateIssue(ctx, token, issue)
	if err != nil {
		return service.CreatedIssue{}, fmt.Errorf("create issue: %w", err)
	}
	return created, nil
}

// IssueURL returns the prefilled new-issue URL for text.
func (b *Builder) IssueURL(text string) (string, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return "", ErrEmptyText
	}
	return IssueURL(b.webURL, b.repo, b.label, b.Title(), body), nil
}

// OpenIssueURL opens the prefilled new-issue URL in the browser and returns it.
// No token is needed.
func (b *Builder) OpenIssueURL(ctx context.Context, text string) (string, error) {
	u, err := b.IssueURL(text)
	if err != nil {
		return "", err
	}
	if b.opener == nil {
		return u, errors.New("no browser opener configured")
	}
	b.log.Debug("opening issue url", zap.String("url", u))
	if err := b.opener.Open(u); err != nil {
		return u, fmt.Errorf("open browser: %w", err)
	}
	return u, nil
}

// TriggerWorkflow dispatches the configured workflow on the configured ref.
func (b *Builder) TriggerWorkflow(ctx context.Context) error {
	token, err := b.token(ctx, credential.ScopeWorkflow)
	if err != nil {
		return err
	}

	d := service.Dispatch{Workflow: b.workflow, Ref: b.ref}
	b.log.Debug("dispatching workflow", zap.String("workflow", d.Workflow), zap.String("ref", d.Ref))
	if err := b.svc.DispatchWorkflow(ctx, token, d); err != nil {
		return fmt.Errorf("trigger workflow: %w", err)
	}
	return nil
}

// PendingIssues lists open issues carrying the input label.
func (b *Builder) PendingIssues(ctx context.Context) ([]service.CreatedIssue, error) {
	token, err := b.token(ctx, credential.ScopeRepo)
	if err != nil {
		return nil, err
	}
	issues, err := b.svc.ListOpenIssues(ctx, token, b.label)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

func (b *Builder) token(ctx context.Context, scopeHint string) (string, error) {
	if b.tokens == nil {
		return "", ErrNoToken
	}
	token, ok, err := b.tokens.Token(ctx, scopeHint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenUnavailable, err)
	}
	if !ok {
		b.log.Debug("no token available", zap.String("scope", scopeHint))
		return "", ErrNoToken
	}
	return token, nil
}

// IssueURL builds {webURL}/{owner}/{name}/issues/new with labels, title and
// body query parameters, in that order.
func IssueURL(webURL string, repo config.Repo, label, title, body string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(webURL, "/"))
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(repo.Owner))
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(repo.Name))
	sb.WriteString("/issues/new?labels=")
	sb.WriteString(EncodeComponent(label))
	sb.WriteString("&title=")
	sb.WriteString(EncodeComponent(title))
	sb.WriteString("&body=")
	sb.WriteString(EncodeComponent(body))
	return sb.String()
}

// componentUnescaper restores the marks that browsers leave unescaped in a
// URI component, and turns QueryEscape's '+' back into %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s for a query value the way
// encodeURIComponent does.
func EncodeComponent(s string) string {
	// QueryEscape has already turned literal '+' into %2B.
	return componentUnescaper.Replace(url.QueryEscape(s))
}
