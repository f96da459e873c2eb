// Package github implements the service.Service interface using the GitHub REST API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"ghdaily/internal/config"
	"ghdaily/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 30 * time.Second

	// PageSize is the number of issues requested per page.
	PageSize = 100

	mediaType = "application/vnd.github+json"

	// tokenType makes oauth2 emit "Authorization: token <PAT>".
	tokenType = "token"
)

// Client implements service.Service against api.github.com or a compatible host.
type Client struct {
	httpClient *http.Client
	baseURL    string
	repo       config.Repo
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the base HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a client for the repository and API URL in cfg.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	repo, err := cfg.Repo()
	if err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		repo:       repo,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateIssue files a new issue.
func (c *Client) CreateIssue(ctx context.Context, token string, issue service.Issue) (service.CreatedIssue, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body, err := c.do(ctx, token, http.MethodPost, c.repoPath("issues"), issue)
	if err != nil {
		return service.CreatedIssue{}, err
	}

	var created service.CreatedIssue
	if len(body) > 0 {
		if err := json.Unmarshal(body, &created); err != nil {
			return service.CreatedIssue{}, fmt.Errorf("failed to parse issue response: %w", err)
		}
	}
	return created, nil
}

// DispatchWorkflow triggers a workflow_dispatch event on d.Workflow.
func (c *Client) DispatchWorkflow(ctx context.Context, token string, d service.Dispatch) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	path := c.repoPath("actions", "workflows", d.Workflow, "dispatches")
	_, err := c.do(ctx, token, http.MethodPost, path, d)
	return err
}

// ListOpenIssues returns the first page of open issues carrying label.
// Pull requests are skipped.
func (c *Client) ListOpenIssues(ctx context.Context, token, label string) ([]service.CreatedIssue, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	q := url.Values{}
	q.Set("state", "open")
	q.Set("labels", label)
	q.Set("per_page", fmt.Sprint(PageSize))

	body, err := c.do(ctx, token, http.MethodGet, c.repoPath("issues")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var items []struct {
		service.CreatedIssue
		PullRequest *struct{} `json:"pull_request"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse issues response: %w", err)
	}

	var result []service.CreatedIssue
	for _, it := range items {
		if it.PullRequest != nil {
			continue
		}
		result = append(result, it.CreatedIssue)
	}
	return result, nil
}

func (c *Client) repoPath(parts ...string) string {
	segs := []string{"repos", url.PathEscape(c.repo.Owner), url.PathEscape(c.repo.Name)}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return "/" + strings.Join(segs, "/")
}

// do sends one request and returns the response body on 2xx.
func (c *Client) do(ctx context.Context, token, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", mediaType)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("github request", zap.String("method", method), zap.String("path", path))

	resp, err := c.authClient(token).Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.Debug("github response", zap.String("path", path), zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &service.APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// authClient wraps the base client's transport with the PAT.
func (c *Client) authClient(token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   tokenType,
	})
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: src,
			Base:   c.httpClient.Transport,
		},
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
		Timeout:       c.httpClient.Timeout,
	}
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("request failed: %w", err)
}
