// Package service defines the backend-agnostic interface for GitHub operations.
package service

import "fmt"

// Issue is the payload for a new issue.
type Issue struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

// CreatedIssue is an issue as returned by the API.
type CreatedIssue struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
}

// Dispatch is a workflow_dispatch request.
type Dispatch struct {
	Workflow string `json:"-"`
	Ref      string `json:"ref"`
}

// APIError is a non-2xx response. Body is the raw response text.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}
