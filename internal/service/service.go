package service

import "context"

// Service defines the interface for GitHub backend operations.
// All GitHub REST calls go through this interface.
// The token is passed per call; the backend holds no credential state.
type Service interface {
	// CreateIssue files a new issue in the configured repository.
	// Returns *APIError for non-2xx responses.
	CreateIssue(ctx context.Context, token string, issue Issue) (CreatedIssue, error)

	// DispatchWorkflow triggers a workflow_dispatch event.
	// Returns *APIError for non-2xx responses.
	DispatchWorkflow(ctx context.Context, token string, d Dispatch) error

	// ListOpenIssues returns open issues carrying label, in API order.
	ListOpenIssues(ctx context.Context, token, label string) ([]CreatedIssue, error)
}
