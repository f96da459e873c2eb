// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"ghdaily/internal/service"
)

// IssueCall records one CreateIssue call.
type IssueCall struct {
	Token string
	Issue service.Issue
}

// DispatchCall records one DispatchWorkflow call.
type DispatchCall struct {
	Token    string
	Dispatch service.Dispatch
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu         sync.Mutex
	issues     []IssueCall
	dispatches []DispatchCall
	listCalls  int
	nextNumber int

	// Open is returned by ListOpenIssues.
	Open []service.CreatedIssue

	// Error injection for testing
	CreateIssueErr      error
	DispatchWorkflowErr error
	ListOpenIssuesErr   error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextNumber: 1}
}

// CreateIssue implements service.Service.
func (f *FakeService) CreateIssue(ctx context.Context, token string, issue service.Issue) (service.CreatedIssue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.issues = append(f.issues, IssueCall{Token: token, Issue: issue})
	if f.CreateIssueErr != nil {
		return service.CreatedIssue{}, f.CreateIssueErr
	}

	n := f.nextNumber
	f.nextNumber++
	return service.CreatedIssue{Number: n, Title: issue.Title}, nil
}

// DispatchWorkflow implements service.Service.
func (f *FakeService) DispatchWorkflow(ctx context.Context, token string, d service.Dispatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.dispatches = append(f.dispatches, DispatchCall{Token: token, Dispatch: d})
	return f.DispatchWorkflowErr
}

// ListOpenIssues implements service.Service.
func (f *FakeService) ListOpenIssues(ctx context.Context, token, label string) ([]service.CreatedIssue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.ListOpenIssuesErr != nil {
		return nil, f.ListOpenIssuesErr
	}
	result := make([]service.CreatedIssue, len(f.Open))
	copy(result, f.Open)
	return result, nil
}

// Issues returns the recorded CreateIssue calls.
func (f *FakeService) Issues() []IssueCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]IssueCall(nil), f.issues...)
}

// Dispatches returns the recorded DispatchWorkflow calls.
func (f *FakeService) Dispatches() []DispatchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]DispatchCall(nil), f.dispatches...)
}

// Calls returns the total number of backend calls.
func (f *FakeService) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.issues) + len(f.dispatches) + f.listCalls
}
