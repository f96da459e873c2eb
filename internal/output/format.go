// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"ghdaily/internal/service"
)

// Operator-facing messages.
const (
	MsgEmptyText         = "Please enter something first."
	MsgIssueCreated      = "GitHub issue created!"
	MsgWorkflowTriggered = "Workflow triggered! Check Actions tab."
	MsgNoPending         = "No open daily inputs."
)

// IssueFailed formats a failed issue creation with the raw response text.
func IssueFailed(detail string) string {
	return "Failed to create issue: " + detail
}

// WorkflowFailed formats a failed workflow dispatch with the raw response text.
func WorkflowFailed(detail string) string {
	return "Failed to trigger workflow: " + detail
}

// FormatIssue formats an issue line for the pending list.
// Format: "{#N:>5}  {TITLE}\n" (5-wide right-aligned "#N", two spaces, title)
func FormatIssue(w io.Writer, issue service.CreatedIssue) {
	fmt.Fprintf(w, "%5s  %s\n", fmt.Sprintf("#%d", issue.Number), normalizeTitle(issue.Title))
}

// normalizeTitle normalizes an issue title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
