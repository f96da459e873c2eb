// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty task text).
	UserError = 1

	// AuthError indicates a missing token or an unusable credential store.
	AuthError = 2

	// BackendError indicates a GitHub API, network or browser error.
	BackendError = 3
)

var names = map[int]string{
	Success:      "success",
	UserError:    "user_error",
	AuthError:    "auth_error",
	BackendError: "backend_error",
}

// Name returns a short label for code, used in debug logs.
func Name(code int) string {
	if n, ok := names[code]; ok {
		return n
	}
	return "unknown"
}
