package exitcode

import (
	"errors"
	"os"

	sgerrors "github.com/superchargeai/supercharge/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// PolicyViolation indicates a permission policy denial
	PolicyViolation = 3

	// RecursionExhausted indicates the spawn budget is spent
	RecursionExhausted = 4

	// WorkspaceError indicates a missing or invalid task workspace
	WorkspaceError = 5

	// Interrupted indicates the operation was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var sgErr *sgerrors.SuperchargeError
	if errors.As(err, &sgErr) {
		switch sgErr.Code {
		case sgerrors.ErrCodePolicyDenied:
			return PolicyViolation
		case sgerrors.ErrCodeRecursionExhausted, sgerrors.ErrCodeRecursionBadSignal:
			return RecursionExhausted
		case sgerrors.ErrCodeWorkspaceNotFound,
			sgerrors.ErrCodeWorkspaceInvalidID,
			sgerrors.ErrCodeWorkspaceEscape,
			sgerrors.ErrCodeWorkspaceNoProject,
			sgerrors.ErrCodeWorkspaceInitFailed,
			sgerrors.ErrCodeWorkerNotFound:
			return WorkspaceError
		}
	}

	return GeneralError
}
