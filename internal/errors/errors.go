package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Workspace errors (WORKSPACE-001 to WORKSPACE-099)
	ErrCodeWorkspaceNotFound   ErrorCode = "WORKSPACE-001"
	ErrCodeWorkspaceInvalidID  ErrorCode = "WORKSPACE-002"
	ErrCodeWorkspaceEscape     ErrorCode = "WORKSPACE-003"
	ErrCodeWorkspaceNoProject  ErrorCode = "WORKSPACE-004"
	ErrCodeWorkerNotFound      ErrorCode = "WORKSPACE-005"
	ErrCodeWorkspaceInitFailed ErrorCode = "WORKSPACE-006"

	// Policy errors (POLICY-001 to POLICY-099)
	ErrCodePolicyDenied ErrorCode = "POLICY-001"

	// Recursion errors (RECURSION-001 to RECURSION-099)
	ErrCodeRecursionExhausted ErrorCode = "RECURSION-001"
	ErrCodeRecursionBadSignal ErrorCode = "RECURSION-002"

	// Transcript errors (TRANSCRIPT-001 to TRANSCRIPT-099)
	ErrCodeTranscriptNotFound ErrorCode = "TRANSCRIPT-001"
	ErrCodeTranscriptStamp    ErrorCode = "TRANSCRIPT-002"

	// Settings errors (SETTINGS-001 to SETTINGS-099)
	ErrCodeSettingsRead  ErrorCode = "SETTINGS-001"
	ErrCodeSettingsWrite ErrorCode = "SETTINGS-002"

	// Worker errors (WORKER-001 to WORKER-099)
	ErrCodeWorkerSpawnFailed ErrorCode = "WORKER-001"
	ErrCodeWorkerNoResult    ErrorCode = "WORKER-002"
	ErrCodeWorkerIDConflict  ErrorCode = "WORKER-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
)

// SuperchargeError represents an enhanced error with code and suggestions
type SuperchargeError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *SuperchargeError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *SuperchargeError) Unwrap() error {
	return e.Cause
}

// New creates a new SuperchargeError
func New(code ErrorCode, message string) *SuperchargeError {
	return &SuperchargeError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new SuperchargeError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *SuperchargeError {
	return &SuperchargeError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *SuperchargeError) WithSuggestion(suggestion string) *SuperchargeError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *SuperchargeError) WithSuggestions(suggestions ...string) *SuperchargeError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors for frequently used errors

// NewNoProjectRootError reports that no project root could be resolved
func NewNoProjectRootError() *SuperchargeError {
	return New(ErrCodeWorkspaceNoProject, "no project root resolvable").
		WithSuggestion("Set the CLAUDE_PROJECT_DIR environment variable").
		WithSuggestion("Run from inside a git work tree")
}

// NewTaskNotFoundError reports a missing task workspace
func NewTaskNotFoundError(taskID string) *SuperchargeError {
	return New(ErrCodeWorkspaceNotFound, fmt.Sprintf("task %s not found", taskID)).
		WithSuggestion("Run 'supercharge task init <role>' to create a workspace").
		WithSuggestion("Check the UUID printed by task init")
}

// NewWorkerNotFoundError reports a missing worker context file
func NewWorkerNotFoundError(workerID string) *SuperchargeError {
	return New(ErrCodeWorkerNotFound,
		fmt.Sprintf("worker %s not found", workerID)).
		WithSuggestion("Only deep workers keep a context file and can be resumed")
}

// NewInvalidUUIDError reports a malformed task or worker identifier
func NewInvalidUUIDError(id string) *SuperchargeError {
	return New(ErrCodeWorkspaceInvalidID, fmt.Sprintf("invalid UUID format: %s", id)).
		WithSuggestion("Identifiers are lowercase 8-4-4-4-12 hex groups")
}

// NewRecursionExhaustedError reports that the spawn budget is spent
func NewRecursionExhaustedError() *SuperchargeError {
	return New(ErrCodeRecursionExhausted, "max recursion depth reached (0 remaining)").
		WithSuggestion("Set SUPERCHARGE_MAX_RECURSION_DEPTH in settings.json env to increase the limit")
}

// NewWorkspaceEscapeError reports a resolved path outside the task root
func NewWorkspaceEscapeError(dir, root string) *SuperchargeError {
	return New(ErrCodeWorkspaceEscape,
		fmt.Sprintf("task directory %s is outside task root %s", dir, root))
}
