package mcptrust

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error codes for client-side failures. These classify what went wrong
// before or while invoking the mcptrust binary, not tool semantics.
const (
	// ErrCodeNotInstalled indicates no mcptrust binary could be located.
	ErrCodeNotInstalled = "MCPTRUST_NOT_INSTALLED"

	// ErrCodeUsage indicates malformed caller input; no subprocess was spawned.
	ErrCodeUsage = "MCPTRUST_USAGE"

	// ErrCodeCommandFailed indicates the binary exited non-zero.
	ErrCodeCommandFailed = "MCPTRUST_COMMAND_FAILED"
)

// Error represents a client error with a stable error code.
type Error struct {
	// Code is one of the MCPTRUST_* error codes.
	Code string

	// Message is a human-readable description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches a target error code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewError creates a new Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// ErrNotInstalled is returned by New when no discovery strategy resolves
// a binary. The message carries the remediation hint verbatim.
var ErrNotInstalled = NewError(ErrCodeNotInstalled,
	"mcptrust binary not found; install with: go install github.com/mcptrust/mcptrust/cmd/mcptrust@latest or set "+EnvBin)

// ErrUsage is the sentinel for malformed caller input. Match with
// errors.Is; concrete instances carry a more specific message.
var ErrUsage = NewError(ErrCodeUsage, "invalid arguments")

func usageError(message string) *Error {
	return NewError(ErrCodeUsage, message)
}

// stderrPreviewLimit bounds how much stderr appears in error messages.
const stderrPreviewLimit = 200

// CommandError is returned when an mcptrust invocation exits non-zero.
// It carries the full argument vector and both captured streams so
// callers can log or re-raise with complete context.
type CommandError struct {
	// ExitCode is the subprocess exit code (always non-zero).
	ExitCode int

	// Argv is the full argument vector, binary path included.
	Argv []string

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string
}

// Error implements the error interface. Stderr is truncated to keep
// log lines readable; the full stream stays on the struct.
func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mcptrust exited with code %d", e.ExitCode)
	if e.Stderr != "" {
		preview := e.Stderr
		if len(preview) > stderrPreviewLimit {
			// Back up to a rune boundary so the cut never splits a
			// multi-byte sequence.
			cut := stderrPreviewLimit
			for cut > 0 && !utf8.RuneStart(preview[cut]) {
				cut--
			}
			preview = preview[:cut] + "..."
		}
		fmt.Fprintf(&b, " | stderr=%q", preview)
	}
	return b.String()
}

// Is reports a match against the ErrCodeCommandFailed code so that
// errors.Is(err, ErrCommandFailed) works alongside errors.As.
func (e *CommandError) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == ErrCodeCommandFailed
	}
	return false
}

// ErrCommandFailed is the code-level sentinel for non-zero exits.
var ErrCommandFailed = NewError(ErrCodeCommandFailed, "mcptrust command failed")

// AsCommandError checks if err is a CommandError and returns it if so.
func AsCommandError(err error) (*CommandError, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr, true
	}
	return nil, false
}
