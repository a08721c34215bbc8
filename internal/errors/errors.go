package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// Exit codes for wolfi-dev
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitMissingInput  = 2
	ExitNotFound      = 3
	ExitAlreadyExists = 4
	ExitProbeFailed   = 5
	ExitConfigError   = 6
	ExitUnsupportedOS = 7
)

// CLIError is the base error type for wolfi-dev
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *CLIError) ExitCode() int {
	return e.Code
}

// New creates a new CLIError
func New(code int, message string) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a CLIError
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// MissingInput returns an error for a required argument or setting that is empty
func MissingInput(what string) *CLIError {
	return New(ExitMissingInput, fmt.Sprintf("%s is required", what))
}

// InvalidInput returns an error for an argument that is present but unusable
func InvalidInput(message string) *CLIError {
	return New(ExitMissingInput, message)
}

// NotFound returns an error for a resource that does not exist upstream
func NotFound(what string) *CLIError {
	return New(ExitNotFound, fmt.Sprintf("%s not found", what))
}

// AlreadyExists returns an error for a resource that would be overwritten
func AlreadyExists(what string) *CLIError {
	return New(ExitAlreadyExists, fmt.Sprintf("%s already exists", what))
}

// ProbeFailed returns an error for an existence probe that could not decide
func ProbeFailed(url string, cause error) *CLIError {
	return Wrap(ExitProbeFailed, fmt.Sprintf("could not probe %s", url), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *CLIError {
	return Wrap(ExitConfigError, message, cause)
}

// UnsupportedOS returns an error for a host the bootstrap cannot provision
func UnsupportedOS(id string) *CLIError {
	return New(ExitUnsupportedOS, fmt.Sprintf("unsupported operating system: %s", id))
}

// CommandFailed returns an error for an external command that failed.
// The exit code is taken from the process when there is one, so the
// wrapped tool's status becomes ours.
func CommandFailed(command string, cause error) *CLIError {
	code := ExitGeneralError
	var exitErr *exec.ExitError
	if errors.As(cause, &exitErr) && exitErr.ExitCode() > 0 {
		code = exitErr.ExitCode()
	}
	var coded interface{ ExitCode() int }
	if code == ExitGeneralError && errors.As(cause, &coded) && coded.ExitCode() > 0 {
		code = coded.ExitCode()
	}
	return Wrap(code, fmt.Sprintf("%s failed", command), cause)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode()
	}
	return ExitGeneralError
}
