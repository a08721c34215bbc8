// Package errors provides typed errors with exit codes for wolfi-dev.
//
// # Error Types
//
// CLIError is the base error type that wraps an error with an exit code:
//
//	type CLIError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess       = 0  // Success
//	ExitGeneralError  = 1  // General/unknown errors
//	ExitMissingInput  = 2  // Required argument or setting missing
//	ExitNotFound      = 3  // Upstream recipe not found
//	ExitAlreadyExists = 4  // Recipe already published downstream
//	ExitProbeFailed   = 5  // Existence probe could not decide
//	ExitConfigError   = 6  // Configuration error
//	ExitUnsupportedOS = 7  // Bootstrap cannot provision this host
//
// Errors built with CommandFailed carry the exit code of the external
// process that failed, so a failing git or make keeps its own status.
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
