// Package errors provides typed errors with exit codes for near-sandbox.
//
// # Error Types
//
// SandboxError is the base error type that wraps an error with an exit code:
//
//	type SandboxError struct {
//	    Code    int    // Exit code
//	    Port    int    // Port number for port reservation failures
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
// Defined exit codes for different error categories:
//
//	ExitSuccess      = 0  // Success
//	ExitGeneralError = 1  // General/unknown errors
//	ExitPortError    = 2  // Port bind/lock failure
//	ExitConfigError  = 3  // File I/O on config, genesis, or key files
//	ExitJSONError    = 4  // Malformed or unserializable JSON
//	ExitEnvError     = 5  // Unparseable environment variable
//	ExitSpawnError   = 6  // Process spawn failure
//	ExitInitError    = 7  // Abnormal init invocation
//	ExitTimeout      = 8  // Readiness budget expired
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.BindFailed(3030, err)
//	errors.LockFailed(3030, err)
//	errors.InitFailed(output, err)
//	errors.ReadyTimeout("http://127.0.0.1:3030")
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
