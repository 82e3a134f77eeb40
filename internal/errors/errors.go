package errors

import (
	"errors"
	"fmt"
)

// Exit codes for near-sandbox
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitPortError    = 2
	ExitConfigError  = 3
	ExitJSONError    = 4
	ExitEnvError     = 5
	ExitSpawnError   = 6
	ExitInitError    = 7
	ExitTimeout      = 8
)

// SandboxError is the base error type for near-sandbox.
type SandboxError struct {
	Code    int
	Port    int // set for port reservation failures, 0 otherwise
	Message string
	Cause   error
}

func (e *SandboxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SandboxError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *SandboxError) ExitCode() int {
	return e.Code
}

// New creates a new SandboxError
func New(code int, message string) *SandboxError {
	return &SandboxError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SandboxError
func Wrap(code int, message string, cause error) *SandboxError {
	return &SandboxError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// BindFailed returns an error for a failed loopback bind on a port.
func BindFailed(port int, cause error) *SandboxError {
	return &SandboxError{
		Code:    ExitPortError,
		Port:    port,
		Message: fmt.Sprintf("failed to bind 127.0.0.1:%d", port),
		Cause:   cause,
	}
}

// LocalAddrFailed returns an error for a failed local-address read after bind.
func LocalAddrFailed(cause error) *SandboxError {
	return Wrap(ExitPortError, "failed to read local address of listener", cause)
}

// LockFailed returns an error for a failed port lock acquisition.
func LockFailed(port int, cause error) *SandboxError {
	return &SandboxError{
		Code:    ExitPortError,
		Port:    port,
		Message: fmt.Sprintf("failed to lock port %d", port),
		Cause:   cause,
	}
}

// PortAttemptsExhausted returns an error when the OS-assigned port pick-lock
// loop runs out of attempts.
func PortAttemptsExhausted(attempts int) *SandboxError {
	return New(ExitPortError, fmt.Sprintf("gave up reserving an OS-assigned port after %d attempts", attempts))
}

// ConfigError returns an error for file I/O on config, genesis, or key files.
func ConfigError(message string, cause error) *SandboxError {
	return Wrap(ExitConfigError, message, cause)
}

// JSONError returns an error for malformed or unserializable JSON.
func JSONError(message string, cause error) *SandboxError {
	return Wrap(ExitJSONError, message, cause)
}

// InvariantError returns an error for base files missing required fields,
// i.e. not produced by a compatible init step.
func InvariantError(message string) *SandboxError {
	return New(ExitJSONError, message)
}

// EnvError returns an error for an environment variable that is present but
// not parseable into the expected type.
func EnvError(key string, cause error) *SandboxError {
	return Wrap(ExitEnvError, fmt.Sprintf("invalid environment variable %s", key), cause)
}

// SpawnFailed returns an error for a failed process spawn.
func SpawnFailed(name string, cause error) *SandboxError {
	return Wrap(ExitSpawnError, fmt.Sprintf("failed to spawn %s", name), cause)
}

// InitFailed returns an error for an abnormal init invocation, carrying the
// captured output for diagnostics.
func InitFailed(output string, cause error) *SandboxError {
	return Wrap(ExitInitError, fmt.Sprintf("sandbox init failed: %s", output), cause)
}

// ReadyTimeout returns an error for an expired readiness budget.
func ReadyTimeout(rpcAddr string) *SandboxError {
	return New(ExitTimeout, fmt.Sprintf("timed out waiting for %s/status to respond", rpcAddr))
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var sandboxErr *SandboxError
	if errors.As(err, &sandboxErr) {
		return sandboxErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
