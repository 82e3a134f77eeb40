// Package system provides abstractions for process execution to enable testing.
package system

import (
	"context"
)

// CommandExecutor abstracts spawning the external node binary.
type CommandExecutor interface {
	// Execute runs a command to completion and returns its combined output.
	// The extra environment entries are appended to the inherited environment.
	Execute(ctx context.Context, env []string, name string, args ...string) ([]byte, error)

	// Start launches a long-running command and returns a handle to it.
	Start(env []string, name string, args ...string) (Process, error)
}

// Process is a handle to a spawned child process.
type Process interface {
	// PID returns the OS process id, or 0 if the process never started.
	PID() int

	// Kill sends an unconditional termination signal.
	Kill() error

	// Wait blocks until the process exits and releases its resources.
	Wait() error
}

var defaultExecutor CommandExecutor = &osExecutor{}

// DefaultExecutor returns the default CommandExecutor backed by os/exec.
func DefaultExecutor() CommandExecutor {
	return defaultExecutor
}
