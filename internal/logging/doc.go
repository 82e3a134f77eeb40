// Package logging provides logging utilities for near-sandbox.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("starting sandbox", "home", homeDir, "rpc_port", port)
//	logging.Warn("kill during teardown", "pid", pid, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Initializing sandbox home %s...", homeDir)
//	logging.UserSuccess("Sandbox ready at %s", rpcAddr)
//	logging.UserWarning("Port %d is already in use", port)
//	logging.UserError("Failed to start sandbox: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
package logging
