// Package config resolves ambient configuration for near-sandbox.
//
// All environment variable reads happen here, in one place, so the rest of
// the codebase works against an explicit Environment value instead of global
// state.
//
// # Environment Resolution
//
// ResolveEnvironment parses every recognized NEAR_* variable once:
//
//	env, err := config.ResolveEnvironment()
//
// Recognized variables:
//
//	NEAR_SANDBOX_MAX_PAYLOAD_SIZE  RPC payload limit in bytes
//	NEAR_SANDBOX_MAX_FILES         storage open-file limit
//	NEAR_RPC_TIMEOUT_SECS          readiness poll budget in seconds
//	NEAR_ENABLE_SANDBOX_LOG        presence (and not "0") enables node logs
//	NEAR_SANDBOX_BIN_PATH          node binary path override
//
// A variable that is set but unparseable is a typed error; an absent
// variable falls back to its documented default (1 GiB, 3000 files, 10 s).
//
// # Tool Config
//
// The CLI additionally reads an optional TOML file
// ($XDG_CONFIG_HOME/near-sandbox/config.toml) with defaults for the binary
// path, ports, and readiness timeout. Flags override the file.
package config
