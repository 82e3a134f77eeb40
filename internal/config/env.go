package config

import (
	"os"
	"strconv"
	"time"

	"github.com/vsavchyn-dev/near-sandbox/internal/errors"
)

// Environment variable names read by near-sandbox.
const (
	EnvMaxPayloadSize   = "NEAR_SANDBOX_MAX_PAYLOAD_SIZE"
	EnvMaxFiles         = "NEAR_SANDBOX_MAX_FILES"
	EnvRPCTimeoutSecs   = "NEAR_RPC_TIMEOUT_SECS"
	EnvEnableSandboxLog = "NEAR_ENABLE_SANDBOX_LOG"
	EnvBinPath          = "NEAR_SANDBOX_BIN_PATH"
)

// Defaults applied when neither the caller nor the environment specifies a
// value.
const (
	DefaultMaxPayloadSize = 1024 * 1024 * 1024 // 1 GiB
	DefaultMaxOpenFiles   = 3000
	DefaultReadyTimeout   = 10 * time.Second
)

// NodeLogFilter is forwarded to the child process to suppress node output
// when sandbox logs are not enabled.
const NodeLogFilter = "near=error,stats=error,network=error"

// Environment holds every ambient value near-sandbox reads from the process
// environment, resolved once at the boundary so the core logic never touches
// os.Getenv itself.
type Environment struct {
	// MaxPayloadSize is the RPC payload limit in bytes. Zero means unset.
	MaxPayloadSize int

	// MaxOpenFiles is the storage open-file limit. Zero means unset.
	MaxOpenFiles int

	// ReadyTimeout is the readiness poll budget.
	ReadyTimeout time.Duration

	// NodeLogsEnabled reports whether node output suppression is turned off.
	NodeLogsEnabled bool

	// BinPath is the node binary path override, empty if unset.
	BinPath string
}

// ResolveEnvironment reads and parses all recognized environment variables.
// A variable that is present but unparseable is an error; an absent variable
// falls back to its default.
func ResolveEnvironment() (*Environment, error) {
	env := &Environment{
		ReadyTimeout: DefaultReadyTimeout,
		BinPath:      os.Getenv(EnvBinPath),
	}

	size, err := intFromEnv(EnvMaxPayloadSize)
	if err != nil {
		return nil, err
	}
	env.MaxPayloadSize = size

	files, err := intFromEnv(EnvMaxFiles)
	if err != nil {
		return nil, err
	}
	env.MaxOpenFiles = files

	if val, ok := os.LookupEnv(EnvRPCTimeoutSecs); ok {
		secs, err := strconv.Atoi(val)
		if err != nil {
			return nil, errors.EnvError(EnvRPCTimeoutSecs, err)
		}
		env.ReadyTimeout = time.Duration(secs) * time.Second
	}

	// Node logs stay suppressed unless the toggle is present and not "0".
	if val, ok := os.LookupEnv(EnvEnableSandboxLog); ok && val != "0" {
		env.NodeLogsEnabled = true
	}

	return env, nil
}

func intFromEnv(key string) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return 0, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.EnvError(key, err)
	}
	return parsed, nil
}
