package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/vsavchyn-dev/near-sandbox/internal/errors"
)

// ToolConfig is the optional CLI configuration loaded from a TOML file.
// Explicit command-line flags take precedence over values set here.
type ToolConfig struct {
	// BinPath is the path to the node binary.
	BinPath string `toml:"bin_path"`

	// RPCPort is the default RPC port (0 = OS-assigned).
	RPCPort int `toml:"rpc_port"`

	// NetworkPort is the default network port (0 = OS-assigned).
	NetworkPort int `toml:"network_port"`

	// ReadyTimeoutSecs overrides the readiness poll budget.
	ReadyTimeoutSecs int `toml:"ready_timeout_secs"`
}

// DefaultToolConfigPath returns the standard location of the tool config:
// $XDG_CONFIG_HOME/near-sandbox/config.toml, falling back to
// ~/.config/near-sandbox/config.toml.
func DefaultToolConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "near-sandbox", "config.toml")
}

// LoadToolConfig reads a TOML tool config from path. A missing file yields a
// zero config without error, so the default path is always safe to load.
func LoadToolConfig(path string) (*ToolConfig, error) {
	cfg := &ToolConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.ConfigError("failed to read tool config", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigError("failed to parse tool config", err)
	}

	return cfg, nil
}
