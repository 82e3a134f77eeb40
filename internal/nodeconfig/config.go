package nodeconfig

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/vsavchyn-dev/near-sandbox/internal/config"
	"github.com/vsavchyn-dev/near-sandbox/internal/errors"
)

// Config is the caller-supplied override bundle for one sandbox. All fields
// are optional; the zero value asks for computed defaults everywhere.
type Config struct {
	// RPCPort is the RPC port to bind (0 = OS-assigned).
	RPCPort int

	// NetPort is the peer network port to bind (0 = OS-assigned).
	NetPort int

	// MaxPayloadSize is the RPC payload limit in bytes (0 = unset).
	MaxPayloadSize int

	// MaxOpenFiles is the storage open-file limit (0 = unset).
	MaxOpenFiles int

	// AdditionalConfig is deep-merged onto config.json after the computed
	// fragment.
	AdditionalConfig map[string]any

	// AdditionalGenesis is deep-merged onto genesis.json after account
	// injection.
	AdditionalGenesis map[string]any

	// AdditionalAccounts are injected into genesis after the default
	// account, in order. Account ids are not deduplicated: supplying an id
	// that already exists (including "sandbox") appends a second record,
	// and consumers that index by id see the last one.
	AdditionalAccounts []GenesisAccount
}

// ApplyRuntimeConfig merges the resolved RPC payload and open-file limits,
// plus any caller fragment, into <homeDir>/config.json. The file must
// already exist with valid JSON, as produced by the node's init step. env
// supplies the environment-level overrides; nil means no overrides.
func ApplyRuntimeConfig(homeDir string, cfg Config, env *config.Environment) error {
	maxPayloadSize := cfg.MaxPayloadSize
	if maxPayloadSize == 0 && env != nil {
		maxPayloadSize = env.MaxPayloadSize
	}
	if maxPayloadSize == 0 {
		maxPayloadSize = config.DefaultMaxPayloadSize
	}

	maxOpenFiles := cfg.MaxOpenFiles
	if maxOpenFiles == 0 && env != nil {
		maxOpenFiles = env.MaxOpenFiles
	}
	if maxOpenFiles == 0 {
		maxOpenFiles = config.DefaultMaxOpenFiles
	}

	fragment := map[string]any{
		"rpc": map[string]any{
			"limits_config": map[string]any{
				"json_payload_max_size": maxPayloadSize,
			},
		},
		"store": map[string]any{
			"max_open_files": maxOpenFiles,
		},
	}

	if cfg.AdditionalConfig != nil {
		fragment = Merge(fragment, cfg.AdditionalConfig)
	}

	return patchJSONFile(filepath.Join(homeDir, "config.json"), fragment)
}

// patchJSONFile deep-merges fragment onto the JSON document at path and
// rewrites the file in place.
func patchJSONFile(path string, fragment map[string]any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.ConfigError("failed to read "+filepath.Base(path), err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.JSONError("failed to parse "+filepath.Base(path), err)
	}

	doc = Merge(doc, fragment)

	out, err := json.Marshal(doc)
	if err != nil {
		return errors.JSONError("failed to serialize "+filepath.Base(path), err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.ConfigError("failed to write "+filepath.Base(path), err)
	}
	return nil
}
