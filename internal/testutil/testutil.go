// Package testutil provides test utilities for sandbox lifecycle tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/vsavchyn-dev/near-sandbox/internal/system"
)

// BaseTotalSupply is the pre-existing total supply in the staged genesis
// fixture, as a decimal string.
const BaseTotalSupply = "1000000000000000000000000000000000"

// TestEnv holds the test environment: a mock executor whose init invocation
// stages base config and genesis fixtures, the way the real binary's init
// step would.
type TestEnv struct {
	T        *testing.T
	Executor *system.MockExecutor
}

// NewTestEnv creates a new test environment with a mock executor.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	executor := system.NewMockExecutor()
	executor.ExecuteHook = func(cmd system.MockCommand) error {
		// <bin> --home <dir> init
		if len(cmd.Args) == 3 && cmd.Args[0] == "--home" && cmd.Args[2] == "init" {
			return StageHomeFixtures(cmd.Args[1])
		}
		return nil
	}

	return &TestEnv{T: t, Executor: executor}
}

// InitHome returns the home directory passed to the recorded init
// invocation, if any.
func (env *TestEnv) InitHome() (string, bool) {
	for _, cmd := range env.Executor.Commands {
		if len(cmd.Args) == 3 && cmd.Args[0] == "--home" && cmd.Args[2] == "init" {
			return cmd.Args[1], true
		}
	}
	return "", false
}

// StageHomeFixtures writes a minimal valid config.json and genesis.json into
// dir, mimicking the output of the node's init step.
func StageHomeFixtures(dir string) error {
	config := map[string]any{
		"rpc":   map[string]any{"addr": "0.0.0.0:3030"},
		"store": map[string]any{"path": "data"},
	}
	genesis := map[string]any{
		"chain_id":     "test-chain",
		"total_supply": BaseTotalSupply,
		"records":      []any{},
	}

	for name, doc := range map[string]map[string]any{
		"config.json":  config,
		"genesis.json": genesis,
	} {
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal %s fixture: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s fixture: %w", name, err)
		}
	}
	return nil
}

// ReadJSONFile parses the JSON document at path, failing the test on error.
func ReadJSONFile(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
	return doc
}
