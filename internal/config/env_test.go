package config

import (
	"testing"
	"time"

	"github.com/vsavchyn-dev/near-sandbox/internal/errors"
)

func TestResolveEnvironment_Defaults(t *testing.T) {
	env, err := ResolveEnvironment()
	if err != nil {
		t.Fatalf("ResolveEnvironment() failed: %v", err)
	}

	if env.MaxPayloadSize != 0 {
		t.Errorf("MaxPayloadSize = %d, want 0 (unset)", env.MaxPayloadSize)
	}
	if env.MaxOpenFiles != 0 {
		t.Errorf("MaxOpenFiles = %d, want 0 (unset)", env.MaxOpenFiles)
	}
	if env.ReadyTimeout != DefaultReadyTimeout {
		t.Errorf("ReadyTimeout = %v, want %v", env.ReadyTimeout, DefaultReadyTimeout)
	}
	if env.NodeLogsEnabled {
		t.Error("NodeLogsEnabled should default to false")
	}
}

func TestResolveEnvironment_Values(t *testing.T) {
	t.Setenv(EnvMaxPayloadSize, "1048576")
	t.Setenv(EnvMaxFiles, "500")
	t.Setenv(EnvRPCTimeoutSecs, "30")
	t.Setenv(EnvBinPath, "/opt/near/neard-sandbox")

	env, err := ResolveEnvironment()
	if err != nil {
		t.Fatalf("ResolveEnvironment() failed: %v", err)
	}

	if env.MaxPayloadSize != 1048576 {
		t.Errorf("MaxPayloadSize = %d, want 1048576", env.MaxPayloadSize)
	}
	if env.MaxOpenFiles != 500 {
		t.Errorf("MaxOpenFiles = %d, want 500", env.MaxOpenFiles)
	}
	if env.ReadyTimeout != 30*time.Second {
		t.Errorf("ReadyTimeout = %v, want 30s", env.ReadyTimeout)
	}
	if env.BinPath != "/opt/near/neard-sandbox" {
		t.Errorf("BinPath = %q, want /opt/near/neard-sandbox", env.BinPath)
	}
}

func TestResolveEnvironment_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"payload size", EnvMaxPayloadSize},
		{"max files", EnvMaxFiles},
		{"rpc timeout", EnvRPCTimeoutSecs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, "not-a-number")

			_, err := ResolveEnvironment()
			if err == nil {
				t.Fatalf("ResolveEnvironment() should fail with unparseable %s", tt.key)
			}
			if got := errors.GetExitCode(err); got != errors.ExitEnvError {
				t.Errorf("exit code = %d, want %d", got, errors.ExitEnvError)
			}
		})
	}
}

func TestResolveEnvironment_LogToggle(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
		want  bool
	}{
		{"unset", "", false, false},
		{"zero", "0", true, false},
		{"one", "1", true, true},
		{"anything", "yes", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv(EnvEnableSandboxLog, tt.value)
			}

			env, err := ResolveEnvironment()
			if err != nil {
				t.Fatalf("ResolveEnvironment() failed: %v", err)
			}
			if env.NodeLogsEnabled != tt.want {
				t.Errorf("NodeLogsEnabled = %v, want %v", env.NodeLogsEnabled, tt.want)
			}
		})
	}
}
