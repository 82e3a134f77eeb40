package sandbox

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vsavchyn-dev/near-sandbox/internal/config"
	nserrors "github.com/vsavchyn-dev/near-sandbox/internal/errors"
	"github.com/vsavchyn-dev/near-sandbox/internal/nodeconfig"
	"github.com/vsavchyn-dev/near-sandbox/internal/testutil"
)

func testEnvironment() *config.Environment {
	return &config.Environment{
		ReadyTimeout: 5 * time.Second,
	}
}

func newTestStarter(t *testing.T, env *testutil.TestEnv, opts ...Option) *Starter {
	t.Helper()

	base := []Option{
		WithExecutor(env.Executor),
		WithEnvironment(testEnvironment()),
		WithProbe(func(ctx context.Context, rpcAddr string) bool { return true }),
		WithPollInterval(time.Millisecond),
	}
	starter, err := NewStarter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewStarter() error = %v", err)
	}
	return starter
}

func TestStartSuccess(t *testing.T) {
	env := testutil.NewTestEnv(t)
	starter := newTestStarter(t, env)

	sb, err := starter.Start(context.Background(), nodeconfig.Config{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer sb.Close()

	if sb.RPCPort == 0 || sb.NetPort == 0 {
		t.Errorf("ports = %d, %d, want both non-zero", sb.RPCPort, sb.NetPort)
	}
	if sb.RPCPort == sb.NetPort {
		t.Errorf("RPC and network port both = %d, want distinct", sb.RPCPort)
	}
	want := fmt.Sprintf("http://127.0.0.1:%d", sb.RPCPort)
	if sb.RPCAddr != want {
		t.Errorf("RPCAddr = %q, want %q", sb.RPCAddr, want)
	}

	if got := len(env.Executor.Commands); got != 2 {
		t.Fatalf("recorded %d commands, want 2", got)
	}

	initCmd := env.Executor.Commands[0]
	if initCmd.Name != DefaultBinaryName {
		t.Errorf("init command = %q, want %q", initCmd.Name, DefaultBinaryName)
	}
	wantInit := []string{"--home", sb.HomeDir, "init"}
	if len(initCmd.Args) != 3 || initCmd.Args[0] != wantInit[0] || initCmd.Args[1] != wantInit[1] || initCmd.Args[2] != wantInit[2] {
		t.Errorf("init args = %v, want %v", initCmd.Args, wantInit)
	}

	runCmd := env.Executor.Commands[1]
	wantRun := []string{
		"--home", sb.HomeDir,
		"run",
		"--rpc-addr", fmt.Sprintf("127.0.0.1:%d", sb.RPCPort),
		"--network-addr", fmt.Sprintf("127.0.0.1:%d", sb.NetPort),
	}
	if len(runCmd.Args) != len(wantRun) {
		t.Fatalf("run args = %v, want %v", runCmd.Args, wantRun)
	}
	for i := range wantRun {
		if runCmd.Args[i] != wantRun[i] {
			t.Errorf("run args[%d] = %q, want %q", i, runCmd.Args[i], wantRun[i])
		}
	}

	if _, err := os.Stat(sb.HomeDir); err != nil {
		t.Errorf("home dir stat error = %v, want directory present", err)
	}
}

func TestStartPatchesHomeFiles(t *testing.T) {
	env := testutil.NewTestEnv(t)
	starter := newTestStarter(t, env)

	sb, err := starter.Start(context.Background(), nodeconfig.Config{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer sb.Close()

	conf := testutil.ReadJSONFile(t, filepath.Join(sb.HomeDir, "config.json"))
	rpc, ok := conf["rpc"].(map[string]any)
	if !ok {
		t.Fatalf("config rpc section = %T, want object", conf["rpc"])
	}
	limits, ok := rpc["limits_config"].(map[string]any)
	if !ok {
		t.Fatalf("config limits_config = %T, want object", rpc["limits_config"])
	}
	if got := limits["json_payload_max_size"]; got != float64(config.DefaultMaxPayloadSize) {
		t.Errorf("json_payload_max_size = %v, want %v", got, config.DefaultMaxPayloadSize)
	}
	// The fragment merges into the staged file rather than replacing it.
	if got := rpc["addr"]; got != "0.0.0.0:3030" {
		t.Errorf("rpc addr = %v, want staged value preserved", got)
	}

	genesis := testutil.ReadJSONFile(t, filepath.Join(sb.HomeDir, "genesis.json"))
	records, ok := genesis["records"].([]any)
	if !ok {
		t.Fatalf("genesis records = %T, want array", genesis["records"])
	}
	if len(records) != 2 {
		t.Fatalf("genesis has %d records, want 2 for the default account", len(records))
	}
	wantSupply := "1000010000000000000000000000000000"
	if got := genesis["total_supply"]; got != wantSupply {
		t.Errorf("total_supply = %v, want %v", got, wantSupply)
	}
	keyFile := filepath.Join(sb.HomeDir, nodeconfig.DefaultAccountID+".json")
	if _, err := os.Stat(keyFile); err != nil {
		t.Errorf("default account key file stat error = %v", err)
	}
}

func TestStartSuppressesNodeLogs(t *testing.T) {
	env := testutil.NewTestEnv(t)
	starter := newTestStarter(t, env)

	sb, err := starter.Start(context.Background(), nodeconfig.Config{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer sb.Close()

	for _, cmd := range env.Executor.Commands {
		found := false
		for _, kv := range cmd.Env {
			if strings.HasPrefix(kv, "NEAR_SANDBOX_LOG=") {
				found = true
				if got, want := kv, "NEAR_SANDBOX_LOG="+config.NodeLogFilter; got != want {
					t.Errorf("child env entry = %q, want %q", got, want)
				}
			}
		}
		if !found {
			t.Errorf("command %v missing NEAR_SANDBOX_LOG in child env", cmd.Args)
		}
	}
}

func TestStartNodeLogsEnabled(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resolved := testEnvironment()
	resolved.NodeLogsEnabled = true
	starter := newTestStarter(t, env, WithEnvironment(resolved))

	sb, err := starter.Start(context.Background(), nodeconfig.Config{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer sb.Close()

	for _, cmd := range env.Executor.Commands {
		if len(cmd.Env) != 0 {
			t.Errorf("command %v got extra env %v, want none", cmd.Args, cmd.Env)
		}
	}
}

func TestStartBinaryResolution(t *testing.T) {
	t.Run("environment override", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		resolved := testEnvironment()
		resolved.BinPath = "/opt/near/neard"
		starter := newTestStarter(t, env, WithEnvironment(resolved))

		sb, err := starter.Start(context.Background(), nodeconfig.Config{})
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		defer sb.Close()

		for _, cmd := range env.Executor.Commands {
			if cmd.Name != "/opt/near/neard" {
				t.Errorf("command name = %q, want environment override", cmd.Name)
			}
		}
	})

	t.Run("explicit path wins over environment", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		resolved := testEnvironment()
		resolved.BinPath = "/opt/near/neard"
		starter := newTestStarter(t, env, WithEnvironment(resolved), WithBinPath("/custom/bin"))

		sb, err := starter.Start(context.Background(), nodeconfig.Config{})
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		defer sb.Close()

		cmd, ok := env.Executor.LastCommand()
		if !ok || cmd.Name != "/custom/bin" {
			t.Errorf("command name = %q, want explicit path", cmd.Name)
		}
	})
}

func TestStartInitFailure(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.Executor.AddResponse(DefaultBinaryName+" --home", []byte("storage error"), errors.New("exit status 1"))
	starter := newTestStarter(t, env)

	_, err := starter.Start(context.Background(), nodeconfig.Config{})
	if err == nil {
		t.Fatal("Start() error = nil, want init failure")
	}
	if got := nserrors.GetExitCode(err); got != nserrors.ExitInitError {
		t.Errorf("exit code = %d, want %d", got, nserrors.ExitInitError)
	}
	if !strings.Contains(err.Error(), "storage error") {
		t.Errorf("error = %q, want init output included", err)
	}
	if len(env.Executor.Started) != 0 {
		t.Errorf("started %d processes after init failure, want 0", len(env.Executor.Started))
	}
	assertHomeRemoved(t, env)
}

func TestStartPortBound(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	env := testutil.NewTestEnv(t)
	starter := newTestStarter(t, env)

	_, err = starter.Start(context.Background(), nodeconfig.Config{RPCPort: port})
	if err == nil {
		t.Fatal("Start() error = nil, want bind failure")
	}
	if got := nserrors.GetExitCode(err); got != nserrors.ExitPortError {
		t.Errorf("exit code = %d, want %d", got, nserrors.ExitPortError)
	}
	if len(env.Executor.Started) != 0 {
		t.Errorf("started %d processes after port failure, want 0", len(env.Executor.Started))
	}
	assertHomeRemoved(t, env)
}

func TestStartSpawnFailure(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.Executor.StartErr = errors.New("executable file not found")
	starter := newTestStarter(t, env)

	_, err := starter.Start(context.Background(), nodeconfig.Config{})
	if err == nil {
		t.Fatal("Start() error = nil, want spawn failure")
	}
	if got := nserrors.GetExitCode(err); got != nserrors.ExitSpawnError {
		t.Errorf("exit code = %d, want %d", got, nserrors.ExitSpawnError)
	}
	assertHomeRemoved(t, env)
}

func TestStartReadyTimeout(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resolved := testEnvironment()
	resolved.ReadyTimeout = 10 * time.Millisecond
	starter := newTestStarter(t, env,
		WithEnvironment(resolved),
		WithProbe(func(ctx context.Context, rpcAddr string) bool { return false }))

	_, err := starter.Start(context.Background(), nodeconfig.Config{})
	if err == nil {
		t.Fatal("Start() error = nil, want readiness timeout")
	}
	if got := nserrors.GetExitCode(err); got != nserrors.ExitTimeout {
		t.Errorf("exit code = %d, want %d", got, nserrors.ExitTimeout)
	}
	if len(env.Executor.Started) != 1 {
		t.Fatalf("started %d processes, want 1", len(env.Executor.Started))
	}
	if !env.Executor.Started[0].Killed() {
		t.Error("child not killed after readiness timeout")
	}
	assertHomeRemoved(t, env)
}

func TestStartCancelled(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	starter := newTestStarter(t, env,
		WithProbe(func(ctx context.Context, rpcAddr string) bool {
			cancel()
			return false
		}))

	_, err := starter.Start(ctx, nodeconfig.Config{})
	if err == nil {
		t.Fatal("Start() error = nil, want cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled in chain", err)
	}
	if len(env.Executor.Started) != 1 || !env.Executor.Started[0].Killed() {
		t.Error("child not killed after cancellation")
	}
	assertHomeRemoved(t, env)
}

// assertHomeRemoved verifies the temporary home staged for the recorded init
// invocation no longer exists.
func assertHomeRemoved(t *testing.T, env *testutil.TestEnv) {
	t.Helper()

	home, ok := env.InitHome()
	if !ok {
		t.Fatal("no init invocation recorded")
	}
	if _, err := os.Stat(home); !os.IsNotExist(err) {
		t.Errorf("home dir %s still present after failed start", home)
	}
}
