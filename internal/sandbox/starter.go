package sandbox

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/vsavchyn-dev/near-sandbox/internal/config"
	"github.com/vsavchyn-dev/near-sandbox/internal/errors"
	"github.com/vsavchyn-dev/near-sandbox/internal/logging"
	"github.com/vsavchyn-dev/near-sandbox/internal/nodeconfig"
	"github.com/vsavchyn-dev/near-sandbox/internal/portlock"
	"github.com/vsavchyn-dev/near-sandbox/internal/system"
)

// DefaultBinaryName is the node binary looked up on $PATH when no explicit
// path is configured.
const DefaultBinaryName = "near-sandbox"

const defaultPollInterval = 500 * time.Millisecond

// Starter orchestrates sandbox startup with all necessary dependencies.
type Starter struct {
	exec     system.CommandExecutor
	env      *config.Environment
	binPath  string
	probe    func(ctx context.Context, rpcAddr string) bool
	interval time.Duration
}

// Option configures a Starter.
type Option func(*Starter)

// WithExecutor sets a custom command executor.
func WithExecutor(exec system.CommandExecutor) Option {
	return func(s *Starter) { s.exec = exec }
}

// WithEnvironment sets a pre-resolved environment instead of reading the
// process environment.
func WithEnvironment(env *config.Environment) Option {
	return func(s *Starter) { s.env = env }
}

// WithBinPath sets an explicit node binary path.
func WithBinPath(path string) Option {
	return func(s *Starter) { s.binPath = path }
}

// WithProbe sets a custom readiness probe.
func WithProbe(probe func(ctx context.Context, rpcAddr string) bool) Option {
	return func(s *Starter) { s.probe = probe }
}

// WithPollInterval sets the readiness poll interval.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Starter) { s.interval = interval }
}

// NewStarter creates a Starter with default configuration. Environment
// variables are resolved here, once, unless WithEnvironment supplies them.
func NewStarter(opts ...Option) (*Starter, error) {
	starter := &Starter{
		exec:     system.DefaultExecutor(),
		probe:    httpProbe,
		interval: defaultPollInterval,
	}

	for _, opt := range opts {
		opt(starter)
	}

	if starter.env == nil {
		env, err := config.ResolveEnvironment()
		if err != nil {
			return nil, err
		}
		starter.env = env
	}

	return starter, nil
}

// Start runs the full startup sequence and returns a ready sandbox: stage a
// home directory, run init, reserve both ports, patch config and genesis,
// spawn the node, and poll its status endpoint. Any failure kills whatever
// was already acquired before the error propagates; no partial Sandbox is
// ever returned.
func (s *Starter) Start(ctx context.Context, cfg nodeconfig.Config) (*Sandbox, error) {
	bin := s.resolveBinary()
	childEnv := s.childEnv()

	homeDir, err := os.MkdirTemp("", "near-sandbox-home-")
	if err != nil {
		return nil, errors.ConfigError("failed to stage home directory", err)
	}

	// Progressively acquired resources, torn down on every failure path.
	var (
		rpcLock *portlock.PortLock
		netLock *portlock.PortLock
		proc    system.Process
	)
	cleanup := func() {
		if proc != nil {
			if err := proc.Kill(); err != nil {
				logging.Debug("kill during startup cleanup", "error", err)
			}
			go func(p system.Process) {
				_ = p.Wait()
			}(proc)
		}
		if netLock != nil {
			netLock.Release()
		}
		if rpcLock != nil {
			rpcLock.Release()
		}
		if err := os.RemoveAll(homeDir); err != nil {
			logging.Debug("home dir removal during startup cleanup", "home", homeDir, "error", err)
		}
	}

	logging.Debug("initializing sandbox home", "home", homeDir, "bin", bin)
	output, err := s.exec.Execute(ctx, childEnv, bin, "--home", homeDir, "init")
	if err != nil {
		cleanup()
		return nil, errors.InitFailed(string(output), err)
	}
	logging.Debug("sandbox init complete", "output", string(output))

	rpcLock, err = portlock.Acquire(cfg.RPCPort)
	if err != nil {
		cleanup()
		return nil, err
	}
	netLock, err = portlock.Acquire(cfg.NetPort)
	if err != nil {
		cleanup()
		return nil, err
	}

	if err := nodeconfig.ApplyRuntimeConfig(homeDir, cfg, s.env); err != nil {
		cleanup()
		return nil, err
	}
	if err := nodeconfig.ApplyGenesis(homeDir, cfg); err != nil {
		cleanup()
		return nil, err
	}

	rpcHostPort := fmt.Sprintf("127.0.0.1:%d", rpcLock.Port)
	netHostPort := fmt.Sprintf("127.0.0.1:%d", netLock.Port)

	proc, err = s.exec.Start(childEnv, bin,
		"--home", homeDir,
		"run",
		"--rpc-addr", rpcHostPort,
		"--network-addr", netHostPort)
	if err != nil {
		cleanup()
		return nil, errors.SpawnFailed(bin, err)
	}

	rpcAddr := "http://" + rpcHostPort
	logging.Info("started sandbox", "rpc", rpcAddr, "pid", proc.PID())

	if err := s.waitUntilReady(ctx, rpcAddr); err != nil {
		cleanup()
		return nil, err
	}

	return &Sandbox{
		HomeDir: homeDir,
		RPCAddr: rpcAddr,
		RPCPort: rpcLock.Port,
		NetPort: netLock.Port,
		rpcLock: rpcLock,
		netLock: netLock,
		proc:    proc,
	}, nil
}

// Start creates a default Starter and starts one sandbox with it.
func Start(ctx context.Context, cfg nodeconfig.Config) (*Sandbox, error) {
	starter, err := NewStarter()
	if err != nil {
		return nil, err
	}
	return starter.Start(ctx, cfg)
}

func (s *Starter) resolveBinary() string {
	if s.binPath != "" {
		return s.binPath
	}
	if s.env.BinPath != "" {
		return s.env.BinPath
	}
	return DefaultBinaryName
}

// childEnv computes the extra environment forwarded to the node. Node output
// stays suppressed unless the user opted in; the filter travels in the
// child's environment rather than the parent's, so starting a sandbox never
// mutates process-wide state.
func (s *Starter) childEnv() []string {
	if s.env.NodeLogsEnabled {
		return nil
	}
	return []string{"NEAR_SANDBOX_LOG=" + config.NodeLogFilter}
}

// waitUntilReady polls the status endpoint until it answers or the budget
// runs out. On timeout the caller still owns the child and must kill it.
func (s *Starter) waitUntilReady(ctx context.Context, rpcAddr string) error {
	deadline := time.Now().Add(s.env.ReadyTimeout)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if s.probe(ctx, rpcAddr) {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.ReadyTimeout(rpcAddr)
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(errors.ExitGeneralError, "sandbox start cancelled", ctx.Err())
		case <-ticker.C:
		}
	}
}

// httpProbe considers the node ready as soon as the status endpoint answers
// at all; the response body is not inspected.
func httpProbe(ctx context.Context, rpcAddr string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rpcAddr+"/status", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
