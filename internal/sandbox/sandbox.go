package sandbox

import (
	"os"
	"sync"

	"github.com/vsavchyn-dev/near-sandbox/internal/logging"
	"github.com/vsavchyn-dev/near-sandbox/internal/portlock"
	"github.com/vsavchyn-dev/near-sandbox/internal/system"
)

// Sandbox is a handle to a running node instance. While the handle exists
// its home directory, both port locks, and the child process are alive;
// Close releases all three.
type Sandbox struct {
	// HomeDir is the node's temporary home directory, deleted on Close.
	HomeDir string

	// RPCAddr is the RPC endpoint, in the form http://127.0.0.1:<port>.
	RPCAddr string

	// RPCPort and NetPort are the reserved ports.
	RPCPort int
	NetPort int

	rpcLock *portlock.PortLock
	netLock *portlock.PortLock
	proc    system.Process

	closeOnce sync.Once
}

// Close tears the sandbox down: kill the child, reap it, release both port
// locks, delete the home directory. Teardown is best-effort and never
// reports an error; kill failures (process already gone) are tolerated.
// Safe to call more than once.
func (s *Sandbox) Close() {
	s.closeOnce.Do(func() {
		logging.Debug("closing sandbox", "home", s.HomeDir, "pid", s.pid())

		if s.proc != nil {
			if err := s.proc.Kill(); err != nil {
				logging.Debug("kill during teardown", "pid", s.pid(), "error", err)
			}
			// Reap without blocking teardown. The process was just
			// killed, so Wait returns promptly.
			go func(proc system.Process) {
				_ = proc.Wait()
			}(s.proc)
		}

		if s.netLock != nil {
			s.netLock.Release()
		}
		if s.rpcLock != nil {
			s.rpcLock.Release()
		}

		if err := os.RemoveAll(s.HomeDir); err != nil {
			logging.Debug("home dir removal during teardown", "home", s.HomeDir, "error", err)
		}
	})
}

func (s *Sandbox) pid() int {
	if s.proc == nil {
		return 0
	}
	return s.proc.PID()
}
