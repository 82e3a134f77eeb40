package system

import (
	"context"
	"os"
	"os/exec"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/vsavchyn-dev/near-sandbox/internal/logging"
)

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = mergedEnv(env)
	logging.Debug("executing command", "cmd", shellquote.Join(append([]string{name}, args...)...))
	return cmd.CombinedOutput()
}

func (e *osExecutor) Start(env []string, name string, args ...string) (Process, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = mergedEnv(env)
	logging.Debug("spawning command", "cmd", shellquote.Join(append([]string{name}, args...)...))
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &osProcess{cmd: cmd}, nil
}

// mergedEnv appends extra entries to the inherited environment. Later
// entries win, so overrides of inherited variables take effect.
func mergedEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit as-is
	}
	return append(os.Environ(), extra...)
}

// osProcess wraps a started exec.Cmd.
type osProcess struct {
	cmd *exec.Cmd
}

func (p *osProcess) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *osProcess) Kill() error {
	if p.cmd.Process == nil {
		return os.ErrProcessDone
	}
	return p.cmd.Process.Kill()
}

func (p *osProcess) Wait() error {
	return p.cmd.Wait()
}
