package system

import (
	"context"
	"sync"
)

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed and started commands for verification.
	Commands []MockCommand

	// Responses maps subcommand patterns to responses.
	// Key format: "command arg" (first argument only) or bare command name.
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse

	// ExecuteHook, if set, runs for every Execute call before the response
	// lookup. Tests use it to stage files an init invocation would create.
	ExecuteHook func(cmd MockCommand) error

	// StartErr is returned by Start if set.
	StartErr error

	// Started holds the processes handed out by Start, in order.
	Started []*MockProcess

	nextPID int
}

// MockCommand records a command invocation.
type MockCommand struct {
	Name string
	Args []string
	Env  []string
}

// MockResponse defines the response for a command.
type MockResponse struct {
	Output []byte
	Err    error
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Responses: make(map[string]MockResponse),
		nextPID:   1000,
	}
}

// AddResponse adds a response for a specific command pattern.
func (m *MockExecutor) AddResponse(pattern string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Output: output, Err: err}
}

func (m *MockExecutor) Execute(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	cmd := MockCommand{Name: name, Args: args, Env: env}
	m.Commands = append(m.Commands, cmd)
	hook := m.ExecuteHook
	resp := m.lookupLocked(name, args)
	m.mu.Unlock()

	if hook != nil {
		if err := hook(cmd); err != nil {
			return nil, err
		}
	}
	return resp.Output, resp.Err
}

func (m *MockExecutor) Start(env []string, name string, args ...string) (Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, MockCommand{Name: name, Args: args, Env: env})

	if m.StartErr != nil {
		return nil, m.StartErr
	}

	m.nextPID++
	proc := &MockProcess{pid: m.nextPID}
	m.Started = append(m.Started, proc)
	return proc, nil
}

// lookupLocked finds the configured response for a command. Callers hold mu.
func (m *MockExecutor) lookupLocked(name string, args []string) MockResponse {
	key := name
	if len(args) > 0 {
		key = name + " " + args[0]
	}
	if resp, ok := m.Responses[key]; ok {
		return resp
	}
	if resp, ok := m.Responses[name]; ok {
		return resp
	}
	return m.DefaultResponse
}

// LastCommand returns the most recently recorded command.
func (m *MockExecutor) LastCommand() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// MockProcess implements Process for testing.
type MockProcess struct {
	mu sync.Mutex

	pid    int
	killed bool

	// KillErr is returned by Kill if set.
	KillErr error

	// WaitErr is returned by Wait if set.
	WaitErr error
}

func (p *MockProcess) PID() int {
	return p.pid
}

func (p *MockProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = true
	return p.KillErr
}

func (p *MockProcess) Wait() error {
	return p.WaitErr
}

// Killed reports whether Kill was called.
func (p *MockProcess) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}
