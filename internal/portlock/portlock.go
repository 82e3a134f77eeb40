package portlock

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/vsavchyn-dev/near-sandbox/internal/errors"
	"github.com/vsavchyn-dev/near-sandbox/internal/logging"
)

// maxPickAttempts bounds the pick-lock loop for OS-assigned ports. Racing
// other processes for an OS-chosen port is expected and transient, but the
// loop must not spin forever under pathological contention.
const maxPickAttempts = 16

var errLockHeld = fmt.Errorf("lock already held by another process")

// PortLock pairs an acquired port number with the exclusive file lock that
// reserves it across processes until Release.
type PortLock struct {
	Port int

	lock *flock.Flock
}

// Release drops the file lock. Safe to call more than once.
func (l *PortLock) Release() {
	if l.lock == nil {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		logging.Debug("port lock release", "port", l.Port, "error", err)
	}
	l.lock = nil
}

// LockPath returns the lock file path for a port number.
func LockPath(port int) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("near-sandbox-port%d.lock", port))
}

// Acquire reserves a TCP port on loopback and locks it against concurrent
// callers. A requested port of 0 asks the OS for an unused port and retries
// on lock contention; an explicit port fails outright if it cannot be bound
// or locked.
func Acquire(requested int) (*PortLock, error) {
	if requested > 0 {
		return acquireSpecific(requested)
	}
	return acquireUnused()
}

// acquireUnused loops pick-then-lock: binding a listener does not exclude
// other test processes racing for the same OS-assigned port between bind and
// lock, so a held lock just means re-pick.
func acquireUnused() (*PortLock, error) {
	for attempt := 0; attempt < maxPickAttempts; attempt++ {
		port, err := pickUnusedPort()
		if err != nil {
			return nil, err
		}

		lock, err := tryLock(port)
		if err == errLockHeld {
			logging.Debug("port lock contended, re-picking", "port", port)
			continue
		}
		if err != nil {
			return nil, err
		}
		return &PortLock{Port: port, lock: lock}, nil
	}
	return nil, errors.PortAttemptsExhausted(maxPickAttempts)
}

// acquireSpecific binds the explicit port (the primary exclusion signal) and
// then takes the file lock. The caller demanded this port, so any failure is
// fatal with no retry.
func acquireSpecific(port int) (*PortLock, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, errors.BindFailed(port, err)
	}
	defer listener.Close()

	lock, err := tryLock(port)
	if err == errLockHeld {
		return nil, errors.LockFailed(port, err)
	}
	if err != nil {
		return nil, err
	}
	return &PortLock{Port: port, lock: lock}, nil
}

// pickUnusedPort asks the OS for an unused port by binding loopback port 0.
// The listener exists only to claim the port momentarily; the file lock is
// the durable exclusion mechanism. Loopback is used deliberately: a wildcard
// bind triggers firewall prompts on macOS.
func pickUnusedPort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, errors.BindFailed(0, err)
	}
	defer listener.Close()

	addr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, errors.LocalAddrFailed(fmt.Errorf("unexpected listener address type %T", listener.Addr()))
	}
	return addr.Port, nil
}

// tryLock attempts the exclusive file lock for a port. Returns errLockHeld
// when another process already holds it.
func tryLock(port int) (*flock.Flock, error) {
	lock := flock.New(LockPath(port))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.LockFailed(port, err)
	}
	if !locked {
		return nil, errLockHeld
	}
	return lock, nil
}
