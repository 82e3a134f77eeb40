// Package portlock reserves TCP ports for sandbox instances with
// cross-process exclusion.
//
// Binding a loopback listener claims a port from the OS, but a second test
// process can race for the same OS-assigned port between our bind and our
// use of it. The durable exclusion mechanism is an exclusive advisory file
// lock named after the port:
//
//	<tmp>/near-sandbox-port<port>.lock
//
// held from acquisition until the sandbox owning the port is closed.
//
// # Acquisition
//
//	lock, err := portlock.Acquire(0)    // OS-assigned, retries on contention
//	lock, err := portlock.Acquire(3030) // explicit, fails outright
//	defer lock.Release()
//
// For OS-assigned ports the pick-lock loop re-picks when the lock is held by
// a concurrent caller, bounded to a fixed number of attempts. For explicit
// ports both a failed bind and a held lock are fatal, since the caller
// demanded that exact port.
//
// Locks are advisory: exclusion only holds between processes that use this
// same mechanism, which is exactly the contract needed between concurrent
// test suites sharing one machine.
package portlock
