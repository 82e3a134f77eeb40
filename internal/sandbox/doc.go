// Package sandbox provides sandbox lifecycle management for near-sandbox.
//
// A sandbox is an ephemeral, isolated node instance launched for integration
// testing. This package composes port reservation, config patching, and
// process spawning into one startup sequence and ties every acquired
// resource to the lifetime of the returned handle.
//
// # Starter
//
// Starter orchestrates startup with all necessary dependencies:
//
//	starter, err := sandbox.NewStarter()
//	if err != nil {
//	    return err
//	}
//
//	sb, err := starter.Start(ctx, nodeconfig.Config{})
//	if err != nil {
//	    return err
//	}
//	defer sb.Close()
//
// # Startup Flow
//
// The Starter.Start method:
//  1. Stages a fresh temporary home directory
//  2. Runs the node's init step against it, capturing output
//  3. Reserves the RPC and network ports with cross-process locks
//  4. Patches config.json and genesis.json with the caller's overrides
//  5. Spawns the node process
//  6. Polls the RPC status endpoint until it answers or the budget expires
//
// On failure, cleanup is automatic: the child (if spawned) is killed, port
// locks are released, and the home directory is removed before the error
// propagates. No partial Sandbox is ever returned.
//
// # Teardown
//
// Sandbox.Close kills the child, reaps it best-effort, releases both port
// locks, and deletes the home directory. Close never fails and is safe to
// call more than once.
package sandbox
