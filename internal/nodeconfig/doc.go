// Package nodeconfig patches the node's on-disk configuration for a sandbox.
//
// A freshly initialized home directory contains config.json and genesis.json
// written by the node's init step. This package rewrites both in place,
// merging computed and caller-supplied fragments over whatever init
// produced, so it never has to model the node's full configuration surface.
//
// # Runtime Config
//
// ApplyRuntimeConfig resolves the RPC payload limit (explicit value, then
// NEAR_SANDBOX_MAX_PAYLOAD_SIZE, then 1 GiB) and the storage open-file limit
// (explicit, then NEAR_SANDBOX_MAX_FILES, then 3000), and merges them into
// config.json together with Config.AdditionalConfig.
//
// # Genesis
//
// ApplyGenesis injects the default "sandbox" account plus
// Config.AdditionalAccounts: each account adds its balance to total_supply
// (a decimal string, since balances exceed 64-bit range) and appends an
// Account record and an AccessKey record to the records array. The caller's
// AdditionalGenesis fragment is merged last. One <account_id>.json key file
// is written per injected account.
//
// # Merging
//
// Merge follows JSON merge patch semantics: nested objects merge
// recursively, scalars and arrays are replaced, null deletes a key. Merging
// an empty fragment is a no-op.
package nodeconfig
