// Package client contains the building blocks sharesaver uses to reach the
// outside world.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract for the management server (see the
//     Client interface): Authenticate, Accounts, ListFolders, ParseShare,
//     CreateTask, ExecuteTask, ListTasks, DeleteTask and ExecuteAll.
//  2. A REST implementation (see HTTPClient). Each HTTPClient owns its own
//     cookie jar and therefore represents exactly one session. Every request
//     carries a fixed header set and a per-request timeout; responses are
//     unwrapped from the {success, data, error} envelope.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations,
//     NewRepositories), wiring an SQLite database and applying embedded
//     goose migrations.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors that callers match with
// errors.Is: ErrBootstrapFailed, ErrLoginFailed and ErrNoAccount for the
// authentication family; ErrUnavailable for transport failures and timeouts;
// ErrUnexpectedStatus for non-2xx responses; ErrServerLogic for
// success:false payloads. Errors are wrapped, so a bootstrap timeout matches
// both ErrBootstrapFailed and ErrUnavailable.
//
// # Retries
//
// Nothing in this package retries. Whole-workflow retry belongs to the
// services layer.
package client
