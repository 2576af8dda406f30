// Package cli provides the interactive taskdeck command-line client.
//
// It wires configuration, the credential store, the authenticated API
// client, and an interactive REPL over the task collection. Typical flow:
// prompt for credentials, start a background session liveness watcher,
// and execute user commands against the in-memory task store.
//
// Key features:
//   - Login / Register / Logout
//   - List, search and paginate tasks; recent tasks; aggregate stats
//   - Add / edit / delete tasks; quick status transitions (done, start)
//   - Show and update the signed-in user's profile
//
// The REPL is started via App.Run(ctx), which blocks until the user
// exits. See App and runREPL for details.
package cli
