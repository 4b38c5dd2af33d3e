// Package cli provides the interactive chatdesk command-line client.
//
// It wires configuration, the local session database, the API client,
// services and an interactive REPL. Typical flow: restore and verify the
// saved session, start a background connectivity watcher, and execute user
// commands until exit.
//
// Key features:
//   - Register / Login / Logout, with the session kept across restarts
//   - Chat: ask questions (optionally about one document) and generate images
//   - Documents: list, upload, show, delete, select for chat
//   - Account: plan and password changes, dashboard, admin user listing
//
// Assistant replies arrive asynchronously and are printed as they settle.
// A 401 from any backend call logs the user out and returns the prompt to
// the logged-out command set.
//
// The client is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
