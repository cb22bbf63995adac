// Package cli provides the interactive merry command-line client.
//
// It wires configuration, the encrypted local store, the session, API
// services and an interactive REPL. Typical flow: restore the saved session,
// scan a card photo, drill into the ranked matches and claim one into the
// collection.
//
// Key features:
//   - Login / Register / Logout, with the token kept in the local store
//   - scan: capture, normalise and recognise a photo, then browse results
//   - Collections: list, show, add and remove illustrations
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and browse for details.
package cli
