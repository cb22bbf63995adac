// Package client contains client-side building blocks for the merry card
// scanner.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     recognition and collection backend: Ping, Register/Login, Recognize,
//     GetCardDetail and the collection list/detail/add/remove calls.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient). It reads
//     the bearer token from a TokenSource on every request, tags each
//     request with an X-Request-ID and maps failures to the errors below.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures and timeouts are ErrUnavailable. 401/403 responses are
// ErrUnauthorized. Other non-2xx responses are *ServerError (errors.Is
// ErrServer) and bodies that fail schema checks are *DecodeError (errors.Is
// ErrDecode). A cancelled context is reported as context.Canceled. Nothing
// is retried.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and abort the in-flight request when it is cancelled.
package client
