// Package client contains the client-side transport for chatdesk.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     every backend operation: authentication, profile and plan management,
//     admin listings, documents, queries and image generation.
//  2. A concrete HTTP implementation (see HTTPClient) that takes the bearer
//     token from a TokenSource on every request (an oauth2 transport), obtains
//     tokens through the OAuth2 password grant, and maps HTTP statuses to
//     sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Statuses surface as *APIError, which matches the sentinels ErrUnauthorized
// (401), ErrForbidden (403) and ErrNotFound (404) through errors.Is.
// Transport failures map to ErrUnavailable. Any 401 on an authenticated call
// also fires the unauthorized handler, which is how the application enforces
// its "logout and return to login" contract.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
