// Package session holds the client-side authentication state: the bearer
// token, the current user profile and the derived authenticated flag.
//
// A Store is the single authoritative in-memory record. Every mutation is
// mirrored to a Persister so that restarting the CLI restores the session
// without re-authentication. The persisted record is versioned JSON stored
// under StorageKey:
//
//	{"state":{"token":"...","user":{...},"isAuthenticated":true},"version":1}
//
// Any backend call rejected with 401 must end in Store.Logout; the API
// client's unauthorized hook is wired to it by the CLI.
package session
