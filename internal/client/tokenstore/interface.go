// Package tokenstore persists the access token and the cached user snapshot
// across process restarts.
//
// Reads never fail: a missing record, an unreachable backing store, or
// corrupted data all degrade to "absent", so a broken store can only ever
// produce a signed-out state, never an authenticated one with garbage data.
package tokenstore

import "context"

// Store is the durable session storage used by the session manager and the
// HTTP gateway.
type Store interface {
	// SaveToken persists the bearer token. The write is visible to the next
	// Token call as soon as SaveToken returns.
	SaveToken(ctx context.Context, token string) error

	// Token returns the persisted bearer token, or "" when absent or
	// unreadable.
	Token(ctx context.Context) string

	// HasToken reports whether a non-empty token is persisted.
	HasToken(ctx context.Context) bool

	// DeleteToken removes the persisted token, leaving the user snapshot
	// untouched. Idempotent.
	DeleteToken(ctx context.Context) error

	// SaveUser persists the serialized user snapshot.
	SaveUser(ctx context.Context, data []byte) error

	// User returns the persisted user snapshot, or nil when absent or
	// unreadable.
	User(ctx context.Context) []byte

	// Clear removes the token and the user snapshot. Idempotent; clearing an
	// empty store is not an error.
	Clear(ctx context.Context) error
}
