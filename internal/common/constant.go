// Package common contains shared constants and small helpers used across
// the VaultPass client packages.
package common

const (
	// AuthorizationHeader is the HTTP header carrying the bearer credential.
	AuthorizationHeader = "Authorization"

	// BearerPrefix is prepended to the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeader carries a per-request correlation ID.
	RequestIDHeader = "X-Request-Id"

	// TokenStorageKey is the token store key holding the access token.
	TokenStorageKey = "auth_token"

	// UserStorageKey is the token store key holding the cached user snapshot.
	UserStorageKey = "user_data"
)
