// Package common holds small constants and helpers shared by the client
// packages.
package common

// Outbound HTTP header names.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Keys used in the secure store.
const (
	AccessTokenKey = "access_token"
	UsernameKey    = "username"
)

// VaultCollectionName is the reserved name of the aggregate default collection.
const VaultCollectionName = "Vault"
