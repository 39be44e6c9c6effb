// Package common contains shared constants and sentinel errors used across
// contactbook components.
package common

// AuthorizationHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AuthorizationHeaderName = "authorization"

// BearerScheme prefixes the access token inside the authorization header.
const BearerScheme = "Bearer"

// TokenTypeBearer is reported to clients alongside a freshly issued token pair.
const TokenTypeBearer = "bearer"
