// Package client talks to the contactbook backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     account operations (Signup, Login, Refresh, ConfirmEmail, Me, ...) and
//     contact operations (CreateContact, ListContacts, UpcomingBirthdays, ...).
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the access token as a bearer authorization header,
//     transparently rotates tokens when the server rejects an access token,
//     and maps gRPC status codes to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrConflict and
// ErrInvalidInput. The server's status message is kept in the error text.
//
// GRPCClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
