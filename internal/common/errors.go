// Package common defines shared constants and sentinel errors used across
// client and server layers of contactbook. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Credential and account errors. ErrInvalidCredentials covers
	// both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")

	// Contact errors.
	ErrContactNotFound       = errors.New("contact not found")
	ErrDuplicateContactEmail = errors.New("contact with this email already exists")

	// Token errors.
	ErrInvalidToken   = errors.New("invalid token")
	ErrMalformedToken = errors.New("malformed token")
	ErrRevokedToken   = errors.New("revoked token")

	// Malformed input fields.
	ErrValidation = errors.New("validation error")
)
