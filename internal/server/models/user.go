// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	// Avatar is a URL. Nil until one is assigned.
	Avatar    *string
	Confirmed bool
	// RefreshToken is the digest of the single currently valid refresh token.
	RefreshToken *string
	CreatedAt    time.Time
}
