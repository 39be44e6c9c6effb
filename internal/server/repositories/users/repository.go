// Package users persists accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Repository is the user store. Lookups of absent rows return
// common.ErrorNotFound; a second account with the same email returns
// common.ErrEmailTaken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// SetRefreshToken overwrites the stored refresh digest unconditionally.
	SetRefreshToken(ctx context.Context, userID string, digest *string) error
	// SwapRefreshToken replaces the stored digest only if it still equals
	// expected. It reports whether the swap happened.
	SwapRefreshToken(ctx context.Context, userID, expected, next string) (bool, error)
	MarkConfirmed(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, userID, url string) (*models.User, error)
}
