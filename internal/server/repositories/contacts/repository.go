// Package contacts persists address-book entries. Every operation is scoped
// by owner id; a row owned by someone else is indistinguishable from an
// absent one.
package contacts

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, owner string, in models.ContactInput) (*models.Contact, error)
	Get(ctx context.Context, owner string, id int64) (*models.Contact, error)
	// List returns contacts ordered by id.
	List(ctx context.Context, owner string, skip, limit int) ([]models.Contact, error)
	// Filter matches query as a case-insensitive substring of name, surname
	// or email, ordered by id.
	Filter(ctx context.Context, owner, query string, skip, limit int) ([]models.Contact, error)
	Update(ctx context.Context, owner string, id int64, patch models.ContactPatch) (*models.Contact, error)
	Delete(ctx context.Context, owner string, id int64) error
	// ListWithBirthdays returns the owner's contacts that have a birthday set.
	ListWithBirthdays(ctx context.Context, owner string) ([]models.Contact, error)
}
