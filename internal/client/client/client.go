package client

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/rpc"
)

// Tokens is the credential pair the client presents and rotates.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Client interface {
	Close() error
	Tokens() Tokens
	SetTokens(t Tokens)

	Ping(ctx context.Context) error
	Signup(ctx context.Context, email, username string, password []byte) (*rpc.User, error)
	Login(ctx context.Context, email string, password []byte) (*rpc.TokenResponse, error)
	Refresh(ctx context.Context) (*rpc.TokenResponse, error)
	ConfirmEmail(ctx context.Context, token string) (string, error)
	RequestConfirmation(ctx context.Context, email string) (string, error)
	Me(ctx context.Context) (*rpc.User, error)
	UpdateAvatar(ctx context.Context, filename, contentType string, data []byte) (*rpc.User, error)

	CreateContact(ctx context.Context, in *rpc.CreateContactRequest) (*rpc.Contact, error)
	GetContact(ctx context.Context, id int64) (*rpc.Contact, error)
	ListContacts(ctx context.Context, skip, limit int) ([]rpc.Contact, error)
	FilterContacts(ctx context.Context, query string, skip, limit int) ([]rpc.Contact, error)
	UpdateContact(ctx context.Context, in *rpc.UpdateContactRequest) (*rpc.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
	UpcomingBirthdays(ctx context.Context, days int) ([]rpc.Birthday, error)
}
