package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/client/client"
	"github.com/dmitrijs2005/contactbook/internal/client/config"
	"github.com/dmitrijs2005/contactbook/internal/rpc"
)

type fakeClient struct {
	tokens client.Tokens
	closed bool

	signupEmail, signupUser, signupPass string
	loginEmail, loginPass               string
	confirmToken                        string
	resendEmail                         string
	avatarName, avatarType              string
	created                             *rpc.CreateContactRequest
	updated                             *rpc.UpdateContactRequest
	deletedID                           int64
	listSkip, listLimit                 int
	query                               string
	days                                int

	err      error
	contacts []rpc.Contact
}

func (f *fakeClient) Close() error              { f.closed = true; return nil }
func (f *fakeClient) Tokens() client.Tokens     { return f.tokens }
func (f *fakeClient) SetTokens(t client.Tokens) { f.tokens = t }
func (f *fakeClient) Ping(ctx context.Context) error {
	return f.err
}
func (f *fakeClient) Signup(ctx context.Context, email, username string, password []byte) (*rpc.User, error) {
	f.signupEmail, f.signupUser, f.signupPass = email, username, string(password)
	if f.err != nil {
		return nil, f.err
	}
	return &rpc.User{Email: email, Username: username}, nil
}
func (f *fakeClient) Login(ctx context.Context, email string, password []byte) (*rpc.TokenResponse, error) {
	f.loginEmail, f.loginPass = email, string(password)
	if f.err != nil {
		return nil, f.err
	}
	f.tokens = client.Tokens{AccessToken: "acc", RefreshToken: "ref"}
	return &rpc.TokenResponse{AccessToken: "acc", RefreshToken: "ref", TokenType: "bearer"}, nil
}
func (f *fakeClient) Refresh(ctx context.Context) (*rpc.TokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &rpc.TokenResponse{AccessToken: "acc2", RefreshToken: f.tokens.RefreshToken + "2"}, nil
}
func (f *fakeClient) ConfirmEmail(ctx context.Context, token string) (string, error) {
	f.confirmToken = token
	return "Email confirmed", f.err
}
func (f *fakeClient) RequestConfirmation(ctx context.Context, email string) (string, error) {
	f.resendEmail = email
	return "Check your email for confirmation", f.err
}
func (f *fakeClient) Me(ctx context.Context) (*rpc.User, error) {
	return &rpc.User{Email: "ann@example.com"}, f.err
}
func (f *fakeClient) UpdateAvatar(ctx context.Context, filename, contentType string, data []byte) (*rpc.User, error) {
	f.avatarName, f.avatarType = filename, contentType
	return &rpc.User{Avatar: "http://cdn/" + filename}, f.err
}
func (f *fakeClient) CreateContact(ctx context.Context, in *rpc.CreateContactRequest) (*rpc.Contact, error) {
	f.created = in
	return &rpc.Contact{ID: 1, Name: in.Name}, f.err
}
func (f *fakeClient) GetContact(ctx context.Context, id int64) (*rpc.Contact, error) {
	return &rpc.Contact{ID: id}, f.err
}
func (f *fakeClient) ListContacts(ctx context.Context, skip, limit int) ([]rpc.Contact, error) {
	f.listSkip, f.listLimit = skip, limit
	return f.contacts, f.err
}
func (f *fakeClient) FilterContacts(ctx context.Context, query string, skip, limit int) ([]rpc.Contact, error) {
	f.query, f.listSkip, f.listLimit = query, skip, limit
	return f.contacts, f.err
}
func (f *fakeClient) UpdateContact(ctx context.Context, in *rpc.UpdateContactRequest) (*rpc.Contact, error) {
	f.updated = in
	return &rpc.Contact{ID: in.ID}, f.err
}
func (f *fakeClient) DeleteContact(ctx context.Context, id int64) error {
	f.deletedID = id
	return f.err
}
func (f *fakeClient) UpcomingBirthdays(ctx context.Context, days int) ([]rpc.Birthday, error) {
	f.days = days
	return []rpc.Birthday{}, f.err
}

var _ client.Client = (*fakeClient)(nil)

func newTestApp(f *fakeClient, input ...string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{
		config: cfg,
		client: f,
		reader: bufio.NewReader(strings.NewReader(strings.Join(input, "\n"))),
		out:    &out,
	}, &out
}
