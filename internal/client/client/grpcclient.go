package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// api is the subset of rpc.ContactBookClient used here.
type api interface {
	Ping(ctx context.Context, in *rpc.Empty, opts ...grpc.CallOption) (*rpc.PingResponse, error)
	Signup(ctx context.Context, in *rpc.SignupRequest, opts ...grpc.CallOption) (*rpc.User, error)
	Login(ctx context.Context, in *rpc.LoginRequest, opts ...grpc.CallOption) (*rpc.TokenResponse, error)
	Refresh(ctx context.Context, in *rpc.RefreshRequest, opts ...grpc.CallOption) (*rpc.TokenResponse, error)
	ConfirmEmail(ctx context.Context, in *rpc.ConfirmEmailRequest, opts ...grpc.CallOption) (*rpc.MessageResponse, error)
	RequestConfirmation(ctx context.Context, in *rpc.RequestConfirmationRequest, opts ...grpc.CallOption) (*rpc.MessageResponse, error)
	Me(ctx context.Context, in *rpc.Empty, opts ...grpc.CallOption) (*rpc.User, error)
	UpdateAvatar(ctx context.Context, in *rpc.UpdateAvatarRequest, opts ...grpc.CallOption) (*rpc.User, error)
	CreateContact(ctx context.Context, in *rpc.CreateContactRequest, opts ...grpc.CallOption) (*rpc.Contact, error)
	GetContact(ctx context.Context, in *rpc.ContactIDRequest, opts ...grpc.CallOption) (*rpc.Contact, error)
	ListContacts(ctx context.Context, in *rpc.ListContactsRequest, opts ...grpc.CallOption) (*rpc.ContactsResponse, error)
	FilterContacts(ctx context.Context, in *rpc.FilterContactsRequest, opts ...grpc.CallOption) (*rpc.ContactsResponse, error)
	UpdateContact(ctx context.Context, in *rpc.UpdateContactRequest, opts ...grpc.CallOption) (*rpc.Contact, error)
	DeleteContact(ctx context.Context, in *rpc.ContactIDRequest, opts ...grpc.CallOption) (*rpc.Empty, error)
	UpcomingBirthdays(ctx context.Context, in *rpc.UpcomingBirthdaysRequest, opts ...grpc.CallOption) (*rpc.UpcomingBirthdaysResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api

	mu     sync.Mutex
	tokens Tokens
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the access token to protected calls. When
// the server rejects it, the tokens are rotated once and the call retried.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if rpc.PublicMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	tokens := s.Tokens()
	if tokens.AccessToken == "" && tokens.RefreshToken == "" {
		return ErrNotLoggedIn
	}

	err := invoker(withAccessToken(ctx, tokens.AccessToken), method, req, reply, cc, opts...)
	if status.Code(err) != codes.Unauthenticated || tokens.RefreshToken == "" {
		return err
	}

	if _, rerr := s.Refresh(ctx); rerr != nil {
		return err
	}

	// tokens refreshed, retrying with the new access token
	return invoker(withAccessToken(ctx, s.Tokens().AccessToken), method, req, reply, cc, opts...)
}

func NewContactBookClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewContactBookClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

func (s *GRPCClient) SetTokens(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = t
}

func (s *GRPCClient) storeTokens(resp *rpc.TokenResponse) {
	s.SetTokens(Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotLoggedIn) {
		return err
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrConflict, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.client.Ping(ctx, &rpc.Empty{})
	return s.mapError(err)
}

func (s *GRPCClient) Signup(ctx context.Context, email, username string, password []byte) (*rpc.User, error) {
	req := &rpc.SignupRequest{Email: email, Username: username, Password: string(password)}
	resp, err := s.client.Signup(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (*rpc.TokenResponse, error) {
	req := &rpc.LoginRequest{Email: email, Password: string(password)}
	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	s.storeTokens(resp)
	return resp, nil
}

// Refresh rotates the stored token pair.
func (s *GRPCClient) Refresh(ctx context.Context) (*rpc.TokenResponse, error) {
	refresh := s.Tokens().RefreshToken
	if refresh == "" {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.client.Refresh(ctx, &rpc.RefreshRequest{RefreshToken: refresh})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.storeTokens(resp)
	return resp, nil
}

func (s *GRPCClient) ConfirmEmail(ctx context.Context, token string) (string, error) {
	resp, err := s.client.ConfirmEmail(ctx, &rpc.ConfirmEmailRequest{Token: token})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) RequestConfirmation(ctx context.Context, email string) (string, error) {
	resp, err := s.client.RequestConfirmation(ctx, &rpc.RequestConfirmationRequest{Email: email})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) Me(ctx context.Context) (*rpc.User, error) {
	resp, err := s.client.Me(ctx, &rpc.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) UpdateAvatar(ctx context.Context, filename, contentType string, data []byte) (*rpc.User, error) {
	req := &rpc.UpdateAvatarRequest{Filename: filename, ContentType: contentType, Data: data}
	resp, err := s.client.UpdateAvatar(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) CreateContact(ctx context.Context, in *rpc.CreateContactRequest) (*rpc.Contact, error) {
	resp, err := s.client.CreateContact(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) GetContact(ctx context.Context, id int64) (*rpc.Contact, error) {
	resp, err := s.client.GetContact(ctx, &rpc.ContactIDRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListContacts(ctx context.Context, skip, limit int) ([]rpc.Contact, error) {
	resp, err := s.client.ListContacts(ctx, &rpc.ListContactsRequest{Skip: skip, Limit: limit})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Contacts, nil
}

func (s *GRPCClient) FilterContacts(ctx context.Context, query string, skip, limit int) ([]rpc.Contact, error) {
	req := &rpc.FilterContactsRequest{Query: query, Skip: skip, Limit: limit}
	resp, err := s.client.FilterContacts(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Contacts, nil
}

func (s *GRPCClient) UpdateContact(ctx context.Context, in *rpc.UpdateContactRequest) (*rpc.Contact, error) {
	resp, err := s.client.UpdateContact(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) DeleteContact(ctx context.Context, id int64) error {
	_, err := s.client.DeleteContact(ctx, &rpc.ContactIDRequest{ID: id})
	return s.mapError(err)
}

func (s *GRPCClient) UpcomingBirthdays(ctx context.Context, days int) ([]rpc.Birthday, error) {
	resp, err := s.client.UpcomingBirthdays(ctx, &rpc.UpcomingBirthdaysRequest{Days: days})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Birthdays, nil
}
var _ Client = (*GRPCClient)(nil)
