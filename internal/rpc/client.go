package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ContactBookClient is a typed client over a connection. Every call uses the
// JSON codec.
type ContactBookClient struct {
	cc grpc.ClientConnInterface
}

func NewContactBookClient(cc grpc.ClientConnInterface) *ContactBookClient {
	return &ContactBookClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ContactBookClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, "Ping", in, opts)
}

func (c *ContactBookClient) Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, "Signup", in, opts)
}

func (c *ContactBookClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, "Login", in, opts)
}

func (c *ContactBookClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, "Refresh", in, opts)
}

func (c *ContactBookClient) ConfirmEmail(ctx context.Context, in *ConfirmEmailRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, "ConfirmEmail", in, opts)
}

func (c *ContactBookClient) RequestConfirmation(ctx context.Context, in *RequestConfirmationRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, "RequestConfirmation", in, opts)
}

func (c *ContactBookClient) Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, "Me", in, opts)
}

func (c *ContactBookClient) UpdateAvatar(ctx context.Context, in *UpdateAvatarRequest, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, "UpdateAvatar", in, opts)
}

func (c *ContactBookClient) CreateContact(ctx context.Context, in *CreateContactRequest, opts ...grpc.CallOption) (*Contact, error) {
	return invoke[Contact](ctx, c.cc, "CreateContact", in, opts)
}

func (c *ContactBookClient) GetContact(ctx context.Context, in *ContactIDRequest, opts ...grpc.CallOption) (*Contact, error) {
	return invoke[Contact](ctx, c.cc, "GetContact", in, opts)
}

func (c *ContactBookClient) ListContacts(ctx context.Context, in *ListContactsRequest, opts ...grpc.CallOption) (*ContactsResponse, error) {
	return invoke[ContactsResponse](ctx, c.cc, "ListContacts", in, opts)
}

func (c *ContactBookClient) FilterContacts(ctx context.Context, in *FilterContactsRequest, opts ...grpc.CallOption) (*ContactsResponse, error) {
	return invoke[ContactsResponse](ctx, c.cc, "FilterContacts", in, opts)
}

func (c *ContactBookClient) UpdateContact(ctx context.Context, in *UpdateContactRequest, opts ...grpc.CallOption) (*Contact, error) {
	return invoke[Contact](ctx, c.cc, "UpdateContact", in, opts)
}

func (c *ContactBookClient) DeleteContact(ctx context.Context, in *ContactIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeleteContact", in, opts)
}

func (c *ContactBookClient) UpcomingBirthdays(ctx context.Context, in *UpcomingBirthdaysRequest, opts ...grpc.CallOption) (*UpcomingBirthdaysResponse, error) {
	return invoke[UpcomingBirthdaysResponse](ctx, c.cc, "UpcomingBirthdays", in, opts)
}
