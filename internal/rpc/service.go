package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "contactbook.v1.ContactBook"

// FullMethod returns the gRPC path of method, e.g. /contactbook.v1.ContactBook/Login.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ContactBookServer is implemented by the server transport.
type ContactBookServer interface {
	Ping(context.Context, *Empty) (*PingResponse, error)
	Signup(context.Context, *SignupRequest) (*User, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	Refresh(context.Context, *RefreshRequest) (*TokenResponse, error)
	ConfirmEmail(context.Context, *ConfirmEmailRequest) (*MessageResponse, error)
	RequestConfirmation(context.Context, *RequestConfirmationRequest) (*MessageResponse, error)
	Me(context.Context, *Empty) (*User, error)
	UpdateAvatar(context.Context, *UpdateAvatarRequest) (*User, error)
	CreateContact(context.Context, *CreateContactRequest) (*Contact, error)
	GetContact(context.Context, *ContactIDRequest) (*Contact, error)
	ListContacts(context.Context, *ListContactsRequest) (*ContactsResponse, error)
	FilterContacts(context.Context, *FilterContactsRequest) (*ContactsResponse, error)
	UpdateContact(context.Context, *UpdateContactRequest) (*Contact, error)
	DeleteContact(context.Context, *ContactIDRequest) (*Empty, error)
	UpcomingBirthdays(context.Context, *UpcomingBirthdaysRequest) (*UpcomingBirthdaysResponse, error)
}

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	FullMethod("Ping"):                true,
	FullMethod("Signup"):              true,
	FullMethod("Login"):               true,
	FullMethod("Refresh"):             true,
	FullMethod("ConfirmEmail"):        true,
	FullMethod("RequestConfirmation"): true,
}

func unary[Req, Resp any](method string, call func(ContactBookServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ContactBookServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ContactBookServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the ContactBook service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ContactBookServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", ContactBookServer.Ping),
		unary("Signup", ContactBookServer.Signup),
		unary("Login", ContactBookServer.Login),
		unary("Refresh", ContactBookServer.Refresh),
		unary("ConfirmEmail", ContactBookServer.ConfirmEmail),
		unary("RequestConfirmation", ContactBookServer.RequestConfirmation),
		unary("Me", ContactBookServer.Me),
		unary("UpdateAvatar", ContactBookServer.UpdateAvatar),
		unary("CreateContact", ContactBookServer.CreateContact),
		unary("GetContact", ContactBookServer.GetContact),
		unary("ListContacts", ContactBookServer.ListContacts),
		unary("FilterContacts", ContactBookServer.FilterContacts),
		unary("UpdateContact", ContactBookServer.UpdateContact),
		unary("DeleteContact", ContactBookServer.DeleteContact),
		unary("UpcomingBirthdays", ContactBookServer.UpcomingBirthdays),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "contactbook.v1",
}

func RegisterContactBookServer(s grpc.ServiceRegistrar, srv ContactBookServer) {
	s.RegisterService(&ServiceDesc, srv)
}
