package grpc

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/rpc"
)

func (s *GRPCServer) CreateContact(ctx context.Context, req *rpc.CreateContactRequest) (*rpc.Contact, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	in, err := toContactInput(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	c, err := s.contacts.Create(ctx, user.ID, in)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := toRPCContact(c)
	return &out, nil
}

func (s *GRPCServer) GetContact(ctx context.Context, req *rpc.ContactIDRequest) (*rpc.Contact, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.contacts.Get(ctx, user.ID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := toRPCContact(c)
	return &out, nil
}

func (s *GRPCServer) ListContacts(ctx context.Context, req *rpc.ListContactsRequest) (*rpc.ContactsResponse, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.contacts.List(ctx, user.ID, req.Skip, req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toRPCContacts(list), nil
}

func (s *GRPCServer) FilterContacts(ctx context.Context, req *rpc.FilterContactsRequest) (*rpc.ContactsResponse, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.contacts.Filter(ctx, user.ID, req.Query, req.Skip, req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toRPCContacts(list), nil
}

func (s *GRPCServer) UpdateContact(ctx context.Context, req *rpc.UpdateContactRequest) (*rpc.Contact, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patch, err := toContactPatch(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	c, err := s.contacts.Update(ctx, user.ID, req.ID, patch)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := toRPCContact(c)
	return &out, nil
}

func (s *GRPCServer) DeleteContact(ctx context.Context, req *rpc.ContactIDRequest) (*rpc.Empty, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.contacts.Delete(ctx, user.ID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) UpcomingBirthdays(ctx context.Context, req *rpc.UpcomingBirthdaysRequest) (*rpc.UpcomingBirthdaysResponse, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.contacts.UpcomingBirthdays(ctx, user.ID, req.Days)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toRPCBirthdays(list), nil
}
