package grpc

import (
	"bytes"
	"context"

	"github.com/dmitrijs2005/contactbook/internal/rpc"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *rpc.Empty) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "ok"}, nil
}

func (s *GRPCServer) Signup(ctx context.Context, req *rpc.SignupRequest) (*rpc.User, error) {
	user, err := s.accounts.Signup(ctx, services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toRPCUser(user), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.TokenResponse, error) {
	pair, err := s.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toTokenResponse(pair), nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *rpc.RefreshRequest) (*rpc.TokenResponse, error) {
	pair, err := s.accounts.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toTokenResponse(pair), nil
}

func (s *GRPCServer) ConfirmEmail(ctx context.Context, req *rpc.ConfirmEmailRequest) (*rpc.MessageResponse, error) {
	if err := s.accounts.ConfirmEmail(ctx, req.Token); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.MessageResponse{Message: "Email confirmed"}, nil
}

func (s *GRPCServer) RequestConfirmation(ctx context.Context, req *rpc.RequestConfirmationRequest) (*rpc.MessageResponse, error) {
	if err := s.accounts.RequestConfirmation(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.MessageResponse{Message: "Check your email for confirmation"}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *rpc.Empty) (*rpc.User, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return toRPCUser(user), nil
}

func (s *GRPCServer) UpdateAvatar(ctx context.Context, req *rpc.UpdateAvatarRequest) (*rpc.User, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.accounts.UpdateAvatar(ctx, user, services.Upload{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Body:        bytes.NewReader(req.Data),
		Size:        int64(len(req.Data)),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toRPCUser(updated), nil
}
