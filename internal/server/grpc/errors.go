package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrInvalidCredentials, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrMalformedToken, codes.Unauthenticated},
	{common.ErrRevokedToken, codes.Unauthenticated},
	{common.ErrEmailTaken, codes.AlreadyExists},
	{common.ErrDuplicateContactEmail, codes.AlreadyExists},
	{common.ErrUserNotFound, codes.NotFound},
	{common.ErrContactNotFound, codes.NotFound},
	{common.ErrValidation, codes.InvalidArgument},
}

// toStatus converts a service error to a gRPC status. Domain errors keep
// their message; anything else is logged and reported as a generic internal
// error.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, err.Error())
		}
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

// authError maps a failure to resolve the caller. Any reason the token cannot
// be tied to a live account is Unauthenticated.
func (s *GRPCServer) authError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrMalformedToken):
		return status.Error(codes.Unauthenticated, "malformed token")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrUserNotFound):
		return status.Error(codes.Unauthenticated, "invalid token")
	default:
		s.logger.Error(ctx, "resolve identity", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
