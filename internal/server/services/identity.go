// Package services contains server-side business logic: identity resolution
// and refresh rotation, the account flows, and the contact book.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// IdentityResolver maps access tokens to users and rotates refresh tokens.
//
// Access tokens are trusted until they expire; Resolve never consults the
// stored refresh token, so a rotation does not cut off access tokens that are
// already out. Revocation latency is bounded by the access-token TTL.
type IdentityResolver struct {
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
}

func NewIdentityResolver(m repomanager.RepositoryManager, t *auth.TokenService) *IdentityResolver {
	return &IdentityResolver{repomanager: m, tokens: t}
}

// Resolve returns the user an access token was issued to.
func (r *IdentityResolver) Resolve(ctx context.Context, accessToken string) (*models.User, error) {
	email, err := r.tokens.Decode(accessToken, auth.KindAccess)
	if err != nil {
		return nil, err
	}
	return r.userByEmail(ctx, email)
}

// Rotate exchanges a refresh token for a new pair. Only the most recently
// issued refresh token is accepted, and of several concurrent calls with the
// same token exactly one succeeds.
func (r *IdentityResolver) Rotate(ctx context.Context, refreshToken string) (*TokenPair, error) {
	email, err := r.tokens.Decode(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, err
	}
	user, err := r.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	presented := auth.HashRefreshToken(refreshToken)
	if user.RefreshToken == nil || *user.RefreshToken != presented {
		return nil, common.ErrRevokedToken
	}

	pair, err := r.issuePair(user.Email)
	if err != nil {
		return nil, err
	}

	swapped, err := r.repomanager.Users().SwapRefreshToken(ctx, user.ID, presented, auth.HashRefreshToken(pair.RefreshToken))
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, common.ErrRevokedToken
	}
	return pair, nil
}

// Issue mints a pair for user and makes its refresh token the only valid one.
func (r *IdentityResolver) Issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, err := r.issuePair(user.Email)
	if err != nil {
		return nil, err
	}
	digest := auth.HashRefreshToken(pair.RefreshToken)
	if err := r.repomanager.Users().SetRefreshToken(ctx, user.ID, &digest); err != nil {
		return nil, err
	}
	return pair, nil
}

func (r *IdentityResolver) issuePair(email string) (*TokenPair, error) {
	access, err := r.tokens.IssueAccess(email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := r.tokens.IssueRefresh(email)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: common.TokenTypeBearer}, nil
}

func (r *IdentityResolver) userByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
