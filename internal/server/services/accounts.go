package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/avatars"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/mail"
	"github.com/dmitrijs2005/contactbook/internal/server/metrics"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
)

// MailQueue accepts messages for asynchronous delivery. Enqueue must not
// block.
type MailQueue interface {
	Enqueue(msg mail.Message) error
}

// AvatarStore keeps uploaded avatar images and returns their public URL.
type AvatarStore interface {
	Put(ctx context.Context, userID, filename, contentType string, body io.Reader, size int64) (string, error)
}

// Upload is an avatar image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

type AccountDeps struct {
	Repos    repomanager.RepositoryManager
	Hasher   auth.Hasher
	Tokens   *auth.TokenService
	Identity *IdentityResolver
	Mailer   MailQueue
	Avatars  AvatarStore
	Logger   logging.Logger
	Metrics  *metrics.Metrics
}

// AccountService runs registration, login, token refresh, email confirmation
// and profile updates.
type AccountService struct {
	repomanager    repomanager.RepositoryManager
	hasher         auth.Hasher
	tokens         *auth.TokenService
	identity       *IdentityResolver
	mailer         MailQueue
	avatars        AvatarStore
	logger         logging.Logger
	metrics        *metrics.Metrics
	confirmBaseURL string
	avatarMaxBytes int64
}

func NewAccountService(d AccountDeps, cfg *config.Config) *AccountService {
	l := d.Logger
	if l == nil {
		l = logging.Nop()
	}
	return &AccountService{
		repomanager:    d.Repos,
		hasher:         d.Hasher,
		tokens:         d.Tokens,
		identity:       d.Identity,
		mailer:         d.Mailer,
		avatars:        d.Avatars,
		logger:         l.With("module", "accounts"),
		metrics:        d.Metrics,
		confirmBaseURL: cfg.ConfirmBaseURL,
		avatarMaxBytes: cfg.AvatarMaxBytes,
	}
}

// Signup registers an unconfirmed user and queues the confirmation mail.
// Mail problems are logged and never fail the signup.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (user *models.User, err error) {
	defer func() { s.metrics.AuthEvent("signup", err) }()

	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	users := s.repomanager.Users()
	if _, err := users.GetByEmail(ctx, in.Email); err == nil {
		return nil, common.ErrEmailTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	avatar := avatars.Gravatar(in.Email)
	user, err = users.Create(ctx, &models.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: digest,
		Avatar:       &avatar,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	s.sendConfirmation(ctx, user)

	return user, nil
}

// Login checks credentials and issues a token pair. An unknown email and a
// wrong password are reported identically.
func (s *AccountService) Login(ctx context.Context, email, password string) (pair *TokenPair, err error) {
	defer func() { s.metrics.AuthEvent("login", err) }()

	user, err := s.repomanager.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.DummyVerify(password)
			s.logger.Info(ctx, "login rejected", "reason", "unknown email")
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Info(ctx, "login rejected", "reason", "password mismatch", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}

	return s.identity.Issue(ctx, user)
}

func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (pair *TokenPair, err error) {
	defer func() { s.metrics.AuthEvent("refresh", err) }()

	pair, err = s.identity.Rotate(ctx, refreshToken)
	if errors.Is(err, common.ErrRevokedToken) {
		s.logger.Warn(ctx, "superseded refresh token presented")
	}
	return pair, err
}

// ConfirmEmail redeems an email-confirmation token. Confirming twice is not
// an error.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) (err error) {
	defer func() { s.metrics.AuthEvent("confirm", err) }()

	email, err := s.tokens.Decode(token, auth.KindEmailConfirm)
	if err != nil {
		return err
	}

	users := s.repomanager.Users()
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return err
	}
	if user.Confirmed {
		return nil
	}

	if err := users.MarkConfirmed(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return err
	}
	s.logger.Info(ctx, "email confirmed", "user_id", user.ID)
	return nil
}

// RequestConfirmation re-sends the confirmation mail to an unconfirmed user.
// The result does not reveal whether the address is registered.
func (s *AccountService) RequestConfirmation(ctx context.Context, email string) error {
	user, err := s.repomanager.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	if !user.Confirmed {
		s.sendConfirmation(ctx, user)
	}
	return nil
}

// UpdateAvatar stores an uploaded image and points the profile at it.
func (s *AccountService) UpdateAvatar(ctx context.Context, user *models.User, up Upload) (*models.User, error) {
	if !strings.HasPrefix(up.ContentType, "image/") {
		return nil, fmt.Errorf("%w: avatar must be an image", common.ErrValidation)
	}
	if up.Size <= 0 || up.Size > s.avatarMaxBytes {
		return nil, fmt.Errorf("%w: avatar size must be between 1 and %d bytes", common.ErrValidation, s.avatarMaxBytes)
	}
	if s.avatars == nil {
		return nil, fmt.Errorf("avatar storage is not configured: %w", common.ErrorInternal)
	}

	url, err := s.avatars.Put(ctx, user.ID, up.Filename, up.ContentType, up.Body, up.Size)
	if err != nil {
		return nil, err
	}

	updated, err := s.repomanager.Users().UpdateAvatar(ctx, user.ID, url)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *AccountService) sendConfirmation(ctx context.Context, user *models.User) {
	if s.mailer == nil {
		s.logger.Warn(ctx, "no mailer configured, confirmation mail skipped", "user_id", user.ID)
		return
	}

	token, err := s.tokens.IssueEmailConfirm(user.Email)
	if err != nil {
		s.logger.Error(ctx, "issue confirmation token", "user_id", user.ID, "error", err)
		return
	}

	link := s.confirmBaseURL
	if !strings.HasSuffix(link, "/") {
		link += "/"
	}

	if err := s.mailer.Enqueue(mail.ConfirmationMessage(user.Email, user.Username, link+token)); err != nil {
		s.logger.Error(ctx, "queue confirmation mail", "user_id", user.ID, "error", err)
	}
}
