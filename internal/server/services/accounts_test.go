package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/mail"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_ThenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.accounts.Signup(ctx, SignupInput{Email: " Ann@X.io ", Password: "password1", Username: "annie"})
	require.NoError(t, err)
	assert.Equal(t, "ann@x.io", u.Email)
	assert.False(t, u.Confirmed)
	assert.NotEqual(t, "password1", u.PasswordHash)
	require.NotNil(t, u.Avatar)
	assert.Contains(t, *u.Avatar, "gravatar.com/avatar/")

	pair, err := env.accounts.Login(ctx, "ANN@x.io", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)

	stored, err := env.repos.Users().GetByEmail(ctx, "ann@x.io")
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, auth.HashRefreshToken(pair.RefreshToken), *stored.RefreshToken)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Signup(ctx, SignupInput{Email: "ann@x.io", Password: "password1", Username: "annie"})
	require.NoError(t, err)

	_, wrongPass := env.accounts.Login(ctx, "ann@x.io", "password2")
	_, noUser := env.accounts.Login(ctx, "bob@x.io", "password1")

	assert.ErrorIs(t, wrongPass, common.ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, common.ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestSignup_EmailTaken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Signup(ctx, SignupInput{Email: "ann@x.io", Password: "password1", Username: "annie"})
	require.NoError(t, err)

	_, err = env.accounts.Signup(ctx, SignupInput{Email: "ANN@x.io", Password: "other-pass", Username: "annie2"})
	assert.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestSignup_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []SignupInput{
		{Email: "not-an-email", Password: "password1", Username: "annie"},
		{Email: "ann@x.io", Password: "short", Username: "annie"},
		{Email: "ann@x.io", Password: "password1", Username: "ann"},
		{Email: "ann@x.io", Password: strings.Repeat("p", 73), Username: "annie"},
	}
	for _, in := range tests {
		_, err := env.accounts.Signup(ctx, in)
		assert.ErrorIs(t, err, common.ErrValidation, "%+v", in)
	}
}

func TestSignup_QueuesConfirmationMail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Signup(ctx, SignupInput{Email: "ann@x.io", Password: "password1", Username: "annie"})
	require.NoError(t, err)

	msgs := env.mailer.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "ann@x.io", msgs[0].To)
	assert.Equal(t, mail.TemplateEmailConfirm, msgs[0].Template)

	link, ok := msgs[0].Data["link"].(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(link, env.cfg.ConfirmBaseURL))

	token := strings.TrimPrefix(link, env.cfg.ConfirmBaseURL)
	sub, err := env.tokens.Decode(token, auth.KindEmailConfirm)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.io", sub)
}

func TestSignup_SucceedsWhenMailQueueFails(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = mail.ErrQueueFull

	u, err := env.accounts.Signup(context.Background(), SignupInput{Email: "ann@x.io", Password: "password1", Username: "annie"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
}

func TestConfirmEmail_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Signup(ctx, SignupInput{Email: "ann@x.io", Password: "password1", Username: "annie"})
	require.NoError(t, err)

	token, err := env.tokens.IssueEmailConfirm("ann@x.io")
	require.NoError(t, err)

	require.NoError(t, env.accounts.ConfirmEmail(ctx, token))
	require.NoError(t, env.accounts.ConfirmEmail(ctx, token))

	u, err := env.repos.Users().GetByEmail(ctx, "ann@x.io")
	require.NoError(t, err)
	assert.True(t, u.Confirmed)
}

func TestConfirmEmail_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ghost, err := env.tokens.IssueEmailConfirm("ghost@x.io")
	require.NoError(t, err)
	assert.ErrorIs(t, env.accounts.ConfirmEmail(ctx, ghost), common.ErrUserNotFound)

	access, err := env.tokens.IssueAccess("ann@x.io")
	require.NoError(t, err)
	assert.ErrorIs(t, env.accounts.ConfirmEmail(ctx, access), common.ErrInvalidToken)

	assert.ErrorIs(t, env.accounts.ConfirmEmail(ctx, "x"), common.ErrMalformedToken)
}

func TestRequestConfirmation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Signup(ctx, SignupInput{Email: "ann@x.io", Password: "password1", Username: "annie"})
	require.NoError(t, err)
	require.Len(t, env.mailer.messages(), 1)

	require.NoError(t, env.accounts.RequestConfirmation(ctx, "ann@x.io"))
	assert.Len(t, env.mailer.messages(), 2)

	require.NoError(t, env.accounts.RequestConfirmation(ctx, "nobody@x.io"))
	assert.Len(t, env.mailer.messages(), 2)

	require.NoError(t, env.repos.Users().MarkConfirmed(ctx, "ann@x.io"))
	require.NoError(t, env.accounts.RequestConfirmation(ctx, "ann@x.io"))
	assert.Len(t, env.mailer.messages(), 2)
}

func TestRefresh_DelegatesToRotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pair := signupAndLogin(t, env, "ann@x.io")

	_, err := env.accounts.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	_, err = env.accounts.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrRevokedToken)
}

func TestUpdateAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.accounts.Signup(ctx, SignupInput{Email: "ann@x.io", Password: "password1", Username: "annie"})
	require.NoError(t, err)

	updated, err := env.accounts.UpdateAvatar(ctx, u, Upload{
		Filename: "me.png", ContentType: "image/png", Body: bytes.NewReader([]byte("png")), Size: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Avatar)
	assert.Equal(t, "http://cdn/"+u.ID+"/me.png", *updated.Avatar)
	assert.Equal(t, []byte("png"), env.avatars.body)
}

func TestUpdateAvatar_Rejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := &models.User{ID: "u-1"}

	_, err := env.accounts.UpdateAvatar(ctx, u, Upload{ContentType: "text/plain", Size: 3})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = env.accounts.UpdateAvatar(ctx, u, Upload{ContentType: "image/png", Size: env.cfg.AvatarMaxBytes + 1})
	assert.ErrorIs(t, err, common.ErrValidation)

	env.avatars.err = errors.New("bucket gone")
	_, err = env.accounts.UpdateAvatar(ctx, u, Upload{ContentType: "image/png", Body: bytes.NewReader(nil), Size: 1})
	assert.Error(t, err)

	env.avatars.err = nil
	_, err = env.accounts.UpdateAvatar(ctx, u, Upload{ContentType: "image/png", Body: bytes.NewReader([]byte("x")), Size: 1})
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}
