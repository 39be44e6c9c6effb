package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/mail"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeMailer struct {
	mu  sync.Mutex
	got []mail.Message
	err error
}

func (f *fakeMailer) Enqueue(msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, msg)
	return nil
}

func (f *fakeMailer) messages() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message(nil), f.got...)
}

type fakeAvatarStore struct {
	url  string
	err  error
	body []byte
}

func (f *fakeAvatarStore) Put(_ context.Context, userID, filename, _ string, body io.Reader, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.body, _ = io.ReadAll(body)
	return f.url + "/" + userID + "/" + filename, nil
}

type testEnv struct {
	repos    *repomanager.MemoryRepositoryManager
	tokens   *auth.TokenService
	identity *IdentityResolver
	accounts *AccountService
	contacts *ContactService
	mailer   *fakeMailer
	avatars  *fakeAvatarStore
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	repos := repomanager.NewMemoryRepositoryManager()
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: []byte("test-secret")})
	require.NoError(t, err)

	identity := NewIdentityResolver(repos, tokens)
	mailer := &fakeMailer{}
	avatarStore := &fakeAvatarStore{url: "http://cdn"}

	accounts := NewAccountService(AccountDeps{
		Repos:    repos,
		Hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
		Tokens:   tokens,
		Identity: identity,
		Mailer:   mailer,
		Avatars:  avatarStore,
		Logger:   logging.Nop(),
	}, cfg)

	contacts := NewContactService(repos, cfg).WithClock(func() time.Time {
		return time.Date(2023, time.December, 28, 15, 0, 0, 0, time.UTC)
	})

	return &testEnv{
		repos:    repos,
		tokens:   tokens,
		identity: identity,
		accounts: accounts,
		contacts: contacts,
		mailer:   mailer,
		avatars:  avatarStore,
		cfg:      cfg,
	}
}
