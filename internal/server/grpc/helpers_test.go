package grpc

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/rpc"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/mail"
	"github.com/dmitrijs2005/contactbook/internal/server/metrics"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

type capturingMailer struct {
	mu   sync.Mutex
	msgs []mail.Message
}

func (m *capturingMailer) Enqueue(msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

// lastToken returns the confirmation token from the most recent mail.
func (m *capturingMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.msgs)
	link, _ := m.msgs[len(m.msgs)-1].Data["link"].(string)
	return link[strings.LastIndex(link, "/")+1:]
}

type memAvatars struct{}

func (memAvatars) Put(_ context.Context, userID, filename, _ string, body io.Reader, _ int64) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	return "http://cdn/" + userID + "/" + filename, nil
}

type testEnv struct {
	server  *GRPCServer
	tokens  *auth.TokenService
	mailer  *capturingMailer
	metrics *metrics.Metrics
	reg     *prometheus.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	repos := repomanager.NewMemoryRepositoryManager()
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: []byte("grpc-test-secret")})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	mailer := &capturingMailer{}
	identity := services.NewIdentityResolver(repos, tokens)

	accounts := services.NewAccountService(services.AccountDeps{
		Repos:    repos,
		Hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
		Tokens:   tokens,
		Identity: identity,
		Mailer:   mailer,
		Avatars:  memAvatars{},
		Logger:   logging.Nop(),
		Metrics:  m,
	}, cfg)
	contacts := services.NewContactService(repos, cfg).WithClock(func() time.Time {
		return time.Date(2023, time.December, 28, 9, 0, 0, 0, time.UTC)
	})

	return &testEnv{
		server:  NewGRPCServer("127.0.0.1:0", logging.Nop(), accounts, contacts, identity, m),
		tokens:  tokens,
		mailer:  mailer,
		metrics: m,
		reg:     reg,
	}
}

// dial serves env.server over an in-memory listener and returns a client.
func (env *testEnv) dial(t *testing.T) *rpc.ContactBookClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.server.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	return rpc.NewContactBookClient(conn)
}
