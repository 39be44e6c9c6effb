// Package server wires storage, services and transports together and runs
// them until shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/avatars"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/mail"
	"github.com/dmitrijs2005/contactbook/internal/server/metrics"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/contactbook/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	repos         repomanager.RepositoryManager
	grpcServer    *gs.GRPCServer
	metricsServer *metrics.Server
	dispatcher    *mail.Dispatcher
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {

	logger := logging.NewJSONLogger(logOut, c.LogLevel)

	repos, err := repomanager.New(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		repos.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:     []byte(c.SecretKey),
		Algorithm:  c.SigningAlgorithm,
		AccessTTL:  c.AccessTokenValidityDuration,
		RefreshTTL: c.RefreshTokenValidityDuration,
		EmailTTL:   c.EmailTokenValidityDuration,
	})
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("token service error: %w", err)
	}

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     c.MailHost,
		Port:     c.MailPort,
		Username: c.MailUsername,
		Password: c.MailPassword,
		From:     c.MailFrom,
	}, mail.NewRenderer())
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("mail init error: %w", err)
	}
	dispatcher := mail.NewDispatcher(sender, c.MailWorkers, c.MailQueueSize, logger, m)

	// avatar uploads are rejected when object storage is unavailable
	var avatarStore services.AvatarStore
	s3, err := avatars.NewS3Store(ctx, avatars.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
		PublicURL:    c.S3PublicURL,
	})
	if err != nil {
		logger.Warn(ctx, "object storage disabled", "error", err)
	} else {
		avatarStore = s3
	}

	identity := services.NewIdentityResolver(repos, tokens)
	accounts := services.NewAccountService(services.AccountDeps{
		Repos:    repos,
		Hasher:   auth.NewBcryptHasher(c.BcryptCost),
		Tokens:   tokens,
		Identity: identity,
		Mailer:   dispatcher,
		Avatars:  avatarStore,
		Logger:   logger,
		Metrics:  m,
	}, c)
	contacts := services.NewContactService(repos, c)

	app := &App{
		config:     c,
		logger:     logger,
		repos:      repos,
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, accounts, contacts, identity, m),
		dispatcher: dispatcher,
	}
	if c.MetricsAddr != "" {
		app.metricsServer = metrics.NewServer(c.MetricsAddr, reg, logger)
	}

	return app, nil
}

// Run serves gRPC and metrics and dispatches mail until ctx is cancelled or
// one of them fails. The store is closed on return.
func (app *App) Run(ctx context.Context) error {

	defer app.repos.Close()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.grpcServer.Run(ctx)
	})

	if app.metricsServer != nil {
		g.Go(func() error {
			return app.metricsServer.Run(ctx)
		})
	}

	g.Go(func() error {
		return app.dispatcher.Run(ctx)
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
