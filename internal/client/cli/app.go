package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/client/client"
	"github.com/dmitrijs2005/contactbook/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewContactBookClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	apiClient.SetTokens(client.Tokens{AccessToken: c.AccessToken, RefreshToken: c.RefreshToken})

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run executes args as a single command, or starts the REPL when args is
// empty.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.client.Close()

	if len(args) == 0 {
		a.Root(ctx)
		return nil
	}
	return a.Execute(ctx, args)
}

func (a *App) isLoggedIn() bool {
	t := a.client.Tokens()
	return t.AccessToken != "" || t.RefreshToken != ""
}

// withTimeout bounds a single server call by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithTimeout(ctx, 10*time.Second)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) print(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}
