package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepterm/internal/api"
	"github.com/abhisek/prepterm/internal/auth"
	"github.com/abhisek/prepterm/internal/config"
	"github.com/abhisek/prepterm/internal/identity"
	"github.com/abhisek/prepterm/internal/localstate"
	"github.com/abhisek/prepterm/internal/logging"
)

// cliEnv holds the services a non-TUI command needs.
type cliEnv struct {
	cfg    *config.Config
	slots  *localstate.Store
	tokens *auth.Store
	client *api.Client
	ids    *identity.Manager

	closeLog func() error
}

// openEnv loads configuration and local state and builds the API client.
// Callers must Close.
func openEnv(cmd *cobra.Command) (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		closeLog()
		return nil, err
	}
	slots, err := localstate.Open(dbPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open local state: %w", err)
	}

	ctx := cmd.Context()

	tokens, err := auth.NewStore(ctx, slots)
	if err != nil {
		slots.Close()
		closeLog()
		return nil, fmt.Errorf("load auth token: %w", err)
	}

	ids := identity.New(slots)
	if err := ids.Load(ctx); err != nil {
		slots.Close()
		closeLog()
		return nil, fmt.Errorf("load session state: %w", err)
	}

	client := api.New(cfg.BaseURL, tokens,
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		api.WithLogger(log),
	)

	return &cliEnv{
		cfg:      cfg,
		slots:    slots,
		tokens:   tokens,
		client:   client,
		ids:      ids,
		closeLog: closeLog,
	}, nil
}

func (e *cliEnv) Close() {
	e.slots.Close()
	e.closeLog()
}

// sessionID resolves the working session: the stored one, else the
// backend's most recent.
func (e *cliEnv) sessionID(ctx context.Context) (int, error) {
	return e.ids.Resolve(ctx, e.client)
}
