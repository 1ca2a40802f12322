package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/cli"
	"github.com/Veraticus/stackbank/internal/common"
	"github.com/Veraticus/stackbank/internal/config"
	"github.com/Veraticus/stackbank/internal/nav"
	"github.com/Veraticus/stackbank/internal/notify"
	"github.com/Veraticus/stackbank/internal/session"
	"github.com/Veraticus/stackbank/internal/storage"
)

// errNotLoggedIn is returned by commands that need a session when none is held.
var errNotLoggedIn = fmt.Errorf("%w; run 'stackbank login' first", common.ErrNoSession)

// clientRuntime bundles everything a command needs to talk to the service.
type clientRuntime struct {
	cfg      *config.Config
	store    *session.Store
	history  *nav.History
	notifier *notify.Channel
	client   *api.Client
	out      io.Writer
	closers  []func() error
}

func openRuntime(cmd *cobra.Command) (*clientRuntime, error) {
	ctx := cmd.Context()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	rt := &clientRuntime{
		cfg:     cfg,
		history: nav.NewHistory(nav.EntryRoute),
		notifier: notify.NewChannel(
			notify.WithDefaultDuration(cfg.NotifyDuration),
		),
		out: cmd.OutOrStdout(),
	}
	rt.closers = append(rt.closers, func() error {
		rt.notifier.Close()
		return nil
	})

	persister, closePersister, err := openPersister(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, closePersister)

	rt.store, err = session.Open(ctx, persister)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.client, err = api.NewClient(cfg.APIBaseURL, rt.store, rt.history, api.WithTimeout(cfg.APITimeout))
	if err != nil {
		rt.Close()
		return nil, err
	}

	slog.Debug("Client runtime ready",
		"api", rt.client.BaseURL(),
		"backend", cfg.SessionBackend,
		"active", rt.store.IsActive())
	return rt, nil
}

// openPersister selects where the session token lives.
func openPersister(ctx context.Context, cfg *config.Config) (session.Persister, func() error, error) {
	switch cfg.SessionBackend {
	case config.BackendSQLite:
		db, err := storage.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open session database: %w", err)
		}
		return db, db.Close, nil
	default:
		return session.NewFilePersister(cfg.StateFile), func() error { return nil }, nil
	}
}

// Close releases resources in reverse order of acquisition.
func (rt *clientRuntime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			slog.Warn("Failed to release resource", "error", err)
		}
	}
	rt.closers = nil
}

// requireSession fails fast instead of sending a request that would be
// rejected.
func (rt *clientRuntime) requireSession() error {
	if !rt.store.IsActive() {
		return errNotLoggedIn
	}
	return nil
}

// failure converts a client error into the message shown for it. A rejected
// session gets a hint to log in again.
func (rt *clientRuntime) failure(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, api.ErrUnauthorized) {
		slog.Info("Session rejected by service", "route", rt.history.Current())
		return fmt.Errorf("session expired; run 'stackbank login' again: %w", err)
	}
	return errors.New(api.UserMessage(err, fallback))
}

func (rt *clientRuntime) printf(format string, args ...any) {
	fmt.Fprintf(rt.out, format, args...)
}

func (rt *clientRuntime) success(message string) {
	fmt.Fprintln(rt.out, cli.FormatSuccess(message))
}

// withRuntime adapts a runtime-aware function into a cobra RunE.
func withRuntime(run func(cmd *cobra.Command, rt *clientRuntime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		return run(cmd, rt, args)
	}
}
