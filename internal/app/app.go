package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/victorvcruz/clipboard-relay/internal/clipboard"
	"github.com/victorvcruz/clipboard-relay/internal/sync"
	clientserver "github.com/victorvcruz/clipboard-relay/internal/sync/client-server"
)

type App struct {
	version string
	config  *Config
	stdout  io.Writer
	stderr  io.Writer

	newClipboard func() (clipboard.Device, error)
}

func New(version string) *App {
	return &App{
		version: version,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		newClipboard: func() (clipboard.Device, error) {
			return clipboard.NewNativeClipboard()
		},
	}
}

// Run parses args and, unless only help or version was requested, syncs
// until ctx is cancelled.
func (a *App) Run(ctx context.Context, args []string) error {
	config, err := ParseConfig(args)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	a.config = config

	if config.ShowHelp {
		PrintUsage(a.stdout)
		return nil
	}

	if config.ShowVersion {
		fmt.Fprintln(a.stdout, a.version)
		return nil
	}

	return a.runSync(ctx)
}

func (a *App) runSync(ctx context.Context) error {
	logger := NewLogger(a.stderr, a.config.Debug).With("session", uuid.NewString())

	device, err := a.newClipboard()
	if err != nil {
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	manager := clipboard.NewManager(device, logger.With("component", "clipboard"))

	client := clientserver.NewClient(
		a.config.Host,
		a.config.Port,
		clientserver.WithLogger(logger.With("component", "transport")),
	)
	path := clientserver.BuildPath(a.config.Token)

	a.printStartupInfo(logger, clientserver.RedactURL(client.BaseURL()+path))

	state := sync.NewState()
	watcher := sync.NewWatcher(state, manager, client, path, sync.WithLogger(logger))
	poller := sync.NewPoller(state, manager, client, path, a.config.PollInterval, sync.WithLogger(logger))

	if err := a.runWorkers(ctx, state, watcher, poller); err != nil {
		return err
	}

	logger.Info("shutting down")
	logger.Info("goodbye")
	return nil
}

func (a *App) printStartupInfo(logger *slog.Logger, endpoint string) {
	logger.Info("starting clipboard sync",
		"version", a.version,
		"server", fmt.Sprintf("%s:%d", a.config.Host, a.config.Port),
		"poll_interval", a.config.PollInterval,
	)
	logger.Debug("api endpoint", "url", endpoint)
	logger.Info("press Ctrl+C to stop")
}

// runWorkers runs both workers until ctx is done, then stops the shared
// state and waits for both to return. Requests in flight at that point
// are allowed to finish.
func (a *App) runWorkers(ctx context.Context, state *sync.State, watcher *sync.Watcher, poller *sync.Poller) error {
	group, groupCtx := errgroup.WithContext(context.WithoutCancel(ctx))

	group.Go(func() error {
		if err := watcher.Run(groupCtx); err != nil {
			return fmt.Errorf("local watcher: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		if err := poller.Run(groupCtx); err != nil {
			return fmt.Errorf("remote poller: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		select {
		case <-ctx.Done():
		case <-groupCtx.Done():
		}
		state.Stop()
		return nil
	})

	return group.Wait()
}
