package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/victorvcruz/clipboard-relay/internal/clipboard"
	"github.com/victorvcruz/clipboard-relay/internal/clock"
)

const DefaultPollInterval = 5 * time.Second

// Poller fetches the server's value and applies it to the local
// clipboard with echo suppression raised.
type Poller struct {
	state     *State
	clipboard Clipboard
	transport Transport
	path      string
	interval  time.Duration
	clock     clock.Clock
	logger    *slog.Logger
}

func NewPoller(state *State, cb Clipboard, transport Transport, path string, interval time.Duration, opts ...Option) *Poller {
	o := buildOptions(opts)
	return &Poller{
		state:     state,
		clipboard: cb,
		transport: transport,
		path:      path,
		interval:  interval,
		clock:     o.clock,
		logger:    o.logger.With("worker", "remote-poller"),
	}
}

// Run polls immediately and then once per interval until the shared
// state is stopped or ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", p.interval)
	}
	p.logger.Info("polling server", "interval", p.interval)

	for {
		if !p.state.Running() {
			break
		}
		p.poll(ctx)
		if !p.sleep(ctx, p.interval) {
			break
		}
	}
	p.logger.Debug("remote poller stopped")
	return nil
}

// poll runs one fetch cycle and reports whether the clipboard was
// updated.
func (p *Poller) poll(ctx context.Context) bool {
	p.logger.Debug("fetching remote value", "state", PollerFetching)

	body, err := p.transport.Get(ctx, p.path)
	if err != nil {
		p.logger.Warn("failed to fetch remote value", "error", err)
		return false
	}
	if IsEmptyEnvelope(body) {
		p.logger.Debug("no remote update")
		return false
	}

	value, err := DecodeEnvelope(body)
	if err != nil {
		p.logger.Warn("skipping server response", "error", err, "body_length", len(body))
		return false
	}
	if value == "" {
		return false
	}

	var (
		applied  bool
		writeErr error
	)
	p.state.WithLock(func(l *Locked) {
		if value == l.LastValue() {
			return
		}
		l.SetEchoSuppressed(true)
		defer l.SetEchoSuppressed(false)

		writeErr = p.clipboard.Write(value)
		// Recorded whether or not the write landed, so an unchanged
		// remote value is applied at most once.
		l.SetLastValue(value)
		applied = writeErr == nil
	})

	switch {
	case errors.Is(writeErr, clipboard.ErrEmptyAfterClean):
		p.logger.Debug("remote value has no writable text", "body_length", len(body))
		return false
	case writeErr != nil:
		p.logger.Error("failed to apply remote value", "error", writeErr)
		return false
	}
	if applied {
		p.logger.Info("applied remote value",
			"state", PollerApplying,
			clipboard.LogValue(value, p.logger.Enabled(ctx, slog.LevelDebug)),
		)
	}
	return applied
}

func (p *Poller) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-p.state.Done():
		return false
	case <-p.clock.After(d):
		return true
	}
}
