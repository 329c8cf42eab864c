package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/victorvcruz/clipboard-relay/internal/clipboard"
	"github.com/victorvcruz/clipboard-relay/internal/clock"
)

const (
	LocalPollInterval = 100 * time.Millisecond
	SendAttempts      = 3
	SendRetryDelay    = time.Second
)

// ErrEmptyAcknowledgement is returned when the server accepts a POST
// with a 2xx status but an empty body.
var ErrEmptyAcknowledgement = errors.New("server acknowledged with an empty body")

// Watcher polls the local clipboard and posts genuine local changes to
// the server.
type Watcher struct {
	state     *State
	clipboard Clipboard
	transport Transport
	path      string
	clock     clock.Clock
	logger    *slog.Logger

	// watermark is the last clipboard value this watcher has seen. It
	// is only touched from the watcher goroutine.
	watermark string
}

func NewWatcher(state *State, cb Clipboard, transport Transport, path string, opts ...Option) *Watcher {
	o := buildOptions(opts)
	return &Watcher{
		state:     state,
		clipboard: cb,
		transport: transport,
		path:      path,
		clock:     o.clock,
		logger:    o.logger.With("worker", "local-watcher"),
	}
}

// Run blocks until the shared state is stopped or ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	w.prime()
	w.logger.Info("watching local clipboard", "interval", LocalPollInterval)

	for {
		if !w.sleep(ctx, LocalPollInterval) || !w.state.Running() {
			w.logger.Debug("local watcher stopped")
			return nil
		}
		w.check(ctx)
	}
}

// prime records whatever is already on the clipboard so that it is not
// pushed to the server on startup.
func (w *Watcher) prime() {
	w.state.WithLock(func(*Locked) {
		if current, ok := w.clipboard.Read(); ok {
			w.watermark = current
		}
	})
}

// check runs one poll cycle and reports whether a value was delivered.
func (w *Watcher) check(ctx context.Context) bool {
	var (
		value   string
		changed bool
	)
	w.state.WithLock(func(l *Locked) {
		current, ok := w.clipboard.Read()
		if !ok || current == w.watermark || l.EchoSuppressed() {
			return
		}
		w.watermark = current
		if clipboard.Normalize(current) == clipboard.Normalize(l.LastValue()) {
			// Already in sync, typically because the poller just wrote it.
			return
		}
		value, changed = current, true
	})
	if !changed {
		return false
	}

	w.logger.Debug("local clipboard changed",
		"state", WatcherDetected,
		w.valueAttr(ctx, value),
	)
	return w.send(ctx, value)
}

func (w *Watcher) send(ctx context.Context, value string) bool {
	body := EncodeEnvelope(value)

	for attempt := 1; attempt <= SendAttempts; attempt++ {
		w.logger.Debug("sending local change",
			"state", WatcherSending,
			"attempt", attempt,
		)
		resp, err := w.transport.Post(ctx, w.path, body)
		if err == nil && resp == "" {
			err = ErrEmptyAcknowledgement
		}
		if err == nil {
			w.state.SetLastValue(value)
			w.logger.Info("local change sent", w.valueAttr(ctx, value))
			return true
		}

		if attempt == SendAttempts {
			w.logger.Error("failed to send local change",
				"attempts", SendAttempts,
				"error", err,
			)
			return false
		}

		w.logger.Warn("failed to send local change, retrying",
			"state", WatcherRetrying,
			"attempt", attempt,
			"max_attempts", SendAttempts,
			"error", err,
		)
		if !w.sleep(ctx, SendRetryDelay) {
			return false
		}
	}
	return false
}

func (w *Watcher) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-w.state.Done():
		return false
	case <-w.clock.After(d):
		return true
	}
}

func (w *Watcher) valueAttr(ctx context.Context, value string) slog.Attr {
	return clipboard.LogValue(value, w.logger.Enabled(ctx, slog.LevelDebug))
}
