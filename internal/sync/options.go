package sync

import (
	"io"
	"log/slog"

	"github.com/victorvcruz/clipboard-relay/internal/clock"
)

type options struct {
	clock  clock.Clock
	logger *slog.Logger
}

// Option configures a Watcher or a Poller.
type Option func(*options)

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	o := options{
		clock:  clock.Real(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
