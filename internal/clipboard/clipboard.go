package clipboard

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/victorvcruz/clipboard-relay/internal/clock"
)

const (
	accessAttempts = 5
	accessDelay    = 100 * time.Millisecond
)

// Device is the raw OS clipboard. Read returns "" with a nil error when
// the clipboard holds no text.
type Device interface {
	Read() (string, error)
	Write(text string) error
}

// Manager adds the retry and normalization rules on top of a Device.
type Manager struct {
	device   Device
	logger   *slog.Logger
	clock    clock.Clock
	attempts int
	delay    time.Duration
}

type ManagerOption func(*Manager)

// WithClock sets the clock used between access attempts.
func WithClock(c clock.Clock) ManagerOption {
	return func(m *Manager) { m.clock = c }
}

func NewManager(device Device, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		device:   device,
		logger:   logger,
		clock:    clock.Real(),
		attempts: accessAttempts,
		delay:    accessDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Read returns the clipboard text. ok is false when the clipboard holds
// no text or could not be opened after all attempts.
func (cm *Manager) Read() (text string, ok bool) {
	var err error
	for attempt := 1; attempt <= cm.attempts; attempt++ {
		text, err = cm.device.Read()
		if err == nil {
			return text, text != ""
		}
		if errors.Is(err, ErrUnsupported) {
			break
		}
		cm.logger.Debug("clipboard read failed",
			"attempt", attempt,
			"max_attempts", cm.attempts,
			"error", err,
		)
		if attempt < cm.attempts {
			<-cm.clock.After(cm.delay)
		}
	}
	cm.logger.Debug("clipboard unavailable", "error", &ClipboardError{Op: OpOpen, Err: err})
	return "", false
}

// Write normalizes text and stores it on the clipboard.
func (cm *Manager) Write(text string) error {
	clean := Normalize(text)
	if clean == "" {
		return ErrEmptyAfterClean
	}

	var err error
	for attempt := 1; attempt <= cm.attempts; attempt++ {
		if err = cm.device.Write(clean); err == nil {
			cm.logger.Debug("clipboard written",
				"original_length", len(text),
				"length", len(clean),
			)
			return nil
		}
		if errors.Is(err, ErrUnsupported) {
			break
		}
		cm.logger.Debug("clipboard write failed",
			"attempt", attempt,
			"max_attempts", cm.attempts,
			"error", err,
		)
		if attempt < cm.attempts {
			<-cm.clock.After(cm.delay)
		}
	}
	return &ClipboardError{
		Op:  OpWrite,
		Err: fmt.Errorf("after %d attempts: %w", cm.attempts, err),
	}
}

// Normalize strips NUL and carriage-return bytes.
func Normalize(text string) string {
	if !strings.ContainsAny(text, "\x00\r") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if c := text[i]; c != 0 && c != '\r' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
