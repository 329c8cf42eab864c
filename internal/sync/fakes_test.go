package sync

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/victorvcruz/clipboard-relay/internal/clipboard"
	"github.com/victorvcruz/clipboard-relay/internal/clock"
)

const testPath = "/api/clipboard/tok"

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClipboard struct {
	mu       sync.Mutex
	text     string
	writes   []string
	writeErr error
	attempts int

	// onWrite runs before the write is recorded, on the writer's
	// goroutine.
	onWrite func(text string)
}

func (c *fakeClipboard) Read() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, c.text != ""
}

func (c *fakeClipboard) Write(text string) error {
	if c.onWrite != nil {
		c.onWrite(text)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if c.writeErr != nil {
		return c.writeErr
	}
	clean := clipboard.Normalize(text)
	if clean == "" {
		return clipboard.ErrEmptyAfterClean
	}
	c.writes = append(c.writes, clean)
	c.text = clean
	return nil
}

func (c *fakeClipboard) set(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

func (c *fakeClipboard) writeAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

func (c *fakeClipboard) written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

type postCall struct {
	Path string
	Body string
}

type fakeTransport struct {
	mu       sync.Mutex
	getBody  string
	getErr   error
	postErrs []error
	postErr  error
	emptyAck bool
	gets     int
	posts    []postCall

	// gotGet receives a value after every Get when non-nil.
	gotGet chan struct{}
}

func (t *fakeTransport) Get(ctx context.Context, path string) (string, error) {
	t.mu.Lock()
	t.gets++
	body, err := t.getBody, t.getErr
	t.mu.Unlock()
	if t.gotGet != nil {
		t.gotGet <- struct{}{}
	}
	return body, err
}

func (t *fakeTransport) Post(ctx context.Context, path, body string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.posts = append(t.posts, postCall{Path: path, Body: body})
	if len(t.postErrs) > 0 {
		err := t.postErrs[0]
		t.postErrs = t.postErrs[1:]
		if err != nil {
			return "", err
		}
		return `{"ok":true}`, nil
	}
	if t.postErr != nil {
		return "", t.postErr
	}
	if t.emptyAck {
		return "", nil
	}
	return `{"ok":true}`, nil
}

func (t *fakeTransport) postCalls() []postCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]postCall(nil), t.posts...)
}

func (t *fakeTransport) getCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gets
}

func newTestWatcher(state *State, cb Clipboard, tr Transport, c clock.Clock) *Watcher {
	return NewWatcher(state, cb, tr, testPath, WithClock(c), WithLogger(discardLogger()))
}

func newTestPoller(state *State, cb Clipboard, tr Transport, c clock.Clock) *Poller {
	return NewPoller(state, cb, tr, testPath, DefaultPollInterval, WithClock(c), WithLogger(discardLogger()))
}
