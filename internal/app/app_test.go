package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/victorvcruz/clipboard-relay/internal/clipboard"
)

type memoryDevice struct {
	mu   sync.Mutex
	text string
}

func (d *memoryDevice) Read() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text, nil
}

func (d *memoryDevice) Write(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	return nil
}

func (d *memoryDevice) get() string {
	text, _ := d.Read()
	return text
}

// clipboardServer stores one value per token, like the real service.
type clipboardServer struct {
	mu      sync.Mutex
	content string
	posts   []string
}

func (s *clipboardServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/clipboard/tok" {
		http.NotFound(w, r)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(map[string]string{"content": s.content}) //nolint:errcheck
	case http.MethodPost:
		var body struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.content = body.Content
		s.posts = append(s.posts, body.Content)
		w.Write([]byte(`{"ok":true}`)) //nolint:errcheck
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *clipboardServer) snapshot() (string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content, append([]string(nil), s.posts...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func newTestApp(device clipboard.Device) (*App, *bytes.Buffer) {
	var stdout bytes.Buffer
	a := New("test")
	a.stdout = &stdout
	a.stderr = io.Discard
	a.newClipboard = func() (clipboard.Device, error) { return device, nil }
	return a, &stdout
}

func TestAppSyncsBothDirections(t *testing.T) {
	server := &clipboardServer{content: "remote"}
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()
	_, port, _ := net.SplitHostPort(httpServer.Listener.Addr().String())

	device := &memoryDevice{}
	a, _ := newTestApp(device)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx, []string{"-h", "127.0.0.1", "-p", port, "-t", "tok", "-i", "20"})
	}()

	waitFor(t, "remote value on the local clipboard", func() bool { return device.get() == "remote" })

	device.Write("local") //nolint:errcheck
	waitFor(t, "local value on the server", func() bool {
		content, _ := server.snapshot()
		return content == "local"
	})

	// A few more poll cycles must not bounce either value back.
	time.Sleep(100 * time.Millisecond)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	content, posts := server.snapshot()
	if content != "local" {
		t.Fatalf("server content = %q, want %q", content, "local")
	}
	if len(posts) != 1 || posts[0] != "local" {
		t.Fatalf("server received posts %q, want only %q", posts, "local")
	}
	if got := device.get(); got != "local" {
		t.Fatalf("local clipboard = %q, want %q", got, "local")
	}
}

func TestAppHelp(t *testing.T) {
	a, stdout := newTestApp(&memoryDevice{})
	if err := a.Run(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("Run(--help) = %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "Usage: clipboard-relay") {
		t.Fatalf("unexpected help output:\n%s", stdout.String())
	}
}

func TestAppVersion(t *testing.T) {
	a, stdout := newTestApp(&memoryDevice{})
	if err := a.Run(context.Background(), []string{"--version"}); err != nil {
		t.Fatalf("Run(--version) = %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "test" {
		t.Fatalf("version output = %q, want %q", got, "test")
	}
}

func TestAppMissingToken(t *testing.T) {
	a, _ := newTestApp(&memoryDevice{})
	err := a.Run(context.Background(), []string{"-h", "clip.local"})
	if !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("Run without token = %v, want ErrTokenRequired", err)
	}
}

func TestAppClipboardUnavailable(t *testing.T) {
	a, _ := newTestApp(nil)
	a.newClipboard = func() (clipboard.Device, error) {
		return nil, clipboard.ErrUnsupported
	}
	err := a.Run(context.Background(), []string{"-t", "tok"})
	if !errors.Is(err, clipboard.ErrUnsupported) {
		t.Fatalf("Run = %v, want ErrUnsupported", err)
	}
}
