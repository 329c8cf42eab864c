package sync

import "context"

// Clipboard is the local clipboard as seen by the workers. Read reports
// ok=false when there is no text or the clipboard could not be opened.
type Clipboard interface {
	Read() (text string, ok bool)
	Write(text string) error
}

// Transport exchanges envelopes with the remote endpoint.
type Transport interface {
	Get(ctx context.Context, path string) (string, error)
	Post(ctx context.Context, path, body string) (string, error)
}
