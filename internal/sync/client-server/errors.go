package clientserver

import (
	"errors"
	"fmt"
	"strings"
)

type Op string

const (
	OpOpen    Op = "open"
	OpConnect Op = "connect"
	OpSend    Op = "send"
	OpStatus  Op = "status"
	OpRead    Op = "read"
)

var ErrBadStatus = errors.New("unexpected HTTP status")

// TransportError reports a failed exchange with the server. None of
// them are fatal; callers decide whether to retry.
type TransportError struct {
	Op         Op
	Method     string
	URL        string
	StatusCode int
	Err        error
}

// Error never includes the token.
func (e *TransportError) Error() string {
	endpoint := RedactURL(e.URL)
	if e.Op == OpStatus {
		return fmt.Sprintf("%s %s: server returned status %d", e.Method, endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %s failed: %v", e.Method, endpoint, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

const redacted = "<redacted>"

// RedactURL hides the token segment of a clipboard endpoint so the URL
// can be logged. Other URLs are returned unchanged.
func RedactURL(endpoint string) string {
	prefix := APIBasePath + "/"
	i := strings.Index(endpoint, prefix)
	if i < 0 || i+len(prefix) == len(endpoint) {
		return endpoint
	}
	return endpoint[:i+len(prefix)] + redacted
}
