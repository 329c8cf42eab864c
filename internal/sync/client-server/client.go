package clientserver

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	APIBasePath = "/api/clipboard"

	ConnectTimeout = 15 * time.Second
	IOTimeout      = 30 * time.Second

	// MaxResponseSize bounds how much of a response body is read.
	MaxResponseSize int64 = 16 << 20

	securePort = 443
	userAgent  = "ClipboardSync/1.0"
)

// BuildPath returns the endpoint path for a token.
func BuildPath(token string) string {
	return APIBasePath + "/" + token
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient targets host:port, using https when port is 443.
func NewClient(host string, port uint16, opts ...Option) *Client {
	scheme := "http"
	if port == securePort {
		scheme = "https"
	}

	c := &Client{
		baseURL:    scheme + "://" + net.JoinHostPort(host, strconv.Itoa(int(port))),
		httpClient: newHTTPClient(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: ConnectTimeout}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   ConnectTimeout,
		ResponseHeaderTimeout: IOTimeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          4,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   ConnectTimeout + IOTimeout,
	}
}

func (sc *Client) BaseURL() string { return sc.baseURL }

func (sc *Client) Get(ctx context.Context, path string) (string, error) {
	return sc.Do(ctx, http.MethodGet, path, "")
}

func (sc *Client) Post(ctx context.Context, path, body string) (string, error) {
	return sc.Do(ctx, http.MethodPost, path, body)
}

// Do performs one request and returns the response body. Any non-2xx
// status is an error.
func (sc *Client) Do(ctx context.Context, method, path, body string) (string, error) {
	endpoint := sc.baseURL + path

	var reqBody io.Reader
	if method == http.MethodPost {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return "", &TransportError{Op: OpOpen, Method: method, URL: endpoint, Err: stripURL(err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("User-Agent", userAgent)

	sc.logger.Debug("http request", "method", method, "url", RedactURL(endpoint), "body_length", len(body))

	resp, err := sc.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: classify(err), Method: method, URL: endpoint, Err: stripURL(err)}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10)) //nolint:errcheck
		return "", &TransportError{
			Op:         OpStatus,
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        ErrBadStatus,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", &TransportError{Op: OpRead, Method: method, URL: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	sc.logger.Debug("http response",
		"method", method,
		"status", resp.StatusCode,
		"body_length", len(data),
	)
	return string(data), nil
}

// stripURL drops the *url.Error wrapper, whose message repeats the
// request URL and with it the token.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// classify decides whether a round-trip error happened while
// establishing the connection or while exchanging the request.
func classify(err error) Op {
	var (
		dnsErr      *net.DNSError
		opErr       *net.OpError
		recordErr   tls.RecordHeaderError
		certErr     *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
	)
	switch {
	case errors.As(err, &dnsErr):
		return OpConnect
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return OpConnect
	case errors.As(err, &recordErr), errors.As(err, &certErr),
		errors.As(err, &unknownAuth), errors.As(err, &hostErr):
		return OpConnect
	}
	return OpSend
}
