package tracemoe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/metrics"
)

const (
	// authHeader carries the trace.moe API key.
	authHeader = "x-trace-key"

	defaultUserAgent = "scenefinder/1.0.0"
)

// Config holds the configuration for the trace.moe client
type Config struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	UserAgent    string
	MaxImageSize int64
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:      "https://api.trace.moe",
		Timeout:      30 * time.Second,
		UserAgent:    defaultUserAgent,
		MaxImageSize: domain.MaxImageSize,
	}
}

// Client talks to the trace.moe API over a single lazily created session.
// The session is shared by concurrent requests; only its creation and
// teardown are serialized.
type Client struct {
	config Config
	logger *slog.Logger

	mu      sync.Mutex
	session *http.Client
}

// NewClient creates a new trace.moe client. No connection is opened until
// the first request.
func NewClient(config Config, logger *slog.Logger) *Client {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.MaxImageSize <= 0 {
		config.MaxImageSize = defaults.MaxImageSize
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		config: config,
		logger: logger,
	}
}

// EnsureSession returns the live session, creating it on first use or after
// Close.
func (c *Client) EnsureSession() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		c.session = &http.Client{
			Timeout: c.config.Timeout,
			Transport: &userAgentTransport{
				base:      transport,
				userAgent: c.config.UserAgent,
			},
		}
		c.logger.Debug("tracemoe session created", slog.Duration("timeout", c.config.Timeout))
	}

	return c.session
}

// Close releases the session. Calling it again, or before any request, is a
// no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	c.session.CloseIdleConnections()
	c.session = nil
	c.logger.Debug("tracemoe session closed")

	return nil
}

// hasSession reports whether a session is currently open.
func (c *Client) hasSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Guest reports whether requests are sent without an API key.
func (c *Client) Guest() bool {
	return c.config.APIKey == ""
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

func (t *userAgentTransport) CloseIdleConnections() {
	if ci, ok := t.base.(interface{ CloseIdleConnections() }); ok {
		ci.CloseIdleConnections()
	}
}

// response is a fully read upstream reply.
type response struct {
	status int
	body   []byte
}

// doRequest executes a single request through the shared session. Transport
// failures are classified before any status is seen; the body is read up to
// limit bytes (limit <= 0 means unbounded) and truncation is reported via
// errBodyTooLarge.
func (c *Client) doRequest(ctx context.Context, operation string, req *http.Request, authenticate bool, limit int64) (*response, error) {
	session := c.EnsureSession()

	if authenticate && c.config.APIKey != "" {
		req.Header.Set(authHeader, c.config.APIKey)
	}

	start := time.Now()
	resp, err := session.Do(req.WithContext(ctx))
	if err != nil {
		appErr := domain.ClassifyTransport(err)
		metrics.ObserveUpstream(operation, transportOutcome(appErr), time.Since(start))
		c.logger.Warn("tracemoe request failed",
			slog.String("operation", operation),
			slog.String("code", appErr.Code),
			slog.Any("error", err),
		)
		return nil, appErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	metrics.RecordStatus(operation, strconv.Itoa(resp.StatusCode))

	if limit > 0 && isSuccess(resp.StatusCode) && resp.ContentLength > limit {
		metrics.ObserveUpstream(operation, metrics.OutcomeDenied, time.Since(start))
		return nil, errBodyTooLarge
	}

	var reader io.Reader = resp.Body
	if limit > 0 {
		reader = io.LimitReader(resp.Body, limit+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		appErr := domain.ClassifyTransport(fmt.Errorf("read response: %w", err))
		metrics.ObserveUpstream(operation, transportOutcome(appErr), time.Since(start))
		return nil, appErr
	}

	latency := time.Since(start)
	outcome := metrics.OutcomeOK
	if !isSuccess(resp.StatusCode) {
		outcome = metrics.OutcomeError
	}
	metrics.ObserveUpstream(operation, outcome, latency)

	c.logger.Debug("tracemoe request",
		slog.String("operation", operation),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
		slog.Int("bytes", len(body)),
	)

	if limit > 0 && isSuccess(resp.StatusCode) && int64(len(body)) > limit {
		return nil, errBodyTooLarge
	}

	return &response{status: resp.StatusCode, body: body}, nil
}

var errBodyTooLarge = errors.New("response body exceeds limit")

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func transportOutcome(err *domain.AppError) string {
	if err.Code == domain.CodeRequestTimeout {
		return metrics.OutcomeTimeout
	}
	return metrics.OutcomeNetwork
}

func (c *Client) endpoint(path string, query string) string {
	if query == "" {
		return c.config.BaseURL + path
	}
	return c.config.BaseURL + path + "?" + query
}
