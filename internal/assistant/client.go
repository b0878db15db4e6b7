package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"chanakya/internal/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// Client issues the /listen and /execute calls. One attempt per call; no retry.
type Client struct {
	baseURL     string
	listenPath  string
	executePath string
	userAgent   string
	timeout     time.Duration
	http        *http.Client
	logger      *logrus.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request; zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithPaths overrides the endpoint paths.
func WithPaths(listen, execute string) Option {
	return func(c *Client) {
		if listen != "" {
			c.listenPath = listen
		}
		if execute != "" {
			c.executePath = execute
		}
	}
}

// New returns a Client for the service at baseURL.
func New(baseURL string, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		listenPath:  "/listen",
		executePath: "/execute",
		userAgent:   "chanakya",
		http:        &http.Client{},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds a Client from the [assistant] section.
func NewFromConfig(cfg *config.Config, logger *logrus.Logger) *Client {
	return New(cfg.Assistant.BaseURL, logger,
		WithPaths(cfg.Assistant.ListenPath, cfg.Assistant.ExecutePath),
		WithUserAgent(cfg.Assistant.UserAgent),
		WithTimeout(cfg.Timeout()),
	)
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Listen asks the service to capture and interpret one voice command.
func (c *Client) Listen(ctx context.Context) (Result, error) {
	return c.post(ctx, c.listenPath, nil)
}

// Execute submits a typed command.
func (c *Client) Execute(ctx context.Context, command string) (Result, error) {
	return c.post(ctx, c.executePath, ExecuteRequest{Command: command})
}

// Ping checks that the service root answers at all.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrStatus, resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (Result, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Result{}, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return Result{}, err
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)

	log := c.logger.WithFields(logrus.Fields{"path": path, "request_id": reqID})
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("request failed: %v", err)
		return Result{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Warnf("read body: %v", err)
		return Result{}, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warnf("status %d", resp.StatusCode)
		return Result{}, fmt.Errorf("%w: status %d: %s", ErrStatus, resp.StatusCode, snippet(data))
	}
	res, err := Decode(data)
	if err != nil {
		log.Warnf("decode: %v", err)
		return Result{}, err
	}
	log.WithFields(logrus.Fields{
		"action":  res.Action,
		"status":  res.Status,
		"elapsed": time.Since(started).Round(time.Millisecond),
	}).Debug("assistant replied")
	return res, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// snippet trims a response body for error text, cutting on a rune boundary.
func snippet(data []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(data))
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
