package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/zhouzirui/z-chat/backend/internal/model/chat"
)

// ErrNotJSON is returned when the body is not JSON, or is a JSON scalar
// that cannot carry a reply.
var ErrNotJSON = errors.New("response is not a JSON object")

const maxBodyBytes = 1 << 20

// Client talks to the chat backend the way the browser widget does: the
// status code is ignored and the body is decoded as a Reply.
type Client struct {
	baseURL *url.URL
	http    *http.Client

	timeout    time.Duration
	hasTimeout bool
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its cookie jar, if any,
// is kept as is, and hc itself is never modified. Nil keeps the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// New creates a client for the backend at baseURL with its own cookie jar.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Jar: jar}
	}
	if c.hasTimeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// CloseIdleConnections releases pooled connections to the backend.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// StartChat requests the greeting.
func (c *Client) StartChat(ctx context.Context) (chat.Reply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("startchat"), nil)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("build startchat request: %w", err)
	}
	return c.do(req)
}

// Chat posts the full user message and returns the bot reply.
func (c *Client) Chat(ctx context.Context, msg chat.Message) (chat.Reply, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("chat"), bytes.NewReader(body))
	if err != nil {
		return chat.Reply{}, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

func (c *Client) do(req *http.Request) (chat.Reply, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return chat.Reply{}, fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}

	reply, err := decodeReply(data)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("%s returned status %d: %w", req.URL.Path, resp.StatusCode, err)
	}
	return reply, nil
}
