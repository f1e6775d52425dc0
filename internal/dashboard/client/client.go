package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// RiderFetcher is implemented by *Client and can be faked in tests.
type RiderFetcher interface {
	FetchRiders(ctx context.Context) ([]Rider, error)
}

// Dispatcher is the set of board actions an operator can take.
type Dispatcher interface {
	Ring(ctx context.Context, code string) error
	StopRing(ctx context.Context, code string) error
	MarkOnRoute(ctx context.Context, code string) error
	DeleteRider(ctx context.Context, code string) error
	AddRider(ctx context.Context, name string) (string, error)
}

var (
	_ RiderFetcher = (*Client)(nil)
	_ Dispatcher   = (*Client)(nil)
)

var errNoRefreshToken = errors.New("no refresh token")

// Error codes the API uses for a bearer token it will not accept.
const (
	codeInvalidToken = "INVALID_TOKEN"
	codeUnauthorized = "UNAUTHORIZED"
)

const (
	defaultBaseURL   = "http://127.0.0.1:8080"
	defaultUserAgent = "riderboard/1.0"
	requestTimeout   = 5 * time.Second
)

// Client talks to the rider board HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string

	mu           sync.RWMutex
	token        string
	refreshToken string

	// serializes token refreshes so concurrent 401s trade in the refresh
	// token once
	refreshMu sync.Mutex
}

// New builds a Client for the API at baseURL.
func New(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Login authenticates and keeps both tokens for later calls. It returns the
// caller's role.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	if err := c.send(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &resp, ""); err != nil {
		return "", err
	}
	c.mu.Lock()
	c.token = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	c.mu.Unlock()
	return resp.Role, nil
}

func (c *Client) tokens() (access, refresh string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.refreshToken
}

// refresh trades the refresh token for a new access token. stale is the
// access token that was rejected; when another caller already replaced it
// nothing is sent.
func (c *Client) refresh(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	access, refreshToken := c.tokens()
	if access != stale {
		return nil
	}
	if refreshToken == "" {
		return errNoRefreshToken
	}

	var resp refreshResponse
	if err := c.send(ctx, http.MethodPost, "/auth/refresh", refreshRequest{RefreshToken: refreshToken}, &resp, ""); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	c.mu.Lock()
	c.token = resp.AccessToken
	c.mu.Unlock()
	return nil
}

// FetchRiders returns the board in insertion order.
func (c *Client) FetchRiders(ctx context.Context) ([]Rider, error) {
	var riders []Rider
	if err := c.do(ctx, http.MethodGet, "/get_riders", nil, &riders); err != nil {
		return nil, err
	}
	return riders, nil
}

func (c *Client) Ring(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/admin/ring_rider", codeRequest{Code: code}, nil)
}

func (c *Client) StopRing(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/admin/stop_ring", codeRequest{Code: code}, nil)
}

func (c *Client) MarkOnRoute(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/admin/on_route", codeRequest{Code: code}, nil)
}

func (c *Client) DeleteRider(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodDelete, "/delete_rider/"+url.PathEscape(code), nil, nil)
}

// AddRider registers a rider and returns the generated code.
func (c *Client) AddRider(ctx context.Context, name string) (string, error) {
	var resp addRiderResponse
	if err := c.do(ctx, http.MethodPost, "/add_rider", addRiderRequest{Name: name}, &resp); err != nil {
		return "", err
	}
	return resp.Code, nil
}

// do sends an authenticated request. An access token the server rejected as
// expired or invalid is refreshed once and the request retried.
func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	access, _ := c.tokens()
	err := c.send(ctx, method, path, body, dest, access)
	if access == "" || !sessionExpired(err) {
		return err
	}
	if rerr := c.refresh(ctx, access); rerr != nil {
		return err
	}
	access, _ = c.tokens()
	return c.send(ctx, method, path, body, dest, access)
}

func sessionExpired(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return false
	}
	return apiErr.Code == codeInvalidToken || apiErr.Code == codeUnauthorized
}

func (c *Client) send(ctx context.Context, method, path string, body, dest any, token string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
