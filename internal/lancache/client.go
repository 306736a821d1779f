package lancache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// API defines the subset of the lancache monitor HTTP API the dashboard
// consumes. It is implemented by *Client and can be faked in tests.
type API interface {
	FetchCacheInfo(ctx context.Context) (*CacheInfo, error)
	FetchServiceStats(ctx context.Context) ([]ServiceStats, error)
	FetchDownloads(ctx context.Context, count int) ([]Download, error)
	FetchSessionPrefs(ctx context.Context) (*SessionPrefs, error)
	SaveSessionPrefs(ctx context.Context, prefs SessionPrefs) error
}

// Admin defines the maintenance operations. Split from API so read-only
// consumers (the poller) do not see mutating calls.
type Admin interface {
	ClearServiceCache(ctx context.Context, service string) (Operation, error)
	RemoveGameFromCache(ctx context.Context, appID uint32) (Operation, error)
	ResetDatabase(ctx context.Context) (Operation, error)
	ProcessLogs(ctx context.Context) (Operation, error)
	FetchOperation(ctx context.Context, operationID string) (Operation, error)
}

// Ensure Client implements both interfaces at compile time.
var (
	_ API   = (*Client)(nil)
	_ Admin = (*Client)(nil)
)

// Client talks to the lancache monitor HTTP API. Session preferences are
// keyed server-side by the session ID the client sends on every request.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	sessionID string
}

const (
	defaultUserAgent = "cachewatch/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the given base URL (e.g. "http://10.0.0.2:8080").
// A fresh session ID is minted per client; preferences saved through this
// client belong to that session.
func NewClient(serverURL string) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		sessionID: uuid.NewString(),
	}, nil
}

// SessionID returns the session identifier sent with every request.
func (c *Client) SessionID() string {
	return c.sessionID
}

// WebSocketURL returns the ws:// or wss:// address of the push channel.
func (c *Client) WebSocketURL() string {
	ws := *c.baseURL
	switch ws.Scheme {
	case "https":
		ws.Scheme = "wss"
	default:
		ws.Scheme = "ws"
	}
	ws.Path = "/api/ws"
	ws.RawQuery = url.Values{"session": []string{c.sessionID}}.Encode()
	return ws.String()
}

// FetchCacheInfo retrieves cache capacity and hit/miss byte totals.
func (c *Client) FetchCacheInfo(ctx context.Context) (*CacheInfo, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload CacheInfo
	if err := c.do(ctx, http.MethodGet, "/api/cache/info", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchServiceStats retrieves per-service byte counters.
func (c *Client) FetchServiceStats(ctx context.Context) ([]ServiceStats, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload struct {
		Services []ServiceStats `json:"services"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/services", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Services, nil
}

// FetchDownloads retrieves the most recent download sessions. count <= 0
// uses the server default.
func (c *Client) FetchDownloads(ctx context.Context, count int) ([]Download, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/api/downloads/latest"}
	if count > 0 {
		rel.RawQuery = url.Values{"count": []string{strconv.Itoa(count)}}.Encode()
	}
	var payload struct {
		Downloads []Download `json:"downloads"`
	}
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Downloads, nil
}

// FetchSessionPrefs retrieves this session's display preferences.
func (c *Client) FetchSessionPrefs(ctx context.Context) (*SessionPrefs, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload SessionPrefs
	if err := c.do(ctx, http.MethodGet, "/api/prefs", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SaveSessionPrefs persists the session preferences server-side. The caller
// is expected to have pended the change in the optimistic guard first.
func (c *Client) SaveSessionPrefs(ctx context.Context, prefs SessionPrefs) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPut, "/api/prefs", prefs, nil)
}

// ClearServiceCache starts removal of all cached content for one service.
func (c *Client) ClearServiceCache(ctx context.Context, service string) (Operation, error) {
	if c == nil {
		return Operation{}, fmt.Errorf("client is nil")
	}
	if service == "" {
		return Operation{}, fmt.Errorf("service required")
	}
	rel := &url.URL{
		Path:     "/api/cache",
		RawQuery: url.Values{"service": []string{service}}.Encode(),
	}
	var op Operation
	if err := c.doURL(ctx, http.MethodDelete, rel, nil, &op); err != nil {
		return Operation{}, err
	}
	return op, nil
}

// RemoveGameFromCache starts removal of one detected game's cached chunks.
func (c *Client) RemoveGameFromCache(ctx context.Context, appID uint32) (Operation, error) {
	if c == nil {
		return Operation{}, fmt.Errorf("client is nil")
	}
	if appID == 0 {
		return Operation{}, fmt.Errorf("app id required")
	}
	path := fmt.Sprintf("/api/cache/games/%d/remove", appID)
	var op Operation
	if err := c.do(ctx, http.MethodPost, path, nil, &op); err != nil {
		return Operation{}, err
	}
	return op, nil
}

// ResetDatabase starts a full reset of the download history database.
func (c *Client) ResetDatabase(ctx context.Context) (Operation, error) {
	if c == nil {
		return Operation{}, fmt.Errorf("client is nil")
	}
	var op Operation
	if err := c.do(ctx, http.MethodPost, "/api/database/reset", nil, &op); err != nil {
		return Operation{}, err
	}
	return op, nil
}

// ProcessLogs starts a reprocessing pass over the access log.
func (c *Client) ProcessLogs(ctx context.Context) (Operation, error) {
	if c == nil {
		return Operation{}, fmt.Errorf("client is nil")
	}
	var op Operation
	if err := c.do(ctx, http.MethodPost, "/api/logs/process", nil, &op); err != nil {
		return Operation{}, err
	}
	return op, nil
}

// FetchOperation polls the progress of a previously started operation.
func (c *Client) FetchOperation(ctx context.Context, operationID string) (Operation, error) {
	if c == nil {
		return Operation{}, fmt.Errorf("client is nil")
	}
	if operationID == "" {
		return Operation{}, fmt.Errorf("operation id required")
	}
	var op Operation
	if err := c.do(ctx, http.MethodGet, "/api/operations/"+operationID, nil, &op); err != nil {
		return Operation{}, err
	}
	return op, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Session-ID", c.sessionID)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("server url required")
	}
	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https, got %q", serverURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("server url missing host: %q", serverURL)
	}
	return base, nil
}
