// Package tvdb is a minimal TheTVDB v4 client covering search, extended
// records, and artwork lookups, with lazy bearer-token management.
package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api4.thetvdb.com/v4"
	// The API does not report token lifetime; tokens are treated as
	// valid for an hour and refreshed after that.
	tokenValidity = time.Hour

	maxBodyBytes = 8 << 20
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Log        *zap.Logger

	apiKey string
	pin    string

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// Option configures the Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.BaseURL = u
		}
	}
}

func WithPin(pin string) Option {
	return func(c *Client) {
		if pin != "" {
			c.pin = pin
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.Log = log
		}
	}
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Log:        zap.NewNop(),
		apiKey:     apiKey,
		pin:        "hello world",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NeedsLogin reports whether the session is unusable: no token yet, or a
// recorded expiry that has passed.
func (c *Client) NeedsLogin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.needsLoginLocked()
}

func (c *Client) needsLoginLocked() bool {
	if c.token == "" {
		return true
	}
	return !c.expiresAt.IsZero() && !time.Now().Before(c.expiresAt)
}

// EnsureSession refreshes the session if needed. The check runs under the
// read lock; a refresh takes the write lock and re-checks first, so a
// caller that waited on another refresh does not log in again. Two callers
// can still race past the cheap check and log in back to back; both
// succeed and the session ends valid.
func (c *Client) EnsureSession(ctx context.Context) error {
	c.mu.RLock()
	need := c.needsLoginLocked()
	c.mu.RUnlock()
	if !need {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.needsLoginLocked() {
		return nil
	}
	return c.loginLocked(ctx)
}

// Login authenticates unconditionally, replacing any current token.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginLocked(ctx)
}

func (c *Client) loginLocked(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"apikey": c.apiKey, "pin": c.pin})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("tvdb: login: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("tvdb: login: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Not a hard failure: the session stays as it was and the
		// next request will try again.
		c.Log.Error("tvdb token refresh failed", zap.Int("status", resp.StatusCode))
		return nil
	}

	var env envelope[struct {
		Token string `json:"token"`
	}]
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("tvdb: login decode: %w", err)
	}
	c.token = env.Data.Token
	c.expiresAt = time.Now().Add(tokenValidity)
	c.Log.Info("tvdb token refreshed")
	return nil
}

func (c *Client) bearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Search queries the catalog. A non-success status is an empty result,
// not an error.
func (c *Client) Search(ctx context.Context, query string) ([]Record, error) {
	return getData[[]Record](ctx, c, "/search", url.Values{"query": {query}})
}

func (c *Client) SeriesExtended(ctx context.Context, seriesID int64) (*SeriesExtended, error) {
	return getData[*SeriesExtended](ctx, c, "/series/"+strconv.FormatInt(seriesID, 10)+"/extended", nil)
}

// SeriesArtworks fetches series artworks, optionally filtered by artwork
// type code when artType > 0.
func (c *Client) SeriesArtworks(ctx context.Context, seriesID, artType int64) (*ArtworkList, error) {
	params := url.Values{}
	if artType > 0 {
		params.Set("type", strconv.FormatInt(artType, 10))
	}
	return getData[*ArtworkList](ctx, c, "/series/"+strconv.FormatInt(seriesID, 10)+"/artworks", params)
}

func (c *Client) MovieExtended(ctx context.Context, movieID int64) (*MovieExtended, error) {
	return getData[*MovieExtended](ctx, c, "/movies/"+strconv.FormatInt(movieID, 10)+"/extended", nil)
}

func (c *Client) SeasonExtended(ctx context.Context, seasonID int64) (*SeasonExtended, error) {
	return getData[*SeasonExtended](ctx, c, "/seasons/"+strconv.FormatInt(seasonID, 10)+"/extended", nil)
}

// envelope is the single-field wrapper every successful payload arrives in.
type envelope[T any] struct {
	Data T `json:"data"`
}

// getData performs an authenticated GET. A non-2xx status yields the zero
// value with a nil error: the provider reports both "no such record" and
// lookup rejections the same way. Transport and decode failures are
// returned as errors.
func getData[T any](ctx context.Context, c *Client, path string, params url.Values) (T, error) {
	var zero T

	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Accept", "application/json")
	if token := c.bearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("tvdb: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return zero, fmt.Errorf("tvdb: get %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.Log.Debug("tvdb lookup returned non-success", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return zero, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(b, &env); err != nil {
		return zero, fmt.Errorf("tvdb: decode %s: %w", path, err)
	}
	return env.Data, nil
}
