// Package request is the outbound HTTP client for upstream data providers,
// with response caching, per-provider serialization and retry with backoff.
package request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"sunviewgo/pkg/cache"
	"sunviewgo/pkg/version"
)

var defaultUserAgent = fmt.Sprintf("SunView/%s", version.Version)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.Status)
}

// Client handles GET requests with caching and per-provider backoff.
type Client struct {
	httpClient *http.Client
	cache      cache.Cacher
	backoff    *ProviderBackoff
	retries    int

	// One mutex per provider keeps us from hammering a host in parallel.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Client. retries < 1 defaults to 3.
func New(c cache.Cacher, timeout time.Duration, retries int, backoff *ProviderBackoff) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if retries < 1 {
		retries = 3
	}
	if backoff == nil {
		backoff = NewProviderBackoff(500*time.Millisecond, 30*time.Second)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		backoff:    backoff,
		retries:    retries,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Get performs a GET request, caching the body under cacheKey if non-empty.
func (c *Client) Get(ctx context.Context, u, cacheKey string) ([]byte, error) {
	return c.GetWithHeaders(ctx, u, nil, cacheKey)
}

// GetWithHeaders performs a GET request with custom headers and optional caching.
func (c *Client) GetWithHeaders(ctx context.Context, u string, headers map[string]string, cacheKey string) ([]byte, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	provider := parsedURL.Host

	if cacheKey != "" {
		if val, hit := c.cache.GetCache(ctx, cacheKey); hit {
			slog.Debug("Cache hit", "provider", provider, "key", cacheKey)
			return val, nil
		}
	}

	lock := c.providerLock(provider)
	lock.Lock()
	defer lock.Unlock()

	body, err := c.execute(ctx, u, headers, provider)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if err := c.cache.SetCache(ctx, cacheKey, body); err != nil {
			slog.Error("Failed to cache response", "url", u, "error", err)
		}
	}
	return body, nil
}

func (c *Client) providerLock(provider string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[provider]
	if !ok {
		l = &sync.Mutex{}
		c.locks[provider] = l
	}
	return l
}

// execute attempts the request up to c.retries times, honoring the
// provider's backoff window between attempts.
func (c *Client) execute(ctx context.Context, u string, headers map[string]string, provider string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.backoff.Wait(provider)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		if req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", defaultUserAgent)
		}

		body, err := c.do(req)
		if err == nil {
			c.backoff.RecordSuccess(provider)
			return body, nil
		}
		lastErr = err
		c.backoff.RecordFailure(provider)

		// Client errors will not improve on retry.
		var se *StatusError
		if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
			return nil, err
		}
		slog.Warn("Upstream request failed", "url", u, "attempt", attempt+1, "error", err)
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retries, lastErr)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: req.URL.String(), Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
