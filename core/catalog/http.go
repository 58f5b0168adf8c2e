package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"vinyl-scout/core/metrics"
	"vinyl-scout/core/ratelimit"
)

// HTTPClient is the real catalog API client. Every call acquires a rate
// limiter token before dialing and retries HTTP 429 with exponential
// backoff (1s, 2s, 4s, 8s, 16s) honoring Retry-After.
//
// Safe for concurrent use; each request builds its own http.Request.
type HTTPClient struct {
	baseURL        string
	token          string
	userAgent      string
	client         *http.Client
	limiter        *ratelimit.Limiter
	logger         *zap.Logger
	maxRetries     int
	retryBaseDelay time.Duration
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a catalog client from configuration. The limiter is
// shared with every other component performing outbound calls.
func NewHTTPClient(cfg Config, limiter *ratelimit.Limiter, logger *zap.Logger) *HTTPClient {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &HTTPClient{
		baseURL:   cfg.BaseURL,
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout:   timeoutDuration,
			Transport: transport,
		},
		limiter:        limiter,
		logger:         logger,
		maxRetries:     maxRetries,
		retryBaseDelay: 1 * time.Second,
	}
}

// Search runs a free-text release search. An empty result set is a success.
func (c *HTTPClient) Search(ctx context.Context, query string) (*SearchResults, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "release")

	var results SearchResults
	if err := c.do(ctx, http.MethodGet, "/database/search", params, &results, "search"); err != nil {
		return nil, err
	}
	return &results, nil
}

// GetRelease fetches full metadata for one release.
func (c *HTTPClient) GetRelease(ctx context.Context, releaseID int64) (*Release, error) {
	var release Release
	path := fmt.Sprintf("/releases/%d", releaseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &release, "release"); err != nil {
		return nil, err
	}
	return &release, nil
}

// GetPriceSuggestions fetches the condition-grade price map for a release.
func (c *HTTPClient) GetPriceSuggestions(ctx context.Context, releaseID int64) (PriceSuggestions, error) {
	var prices PriceSuggestions
	path := fmt.Sprintf("/marketplace/price_suggestions/%d", releaseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &prices, "prices"); err != nil {
		return nil, err
	}
	return prices, nil
}

// GetCollectionStatus checks both collection and wantlist membership.
// The remote reports absence as 404, which is data here, not a failure.
func (c *HTTPClient) GetCollectionStatus(ctx context.Context, username string, releaseID int64) (*CollectionStatus, error) {
	status := &CollectionStatus{}

	var instances struct {
		Releases []struct {
			InstanceID int64 `json:"instance_id"`
		} `json:"releases"`
	}
	path := fmt.Sprintf("/users/%s/collection/releases/%d", url.PathEscape(username), releaseID)
	err := c.do(ctx, http.MethodGet, path, nil, &instances, "status")
	switch {
	case err == nil:
		if len(instances.Releases) > 0 {
			status.IsInCollection = true
			status.InstanceID = instances.Releases[0].InstanceID
		}
	case errors.Is(err, ErrNotFound):
		// Not in collection.
	default:
		return nil, err
	}

	path = fmt.Sprintf("/users/%s/wants/%d", url.PathEscape(username), releaseID)
	err = c.do(ctx, http.MethodGet, path, nil, nil, "status")
	switch {
	case err == nil:
		status.IsInWantlist = true
	case errors.Is(err, ErrNotFound):
		// Not in wantlist.
	default:
		return nil, err
	}

	return status, nil
}

// AddToCollection adds the release to the user's default folder.
func (c *HTTPClient) AddToCollection(ctx context.Context, username string, releaseID int64) (int64, error) {
	var created struct {
		InstanceID int64 `json:"instance_id"`
	}
	path := fmt.Sprintf("/users/%s/collection/folders/1/releases/%d", url.PathEscape(username), releaseID)
	if err := c.do(ctx, http.MethodPost, path, nil, &created, "collection_add"); err != nil {
		return 0, err
	}
	return created.InstanceID, nil
}

// RemoveFromCollection removes one instance of the release.
func (c *HTTPClient) RemoveFromCollection(ctx context.Context, username string, releaseID, instanceID int64) error {
	path := fmt.Sprintf("/users/%s/collection/folders/1/releases/%d/instances/%d",
		url.PathEscape(username), releaseID, instanceID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, "collection_remove")
}

// AddToWantlist adds the release to the user's wantlist.
func (c *HTTPClient) AddToWantlist(ctx context.Context, username string, releaseID int64) error {
	path := fmt.Sprintf("/users/%s/wants/%d", url.PathEscape(username), releaseID)
	return c.do(ctx, http.MethodPut, path, nil, nil, "wantlist_add")
}

// RemoveFromWantlist removes the release from the user's wantlist.
func (c *HTTPClient) RemoveFromWantlist(ctx context.Context, username string, releaseID int64) error {
	path := fmt.Sprintf("/users/%s/wants/%d", url.PathEscape(username), releaseID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, "wantlist_remove")
}

// pagedRelease is the wire shape shared by collection and wantlist listings.
type pagedRelease struct {
	InstanceID int64 `json:"instance_id"`
	BasicInfo  struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Year    int    `json:"year"`
		Thumb   string `json:"thumb"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Labels []struct {
			Name          string `json:"name"`
			CatalogNumber string `json:"catno"`
		} `json:"labels"`
	} `json:"basic_information"`
}

func (r pagedRelease) toItem() PageItem {
	item := PageItem{
		InstanceID: r.InstanceID,
		ReleaseID:  r.BasicInfo.ID,
		Title:      r.BasicInfo.Title,
		Year:       r.BasicInfo.Year,
		Thumb:      r.BasicInfo.Thumb,
	}
	if len(r.BasicInfo.Artists) > 0 {
		item.Artist = r.BasicInfo.Artists[0].Name
	}
	if len(r.BasicInfo.Labels) > 0 {
		item.Label = r.BasicInfo.Labels[0].Name
		item.CatalogNumber = r.BasicInfo.Labels[0].CatalogNumber
	}
	return item
}

// GetCollectionPage fetches one page of the user's collection.
func (c *HTTPClient) GetCollectionPage(ctx context.Context, username string, page, perPage int) (*Page, error) {
	var envelope struct {
		Pagination Pagination     `json:"pagination"`
		Releases   []pagedRelease `json:"releases"`
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	path := fmt.Sprintf("/users/%s/collection/folders/0/releases", url.PathEscape(username))
	if err := c.do(ctx, http.MethodGet, path, params, &envelope, "collection_page"); err != nil {
		return nil, err
	}

	result := &Page{Pagination: envelope.Pagination, Items: make([]PageItem, 0, len(envelope.Releases))}
	for _, r := range envelope.Releases {
		result.Items = append(result.Items, r.toItem())
	}
	return result, nil
}

// GetWantlistPage fetches one page of the user's wantlist.
func (c *HTTPClient) GetWantlistPage(ctx context.Context, username string, page, perPage int) (*Page, error) {
	var envelope struct {
		Pagination Pagination     `json:"pagination"`
		Wants      []pagedRelease `json:"wants"`
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	path := fmt.Sprintf("/users/%s/wants", url.PathEscape(username))
	if err := c.do(ctx, http.MethodGet, path, params, &envelope, "wantlist_page"); err != nil {
		return nil, err
	}

	result := &Page{Pagination: envelope.Pagination, Items: make([]PageItem, 0, len(envelope.Wants))}
	for _, w := range envelope.Wants {
		result.Items = append(result.Items, w.toItem())
	}
	return result, nil
}

// do performs one API call: rate limiter, auth headers, 429 retry loop,
// status mapping, JSON decode. result may be nil when the body is ignored.
func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, result any, operation string) error {
	if c.token == "" {
		metrics.CatalogRequests.WithLabelValues(operation, "unauthorized").Inc()
		return fmt.Errorf("%w: no access token configured", ErrUnauthorized)
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := c.doWithRetry(ctx, method, reqURL)
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(operation, "error").Inc()
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		metrics.CatalogRequests.WithLabelValues(operation, "unauthorized").Inc()
		return fmt.Errorf("%w: HTTP %d on %s", ErrUnauthorized, resp.StatusCode, path)
	case resp.StatusCode == http.StatusNotFound:
		metrics.CatalogRequests.WithLabelValues(operation, "not_found").Inc()
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.CatalogRequests.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("catalog: unexpected HTTP %d on %s", resp.StatusCode, path)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			metrics.CatalogRequests.WithLabelValues(operation, "malformed").Inc()
			return fmt.Errorf("%w: decoding %s: %v", ErrMalformedResponse, path, err)
		}
	}

	metrics.CatalogRequests.WithLabelValues(operation, "success").Inc()
	return nil
}

// doWithRetry issues the request, retrying HTTP 429 with exponential
// backoff. The context is honored during backoff waits.
func (c *HTTPClient) doWithRetry(ctx context.Context, method, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("catalog: building request: %w", err)
		}
		req.Header.Set("Authorization", "Discogs token="+c.token)
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			return nil, fmt.Errorf("%w: still throttled after %d retries", ErrRateLimited, c.maxRetries)
		}

		// Exponential backoff: 1s, 2s, 4s, 8s, 16s, unless the remote
		// tells us exactly how long to wait.
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter != "" {
			if seconds, parseErr := strconv.Atoi(retryAfter); parseErr == nil {
				delay = time.Duration(seconds) * time.Second
			}
		}

		c.logger.Debug("catalog throttled, backing off",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
