package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"brewery-catalog/config"
	"brewery-catalog/internal/model"
)

// Client talks to the brewery directory over HTTP.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
	details   singleflight.Group
}

// NewClient creates a catalog client from the catalog configuration.
func NewClient(cfg config.CatalogConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	var transport http.RoundTripper = &http.Transport{Proxy: http.ProxyFromEnvironment}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			logger.Warn("invalid proxy URL, catalog client will not use a proxy",
				zap.String("proxy", cfg.HTTPProxy), zap.Error(err))
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logger,
	}
}

// ListURL builds the request URL for a listing. A non-blank query switches to
// the search endpoint.
func (c *Client) ListURL(q ListQuery) string {
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = PageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	sort := q.Sort
	if sort == "" {
		sort = model.SortAsc
	}

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort", sort.Param())

	endpoint := c.baseURL
	if search := strings.TrimSpace(q.Query); search != "" {
		endpoint += "/search"
		params.Set("query", search)
	}
	return endpoint + "?" + params.Encode()
}

// List fetches one page of breweries.
func (c *Client) List(ctx context.Context, q ListQuery) ([]model.Brewery, error) {
	body, status, err := c.get(ctx, c.ListURL(q))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", status)
	}

	var breweries []model.Brewery
	if err := json.Unmarshal(body, &breweries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal brewery list: %w", err)
	}
	if breweries == nil {
		breweries = []model.Brewery{}
	}
	return breweries, nil
}

// Get fetches a single brewery. Concurrent calls for the same id share one
// upstream request. The shared request does not inherit any caller's
// cancellation; a caller whose ctx ends stops waiting on its own.
func (c *Client) Get(ctx context.Context, id string) (*model.Brewery, error) {
	ch := c.details.DoChan(id, func() (any, error) {
		return c.fetchDetail(context.WithoutCancel(ctx), id)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		c.logger.Debug("shared in-flight detail request", zap.String("id", id))
	}
	b := *res.Val.(*model.Brewery)
	return &b, nil
}

func (c *Client) fetchDetail(ctx context.Context, id string) (*model.Brewery, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}

	body, status, err := c.get(ctx, c.baseURL+"/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	// Only the body decides: any JSON answer without a string id, whatever
	// the status, means the brewery does not exist.
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("received non-200 status code: %d", status)
		}
		return nil, fmt.Errorf("failed to unmarshal brewery: %w", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrNotFound
	}
	if _, ok := obj["id"].(string); !ok {
		return nil, ErrNotFound
	}

	var b model.Brewery
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal brewery: %w", err)
	}
	return &b, nil
}

func (c *Client) get(ctx context.Context, uri string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("catalog request",
		zap.String("url", uri),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))
	return body, resp.StatusCode, nil
}
