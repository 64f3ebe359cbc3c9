package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Client fetches product feeds from the upstream storefront backend.
// The bearer token is attached as-is; token lifecycle is the caller's concern.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *log.Logger
}

func NewClient(baseURL, token string, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// FetchCategory retrieves and normalizes GET /api/products/{category}.
func (c *Client) FetchCategory(ctx context.Context, category string) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/api/products/%s", c.baseURL, url.PathEscape(category))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s products: %w", category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s products: upstream status %d: %s", category, resp.StatusCode, body)
	}

	var raws []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode %s products: %w", category, err)
	}
	return raws, nil
}

// Refresh replaces the store contents with the union of the given categories.
// Records that fail normalization are logged and skipped.
func (c *Client) Refresh(ctx context.Context, store *Store, categories []string) error {
	var all []json.RawMessage
	for _, category := range categories {
		raws, err := c.FetchCategory(ctx, category)
		if err != nil {
			return err
		}
		all = append(all, raws...)
	}
	store.Replace(NormalizeAll(all, c.logger))
	return nil
}
