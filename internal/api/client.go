// Package api is the HTTP client for the shop backend: one call to
// fetch the catalog and one to submit an order. Everything else in the
// app treats these as opaque async operations.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"webstall/internal/model"
)

// Client talks to the shop API. CDN is the asset host prepended to the
// relative image paths the catalog endpoint returns.
type Client struct {
	base string
	cdn  string
	http *http.Client
}

// New returns a client for the API at base with the given asset host.
// timeout bounds each request; zero means 10 seconds.
func New(base, cdn string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		cdn:  strings.TrimRight(cdn, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// listResponse is the catalog wire shape.
type listResponse struct {
	Total int          `json:"total"`
	Items []model.Item `json:"items"`
}

// apiError is the error wire shape for non-2xx responses.
type apiError struct {
	Error string `json:"error"`
}

// FetchCatalog returns the full item list with image URLs already
// prefixed by the CDN host.
func (c *Client) FetchCatalog(ctx context.Context) ([]model.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/product", nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range list.Items {
		list.Items[i].Image = c.assetURL(list.Items[i].Image)
	}
	return list.Items, nil
}

// SubmitOrder posts the finalized draft and returns the receipt.
func (c *Client) SubmitOrder(ctx context.Context, order model.Order) (model.Receipt, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("encode order: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/order", bytes.NewReader(body))
	if err != nil {
		return model.Receipt{}, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return model.Receipt{}, fmt.Errorf("submit order: %w", err)
	}
	var receipt model.Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return model.Receipt{}, fmt.Errorf("decode receipt: %w", err)
	}
	return receipt, nil
}

// assetURL prefixes a relative image path with the CDN host. Absolute
// URLs pass through untouched.
func (c *Client) assetURL(path string) string {
	if path == "" || c.cdn == "" {
		return path
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.cdn + path
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var ae apiError
	if json.Unmarshal(data, &ae) == nil && ae.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, ae.Error)
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}
