// Package directory talks to the remote listing/lookup API that owns the
// business data. This layer never stores businesses itself.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mapleleads/directory-web/internal/domain"
)

// ErrNotFound is returned when a lookup matches no business record.
var ErrNotFound = errors.New("business not found")

// API is the remote directory surface consumed by this service.
type API interface {
	// Search runs a filtered listing query.
	Search(ctx context.Context, filters domain.SearchFilters) (*domain.SearchResult, error)

	// Lookup finds at most one business by industry and phone.
	// Any non-success response maps to ErrNotFound.
	Lookup(ctx context.Context, industry, phone string) (*domain.BusinessRecord, error)

	// Industries returns the enumerated industry list.
	Industries(ctx context.Context) ([]string, error)

	// Cities returns the enumerated city list.
	Cities(ctx context.Context) ([]string, error)
}

// Client is an HTTP client for the remote directory API
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a new directory API client
func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Search runs a filtered listing query against the remote API
func (c *Client) Search(ctx context.Context, filters domain.SearchFilters) (*domain.SearchResult, error) {
	f := filters.Normalized()

	q := url.Values{}
	if f.Query != "" {
		q.Set("query", f.Query)
	}
	if f.Industry != "" {
		q.Set("industry", f.Industry)
	}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.PostalCode != "" {
		q.Set("postal_code", f.PostalCode)
	}
	if f.MinRating > 0 {
		q.Set("min_rating", strconv.FormatFloat(f.MinRating, 'f', 1, 64))
	}
	if f.CompanyName != "" {
		q.Set("company_name", f.CompanyName)
	}
	if f.Phone != "" {
		q.Set("phone", f.Phone)
	}
	q.Set("sort_by", f.SortBy)
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("limit", strconv.Itoa(f.Limit))

	resp, err := c.get(ctx, "/api/v1/services?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to search services: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result domain.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Lookup finds at most one business by industry and phone
func (c *Client) Lookup(ctx context.Context, industry, phone string) (*domain.BusinessRecord, error) {
	body := map[string]string{
		"industry": industry,
		"phone":    phone,
	}

	resp, err := c.post(ctx, "/api/v1/businesses/lookup", body)
	if err != nil {
		return nil, fmt.Errorf("failed to look up business: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrNotFound
	}

	var record domain.BusinessRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &record, nil
}

// Industries returns the enumerated industry list
func (c *Client) Industries(ctx context.Context) ([]string, error) {
	return c.getStrings(ctx, "/api/v1/industries")
}

// Cities returns the enumerated city list
func (c *Client) Cities(ctx context.Context) ([]string, error) {
	return c.getStrings(ctx, "/api/v1/cities")
}

func (c *Client) getStrings(ctx context.Context, path string) ([]string, error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var values []string
	if err := json.NewDecoder(resp.Body).Decode(&values); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return values, nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	c.setHeaders(req)

	return c.httpClient.Do(req)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	c.setHeaders(req)

	return c.httpClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}

// parseError extracts an error message from an API response
func (c *Client) parseError(resp *http.Response) error {
	var apiErr struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
	}

	return fmt.Errorf("API error: status %d", resp.StatusCode)
}
