package directory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sedesupport/internal/pagelist"
)

const defaultTimeout = 15 * time.Second

// Client fetches paginated facility records from the external directory API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a directory client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch implements pagelist.FetchFunc. It requests one page of records and
// returns the raw response body for normalization.
func (c *Client) Fetch(ctx context.Context, params pagelist.Params) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse directory url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("limit", strconv.Itoa(params.Limit))
	for k, v := range params.Filters {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch directory page %d: %w", params.Page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read directory response: %w", err)
	}
	return body, nil
}
