package figma

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
)

const defaultAPIBase = "https://api.figma.com/v1"

// Version is the figmasset library version.
const Version = "1.0.0"

// Doer executes a single HTTP request. *http.Client satisfies it; tests and
// callers with their own transport inject an alternative.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Figma API client. It authenticates every request with a
// personal access token and reports non-2xx responses as *APIError. The
// client performs no retries, caching, or rate limiting.
type Client struct {
	accessToken string
	baseURL     string
	doer        Doer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP capability used for outbound requests.
func WithHTTPClient(d Doer) ClientOption {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithBaseURL overrides the Figma API base URL. Intended for tests.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// NewClient creates a Figma API client with the provided personal access
// token. The default HTTP client is configured with connection pooling,
// disabled HTTP/2 (for large file stability), and a generous timeout for
// very large files.
func NewClient(accessToken string, opts ...ClientOption) *Client {
	c := &Client{
		accessToken: accessToken,
		baseURL:     defaultAPIBase,
		doer: &http.Client{
			Timeout: 10 * time.Minute,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
				ForceAttemptHTTP2:   false,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is returned for any Figma API response with status >= 400. The
// Message is a best-effort extraction of the error detail from the response
// body; it is empty when the body does not decode as Figma's error JSON.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("figma API: status %d", e.StatusCode)
	}
	return fmt.Sprintf("figma API: status %d: %s", e.StatusCode, e.Message)
}

// get issues an authenticated GET to endpoint (no leading slash) with the
// given query parameters and decodes the JSON response body into v.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, v any) error {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.accessToken)

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil && resp.StatusCode < 400 {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		// Error detail is best-effort: a body that fails to decode as
		// Figma's error JSON yields a bare status-code error.
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eb errorBody
		if jsonErr := json.Unmarshal(body, &eb); jsonErr == nil {
			switch {
			case eb.Err != "":
				apiErr.Message = eb.Err
			case eb.Message != "":
				apiErr.Message = eb.Message
			}
		}
		return apiErr
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// GetFile retrieves the complete document tree and metadata for a file.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*FileResponse, error) {
	var fileResp FileResponse
	if err := c.get(ctx, "files/"+fileKey, nil, &fileResp); err != nil {
		return nil, fmt.Errorf("fetch file %s: %w", fileKey, err)
	}
	return &fileResp, nil
}

// GetImages asks the Figma render API to rasterize the given node IDs at
// one scale and format. The returned mapping may omit nodes the service
// could not render.
func (c *Client) GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64) (*ImagesResponse, error) {
	query := url.Values{
		"ids":    {strings.Join(nodeIDs, ",")},
		"format": {format},
		"scale":  {strconv.FormatFloat(scale, 'g', -1, 64)},
	}

	var imgResp ImagesResponse
	if err := c.get(ctx, "images/"+fileKey, query, &imgResp); err != nil {
		return nil, fmt.Errorf("render images for %s at scale %g: %w", fileKey, scale, err)
	}
	return &imgResp, nil
}
