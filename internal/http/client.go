package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/handiism/jimeng-imagegen/internal/model"
)

// DefaultUserAgent identifies the downloader to image hosts.
const DefaultUserAgent = "jimeng-imagegen"

// Client wraps HTTP GETs for image downloads.
//
// Example usage:
//
//	client := NewClient()
//	data, err := client.DownloadBytes(ctx, imageURL)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 60 second timeout
//   - DefaultUserAgent
func NewClient() *Client {
	return NewClientWith(&http.Client{Timeout: 60 * time.Second})
}

// NewClientWith creates a Client around an existing *http.Client.
func NewClientWith(hc *http.Client) *Client {
	return &Client{
		httpClient: hc,
		userAgent:  DefaultUserAgent,
	}
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns a *model.NetworkError if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &model.NetworkError{Op: "GET", URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.NetworkError{Op: "GET", URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.NetworkError{Op: "GET", URL: url, Err: fmt.Errorf("HTTP %s", resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.NetworkError{Op: "GET", URL: url, Err: err}
	}
	return data, nil
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Generated images are a few megabytes at most, so they are held in memory
// and written out in one piece.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}
