// Package client submits captures to a highlights server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/highlights/pkg/core"
)

// DefaultEndpoint is where the server listens by default.
const DefaultEndpoint = "http://localhost:3000/save-text"

// Client posts captures to a single endpoint. It never retries.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

// New returns a Client for endpoint. An empty endpoint means DefaultEndpoint.
func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts c and returns the server's confirmation text.
// Any non-2xx answer is an error carrying the response body.
func (cl *Client) Send(ctx context.Context, c core.Capture) (string, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode capture: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cl.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send capture: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	msg := strings.TrimSpace(string(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("server answered %d: %s", resp.StatusCode, msg)
	}
	return msg, nil
}

// EmbedLink appends url to text the way the browser extension does when its
// "include link" box is ticked. The server then sees the url inside the text
// and does not append a second copy.
func EmbedLink(text, url string) string {
	return text + "\n\n" + url + "\n\n"
}
