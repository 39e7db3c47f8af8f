package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jbekker/capescout"
)

// ImportClient pushes scraped records to a remote capescout API.
// Unlike fetches against the listing site, requests here are retried:
// the API is our own service and tolerates repeats.
type ImportClient struct {
	baseURL string
	client  *retryablehttp.Client
}

// NewImportClient creates a client for the API at baseURL
// (e.g. "http://localhost:8000").
func NewImportClient(baseURL string) *ImportClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	return &ImportClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  rc,
	}
}

// Health verifies the remote API is reachable before an import run.
func (c *ImportClient) Health(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return capescout.Errorf(capescout.EINVALID, "invalid API URL %q", c.baseURL)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return capescout.Errorf(capescout.EUNAVAILABLE, "api health check: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return capescout.Errorf(capescout.EUNAVAILABLE, "api health check: HTTP %d", resp.StatusCode)
	}
	return nil
}

// Import POSTs scraped records to the remote import endpoint and
// returns the server's import stats.
func (c *ImportClient) Import(ctx context.Context, records []*capescout.Property) (*capescout.ImportStats, error) {
	body, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scraper/import", body)
	if err != nil {
		return nil, capescout.Errorf(capescout.EINVALID, "invalid API URL %q", c.baseURL)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, capescout.Errorf(capescout.EUNAVAILABLE, "import: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, capescout.Errorf(capescout.EUNAVAILABLE, "import: HTTP %d: %s",
			resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var stats capescout.ImportStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode import response: %w", err)
	}
	return &stats, nil
}
