// Package http provides the HTTP-based page fetcher for the scrape
// pipeline and the REST server exposing stored properties.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/jbekker/capescout"
)

// DefaultFetchTimeout bounds a single listings-page request.
const DefaultFetchTimeout = 15 * time.Second

// DefaultUserAgent is the browser identity sent with every request.
// The marketplace serves a cut-down page to clients it does not
// recognize as a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// acceptHeader mirrors what a desktop browser sends for a navigation.
const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"

// Ensure Fetcher implements capescout.Fetcher at compile time.
var _ capescout.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves listing pages over plain HTTP. The underlying
// client keeps connections alive across requests, so successive fetches
// against the marketplace reuse one session. Pages that require
// JavaScript rendering need the rod-based fetcher instead.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the document body from the given URL. Non-200
// statuses and transport failures are reported as EUNAVAILABLE; the
// caller treats them as crawl-terminating. Context cancellation passes
// through unchanged.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", capescout.Errorf(capescout.EINVALID, "invalid fetch URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", capescout.Errorf(capescout.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", capescout.Errorf(capescout.EUNAVAILABLE, "fetch %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", capescout.Errorf(capescout.EUNAVAILABLE, "fetch %s: %v", url, err)
	}

	return string(body), nil
}

// Close releases resources. The shared transport's idle connections are
// dropped so a finished crawl leaves nothing open.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
