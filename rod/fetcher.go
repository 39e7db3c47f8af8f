package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/jbekker/capescout"
	capehttp "github.com/jbekker/capescout/http"
)

// Ensure Fetcher implements capescout.Fetcher at compile time.
var _ capescout.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered listing pages through headless Chrome. It
// carries the same timeout and browser identity as the plain HTTP
// fetcher, so swapping one for the other changes only how the page is
// obtained. The underlying browser is recycled after a batch of pages.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager      *BrowserManager
	timeout      time.Duration
	userAgent    string
	recycleAfter int64
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds a single page fetch, navigation and rendering
// included. Defaults to the HTTP fetcher's timeout if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the browser identity presented to the marketplace.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithBrowserRecycleAfter sets how many pages are fetched before the
// browser process is recycled.
func WithBrowserRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// NewFetcher launches a headless Chrome browser and returns a Fetcher
// backed by it. Close must be called when the Fetcher is no longer
// needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:      capehttp.DefaultFetchTimeout,
		userAgent:    capehttp.DefaultUserAgent,
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithRecycleAfter(f.recycleAfter))
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", capescout.Errorf(capescout.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", capescout.Errorf(capescout.EUNAVAILABLE, "open page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return "", fetchError(ctx, url, err)
	}
	if err := page.Navigate(url); err != nil {
		return "", fetchError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fetchError(ctx, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fetchError(ctx, url, err)
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple
// times; fetching after Close returns EINVALID.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher. It exists
// so tests can verify cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// fetchError reports context cancellation unchanged so callers can
// distinguish their own deadline from a marketplace failure.
func fetchError(ctx context.Context, url string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return capescout.Errorf(capescout.EUNAVAILABLE, "fetch %s: %v", url, err)
}
