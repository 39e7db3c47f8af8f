package capescout

import "context"

// BaseURL is the root of the scraped marketplace. Listing-page URLs are
// built from it, and scheme-less image and listing URLs are absolutized
// against it.
const BaseURL = "https://www.property24.com"

// Fetcher retrieves a page body from a URL.
// Implementations may use plain HTTP or browser automation for
// JavaScript-rendered content.
type Fetcher interface {
	// Fetch issues a GET for the URL and returns the document body.
	// The context controls timeout and cancellation.
	// Returns EUNAVAILABLE for non-success statuses.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases connection or browser resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// ListingScanner extracts property records from one search-results page.
type ListingScanner interface {
	// ScanPage locates candidate listing fragments in the page,
	// deduplicates them by document position, and extracts a record
	// from each. Fragments that fail extraction are skipped.
	// Records carry no area tag; the caller attaches it.
	ScanPage(html string) ([]*Property, error)
}

// ListingDetail holds data extracted from a listing's own page.
type ListingDetail struct {
	// Images is the gallery image set, deduplicated, at most 10.
	Images []string

	// Description is the listing description, at most 500 characters.
	Description string
}

// DetailExtractor extracts gallery images and a description from a
// listing's detail page.
type DetailExtractor interface {
	ExtractDetail(html string) (*ListingDetail, error)
}

// DescriptionExtractor extracts a page's main text. Used as a fallback
// when a detail page has no recognizable description container.
type DescriptionExtractor interface {
	ExtractDescription(html string) (string, error)
}

// Limiter spaces outbound requests to the marketplace by the politeness
// delay.
type Limiter interface {
	// Wait blocks until the next request is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
