package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ImageStrategy extracts candidate image URLs from a document fragment.
// Strategies are heuristic and markup-dependent; keeping each one behind
// this interface lets them be replaced or tested independently of the
// composite extractor and the crawl loop.
type ImageStrategy interface {
	// Name returns the strategy's identifier, used in log events.
	Name() string

	// Extract returns the image URLs found in the fragment, already
	// absolutized and filtered. Unparseable content yields no URLs.
	Extract(sel *goquery.Selection) []string
}

// ImageExtractor runs a fixed sequence of extraction strategies over a
// fragment and merges their results. Strategy outputs are concatenated
// in strategy order, deduplicated preserving first-seen order, and
// truncated to the caller's cap.
type ImageExtractor struct {
	strategies []ImageStrategy
}

// NewImageExtractor creates an ImageExtractor running the given
// strategies in order.
func NewImageExtractor(strategies ...ImageStrategy) *ImageExtractor {
	return &ImageExtractor{strategies: strategies}
}

// DefaultImageStrategies returns the three production strategies in
// their fixed order: image tags, inline background styles, embedded
// JSON data blocks.
func DefaultImageStrategies(baseURL string) []ImageStrategy {
	return []ImageStrategy{
		NewImgTagStrategy(baseURL),
		NewInlineStyleStrategy(baseURL),
		NewDataBlockStrategy(),
	}
}

// Extract returns at most limit unique image URLs from the fragment.
func (e *ImageExtractor) Extract(sel *goquery.Selection, limit int) []string {
	var urls []string
	for _, s := range e.strategies {
		urls = append(urls, s.Extract(sel)...)
	}
	return dedupeFirstSeen(urls, limit)
}

// dedupeFirstSeen removes duplicate URLs preserving first-seen order
// and truncates the result to limit.
func dedupeFirstSeen(urls []string, limit int) []string {
	seen := make(map[string]struct{}, len(urls))
	var out []string
	for _, u := range urls {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// absolutize converts protocol-relative and root-relative URLs to
// absolute against base. URLs that already carry a scheme pass through
// unchanged.
func absolutize(base, u string) string {
	if strings.HasPrefix(u, "http") {
		return u
	}
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return base + u
}
