package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var styleURLRe = regexp.MustCompile(`url\(["']?([^"']+)["']?\)`)

// InlineStyleStrategy collects image URLs from inline background-image
// styles. Only the first url(...) token per element is taken.
type InlineStyleStrategy struct {
	baseURL string
}

// NewInlineStyleStrategy creates an InlineStyleStrategy absolutizing
// against baseURL.
func NewInlineStyleStrategy(baseURL string) *InlineStyleStrategy {
	return &InlineStyleStrategy{baseURL: baseURL}
}

// Name returns the strategy's identifier.
func (s *InlineStyleStrategy) Name() string {
	return "inline-style"
}

// Extract returns the property image URLs found in the fragment's
// inline background-image styles.
func (s *InlineStyleStrategy) Extract(sel *goquery.Selection) []string {
	var urls []string
	sel.Find(`[style*="background-image"]`).Each(func(_ int, el *goquery.Selection) {
		style, _ := el.Attr("style")
		m := styleURLRe.FindStringSubmatch(style)
		if m == nil {
			return
		}
		u := absolutize(s.baseURL, m[1])
		if strings.Contains(u, "property") || strings.Contains(u, "listing") {
			urls = append(urls, u)
		}
	})
	return urls
}
