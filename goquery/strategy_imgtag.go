package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// propertyImageMarkers are substrings that identify a URL as a listing
// photo rather than site chrome. Checked against the absolutized URL.
var propertyImageMarkers = []string{"property24", "listing", "property", "p24"}

// ImgTagStrategy collects image URLs from img tags. It prefers the
// lazy-load data-src attribute over src, skips icon-classed images,
// inline base64 data, and placeholders, and keeps only URLs carrying a
// property image marker.
type ImgTagStrategy struct {
	baseURL string
}

// NewImgTagStrategy creates an ImgTagStrategy absolutizing against baseURL.
func NewImgTagStrategy(baseURL string) *ImgTagStrategy {
	return &ImgTagStrategy{baseURL: baseURL}
}

// Name returns the strategy's identifier.
func (s *ImgTagStrategy) Name() string {
	return "img-tag"
}

// Extract returns the property image URLs found in the fragment's img tags.
func (s *ImgTagStrategy) Extract(sel *goquery.Selection) []string {
	var urls []string
	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		if class, _ := img.Attr("class"); strings.Contains(class, "icon") {
			return
		}

		src, ok := img.Attr("data-src")
		if !ok || src == "" {
			src, _ = img.Attr("src")
		}
		if src == "" {
			return
		}
		if strings.Contains(src, "data:image") || strings.Contains(src, "placeholder") {
			return
		}

		u := absolutize(s.baseURL, src)
		for _, marker := range propertyImageMarkers {
			if strings.Contains(u, marker) {
				urls = append(urls, u)
				return
			}
		}
	})
	return urls
}
