package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jbekker/capescout"
	"golang.org/x/net/html"
)

var _ capescout.ListingScanner = (*Scanner)(nil)

// listingSelectors are the structural patterns tried against a results
// page, in order. The source site has cycled through several tile
// markups; every pattern is applied so the scan survives redesigns.
var listingSelectors = []string{
	`div[class*="listing"]`,
	`div[class*="p24_"]`,
	`div[class*="tile"]`,
	`div[class*="property"]`,
	`article[class*="listing"]`,
	`div[class*="result"]`,
	`.p24_regularTile`,
	`.js_listingTile`,
	`[data-listing-number]`,
	`div[class*="sc_listingTile"]`,
	`div[class*="ListingTile"]`,
	`div[class*="propertyTile"]`,
	`a[href*="/for-sale/"][href*="plId="]`,
}

// Scanner locates listing fragments on a search-results page and
// extracts a property record from each. Overlapping selector patterns
// frequently match the same container; candidates are deduplicated by
// document node identity before extraction so each fragment is
// extracted exactly once, tagged with the first selector that found it.
type Scanner struct {
	extractor *ListingExtractor
}

// NewScanner creates a Scanner extracting against baseURL.
func NewScanner(baseURL string) *Scanner {
	return &Scanner{extractor: NewListingExtractor(baseURL)}
}

// ScanPage extracts property records from a search-results page.
func (s *Scanner) ScanPage(page string) ([]*capescout.Property, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, capescout.Errorf(capescout.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[*html.Node]struct{})
	var records []*capescout.Property

	for _, selector := range listingSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			container := candidateContainer(sel)
			if container == nil {
				return
			}

			node := container.Get(0)
			if _, ok := seen[node]; ok {
				return
			}
			seen[node] = struct{}{}

			record := s.extractor.Extract(container)
			if record == nil {
				return
			}
			record.SelectorUsed = selector
			records = append(records, record)
		})
	}

	return records, nil
}

// candidateContainer resolves a selector match to the fragment to
// extract from. Anchor matches climb to the nearest ancestor with a
// reasonable amount of text, since the listing's fields live in the
// surrounding card markup rather than the link itself.
func candidateContainer(sel *goquery.Selection) *goquery.Selection {
	if sel.Length() == 0 {
		return nil
	}
	if goquery.NodeName(sel) != "a" {
		return sel
	}

	container := sel.Parent()
	for container.Length() > 0 && utf8.RuneCountInString(container.Text()) < 50 {
		container = container.Parent()
	}
	if container.Length() == 0 {
		return nil
	}
	return container
}
