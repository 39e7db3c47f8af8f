package goquery

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jbekker/capescout"
	"golang.org/x/net/html"
)

var (
	priceRe = regexp.MustCompile(`R\s*(\d{1,3}(?:[\s,]*\d{3})+)`)
	bedsRe  = regexp.MustCompile(`(\d+)\s*[Bb]ed`)
	bathsRe = regexp.MustCompile(`(\d+)\s*[Bb]ath`)
	sizeRe  = regexp.MustCompile(`(?i)(\d+)\s*m[²2]`)
)

// highlightPatterns maps text patterns to feature tags. All matching
// tags are collected, in table order.
var highlightPatterns = []struct {
	re  *regexp.Regexp
	tag string
}{
	{regexp.MustCompile(`pool`), "Pool"},
	{regexp.MustCompile(`garage|parking`), "Parking"},
	{regexp.MustCompile(`garden`), "Garden"},
	{regexp.MustCompile(`security`), "Security"},
	{regexp.MustCompile(`balcony`), "Balcony"},
	{regexp.MustCompile(`pet[\s-]?friendly`), "Pet Friendly"},
	{regexp.MustCompile(`furnished`), "Furnished"},
	{regexp.MustCompile(`sea[\s-]?view|ocean[\s-]?view`), "Sea Views"},
	{regexp.MustCompile(`mountain[\s-]?view`), "Mountain Views"},
}

// ListingExtractor parses one candidate listing fragment into a
// property record.
type ListingExtractor struct {
	baseURL string
	images  *ImageExtractor
}

// NewListingExtractor creates a ListingExtractor absolutizing URLs
// against baseURL.
func NewListingExtractor(baseURL string) *ListingExtractor {
	return &ListingExtractor{
		baseURL: baseURL,
		images:  NewImageExtractor(DefaultImageStrategies(baseURL)...),
	}
}

// Extract derives a property record from a listing fragment, or nil if
// the fragment does not look like a listing. A record requires either a
// price or a development marker in the text; fragments whose flattened
// text falls outside 30 to 2000 characters are rejected outright.
func (e *ListingExtractor) Extract(sel *goquery.Selection) *capescout.Property {
	text := flattenText(sel)
	if n := utf8.RuneCountInString(text); n < 30 || n > 2000 {
		return nil
	}
	lower := strings.ToLower(text)

	p := &capescout.Property{}

	if m := priceRe.FindStringSubmatch(text); m != nil {
		raw := strings.NewReplacer(",", "", " ", "").Replace(m[1])
		if v, err := strconv.Atoi(raw); err == nil {
			p.Price = &v
		}
	} else if strings.Contains(lower, "development") {
		p.Type = capescout.TypeDevelopment
	} else {
		return nil
	}

	if m := bedsRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			p.Bedrooms = &v
		}
	}
	if m := bathsRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			p.Bathrooms = &v
		}
	}
	if m := sizeRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			p.SizeSqm = &v
		}
	}

	// Type classification, first match wins. A development preset
	// survives only when no type keyword appears in the text.
	switch {
	case strings.Contains(lower, "apartment") || strings.Contains(lower, "flat"):
		p.Type = capescout.TypeApartment
	case strings.Contains(lower, "house"):
		p.Type = capescout.TypeHouse
	case strings.Contains(lower, "townhouse"):
		p.Type = capescout.TypeTownhouse
	case p.Type == "":
		p.Type = capescout.TypeProperty
	}

	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/for-sale/") {
			return true
		}
		if !strings.HasPrefix(href, "http") {
			href = e.baseURL + href
		}
		p.URL = href
		return false
	})

	if imgs := e.images.Extract(sel, 5); len(imgs) > 0 {
		p.Images = imgs
	}

	var features []string
	for _, hp := range highlightPatterns {
		if hp.re.MatchString(lower) {
			features = append(features, hp.tag)
		}
	}
	if len(features) > 0 {
		p.Highlights = features
	}

	if p.Bedrooms != nil {
		p.Title = fmt.Sprintf("%d Bedroom %s", *p.Bedrooms, p.Type)
	} else {
		p.Title = p.Type
	}

	if strings.Contains(lower, "walking distance") {
		p.NeighborhoodVibe = "Walking distance to amenities"
	}

	return p
}

// flattenText returns the fragment's text with each text node trimmed
// and the pieces joined by single spaces.
func flattenText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return strings.Join(parts, " ")
}
