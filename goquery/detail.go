package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jbekker/capescout"
)

var _ capescout.DetailExtractor = (*DetailExtractor)(nil)

var (
	galleryClassRe     = regexp.MustCompile(`gallery|carousel|slider|images`)
	descriptionClassRe = regexp.MustCompile(`description|content|details`)
	detailImgSrcRe     = regexp.MustCompile(`property|listing|p24`)
)

// DetailExtractor pulls a fuller image gallery and a description from a
// listing's own page. The gallery container, when present, is scanned
// with the image-tag strategy; the whole page is then swept for image
// tags carrying a property marker. Both sets are merged, deduplicated,
// and capped at ten images.
type DetailExtractor struct {
	baseURL  string
	gallery  ImageStrategy
	fallback capescout.DescriptionExtractor
}

// NewDetailExtractor creates a DetailExtractor absolutizing against
// baseURL. The fallback extractor, when non-nil, supplies a description
// for pages without a recognizable description container.
func NewDetailExtractor(baseURL string, fallback capescout.DescriptionExtractor) *DetailExtractor {
	return &DetailExtractor{
		baseURL:  baseURL,
		gallery:  NewImgTagStrategy(baseURL),
		fallback: fallback,
	}
}

// ExtractDetail extracts gallery images and a description from a
// listing detail page.
func (e *DetailExtractor) ExtractDetail(page string) (*capescout.ListingDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, capescout.Errorf(capescout.EINVALID, "failed to parse HTML: %v", err)
	}

	var urls []string
	if gallery := firstClassMatch(doc, "div", galleryClassRe); gallery != nil {
		urls = append(urls, e.gallery.Extract(gallery)...)
	}
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if !detailImgSrcRe.MatchString(src) {
			return
		}
		urls = append(urls, absolutize(e.baseURL, src))
	})

	detail := &capescout.ListingDetail{
		Images: dedupeFirstSeen(urls, 10),
	}

	if desc := firstClassMatch(doc, "div", descriptionClassRe); desc != nil {
		detail.Description = truncateRunes(flattenText(desc), 500)
	} else if e.fallback != nil {
		if text, err := e.fallback.ExtractDescription(page); err == nil {
			detail.Description = truncateRunes(strings.TrimSpace(text), 500)
		}
	}

	return detail, nil
}

// firstClassMatch returns the first element with the given tag whose
// class attribute matches re, or nil when none does.
func firstClassMatch(doc *goquery.Document, tag string, re *regexp.Regexp) *goquery.Selection {
	match := doc.Find(tag).FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return re.MatchString(class)
	}).First()
	if match.Length() == 0 {
		return nil
	}
	return match
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
