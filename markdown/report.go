// Package markdown renders crawl summaries as Markdown reports.
package markdown

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/jbekker/capescout"
	"github.com/jbekker/capescout/crawl"
)

// topListingCount is how many listings each area section shows.
const topListingCount = 3

// ReportWriter renders crawl results as a Markdown summary.
type ReportWriter struct {
	output io.Writer

	// Now supplies the report timestamp. Nil uses time.Now.
	Now func() time.Time
}

// NewReportWriter creates a ReportWriter that writes to output.
func NewReportWriter(output io.Writer) *ReportWriter {
	return &ReportWriter{output: output}
}

// WriteReport renders a summary of the crawl: an overview table of all
// areas followed by a section per area listing its priciest finds.
func (w *ReportWriter) WriteReport(results []*crawl.Result) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	md := markdown.NewMarkdown(w.output)

	md.H1("Cape Town Property Scrape Report")
	md.PlainText("")
	md.PlainText("Generated " + now().UTC().Format("2006-01-02 15:04 UTC") + ".")
	md.PlainText("")

	w.writeSummary(md, results)
	w.writeAreas(md, results)

	return md.Build()
}

// writeSummary writes the per-area overview table.
func (w *ReportWriter) writeSummary(md *markdown.Markdown, results []*crawl.Result) {
	md.H2("Summary")
	md.PlainText("")

	var totalPages, totalListings, totalImages int
	rows := make([][]string, 0, len(results)+1)
	for _, result := range results {
		images := 0
		for _, p := range result.Properties {
			images += len(p.Images)
		}
		totalPages += result.Pages
		totalListings += len(result.Properties)
		totalImages += images

		rows = append(rows, []string{
			result.Area,
			strconv.Itoa(result.Pages),
			strconv.Itoa(len(result.Properties)),
			strconv.Itoa(images),
			averagePrice(result.Properties),
		})
	}
	rows = append(rows, []string{
		"**Total**",
		strconv.Itoa(totalPages),
		strconv.Itoa(totalListings),
		strconv.Itoa(totalImages),
		"",
	})

	md.Table(markdown.TableSet{
		Header: []string{"Area", "Pages", "Listings", "Images", "Avg Price"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAreas writes one section per area with its top listings by price.
func (w *ReportWriter) writeAreas(md *markdown.Markdown, results []*crawl.Result) {
	for _, result := range results {
		if len(result.Properties) == 0 {
			continue
		}

		md.H2(result.Area)
		md.PlainText("")

		top := topByPrice(result.Properties, topListingCount)
		items := make([]string, 0, len(top))
		for _, p := range top {
			item := fmt.Sprintf("%s - %s", p.Title, capescout.FormatPrice(p.Price))
			if p.Bedrooms != nil {
				item += fmt.Sprintf(" (%d bed)", *p.Bedrooms)
			}
			items = append(items, item)
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// averagePrice formats the mean price of the priced listings, or "POA"
// when none carry a price.
func averagePrice(props []*capescout.Property) string {
	var sum, n int
	for _, p := range props {
		if p.Price != nil {
			sum += *p.Price
			n++
		}
	}
	if n == 0 {
		return "POA"
	}
	avg := sum / n
	return capescout.FormatPrice(&avg)
}

// topByPrice returns the n most expensive listings, priced ones first.
func topByPrice(props []*capescout.Property, n int) []*capescout.Property {
	sorted := make([]*capescout.Property, len(props))
	copy(sorted, props)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].Price, sorted[j].Price
		if pi == nil {
			return false
		}
		if pj == nil {
			return true
		}
		return *pi > *pj
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
