// Package fs writes scrape exports to the local filesystem.
package fs

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jbekker/capescout"
)

// csvHeader is the column order of CSV exports.
var csvHeader = []string{
	"title", "area", "price", "bedrooms", "bathrooms", "size_sqm", "type",
	"url", "images", "highlights", "price_per_sqm", "selector_used", "scraped_at",
}

// ExportFile writes properties to path in the format implied by its
// extension (.json or .csv).
func ExportFile(path string, props []*capescout.Property) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return WriteJSON(path, props)
	case ".csv":
		return WriteCSV(path, props)
	default:
		return capescout.Errorf(capescout.EINVALID, "unsupported export format %q (use .json or .csv)", filepath.Ext(path))
	}
}

// WriteJSON writes properties to path as indented JSON.
func WriteJSON(path string, props []*capescout.Property) error {
	if props == nil {
		props = []*capescout.Property{}
	}
	data, err := json.MarshalIndent(props, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, append(data, '\n'))
}

// WriteCSV writes properties to path as CSV with a header row.
func WriteCSV(path string, props []*capescout.Property) error {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range props {
		if err := w.Write(csvRow(p)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return writeAtomic(path, []byte(buf.String()))
}

func csvRow(p *capescout.Property) []string {
	scrapedAt := ""
	if !p.ScrapedAt.IsZero() {
		scrapedAt = p.ScrapedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		p.Title,
		p.Area,
		formatOptionalInt(p.Price),
		formatOptionalInt(p.Bedrooms),
		formatOptionalInt(p.Bathrooms),
		formatOptionalInt(p.SizeSqm),
		p.Type,
		p.URL,
		strings.Join(p.Images, ";"),
		strings.Join(p.Highlights, ";"),
		formatOptionalFloat(p.PricePerSqm()),
		p.SelectorUsed,
		scrapedAt,
	}
}

func formatOptionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

// writeAtomic writes data to path via a temp file and rename, creating
// parent directories as needed. The file at path is never observed
// half-written.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
