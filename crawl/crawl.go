package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jbekker/capescout"
)

// DefaultMaxPages is the page budget used when none is configured.
const DefaultMaxPages = 10

// Crawler walks an area's paginated search results, extracting property
// records page by page. The crawl is strictly sequential: one request
// in flight at a time, spaced by the shared Limiter, with no retries.
type Crawler struct {
	Fetcher capescout.Fetcher
	Scanner capescout.ListingScanner
	Details capescout.DetailExtractor
	Limiter capescout.Limiter
	Catalog *capescout.AreaCatalog
	Logger  *slog.Logger

	// BaseURL is the site root used to build page URLs. Defaults to
	// the production marketplace.
	BaseURL string

	// MaxPages caps the number of result pages fetched per area.
	MaxPages int

	// FullDetail fetches each listing's own page for a fuller image
	// set and a description.
	FullDetail bool
}

// Result holds the outcome of one area crawl.
type Result struct {
	Area       string
	Pages      int
	Properties []*capescout.Property
}

// CrawlArea crawls one area's search results and returns the extracted
// records. The crawl stops at the page budget, on the first page that
// contributes no new records, or on a fetch failure; in the failure
// case the partial aggregate is returned alongside the error. An
// unresolvable area returns an empty result without any fetches.
func (c *Crawler) CrawlArea(ctx context.Context, area string) (*Result, error) {
	logger := c.logger()

	result := &Result{Area: area}
	resolved, err := c.Catalog.Resolve(area)
	if err != nil {
		logger.Error("unknown area", slog.String("area", area))
		return result, err
	}

	base := c.BaseURL
	if base == "" {
		base = capescout.BaseURL
	}
	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	seen := newSeenFilter()
	for page := 1; page <= maxPages; page++ {
		pageURL := listingPageURL(base, resolved, page)
		logger.Info("page", slog.String("area", resolved.Slug), slog.Int("page", page), slog.String("url", pageURL))

		if err := c.Limiter.Wait(ctx); err != nil {
			return result, err
		}
		body, err := c.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			logger.Error("page fetch failed", slog.String("url", pageURL), slog.Any("err", err))
			return result, err
		}
		records, err := c.Scanner.ScanPage(body)
		if err != nil {
			logger.Error("page scan failed", slog.String("url", pageURL), slog.Any("err", err))
			return result, err
		}
		result.Pages++

		var fresh []*capescout.Property
		for _, record := range records {
			if !seen.add(record.URL) {
				continue
			}
			record.Area = area
			if record.ScrapedAt.IsZero() {
				record.ScrapedAt = time.Now().UTC()
			}
			if c.FullDetail && record.URL != "" {
				if err := c.enrichListing(ctx, logger, record); err != nil {
					result.Properties = append(result.Properties, fresh...)
					return result, err
				}
			}
			fresh = append(fresh, record)
		}
		logger.Info("records", slog.String("area", resolved.Slug), slog.Int("page", page), slog.Int("count", len(fresh)))

		if len(fresh) == 0 {
			break
		}
		result.Properties = append(result.Properties, fresh...)
	}

	logger.Info("area complete",
		slog.String("area", resolved.Slug),
		slog.Int("pages", result.Pages),
		slog.Int("records", len(result.Properties)))
	return result, nil
}

// CrawlAreas crawls each area in turn, spacing areas by an extra
// politeness interval. Unknown areas and fetch failures are logged and
// skipped; only cancellation stops the sweep.
func (c *Crawler) CrawlAreas(ctx context.Context, areas []string) ([]*Result, error) {
	logger := c.logger()

	var results []*Result
	for i, area := range areas {
		if i > 0 {
			if err := c.Limiter.Wait(ctx); err != nil {
				return results, err
			}
		}
		result, err := c.CrawlArea(ctx, area)
		results = append(results, result)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			logger.Error("area crawl failed", slog.String("area", area), slog.Any("err", err))
		}
	}
	return results, nil
}

// enrichListing fetches the listing's own page and merges in the fuller
// gallery and description. Fetch and extraction failures are absorbed;
// the listing keeps its original images. Only cancellation propagates.
func (c *Crawler) enrichListing(ctx context.Context, logger *slog.Logger, record *capescout.Property) error {
	if c.Details == nil {
		return nil
	}
	if err := c.Limiter.Wait(ctx); err != nil {
		return err
	}
	body, err := c.Fetcher.Fetch(ctx, record.URL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Debug("detail fetch failed", slog.String("url", record.URL), slog.Any("err", err))
		return nil
	}
	detail, err := c.Details.ExtractDetail(body)
	if err != nil {
		logger.Debug("detail extraction failed", slog.String("url", record.URL), slog.Any("err", err))
		return nil
	}
	if len(detail.Images) > 0 {
		record.Images = detail.Images
	}
	if record.Description == "" {
		record.Description = detail.Description
	}
	return nil
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// listingPageURL builds a search-results page URL for an area. The
// first page carries no page parameter.
func listingPageURL(base string, area capescout.Area, page int) string {
	u := fmt.Sprintf("%s/for-sale/%s/cape-town/western-cape/%d", base, area.Slug, area.Code)
	if page > 1 {
		u += fmt.Sprintf("?Page=%d", page)
	}
	return u
}
