package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jbekker/capescout"
	"github.com/jbekker/capescout/fs"
	"github.com/jbekker/capescout/markdown"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	areas := c.Areas
	if len(areas) == 0 {
		areas = deps.Catalog.Slugs()
	}

	// A remote import that cannot reach the API should fail before any
	// pages are fetched.
	if deps.Importer != nil && !c.DryRun {
		if err := deps.Importer.Health(deps.Ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", capescout.ErrorMessage(err))
			return err
		}
	}

	results, err := deps.Crawler.CrawlAreas(deps.Ctx, areas)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", capescout.ErrorMessage(err))
		return err
	}

	var properties []*capescout.Property
	for _, result := range results {
		fmt.Fprintf(deps.Stdout, "%s: %d properties (%d pages)\n", result.Area, len(result.Properties), result.Pages)
		properties = append(properties, result.Properties...)
	}
	fmt.Fprintf(deps.Stdout, "Scraped %d properties from %d areas\n", len(properties), len(results))

	switch {
	case c.DryRun:
		fmt.Fprintln(deps.Stdout, "Dry run: results not saved")
	case deps.Importer != nil:
		stats, err := deps.Importer.Import(deps.Ctx, properties)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", capescout.ErrorMessage(err))
			return err
		}
		printImportStats(deps, stats)
	default:
		stats, err := deps.Properties.ImportProperties(deps.Ctx, properties)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", capescout.ErrorMessage(err))
			return err
		}
		printImportStats(deps, stats)
	}

	if c.Output != "" {
		if err := fs.ExportFile(c.Output, properties); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", capescout.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Output)
	}

	if c.Report != "" {
		var buf bytes.Buffer
		if err := markdown.NewReportWriter(&buf).WriteReport(results); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", capescout.ErrorMessage(err))
			return err
		}
		if err := os.WriteFile(c.Report, buf.Bytes(), 0644); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Report)
	}

	return nil
}

func printImportStats(deps *Dependencies, stats *capescout.ImportStats) {
	fmt.Fprintf(deps.Stdout, "Imported %d new, %d updated, %d errors (%d stored in total)\n",
		stats.Created, stats.Updated, stats.Errors, stats.Total)
}
