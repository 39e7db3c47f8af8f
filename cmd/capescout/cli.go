package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jbekker/capescout"
	"github.com/jbekker/capescout/crawl"
	capehttp "github.com/jbekker/capescout/http"
	"github.com/jbekker/capescout/sqlite"
	"github.com/jbekker/capescout/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Config  yaml.Config
	Catalog *capescout.AreaCatalog

	DB         *sqlite.DB
	Properties capescout.PropertyService
	Comments   capescout.CommentService

	// Crawler is wired for the scrape command only.
	Crawler *crawl.Crawler

	// Importer is wired when scrape targets a remote API.
	Importer *capehttp.ImportClient
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `help:"Path to a config file"`
	DB      string `help:"Path to the SQLite database"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Scrape  ScrapeCmd  `cmd:"" help:"Crawl listing pages for one or more areas"`
	Serve   ServeCmd   `cmd:"" help:"Run the REST API server"`
	Areas   AreasCmd   `cmd:"" help:"List known areas with stored counts"`
	List    ListCmd    `cmd:"" help:"List stored properties"`
	Cleanup CleanupCmd `cmd:"" help:"Delete stored properties by area or age"`
}

// ScrapeCmd is the "scrape" subcommand. Flags left unset fall back to
// the config file values.
type ScrapeCmd struct {
	Areas      []string       `arg:"" optional:"" help:"Area slugs to crawl (default: every catalog area)"`
	Pages      *int           `help:"Listing pages per area, 0 for no limit"`
	Delay      *time.Duration `help:"Delay between page fetches"`
	FullDetail *bool          `help:"Fetch each listing's own page for images and description"`
	Browser    bool           `help:"Render pages in a headless browser"`
	Output     string         `short:"o" help:"Write scraped properties to a .json or .csv file"`
	Report     string         `help:"Write a markdown report to a file"`
	ImportURL  string         `help:"Send results to a remote capescout API instead of the local database"`
	DryRun     bool           `help:"Crawl without persisting results"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"HTTP listen address"`
}

// AreasCmd is the "areas" subcommand.
type AreasCmd struct{}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Area     string `help:"Filter by area slug"`
	Status   string `help:"Filter by listing status"`
	MinPrice int    `help:"Minimum price in rand"`
	MaxPrice int    `help:"Maximum price in rand"`
	Bedrooms int    `help:"Filter by bedroom count"`
	Search   string `help:"Search in title, area, and neighborhood vibe"`
	Limit    int    `default:"50" help:"Maximum number of rows"`
}

// CleanupCmd is the "cleanup" subcommand.
type CleanupCmd struct {
	Area      string `help:"Delete properties in this area"`
	OlderThan int    `help:"Delete properties last scraped more than this many days ago"`
	Force     bool   `help:"Confirm deletion"`
}
