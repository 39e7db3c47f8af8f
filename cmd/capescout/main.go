package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/jbekker/capescout"
	"github.com/jbekker/capescout/crawl"
	"github.com/jbekker/capescout/goquery"
	capehttp "github.com/jbekker/capescout/http"
	"github.com/jbekker/capescout/rod"
	capeslog "github.com/jbekker/capescout/slog"
	"github.com/jbekker/capescout/sqlite"
	"github.com/jbekker/capescout/trafilatura"
	"github.com/jbekker/capescout/yaml"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// unboundedPages is the page budget used for "--pages 0". Area crawls
// stop on the first page that yields no new listings, so the budget is
// never reached in practice.
const unboundedPages = math.MaxInt

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run() to bypass flag and
	// config resolution.
	DBPath string

	// Site root the crawler fetches from. Tests point this at a local
	// test server.
	BaseURL string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	PropertyService capescout.PropertyService
	CommentService  capescout.CommentService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		BaseURL: capescout.BaseURL,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("capescout"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'capescout --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: pass --config with the path to a readable config file\n")
		return err
	}
	deps.Config = cfg
	deps.Catalog = cfg.Catalog()

	// Open database. A scrape that only previews or pushes to a remote
	// API runs without one.
	needsDB := !(cmd == "scrape" && (cli.Scrape.DryRun || cli.Scrape.ImportURL != ""))
	if needsDB {
		m.DBPath = resolveDBPath(cli.DB, m.DBPath, cfg)
		if m.DBPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(m.DBPath), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: pass --db or set db_path in the config file to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		// Wire core services into dependencies
		m.PropertyService = sqlite.NewPropertyService(m.DB, deps.Catalog)
		m.CommentService = sqlite.NewCommentService(m.DB)
		deps.DB = m.DB
		deps.Properties = m.PropertyService
		deps.Comments = m.CommentService
	}

	// Wire command-specific dependencies based on command
	if cmd == "scrape" {
		delay := time.Duration(cfg.Delay)
		if cli.Scrape.Delay != nil {
			delay = *cli.Scrape.Delay
		}
		timeout := time.Duration(cfg.Timeout)
		maxPages := cfg.MaxPages
		if cli.Scrape.Pages != nil {
			maxPages = *cli.Scrape.Pages
		}
		if maxPages <= 0 {
			maxPages = unboundedPages
		}
		fullDetail := cfg.FullDetail
		if cli.Scrape.FullDetail != nil {
			fullDetail = *cli.Scrape.FullDetail
		}

		var fetcher capescout.Fetcher
		if cli.Scrape.Browser {
			f, err := rod.NewFetcher(
				rod.WithFetchTimeout(timeout),
				rod.WithUserAgent(cfg.UserAgent),
			)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer f.Close()
			fetcher = f
		} else {
			f := capehttp.NewFetcher(
				capehttp.WithTimeout(timeout),
				capehttp.WithUserAgent(cfg.UserAgent),
			)
			defer f.Close()
			fetcher = f
		}

		deps.Crawler = &crawl.Crawler{
			Fetcher:    capeslog.NewLoggingFetcher(fetcher, deps.Logger),
			Scanner:    capeslog.NewLoggingScanner(goquery.NewScanner(m.BaseURL), deps.Logger),
			Details:    goquery.NewDetailExtractor(m.BaseURL, trafilatura.NewExtractor()),
			Limiter:    crawl.NewLimiter(delay),
			Catalog:    deps.Catalog,
			Logger:     deps.Logger,
			BaseURL:    m.BaseURL,
			MaxPages:   maxPages,
			FullDetail: fullDetail,
		}

		if cli.Scrape.ImportURL != "" {
			deps.Importer = capehttp.NewImportClient(cli.Scrape.ImportURL)
		}
	}

	return kongCtx.Run(deps)
}

// loadConfig resolves the effective configuration. An explicit path
// must name an existing file; otherwise a discovered config file is
// used when present and built-in defaults apply when none is found.
func loadConfig(explicit string) (yaml.Config, error) {
	if explicit != "" {
		return yaml.LoadConfig(explicit)
	}
	if path := yaml.FindConfigFile(""); path != "" {
		return yaml.LoadConfig(path)
	}
	return yaml.DefaultConfig(), nil
}

// resolveDBPath picks the database location: the --db flag wins, then a
// path set programmatically on Main, then the CAPESCOUT_DB environment
// variable, then the config value (which defaults to the XDG data
// directory).
func resolveDBPath(flag, preset string, cfg yaml.Config) string {
	if flag != "" {
		return flag
	}
	if preset != "" {
		return preset
	}
	if path := os.Getenv("CAPESCOUT_DB"); path != "" {
		return path
	}
	return cfg.DBPath
}
