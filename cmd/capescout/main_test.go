package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jbekker/capescout"
	main "github.com/jbekker/capescout/cmd/capescout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listingPage is a minimal search-results page in the marketplace's
// tile markup. Both tiles carry listing links so imports accept them.
const listingPage = `<html><body>
<div class="p24_listing"><a href="/for-sale/apartment-sea-point/112045">Modern 2 Bedroom Apartment in Sea Point for R7,500,000 with sea view</a><img src="/p24/a.jpg"></div>
<div class="p24_listing"><a href="/for-sale/house-sea-point/112046">Family 3 Bedroom House in Sea Point for R4,250,000 with pool</a></div>
</body></html>`

// listingSource serves the fixture page for every request, standing in
// for the marketplace.
func listingSource(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingPage)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMain_Run_ScrapePersistsToDatabase(t *testing.T) {
	t.Parallel()

	src := listingSource(t)
	dbPath := filepath.Join(t.TempDir(), "test.db")

	m := main.NewMain()
	m.DBPath = dbPath
	m.BaseURL = src.URL

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"scrape", "sea-point", "--pages", "1", "--delay", "0s"}, stdout, stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "sea-point: 2 properties (1 pages)")
	assert.Contains(t, stdout.String(), "Imported 2 new, 0 updated, 0 errors (2 stored in total)")

	// The stored listings are visible to a fresh run against the same
	// database.
	listOut := &bytes.Buffer{}
	m2 := main.NewMain()
	m2.DBPath = dbPath
	err = m2.Run(context.Background(), []string{"list"}, listOut, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, listOut.String(), "2 Bedroom Apartment")
	assert.Contains(t, listOut.String(), "R7,500,000")
	assert.Contains(t, listOut.String(), "sea-point")

	// A repeat crawl of unchanged listings imports nothing.
	rerunOut := &bytes.Buffer{}
	m3 := main.NewMain()
	m3.DBPath = dbPath
	m3.BaseURL = src.URL
	err = m3.Run(context.Background(), []string{"scrape", "sea-point", "--pages", "1", "--delay", "0s"}, rerunOut, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, rerunOut.String(), "Imported 0 new, 0 updated, 0 errors (2 stored in total)")
}

func TestMain_Run_ScrapeDryRunSkipsDatabase(t *testing.T) {
	t.Parallel()

	src := listingSource(t)
	dbPath := filepath.Join(t.TempDir(), "test.db")

	m := main.NewMain()
	m.DBPath = dbPath
	m.BaseURL = src.URL

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"scrape", "sea-point", "--pages", "1", "--delay", "0s", "--dry-run"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Scraped 2 properties from 1 areas")
	assert.Contains(t, stdout.String(), "Dry run: results not saved")
	assert.NoFileExists(t, dbPath, "dry run should not open a database")
}

func TestMain_Run_ScrapeImportsToRemoteAPI(t *testing.T) {
	t.Parallel()

	src := listingSource(t)

	var mu sync.Mutex
	var imported []*capescout.Property
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			fmt.Fprint(w, `{"status":"ok"}`)
		case "/api/scraper/import":
			var records []*capescout.Property
			if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			mu.Lock()
			imported = append(imported, records...)
			mu.Unlock()
			json.NewEncoder(w).Encode(capescout.ImportStats{Created: len(records), Total: len(records)})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(api.Close)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	m := main.NewMain()
	m.DBPath = dbPath
	m.BaseURL = src.URL

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"scrape", "sea-point", "--pages", "1", "--delay", "0s", "--import-url", api.URL}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Imported 2 new")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, imported, 2)
	assert.Equal(t, "2 Bedroom Apartment", imported[0].Title)
	assert.NoFileExists(t, dbPath, "remote import should not open a local database")
}

func TestMain_Run_ScrapeRemoteImportFailsWhenAPIUnreachable(t *testing.T) {
	t.Parallel()

	src := listingSource(t)
	// 404 rather than 5xx so the client's retry policy does not kick in.
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(api.Close)

	m := main.NewMain()
	m.BaseURL = src.URL

	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"scrape", "sea-point", "--pages", "1", "--delay", "0s", "--import-url", api.URL}, &bytes.Buffer{}, stderr)
	require.Error(t, err)
	assert.Equal(t, capescout.EUNAVAILABLE, capescout.ErrorCode(err))
	assert.Contains(t, stderr.String(), "error:")
}

func TestMain_Run_ScrapeWritesOutputAndReport(t *testing.T) {
	t.Parallel()

	src := listingSource(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.json")
	reportPath := filepath.Join(dir, "report.md")

	m := main.NewMain()
	m.BaseURL = src.URL

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{
		"scrape", "sea-point", "--pages", "1", "--delay", "0s", "--dry-run",
		"--output", outPath, "--report", reportPath,
	}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var exported []*capescout.Property
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Len(t, exported, 2)

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "# Cape Town Property Scrape Report")
	assert.Contains(t, string(report), "sea-point")
}

func TestMain_Run_ConfigFileProvidesDefaults(t *testing.T) {
	t.Parallel()

	src := listingSource(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "capescout.yml")
	cfg := "max_pages: 1\ndelay: 0s\nareas:\n  llandudno: 11019\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	m := main.NewMain()
	m.BaseURL = src.URL

	// The crawl stops after one page only if the config's page budget
	// applies: the fixture always yields listings, so an unbounded crawl
	// would continue to a second page.
	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{
		"--config", cfgPath, "scrape", "llandudno", "--delay", "0s", "--dry-run",
	}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "llandudno: 2 properties (1 pages)")

	// A flag overrides the config value.
	flagOut := &bytes.Buffer{}
	m2 := main.NewMain()
	m2.BaseURL = src.URL
	err = m2.Run(context.Background(), []string{
		"--config", cfgPath, "scrape", "llandudno", "--delay", "0s", "--dry-run", "--pages", "2",
	}, flagOut, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, flagOut.String(), "llandudno: 2 properties (2 pages)")
}

func TestMain_Run_MissingConfigFileReturnsError(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "nope.yml"), "list"}, &bytes.Buffer{}, stderr)
	require.Error(t, err)
	assert.Equal(t, capescout.ENOTFOUND, capescout.ErrorCode(err))
	assert.Contains(t, stderr.String(), "Hint:")
}

func TestMain_Run_ListEmptyDatabase(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"list"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No properties found.")
}

func TestMain_Run_AreasListsCatalogWithCounts(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"areas"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "sea-point")
	assert.Contains(t, out, "11021")
	assert.Contains(t, out, "camps-bay")
	assert.Contains(t, out, "0 stored")
}

func TestMain_Run_CleanupGuards(t *testing.T) {
	t.Parallel()

	t.Run("requires a scope", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		stderr := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"cleanup", "--force"}, &bytes.Buffer{}, stderr)
		require.Error(t, err)
		assert.Equal(t, capescout.EINVALID, capescout.ErrorCode(err))
		assert.Contains(t, stderr.String(), "pass --area or --older-than")
	})

	t.Run("requires confirmation", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		stderr := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"cleanup", "--area", "sea-point"}, &bytes.Buffer{}, stderr)
		require.Error(t, err)
		assert.Equal(t, capescout.EINVALID, capescout.ErrorCode(err))
		assert.Contains(t, stderr.String(), "use --force to confirm deletion")
	})
}

func TestMain_Run_CleanupDeletesByArea(t *testing.T) {
	t.Parallel()

	src := listingSource(t)
	dbPath := filepath.Join(t.TempDir(), "test.db")

	m := main.NewMain()
	m.DBPath = dbPath
	m.BaseURL = src.URL
	err := m.Run(context.Background(), []string{"scrape", "sea-point", "--pages", "1", "--delay", "0s"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	stdout := &bytes.Buffer{}
	m2 := main.NewMain()
	m2.DBPath = dbPath
	err = m2.Run(context.Background(), []string{"cleanup", "--area", "sea-point", "--force"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Deleted 2 properties")

	listOut := &bytes.Buffer{}
	m3 := main.NewMain()
	m3.DBPath = dbPath
	err = m3.Run(context.Background(), []string{"list"}, listOut, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, listOut.String(), "No properties found.")
}
