package yaml_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbekker/capescout"
	capeyaml "github.com/jbekker/capescout/yaml"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".capescout.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := capeyaml.DefaultConfig()
	assert.Equal(t, time.Second, time.Duration(config.Delay))
	assert.Equal(t, 15*time.Second, time.Duration(config.Timeout))
	assert.Equal(t, 10, config.MaxPages)
	assert.Equal(t, ":8000", config.Addr)
	assert.Contains(t, config.UserAgent, "Mozilla/5.0")
	assert.NotEmpty(t, config.DBPath)
	assert.False(t, config.FullDetail)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("reads settings from the file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
delay: 2s
timeout: 30s
max_pages: 3
user_agent: "test-agent/1.0"
full_detail: true
addr: ":9000"
db_path: /tmp/test.db
areas:
  hout-bay: 11022
`)

		config, err := capeyaml.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, time.Duration(config.Delay))
		assert.Equal(t, 30*time.Second, time.Duration(config.Timeout))
		assert.Equal(t, 3, config.MaxPages)
		assert.Equal(t, "test-agent/1.0", config.UserAgent)
		assert.True(t, config.FullDetail)
		assert.Equal(t, ":9000", config.Addr)
		assert.Equal(t, "/tmp/test.db", config.DBPath)
		assert.Equal(t, map[string]int{"hout-bay": 11022}, config.Areas)
	})

	t.Run("keeps defaults for omitted settings", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "max_pages: 5\n")

		config, err := capeyaml.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 5, config.MaxPages)
		assert.Equal(t, time.Second, time.Duration(config.Delay))
		assert.Equal(t, ":8000", config.Addr)
	})

	t.Run("returns ENOTFOUND for a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := capeyaml.LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
		require.Error(t, err)
		assert.Equal(t, capescout.ENOTFOUND, capescout.ErrorCode(err))
	})

	t.Run("returns EINVALID for malformed YAML", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "max_pages: [not a number\n")

		_, err := capeyaml.LoadConfig(path)
		require.Error(t, err)
		assert.Equal(t, capescout.EINVALID, capescout.ErrorCode(err))
	})

	t.Run("rejects unparseable durations", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "delay: fast\n")

		_, err := capeyaml.LoadConfig(path)
		require.Error(t, err)
		assert.Equal(t, capescout.EINVALID, capescout.ErrorCode(err))
	})
}

func TestConfig_Catalog(t *testing.T) {
	t.Parallel()

	t.Run("merges extra areas into the built-in catalog", func(t *testing.T) {
		t.Parallel()

		config := capeyaml.DefaultConfig()
		config.Areas = map[string]int{"Hout Bay": 11022}

		catalog := config.Catalog()

		area, err := catalog.Resolve("sea-point")
		require.NoError(t, err)
		assert.Equal(t, 11021, area.Code)

		area, err = catalog.Resolve("hout bay")
		require.NoError(t, err)
		assert.Equal(t, 11022, area.Code)
	})

	t.Run("extra areas can override built-in codes", func(t *testing.T) {
		t.Parallel()

		config := capeyaml.DefaultConfig()
		config.Areas = map[string]int{"sea-point": 99999}

		area, err := config.Catalog().Resolve("sea-point")
		require.NoError(t, err)
		assert.Equal(t, 99999, area.Code)
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns an explicit path that exists", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "max_pages: 5\n")
		assert.Equal(t, path, capeyaml.FindConfigFile(path))
	})

	t.Run("returns empty for an explicit path that does not exist", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, capeyaml.FindConfigFile(filepath.Join(t.TempDir(), "absent.yml")))
	})
}
