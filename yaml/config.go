// Package yaml loads capescout configuration from YAML files.
package yaml

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/jbekker/capescout"
	"github.com/jbekker/capescout/crawl"
	capehttp "github.com/jbekker/capescout/http"
)

const (
	// AppName is used for XDG directory paths.
	AppName = "capescout"

	// DefaultConfigFile is the config file name searched for in the
	// working directory.
	DefaultConfigFile = ".capescout.yml"
)

// Duration is a time.Duration that unmarshals from YAML strings
// like "1s" or "750ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return capescout.Errorf(capescout.EINVALID, "invalid duration %q", s)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds the scraper and API settings read from a config file.
type Config struct {
	// Scrape settings.
	Delay      Duration `yaml:"delay"`
	Timeout    Duration `yaml:"timeout"`
	MaxPages   int      `yaml:"max_pages"`
	UserAgent  string   `yaml:"user_agent"`
	FullDetail bool     `yaml:"full_detail"`

	// API settings.
	Addr string `yaml:"addr"`

	// Storage.
	DBPath string `yaml:"db_path"`

	// Extra areas merged into the built-in catalog, slug to area code.
	Areas map[string]int `yaml:"areas"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Delay:     Duration(crawl.DefaultDelay),
		Timeout:   Duration(capehttp.DefaultFetchTimeout),
		MaxPages:  crawl.DefaultMaxPages,
		UserAgent: capehttp.DefaultUserAgent,
		Addr:      capehttp.DefaultAddr,
		DBPath:    DefaultDBPath(),
	}
}

// Catalog returns the built-in area catalog extended with the config's
// extra areas.
func (c Config) Catalog() *capescout.AreaCatalog {
	catalog := capescout.NewAreaCatalog()
	for name, code := range c.Areas {
		catalog.Add(name, code)
	}
	return catalog
}

// LoadConfig reads a YAML config file, applying defaults for any
// setting the file omits.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, capescout.Errorf(capescout.ENOTFOUND, "config file not found: %s", path)
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, capescout.Errorf(capescout.EINVALID, "invalid config file %s: %v", path, err)
	}
	return config, nil
}

// FindConfigFile locates the config file. An explicit path wins, then
// .capescout.yml in the working directory, then config.yml in the XDG
// config directory. Returns "" when no file exists.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		path := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	path := filepath.Join(xdg.ConfigHome, AppName, "config.yml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// DefaultDBPath returns the XDG data location for the property database.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, "capescout.db")
}
