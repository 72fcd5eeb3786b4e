package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

const (
	// DefaultFileName is the config file looked up in the working directory.
	DefaultFileName = "cmsbuild.toml"

	// EnvStoryblokToken overrides storyblok.token.
	EnvStoryblokToken = "CMSBUILD_STORYBLOK_TOKEN"

	// EnvVersion overrides version.
	EnvVersion = "CMSBUILD_VERSION"

	// SourceStoryblok reads stories from the Storyblok API.
	SourceStoryblok = "storyblok"

	// SourceFixture reads stories from a local JSON file.
	SourceFixture = "fixture"

	// DefaultRate is the Storyblok request rate per second.
	DefaultRate = 5.0

	// DefaultTimeout is the Storyblok request timeout.
	DefaultTimeout = "30s"
)

// Config is the build configuration.
type Config struct {
	// Source selects where stories come from: "storyblok" or "fixture".
	Source string `toml:"source"`

	// Version selects draft or published collection content.
	Version string `toml:"version"`

	// PageVersion selects the content version of standalone pages.
	PageVersion string `toml:"page_version"`

	// PerPage is the default page size for collections.
	PerPage int `toml:"per_page"`

	Storyblok StoryblokConfig `toml:"storyblok"`
	Fixture   FixtureConfig   `toml:"fixture"`
	History   HistoryConfig   `toml:"history"`

	// Collections replace the built-in collections when present.
	Collections []CollectionConfig `toml:"collections"`

	// Pages replace the built-in standalone pages when present.
	Pages []PageConfig `toml:"pages"`

	path string
}

// StoryblokConfig configures the Storyblok client.
type StoryblokConfig struct {
	Token   string  `toml:"token"`
	BaseURL string  `toml:"base_url"`
	Rate    float64 `toml:"rate"`
	Timeout string  `toml:"timeout"`
}

// FixtureConfig configures the fixture source.
type FixtureConfig struct {
	// Path is the stories file. Relative paths resolve against the config file.
	Path string `toml:"path"`
}

// HistoryConfig configures the build run history database.
type HistoryConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
}

// CollectionConfig is one [[collections]] table.
type CollectionConfig struct {
	Key          string `toml:"key"`
	Path         string `toml:"path"`
	StartsWith   string `toml:"starts_with"`
	SortBy       string `toml:"sort_by"`
	Order        string `toml:"order"`
	PerPage      int    `toml:"per_page"`
	Manifest     string `toml:"manifest"`
	ManifestName string `toml:"manifest_name"`
	Artifacts    bool   `toml:"artifacts"`
	Extension    string `toml:"extension"`
	Naming       string `toml:"naming"`
	Catalog      string `toml:"catalog"`
	CategoryList string `toml:"category_list"`
}

// PageConfig is one [[pages]] table.
type PageConfig struct {
	Key  string `toml:"key"`
	Name string `toml:"name"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration at path, applies defaults and environment
// overrides, and validates it. An empty path tries DefaultFileName in the
// working directory and falls back to Default when it does not exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, path, err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		cfg.path = abs
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file yet - built-in defaults apply
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	cfg.normalise()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was read from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// FixturePath returns the fixture file, resolved against the config file.
func (c *Config) FixturePath() string {
	return c.resolve(c.Fixture.Path)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.path), p)
}

// HistoryDir returns the history database directory, resolved against the config file.
// An empty result selects the store's default location.
func (c *Config) HistoryDir() string {
	return c.resolve(c.History.Dir)
}

// Timeout returns the parsed Storyblok timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Storyblok.Timeout)
	if err != nil {
		return 0
	}
	return d
}

func (c *Config) applyDefaults() {
	if c.Source == "" {
		c.Source = SourceStoryblok
	}
	if c.Version == "" {
		c.Version = string(domain.VersionPublished)
	}
	if c.PageVersion == "" {
		c.PageVersion = string(domain.VersionDraft)
	}
	if c.PerPage == 0 {
		c.PerPage = domain.MaxPerPage
	}
	if c.Storyblok.Rate == 0 {
		c.Storyblok.Rate = DefaultRate
	}
	if c.Storyblok.Timeout == "" {
		c.Storyblok.Timeout = DefaultTimeout
	}
	if c.Collections == nil {
		c.Collections = DefaultCollections()
	}
	if c.Pages == nil {
		c.Pages = DefaultPages()
	}
}

func (c *Config) applyEnv() {
	if token := os.Getenv(EnvStoryblokToken); token != "" {
		c.Storyblok.Token = token
	}
	if version := os.Getenv(EnvVersion); version != "" {
		c.Version = version
	}
}

func (c *Config) normalise() {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	c.Version = strings.ToLower(strings.TrimSpace(c.Version))
	c.PageVersion = strings.ToLower(strings.TrimSpace(c.PageVersion))
	c.Storyblok.Token = strings.TrimSpace(c.Storyblok.Token)

	for i := range c.Collections {
		col := &c.Collections[i]
		col.Key = strings.TrimSpace(col.Key)
		col.Path = filepath.ToSlash(strings.Trim(strings.TrimSpace(col.Path), "/"))
		col.Order = strings.ToLower(strings.TrimSpace(col.Order))
		col.Extension = strings.TrimPrefix(strings.TrimSpace(col.Extension), ".")
	}
	for i := range c.Pages {
		c.Pages[i].Key = strings.TrimSpace(c.Pages[i].Key)
		c.Pages[i].Name = strings.TrimSpace(c.Pages[i].Name)
	}
}
