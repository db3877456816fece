// Package config holds newsdesk settings.
//
// Values are loaded by viper (see cmd/root.go) from newsdesk.yaml and
// NEWSDESK_* environment variables, then completed with FillDefaults.
// The storage path and the input path are plain configuration handed to the
// store and importer at construction; nothing reads them from globals.
package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// DatabaseConfig selects and locates the store.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	Path   string `mapstructure:"path"`   // sqlite file
	DSN    string `mapstructure:"dsn"`    // postgres connection string
}

// ImportConfig controls the tabular article import.
type ImportConfig struct {
	Path     string `mapstructure:"path"`
	Encoding string `mapstructure:"encoding"` // e.g. utf-8, windows-1252
}

// FeedsConfig controls feed ingestion.
type FeedsConfig struct {
	OPMLPath string `mapstructure:"opml_path"`
	Timeout  string `mapstructure:"timeout"` // duration string, e.g. "30s"
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Import   ImportConfig   `mapstructure:"import"`
	Feeds    FeedsConfig    `mapstructure:"feeds"`
	Server   ServerConfig   `mapstructure:"server"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = "./news_articles.db"
	}
	if c.Import.Path == "" {
		c.Import.Path = "./scraped_data.csv"
	}
	if c.Import.Encoding == "" {
		c.Import.Encoding = "utf-8"
	}
	if c.Feeds.Timeout == "" {
		c.Feeds.Timeout = "30s"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if _, err := htmlindex.Get(c.Import.Encoding); err != nil {
		return fmt.Errorf("import.encoding %q: %w", c.Import.Encoding, err)
	}
	if _, err := c.FeedTimeout(); err != nil {
		return err
	}
	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.App.LogLevel)
	}
	return nil
}

// FeedTimeout parses Feeds.Timeout.
func (c *Config) FeedTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Feeds.Timeout)
	if err != nil {
		return 0, fmt.Errorf("feeds.timeout %q: %w", c.Feeds.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("feeds.timeout must be positive, got %s", d)
	}
	return d, nil
}
