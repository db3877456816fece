// Package cmd contains the newsdesk command tree.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bryan-buckman/newsdesk/internal/config"
	"github.com/bryan-buckman/newsdesk/internal/database"
	"github.com/bryan-buckman/newsdesk/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string
	appCfg   config.Config
	appLog   *slog.Logger
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "Store news articles and daily reports",
	Long: `newsdesk keeps news articles and periodic reports in a small relational
store, links articles to the reports that cover them, and answers queries
across the link.

Example usage:
  newsdesk init                         # create the tables
  newsdesk import --file scraped.csv    # bulk import, duplicates skipped
  newsdesk add-report --date 2025-03-10 --content "..."
  newsdesk link 12 3                    # article 12 belongs to report 3
  newsdesk articles --report 3          # articles of report 3
  newsdesk show                         # overview with samples`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./newsdesk.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides database.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

// initConfig loads newsdesk.yaml, NEWSDESK_* variables and flags, in rising
// order of precedence.
func initConfig(cmd *cobra.Command) error {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("newsdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/newsdesk")
	}
	v.SetEnvPrefix("NEWSDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	flags := cmd.Root().PersistentFlags()
	_ = v.BindPFlag("database.path", flags.Lookup("db"))
	_ = v.BindPFlag("app.log_level", flags.Lookup("log-level"))

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	c.FillDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	appCfg = c

	appLog = logger.New(cmd.ErrOrStderr(), c.App.LogLevel)
	appLog.Debug("configuration loaded",
		"config_file", v.ConfigFileUsed(),
		"driver", c.Database.Driver,
		"path", c.Database.Path,
	)
	return nil
}

// setDefaults registers every key so that AutomaticEnv can fill it.
func setDefaults(v *viper.Viper) {
	var d config.Config
	d.FillDefaults()
	v.SetDefault("app.log_level", d.App.LogLevel)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("import.path", d.Import.Path)
	v.SetDefault("import.encoding", d.Import.Encoding)
	v.SetDefault("feeds.opml_path", d.Feeds.OPMLPath)
	v.SetDefault("feeds.timeout", d.Feeds.Timeout)
	v.SetDefault("server.addr", d.Server.Addr)
}

// openStore opens the configured backend; the schema is ensured on open.
func openStore() (database.Store, error) {
	store, err := database.Open(appCfg.Database)
	if err != nil {
		return nil, err
	}
	appLog.Debug("database opened", "type", store.DatabaseType())
	return store, nil
}
