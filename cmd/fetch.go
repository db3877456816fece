package cmd

import (
	"fmt"
	"os"

	"github.com/bryan-buckman/newsdesk/internal/importer"
	"github.com/bryan-buckman/newsdesk/internal/opml"
	"github.com/bryan-buckman/newsdesk/internal/rss"
	"github.com/spf13/cobra"
)

var fetchOPML string

// fetchCmd imports articles from news feeds given as URLs or an OPML list.
var fetchCmd = &cobra.Command{
	Use:   "fetch [feed-url...]",
	Short: "Import articles from RSS/Atom feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := opml.Entries(args...)

		path := appCfg.Feeds.OPMLPath
		if fetchOPML != "" {
			path = fetchOPML
		}
		if path != "" {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open opml: %w", err)
			}
			listed, err := opml.Parse(f)
			f.Close()
			if err != nil {
				return err
			}
			entries = append(entries, listed...)
		}
		if len(entries) == 0 {
			return fmt.Errorf("no feeds given: pass feed urls or --opml")
		}

		timeout, err := appCfg.FeedTimeout()
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fetcher := rss.NewFetcher(importer.New(store, appLog), appLog)
		fetcher.Timeout = timeout
		res, err := fetcher.FetchAll(cmd.Context(), entries)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new articles from %d feeds (%d items seen).\n", res.Imported, len(entries), res.Total)
		return err
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOPML, "opml", "", "OPML subscription list (default: feeds.opml_path)")
	rootCmd.AddCommand(fetchCmd)
}
