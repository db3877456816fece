package cmd

import (
	"fmt"

	"github.com/bryan-buckman/newsdesk/internal/importer"
	"github.com/spf13/cobra"
)

var (
	importFile     string
	importEncoding string
	importVerbose  bool
)

// importCmd bulk-loads articles from CSV, skipping rows whose url is known.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import articles from a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appCfg.Import.Path
		if importFile != "" {
			path = importFile
		}
		encoding := appCfg.Import.Encoding
		if importEncoding != "" {
			encoding = importEncoding
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := importer.New(store, appLog).ImportFile(path, encoding)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Successfully imported %d out of %d articles from CSV.\n", res.Imported, res.Total)
		if n := len(res.Skipped); n > 0 {
			fmt.Fprintf(out, "Skipped %d rows (%d duplicates).\n", n, res.Duplicates())
		}
		if importVerbose {
			for _, s := range res.Skipped {
				if s.Line > 0 {
					fmt.Fprintf(out, "  line %d: %s\n", s.Line, s.Kind)
					continue
				}
				fmt.Fprintf(out, "  row %d %s: %s\n", s.Row, s.URL, s.Kind)
			}
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "CSV file (default: import.path)")
	importCmd.Flags().StringVar(&importEncoding, "encoding", "", "input encoding (default: import.encoding)")
	importCmd.Flags().BoolVar(&importVerbose, "list-skipped", false, "list every skipped row")
	rootCmd.AddCommand(importCmd)
}
