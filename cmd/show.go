package cmd

import (
	"github.com/bryan-buckman/newsdesk/internal/display"
	"github.com/spf13/cobra"
)

var showNoColor bool

// showCmd prints an overview of the store with sample rows.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show totals and sample rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		return display.Summary(cmd.OutOrStdout(), store, display.SummaryOptions{Colors: !showNoColor})
	},
}

func init() {
	showCmd.Flags().BoolVar(&showNoColor, "no-color", false, "disable coloured headings")
	rootCmd.AddCommand(showCmd)
}
