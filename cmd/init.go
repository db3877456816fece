package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// initCmd creates the schema. Running it again is harmless.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the articles, reports and link tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.EnsureSchema(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database and tables created successfully (%s).\n", store.DatabaseType())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
