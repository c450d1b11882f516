package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the store schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// opening the store runs its migrations
		a, err := bootstrap(cmd.Context(), lockAlways)
		if err != nil {
			return err
		}
		defer a.close()
		cmd.Printf("store %q is up to date\n", a.config().Store.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
