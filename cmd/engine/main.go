package main

import (
	"os"

	"github.com/spf13/cobra"
)

var dataDirFlag string

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "Lead capture and property matching engine",
	Long: `Serves the listing and buyer-requirement forms, the admin dashboard API
and the property match engine. Without a subcommand it runs "serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "",
		"data directory for config.yml, the SQLite database and the lock file (default $LEADHUB_DATA_DIR or .)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
