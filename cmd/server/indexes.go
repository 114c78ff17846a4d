package main

import (
	"log"

	"github.com/spf13/cobra"
)

// indexesCmd prepares the configured store and exits. The server does the same on
// startup; this lets deployments run it ahead of a rollout.
var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the store indexes or tables and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		_, closeStore, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		closeStore()
		log.Printf("✅ Store %q is ready", cfg.StoreDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
