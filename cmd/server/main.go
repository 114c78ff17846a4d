package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/willora/willora-backend/internal/config"
)

// rootCmd starts the API server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "willora",
	Short: "Willora journaling backend",
	Long: `Willora journaling backend. Usage:

	willora            start the API server
	willora serve      start the API server
	willora indexes    create the store indexes/tables and exit
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context(), loadConfig())
	},
}

func loadConfig() *config.Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return config.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
