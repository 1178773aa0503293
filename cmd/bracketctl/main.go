package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath        string
	migrationsDir string
)

var rootCmd = &cobra.Command{
	Use:   "bracketctl",
	Short: "A CLI to inspect and exercise the bracket engine",
	Long: `A command-line interface for generating demo brackets and inspecting
tournament state without going through the HTTP API.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "tournament.db?_journal_mode=WAL", "SQLite DSN")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations", "./migrations", "Migrations directory")
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newShowCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
