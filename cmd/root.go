package cmd

import (
	"github.com/microbooks/microbooks/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg        *config.Config
	flagServer string
	flagDB     string
)

var rootCmd = &cobra.Command{
	Use:   "microbooks",
	Short: "Double-entry bookkeeping for small businesses",
	Long:  "Small-business bookkeeping backed by SQLite: chart of accounts, source documents, and derived ledgers and reports.",
}

func init() {
	c, err := config.Load()
	cobra.CheckErr(err)
	cfg = c

	rootCmd.PersistentFlags().StringVar(&flagServer, "server", cfg.ServerURL, "Server address")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", cfg.DBPath, "SQLite database path")
}

func Execute() error {
	return rootCmd.Execute()
}
