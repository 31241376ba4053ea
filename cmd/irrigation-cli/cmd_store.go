package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/irrigation-predictor/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply decision store migrations",
	Long:  `Connect to DATABASE_URL (or --database) and apply pending schema migrations.`,
	RunE:  runMigrate,
}

var databaseURL string

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&databaseURL, "database", "", "database URL (defaults to DATABASE_URL)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	url := databaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return errors.New("no database configured: set DATABASE_URL or --database")
	}

	// Open migrates SQL stores before returning them.
	s, err := store.Open(cmd.Context(), url)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println("Decision store is up to date.")
	return nil
}
