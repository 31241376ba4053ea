package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/irrigation-predictor/internal/model"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect classifier artifacts",
}

var modelCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load a model artifact and report its schema",
	Long: `Load the classifier artifact at --path (or the bundled model) exactly as the
server does at startup, and report its feature schema and size.`,
	RunE: runModelCheck,
}

var modelPath string

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.AddCommand(modelCheckCmd)
	modelCheckCmd.Flags().StringVar(&modelPath, "path", "", "model artifact path (bundled model if empty)")
}

func runModelCheck(cmd *cobra.Command, args []string) error {
	f, err := model.Load(modelPath)
	if err != nil {
		return err
	}

	source := modelPath
	if source == "" {
		source = "bundled"
	}
	fmt.Printf("model:    %s %s (%s)\n", f.Name(), f.Version(), source)
	fmt.Printf("trees:    %d\n", f.NumTrees())
	fmt.Printf("features: %s\n", strings.Join(f.Features(), ", "))
	fmt.Println("OK")
	return nil
}
