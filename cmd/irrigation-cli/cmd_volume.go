package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/irrigation-predictor/internal/irrigation"
)

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Compute the water volume for a positive decision",
	Long:  `Evaluate the water volume formula offline, without contacting the server.`,
	RunE:  runVolume,
}

var (
	volumeMoisture float64
	volumeTank     float64
	volumeRain     float64
)

func init() {
	rootCmd.AddCommand(volumeCmd)
	volumeCmd.Flags().Float64Var(&volumeMoisture, "soil-moisture", 0, "soil moisture (%)")
	volumeCmd.Flags().Float64Var(&volumeTank, "tank-level", 0, "tank level (litres)")
	volumeCmd.Flags().Float64Var(&volumeRain, "rain", 0, "rain expected over the next 48h (mm)")
}

func runVolume(cmd *cobra.Command, args []string) error {
	litres := irrigation.ComputeVolume(volumeMoisture, volumeTank, volumeRain)
	fmt.Printf("%.2f\n", litres)
	return nil
}
