package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/irrigation-predictor/internal/client"
	"github.com/i474232898/irrigation-predictor/internal/irrigation"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Send a sensor reading and print the decision",
	Long: `Send a sensor reading to the server's /predict endpoint. The reading is read
from --file (use - for stdin) or assembled from the sensor flags that are set.`,
	RunE: runPredict,
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recently logged decision",
	RunE:  runLatest,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server and decision store health",
	RunE:  runHealth,
}

var predictFile string

// sensorFlags are the reading fields settable from flags.
var sensorFlags = []string{
	irrigation.FeatureSoilMoisture,
	irrigation.FeatureSoilTemp,
	irrigation.FeatureSoilPH,
	irrigation.FeatureTankLevel,
	irrigation.FeatureAmbientHumidity,
	irrigation.FeatureAmbientTemp,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(healthCmd)

	predictCmd.Flags().StringVarP(&predictFile, "file", "f", "", "JSON reading file, - for stdin")
	for _, name := range sensorFlags {
		predictCmd.Flags().Float64(flagName(name), 0, name)
	}
	predictCmd.Flags().Int64("user-id", 0, "user id recorded with the decision")
	predictCmd.Flags().String("timestamp", "", "reading timestamp (server time if empty)")
}

// flagName turns soil_moisture into soil-moisture.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func newClient() *client.Client {
	return client.NewClient(serverURL, client.WithTimeout(timeout))
}

func runPredict(cmd *cobra.Command, args []string) error {
	body, err := readingBody(cmd)
	if err != nil {
		return err
	}

	d, err := newClient().Predict(cmd.Context(), body)
	if err != nil {
		return err
	}
	return printJSON(d)
}

func readingBody(cmd *cobra.Command) (json.RawMessage, error) {
	switch predictFile {
	case "":
	case "-":
		return io.ReadAll(os.Stdin)
	default:
		return os.ReadFile(predictFile)
	}

	reading := map[string]any{}
	for _, name := range sensorFlags {
		if cmd.Flags().Changed(flagName(name)) {
			v, _ := cmd.Flags().GetFloat64(flagName(name))
			reading[name] = v
		}
	}
	if cmd.Flags().Changed("user-id") {
		v, _ := cmd.Flags().GetInt64("user-id")
		reading["user_id"] = v
	}
	if ts, _ := cmd.Flags().GetString("timestamp"); ts != "" {
		reading["timestamp"] = ts
	}
	return json.Marshal(reading)
}

func runLatest(cmd *cobra.Command, args []string) error {
	rec, err := newClient().Latest(cmd.Context())
	if errors.Is(err, client.ErrNotFound) {
		fmt.Println("No decisions logged yet.")
		return nil
	}
	if err != nil {
		return err
	}
	return printJSON(rec)
}

func runHealth(cmd *cobra.Command, args []string) error {
	h, err := newClient().Health(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("status=%s service=%s store=%s\n", h.Status, h.Service, h.Store)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
