package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/chrisdamba/trafficmcp/internal/output"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Reshape records to long format and write them out",
	Long: `Fetches the newest records, turns each (record, vehicle type) pair with data
into one row and writes the rows as csv, json or parquet files partitioned by
day, to Kafka, or to the console.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		rows, err := a.analyzer.LongFormat(ctx, limit)
		if err != nil {
			return err
		}

		dest, err := output.NewOutputDestination(ctx, a.config)
		if err != nil {
			return err
		}

		n, err := output.Export(ctx, rows, dest, os.Stderr)
		if closeErr := dest.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("export stopped after %d rows: %w", n, err)
		}
		log.Printf("Exported %d long-format rows as %s", n, a.config.OutputFormat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int("limit", 5000, "Maximum number of source records")
	exportCmd.Flags().String("format", "csv", "Output format: csv, json, parquet, kafka or console")
	exportCmd.Flags().String("output-path", "./output", "Base directory for file outputs")
	exportCmd.Flags().String("destination", "local", "Where parquet files go: local or cloud")
	exportCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")

	bindFlag("output_format", exportCmd.Flags().Lookup("format"))
	bindFlag("output_path", exportCmd.Flags().Lookup("output-path"))
	bindFlag("output_destination", exportCmd.Flags().Lookup("destination"))
	bindFlag("kafka.broker_list", exportCmd.Flags().Lookup("kafka-broker-list"))
}
