// Package output writes long-format rows to files, object storage, Kafka
// or the console.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

// Topic names the dataset: the Kafka topic fallback and the directory
// under output_path/output_folder.
const Topic = "long_format"

type OutputDestination interface {
	WriteRecord(rec models.LongFormatRecord) error
	Close() error
}

// NewOutputDestination picks the destination for config.OutputFormat.
func NewOutputDestination(ctx context.Context, config *models.Config) (OutputDestination, error) {
	switch config.OutputFormat {
	case "csv":
		return NewCSVOutput(config.OutputPath, config.OutputFolder), nil
	case "json":
		return NewJSONOutput(config.OutputPath, config.OutputFolder), nil
	case "parquet":
		return NewParquetOutput(ctx, config)
	case "kafka":
		return NewKafkaOutput(config.Kafka)
	case "console", "":
		return NewConsoleOutput(os.Stdout), nil
	}
	return nil, fmt.Errorf("unsupported output format: %s", config.OutputFormat)
}

// partitionPath is year=YYYY/month=MM/day=DD of the UTC measurement day,
// or day=unknown for rows without a time.
func partitionPath(rec models.LongFormatRecord) string {
	if rec.MeasurementTime == nil {
		return "day=unknown"
	}
	year, month, day := rec.MeasurementTime.UTC().Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d", year, month, day)
}

func partitionDir(basePath, folder string, rec models.LongFormatRecord) string {
	return filepath.Join(basePath, folder, Topic, filepath.FromSlash(partitionPath(rec)))
}

func formatTime(rec models.LongFormatRecord) string {
	if rec.MeasurementTime == nil {
		return ""
	}
	return rec.MeasurementTime.UTC().Format(time.RFC3339)
}
