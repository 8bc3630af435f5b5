package output

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/chrisdamba/trafficmcp/internal/cloudwriter"
	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

type parquetRow struct {
	MeasurementTime    string  `parquet:"name=measurement_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	County             string  `parquet:"name=county, type=BYTE_ARRAY, convertedtype=UTF8"`
	RoadNumber         string  `parquet:"name=road_number, type=BYTE_ARRAY, convertedtype=UTF8"`
	MeasurementPointID string  `parquet:"name=measurement_point_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	VehicleType        string  `parquet:"name=vehicle_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	Count              int64   `parquet:"name=count, type=INT64"`
	AvgSpeed           float64 `parquet:"name=avg_speed, type=DOUBLE"`
}

func toParquetRow(rec models.LongFormatRecord) parquetRow {
	return parquetRow{
		MeasurementTime:    formatTime(rec),
		County:             rec.County,
		RoadNumber:         rec.RoadNumber,
		MeasurementPointID: rec.MeasurementPointID,
		VehicleType:        rec.VehicleType,
		Count:              int64(rec.Count),
		AvgSpeed:           rec.AvgSpeed,
	}
}

// ParquetOutput writes one data.parquet per day partition, either on local
// disk or as cloud objects under the same key layout.
type ParquetOutput struct {
	ctx                context.Context
	basePath           string
	folder             string
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetOutput(ctx context.Context, config *models.Config) (*ParquetOutput, error) {
	p := newParquetOutput(ctx, config.OutputPath, config.OutputFolder)

	if config.OutputDestination != "" && config.OutputDestination != "local" {
		var factory cloudwriter.CloudWriterFactory
		var err error

		switch config.CloudStorage.Provider {
		case "s3":
			factory, err = cloudwriter.NewS3WriterFactory(ctx, config.CloudStorage.Region)
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.CloudStorage.Provider)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}

		p.cloudWriterFactory = factory
		p.cloudBucketName = config.CloudStorage.BucketName
		return p, nil
	}

	// stale partitions from an earlier export would otherwise linger
	p.cleanup()
	return p, nil
}

func newParquetOutput(ctx context.Context, basePath, folder string) *ParquetOutput {
	return &ParquetOutput{
		ctx:      ctx,
		basePath: basePath,
		folder:   folder,
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}
}

func (p *ParquetOutput) WriteRecord(rec models.LongFormatRecord) error {
	key := partitionPath(rec)
	pw, ok := p.writers[key]
	if !ok {
		var err error
		pw, err = p.createNewWriter(key, rec)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}

	if err := pw.Write(toParquetRow(rec)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(key string, rec models.LongFormatRecord) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, Topic, key, "data.parquet")
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.ctx, p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		dir := partitionDir(p.basePath, p.folder, rec)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(dir, "data.parquet"))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 4)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	p.writers[key] = pw
	p.files[key] = fw
	return pw, nil
}

func (p *ParquetOutput) cleanup() {
	fullPath := filepath.Join(p.basePath, p.folder, Topic)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return
	}
	err := filepath.Walk(fullPath, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(file) == ".parquet" {
			return os.Remove(file)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error cleaning up Parquet files: %v", err)
	}
}

// Close finishes every writer; the first failure is returned after all
// partitions have been attempted.
func (p *ParquetOutput) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			log.Printf("Error closing writer for %s: %v", key, err)
			keep(err)
		}
		if err := p.files[key].Close(); err != nil {
			log.Printf("Error closing file for %s: %v", key, err)
			keep(err)
		}
	}
	p.writers = make(map[string]*writer.ParquetWriter)
	p.files = make(map[string]source.ParquetFile)
	return firstErr
}

// CloudParquetFile adapts a write-only CloudWriter to parquet-go's
// ParquetFile. Reads and seeks from the end are unsupported.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

// Open and Create return the receiver; the object exists once written.
func (c *CloudParquetFile) Open(string) (source.ParquetFile, error)   { return c, nil }
func (c *CloudParquetFile) Create(string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
