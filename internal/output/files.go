package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

var csvHeader = []string{
	"measurement_time", "county", "road_number", "measurement_point_id",
	"vehicle_type", "count", "avg_speed",
}

type csvFile struct {
	file   *os.File
	writer *csv.Writer
}

// CSVOutput keeps one data.csv per day partition open until Close.
type CSVOutput struct {
	basePath string
	folder   string
	files    map[string]*csvFile
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*csvFile),
	}
}

func (c *CSVOutput) WriteRecord(rec models.LongFormatRecord) error {
	dir := partitionDir(c.basePath, c.folder, rec)
	f, ok := c.files[dir]
	if !ok {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(dir, "data.csv"))
		if err != nil {
			return err
		}
		f = &csvFile{file: file, writer: csv.NewWriter(file)}
		c.files[dir] = f
		if err := f.writer.Write(csvHeader); err != nil {
			return err
		}
	}

	row := []string{
		formatTime(rec),
		rec.County,
		rec.RoadNumber,
		rec.MeasurementPointID,
		rec.VehicleType,
		strconv.Itoa(rec.Count),
		strconv.FormatFloat(rec.AvgSpeed, 'f', -1, 64),
	}
	return f.writer.Write(row)
}

func (c *CSVOutput) Close() error {
	var errs []error
	for _, f := range c.files {
		f.writer.Flush()
		errs = append(errs, f.writer.Error(), f.file.Close())
	}
	c.files = make(map[string]*csvFile)
	return errors.Join(errs...)
}

// JSONOutput writes one JSON object per line into data.json per partition.
type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteRecord(rec models.LongFormatRecord) error {
	dir := partitionDir(j.basePath, j.folder, rec)
	file, ok := j.files[dir]
	if !ok {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		var err error
		file, err = os.Create(filepath.Join(dir, "data.json"))
		if err != nil {
			return err
		}
		j.files[dir] = file
	}

	jsonData, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = file.Write(append(jsonData, '\n'))
	return err
}

func (j *JSONOutput) Close() error {
	var errs []error
	for _, file := range j.files {
		errs = append(errs, file.Close())
	}
	j.files = make(map[string]*os.File)
	return errors.Join(errs...)
}
