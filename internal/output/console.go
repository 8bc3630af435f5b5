package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteRecord(rec models.LongFormatRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := c.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }
