package output

import (
	"context"
	"fmt"
	"io"

	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/schollz/progressbar/v3"
)

// Export writes rows to dest in order, drawing progress on progress. It
// stops at the first failed row or when ctx is done and reports how many
// rows were written. dest is left open.
func Export(ctx context.Context, rows []models.LongFormatRecord, dest OutputDestination, progress io.Writer) (int, error) {
	bar := progressbar.NewOptions(len(rows),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("exporting rows"),
		progressbar.OptionShowCount(),
	)

	for i, rec := range rows {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := dest.WriteRecord(rec); err != nil {
			return i, fmt.Errorf("row %d: %w", i, err)
		}
		_ = bar.Add(1)
	}
	if err := bar.Finish(); err != nil {
		return len(rows), err
	}
	fmt.Fprintln(progress)
	return len(rows), nil
}
