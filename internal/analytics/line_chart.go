package analytics

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

const (
	chartRows        = 20
	chartMinScale    = 100
	chartMaxAxisRule = 60
	chartMaxTicks    = 10
	chartMarker      = "●"
)

var legendLabels = []struct {
	metric models.Metric
	label  string
}{
	{models.SpeedOf(models.HeavyVehicles), "🔴 Heavy Vehicles"},
	{models.SpeedOf(models.PassengerCar), "🔵 Passenger Cars"},
	{models.SpeedOf(models.HeavyVehiclesTrailer), "🔶 Heavy w/ Trailer"},
	{models.SpeedOf(models.PassengerCarTrailer), "🟦 Passenger w/ Trailer"},
}

// ChartScale is the top of the Y axis: the observed maximum rounded up to a
// multiple of ten, never below 100.
func ChartScale(points []TimeSeriesPoint, metrics []models.Metric) int {
	var maxValue float64
	for _, p := range points {
		for _, m := range metrics {
			if v, ok := p.Values[m]; ok && v > maxValue {
				maxValue = v
			}
		}
	}
	scale := int(math.Ceil(maxValue/10)) * 10
	if scale < chartMinScale {
		scale = chartMinScale
	}
	return scale
}

// RenderLineChart plots one column per day on a 21-row grid. A cell gets a
// marker when a metric's value lies within half a row of that row; metrics
// are tried in the order given.
func RenderLineChart(points []TimeSeriesPoint, metrics []models.Metric) string {
	if len(points) == 0 {
		return NoDataMessage
	}

	scale := ChartScale(points, metrics)

	var sb strings.Builder
	sb.WriteString("\nAverage Speed Trends Over Time\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString("Legend:\n")
	for _, entry := range legendLabels {
		if slices.Contains(metrics, entry.metric) {
			sb.WriteString("  " + entry.label + "\n")
		}
	}
	sb.WriteString("\n")

	for y := chartRows; y >= 0; y-- {
		rowSpeed := int(math.Floor(float64(y)/chartRows*float64(scale) + 0.5))
		fmt.Fprintf(&sb, "%4d | ", rowSpeed)
		for _, p := range points {
			cell := " "
			for _, m := range metrics {
				v, ok := p.Values[m]
				if ok && v > 0 && math.Abs(v/float64(scale)*chartRows-float64(y)) < 0.5 {
					cell = chartMarker
					break
				}
			}
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("     +" + strings.Repeat("-", min(len(points), chartMaxAxisRule)) + "\n")

	step := (len(points) + chartMaxTicks - 1) / chartMaxTicks
	sb.WriteString("     ")
	for x := 0; x < len(points); x += step {
		sb.WriteString(tickLabel(points[x].Date))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "\nData points: %d\n", len(points))
	fmt.Fprintf(&sb, "Y-axis range: 0 - %d km/h\n", scale)
	return sb.String()
}

// tickLabel takes characters 5..10 of the day key, MM-DD for a date.
func tickLabel(date string) string {
	if len(date) <= 5 {
		return ""
	}
	return date[5:min(len(date), 10)]
}
