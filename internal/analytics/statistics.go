package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

type Statistics struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
}

// Round2 rounds half up to two decimals.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// ComputeStatistics summarizes the positive values. It returns nil when
// there are none.
func ComputeStatistics(values []float64) *Statistics {
	valid := positive(values)
	if len(valid) == 0 {
		return nil
	}
	sort.Float64s(valid)

	n := len(valid)
	median := valid[n/2]
	if n%2 == 0 {
		median = (valid[n/2-1] + valid[n/2]) / 2
	}

	return &Statistics{
		Count:   n,
		Average: Round2(mean(valid)),
		Min:     Round2(valid[0]),
		Max:     Round2(valid[n-1]),
		Median:  Round2(median),
	}
}

// MetricValues collects one column across records, zeros included.
func MetricValues(records []*models.TrafficRecord, m models.Metric) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Value(m)
	}
	return values
}

func FormatStatistics(label string, stats *Statistics) string {
	if stats == nil {
		return fmt.Sprintf("%s:\n  %s", label, NoDataMessage)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", label)
	fmt.Fprintf(&sb, "  Average Speed: %s km/h\n", formatNumber(stats.Average))
	fmt.Fprintf(&sb, "  Min Speed: %s km/h\n", formatNumber(stats.Min))
	fmt.Fprintf(&sb, "  Max Speed: %s km/h\n", formatNumber(stats.Max))
	fmt.Fprintf(&sb, "  Median Speed: %s km/h\n", formatNumber(stats.Median))
	fmt.Fprintf(&sb, "  Data Points: %d", stats.Count)
	return sb.String()
}

// RenderAllVehicleStatistics lists speed statistics for every class with
// data; classes without any positive reading are skipped.
func RenderAllVehicleStatistics(records []*models.TrafficRecord) string {
	var sb strings.Builder
	sb.WriteString("Average Speed Statistics for All Vehicle Types:\n")
	sb.WriteString(strings.Repeat("=", 70) + "\n\n")

	for _, c := range models.VehicleClasses() {
		stats := ComputeStatistics(MetricValues(records, models.SpeedOf(c)))
		if stats == nil {
			continue
		}
		sb.WriteString(FormatStatistics(c.Label(), stats))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func positive(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// formatNumber prints the shortest representation, so 25 renders as "25"
// and 85.25 as "85.25".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
