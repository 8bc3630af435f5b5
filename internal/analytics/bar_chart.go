package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

const (
	BarWidth    = 40
	labelWidth  = 25
	bannerWidth = 76
	barFilled   = "█"
	barEmpty    = "░"
)

// ClassMean is the mean of one class's positive readings.
type ClassMean struct {
	Class   models.VehicleClass
	Mean    float64
	Samples int
}

// ClassMeans ranks the classes that have positive readings by mean,
// highest first. Classes without data are omitted.
func ClassMeans(records []*models.TrafficRecord, kind models.MetricKind) []ClassMean {
	var means []ClassMean
	for _, c := range models.VehicleClasses() {
		values := positive(MetricValues(records, models.Metric{Class: c, Kind: kind}))
		if len(values) == 0 {
			continue
		}
		means = append(means, ClassMean{Class: c, Mean: mean(values), Samples: len(values)})
	}
	sort.SliceStable(means, func(i, j int) bool {
		return means[i].Mean > means[j].Mean
	})
	return means
}

// BarLength scales value against maxValue onto 0..BarWidth cells.
func BarLength(value, maxValue float64) int {
	if maxValue <= 0 || value <= 0 {
		return 0
	}
	n := int(math.Round(value / maxValue * BarWidth))
	return min(max(n, 0), BarWidth)
}

func chartTitle(kind models.MetricKind) (title, unit string) {
	if kind == models.KindCount {
		return "Average Vehicle Count by Vehicle Type", "vehicles"
	}
	return "Average Speed by Vehicle Type", "km/h"
}

// RenderBarChart draws one bar per class, longest first. scanned is the
// number of records the means were computed from.
func RenderBarChart(kind models.MetricKind, means []ClassMean, scanned int) string {
	title, unit := chartTitle(kind)
	if len(means) == 0 {
		return banner(title) + "\n" + NoDataMessage + "\n"
	}

	maxMean := means[0].Mean

	var sb strings.Builder
	sb.WriteString(banner(fmt.Sprintf("%s (%s)", title, unit)))
	sb.WriteString("\n")
	for _, cm := range means {
		n := BarLength(cm.Mean, maxMean)
		bar := strings.Repeat(barFilled, n) + strings.Repeat(barEmpty, BarWidth-n)
		fmt.Fprintf(&sb, "%-*s │%s│ %.1f %s\n", labelWidth, cm.Class.Label(), bar, cm.Mean, unit)
	}
	sb.WriteString("\n")
	sb.WriteString(banner(fmt.Sprintf("Records scanned: %d   Vehicle types: %d   Full bar: %.1f %s",
		scanned, len(means), maxMean, unit)))
	return sb.String()
}

func banner(text string) string {
	var sb strings.Builder
	sb.WriteString("╔" + strings.Repeat("═", bannerWidth) + "╗\n")
	fmt.Fprintf(&sb, "║  %-*s║\n", bannerWidth-2, text)
	sb.WriteString("╚" + strings.Repeat("═", bannerWidth) + "╝\n")
	return sb.String()
}
