package analytics

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

const rankedHours = 5

// LowestOrder controls how the lowest-hours list is printed.
type LowestOrder int

const (
	// LowestAscending lists the slowest hour first.
	LowestAscending LowestOrder = iota
	// LowestDescending lists the same hours fastest first, like the peak list.
	LowestDescending
)

// ParseLowestOrder accepts the same spellings as config validation.
func ParseLowestOrder(s string) (LowestOrder, error) {
	name, err := models.NormalizeLowestOrder(s)
	if err != nil {
		return 0, err
	}
	if name == "descending" {
		return LowestDescending, nil
	}
	return LowestAscending, nil
}

type HourlyAverage struct {
	Hour    int     `json:"hour"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func (h HourlyAverage) Label() string {
	return fmt.Sprintf("%02d:00", h.Hour)
}

// AggregateHourly averages the positive values of m per hour of day in loc.
// Hours without a positive reading are left out; the rest come back in hour
// order.
func AggregateHourly(records []*models.TrafficRecord, m models.Metric, loc *time.Location) []HourlyAverage {
	if loc == nil {
		loc = time.Local
	}

	var buckets [24][]float64
	for _, r := range records {
		if r.MeasurementTime == nil {
			continue
		}
		v := r.Value(m)
		if v <= 0 {
			continue
		}
		hour := r.MeasurementTime.In(loc).Hour()
		buckets[hour] = append(buckets[hour], v)
	}

	var hours []HourlyAverage
	for hour, values := range buckets {
		if len(values) == 0 {
			continue
		}
		hours = append(hours, HourlyAverage{
			Hour:    hour,
			Average: Round2(mean(values)),
			Count:   len(values),
		})
	}
	return hours
}

// RankHours returns the five fastest hours, fastest first, and the five
// slowest in the requested order. Ties keep hour order. With fewer than ten
// populated hours the two lists overlap.
func RankHours(hours []HourlyAverage, order LowestOrder) (peak, lowest []HourlyAverage) {
	sorted := slices.Clone(hours)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Average > sorted[j].Average
	})

	peak = sorted[:min(rankedHours, len(sorted))]
	lowest = slices.Clone(sorted[max(0, len(sorted)-rankedHours):])
	if order == LowestAscending {
		slices.Reverse(lowest)
	}
	return peak, lowest
}

func RenderPeakHours(class *models.VehicleClass, peak, lowest []HourlyAverage) string {
	var sb strings.Builder
	sb.WriteString("\nTraffic Pattern Analysis\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	if class != nil {
		fmt.Fprintf(&sb, "Vehicle Type: %s\n\n", *class)
	} else {
		sb.WriteString("All Vehicles Average\n\n")
	}

	sb.WriteString("Peak Hours (Highest Average Speeds):\n")
	writeHours(&sb, peak)

	sb.WriteString("\nLowest Hours (Lowest Average Speeds):\n")
	writeHours(&sb, lowest)
	return sb.String()
}

func writeHours(sb *strings.Builder, hours []HourlyAverage) {
	for _, h := range hours {
		fmt.Fprintf(sb, "  %s: %s km/h (%d data points)\n", h.Label(), formatNumber(h.Average), h.Count)
	}
}
