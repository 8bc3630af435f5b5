package analytics

import (
	"encoding/json"
	"sort"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

// UnknownDay buckets records that carry no measurement time.
const UnknownDay = "unknown"

// TimeSeriesPoint holds the per-day averages of the requested metrics. A
// metric missing from Values had no positive reading that day.
type TimeSeriesPoint struct {
	Date   string
	Values map[models.Metric]float64
}

func (p TimeSeriesPoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Values)+1)
	out["date"] = p.Date
	for m, v := range p.Values {
		out[m.String()] = v
	}
	return json.Marshal(out)
}

func DefaultGraphMetrics() []models.Metric {
	return []models.Metric{
		models.SpeedOf(models.HeavyVehicles),
		models.SpeedOf(models.PassengerCar),
	}
}

// DayKey is the UTC calendar day of the record as YYYY-MM-DD.
func DayKey(r *models.TrafficRecord) string {
	if r.MeasurementTime == nil {
		return UnknownDay
	}
	return r.MeasurementTime.UTC().Format("2006-01-02")
}

// AggregateDaily averages the positive values of each metric per calendar
// day. Points come back sorted by day; the fixed-width key makes string
// order chronological.
func AggregateDaily(records []*models.TrafficRecord, metrics []models.Metric) []TimeSeriesPoint {
	buckets := make(map[string]map[models.Metric][]float64)
	for _, r := range records {
		key := DayKey(r)
		day, ok := buckets[key]
		if !ok {
			day = make(map[models.Metric][]float64, len(metrics))
			buckets[key] = day
		}
		for _, m := range metrics {
			if v := r.Value(m); v > 0 {
				day[m] = append(day[m], v)
			}
		}
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]TimeSeriesPoint, 0, len(dates))
	for _, date := range dates {
		point := TimeSeriesPoint{Date: date, Values: make(map[models.Metric]float64)}
		for m, values := range buckets[date] {
			point.Values[m] = Round2(mean(values))
		}
		points = append(points, point)
	}
	return points
}
