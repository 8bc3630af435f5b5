package analytics

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

func series(metric models.Metric, values ...float64) []TimeSeriesPoint {
	points := make([]TimeSeriesPoint, len(values))
	for i, v := range values {
		points[i] = TimeSeriesPoint{
			Date:   fmt.Sprintf("2023-11-%02d", i+1),
			Values: map[models.Metric]float64{},
		}
		if v > 0 {
			points[i].Values[metric] = v
		}
	}
	return points
}

func TestChartScale(t *testing.T) {
	heavy := models.SpeedOf(models.HeavyVehicles)
	tests := []struct {
		values []float64
		want   int
	}{
		{values: []float64{85}, want: 100},
		{values: []float64{60, 123.4}, want: 130},
		{values: []float64{130}, want: 130},
		{values: []float64{0, 0}, want: 100},
	}
	for _, tt := range tests {
		if got := ChartScale(series(heavy, tt.values...), []models.Metric{heavy}); got != tt.want {
			t.Errorf("ChartScale(%v) = %d, want %d", tt.values, got, tt.want)
		}
	}
}

func TestRenderLineChartPlacesMarkers(t *testing.T) {
	heavy := models.SpeedOf(models.HeavyVehicles)
	cars := models.SpeedOf(models.PassengerCar)
	points := series(heavy, 85, 60)
	points[1].Values[cars] = 100

	chart := RenderLineChart(points, DefaultGraphMetrics())
	lines := strings.Split(chart, "\n")

	rows := map[string]string{}
	for _, line := range lines {
		if len(line) > 6 && strings.HasPrefix(line[4:], " | ") {
			rows[strings.TrimSpace(line[:4])] = line[7:]
		}
	}
	if len(rows) != 21 {
		t.Fatalf("got %d grid rows, want 21:\n%s", len(rows), chart)
	}
	if rows["85"] != "● " {
		t.Errorf("row 85 = %q", rows["85"])
	}
	if rows["60"] != " ●" {
		t.Errorf("row 60 = %q", rows["60"])
	}
	if rows["100"] != " ●" {
		t.Errorf("row 100 = %q", rows["100"])
	}
	if rows["0"] != "  " {
		t.Errorf("row 0 = %q", rows["0"])
	}
	if !strings.Contains(chart, "🔴 Heavy Vehicles") || !strings.Contains(chart, "🔵 Passenger Cars") {
		t.Errorf("legend missing requested series:\n%s", chart)
	}
	if strings.Contains(chart, "Heavy w/ Trailer") {
		t.Errorf("legend lists a series that was not requested")
	}
}

func TestRenderLineChartAxes(t *testing.T) {
	heavy := models.SpeedOf(models.HeavyVehicles)
	values := make([]float64, 12)
	for i := range values {
		values[i] = 70
	}

	chart := RenderLineChart(series(heavy, values...), []models.Metric{heavy})

	if !strings.Contains(chart, "     +"+strings.Repeat("-", 12)+"\n") {
		t.Errorf("x axis rule should have 12 dashes:\n%s", chart)
	}
	if !strings.Contains(chart, "     11-0111-0311-0511-0711-0911-11\n") {
		t.Errorf("expected every second day as tick label:\n%s", chart)
	}
	if !strings.Contains(chart, "Data points: 12\n") || !strings.Contains(chart, "Y-axis range: 0 - 100 km/h\n") {
		t.Errorf("footer missing:\n%s", chart)
	}
}

func TestRenderLineChartAxisRuleIsCapped(t *testing.T) {
	heavy := models.SpeedOf(models.HeavyVehicles)
	points := make([]TimeSeriesPoint, 75)
	for i := range points {
		points[i] = TimeSeriesPoint{Date: fmt.Sprintf("2023-%02d-%02d", 1+i/28, 1+i%28), Values: map[models.Metric]float64{heavy: 50}}
	}
	chart := RenderLineChart(points, []models.Metric{heavy})
	if !strings.Contains(chart, "     +"+strings.Repeat("-", 60)+"\n") {
		t.Errorf("x axis rule should stop at 60 dashes")
	}
}

func TestRenderLineChartWithoutPositiveValues(t *testing.T) {
	heavy := models.SpeedOf(models.HeavyVehicles)
	chart := RenderLineChart(series(heavy, 0, 0, 0), []models.Metric{heavy})
	if strings.Contains(chart, chartMarker) {
		t.Errorf("chart without data should be blank:\n%s", chart)
	}
	if !strings.Contains(chart, "Y-axis range: 0 - 100 km/h") {
		t.Errorf("scale floor not applied")
	}
}

func TestRenderLineChartEmpty(t *testing.T) {
	if got := RenderLineChart(nil, DefaultGraphMetrics()); got != NoDataMessage {
		t.Errorf("got %q", got)
	}
}

func TestTickLabel(t *testing.T) {
	tests := map[string]string{
		"2023-11-01": "11-01",
		UnknownDay:   "wn",
		"abc":        "",
	}
	for in, want := range tests {
		if got := tickLabel(in); got != want {
			t.Errorf("tickLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
