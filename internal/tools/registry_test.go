package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/trafficmcp/internal/analytics"
	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/chrisdamba/trafficmcp/internal/repositories/memory"
	"github.com/google/go-cmp/cmp"
)

func record(id int64, ts, county, road, point string, heavySpeed float64) *models.TrafficRecord {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	r := &models.TrafficRecord{
		ID:                 id,
		MeasurementTime:    &t,
		County:             county,
		RoadNumber:         road,
		MeasurementPointID: point,
	}
	r.HeavyVehicles = models.VehicleMetrics{Count: 10, AvgSpeed: heavySpeed}
	return r
}

func newTestRegistry(records ...*models.TrafficRecord) *Registry {
	repo := memory.NewTrafficRepository(records)
	return NewTrafficTools(repo, analytics.NewAnalyzer(repo, analytics.WithLocation(time.UTC)))
}

func sampleRegistry() *Registry {
	return newTestRegistry(
		record(1, "2023-11-01T08:00:00Z", "Stockholms län", "E4", "13520237", 80),
		record(2, "2023-11-02T09:00:00Z", "Skåne län", "E6", "13530001", 70),
		record(3, "2023-11-03T10:00:00Z", "Skåne län", "E6", "13530001", 0),
	)
}

func TestNewTrafficToolsRegistersEveryTool(t *testing.T) {
	var names []string
	for _, tool := range sampleRegistry().Tools() {
		names = append(names, tool.Name)
		if tool.Description == "" || tool.Handler == nil {
			t.Errorf("tool %s is incomplete", tool.Name)
		}
	}

	want := []string{
		"get_all_traffic_data",
		"get_traffic_by_location",
		"get_traffic_by_date_range",
		"get_traffic_statistics",
		"get_traffic_by_road",
		"get_traffic_by_county",
		"get_traffic_by_measurement_point",
		"get_vehicle_counts_comparison",
		"get_speeds_comparison",
		"get_average_speed",
		"get_speed_statistics",
		"get_all_vehicle_statistics",
		"generate_speed_graph",
		"analyze_peak_hours",
		"transform_to_long_format",
		"generate_speed_bar_chart",
		"generate_vehicle_count_bar_chart",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("tool names mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	r := NewRegistry()
	r.Register(Tool{Name: "ping"})
	r.Register(Tool{Name: "ping"})
}

func TestCallFailures(t *testing.T) {
	r := sampleRegistry()

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"unknown tool", "drop_table", nil, "Error: Unknown tool: drop_table"},
		{"missing location", "get_traffic_by_location", nil, "Error: location parameter is required"},
		{"empty road", "get_traffic_by_road", map[string]any{"road_number": ""}, "Error: road_number parameter is required"},
		{"missing point", "get_traffic_by_measurement_point", map[string]any{}, "Error: punkt_nummer parameter is required"},
		{"missing end date", "get_traffic_by_date_range", map[string]any{"start_date": "2023-11-01"}, "Error: start_date and end_date parameters are required"},
		{"missing vehicle type", "get_speed_statistics", nil, "Error: vehicle_type parameter is required"},
		{"unknown vehicle type", "get_average_speed", map[string]any{"vehicle_type": "bicycles"}, `Error: unknown field: vehicle type "bicycles"`},
		{"unknown graph field", "generate_speed_graph", map[string]any{"vehicle_types": []any{"bicycles_avg_speed"}}, `Error: unknown field: "bicycles_avg_speed"`},
		{"bad date", "get_speeds_comparison", map[string]any{"start_date": "yesterday", "end_date": "2023-11-02"}, `Error: invalid date "yesterday", expected YYYY-MM-DD or RFC 3339`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Call(context.Background(), tt.tool, tt.args)
			if !got.IsError {
				t.Errorf("expected an error result, got %q", got.Text)
			}
			if got.Text != tt.want {
				t.Errorf("got %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestRepositoryFailureIsReported(t *testing.T) {
	repo := memory.NewTrafficRepository(nil)
	r := NewTrafficTools(repo, analytics.NewAnalyzer(repo))
	repo.Close()

	got := r.Call(context.Background(), "get_traffic_statistics", nil)
	if !got.IsError || got.Text != "Error: "+memory.ErrClosed.Error() {
		t.Errorf("got %+v", got)
	}
}

func decodeRecords(t *testing.T, res Result) []models.TrafficRecord {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected error: %s", res.Text)
	}
	var records []models.TrafficRecord
	if err := json.Unmarshal([]byte(res.Text), &records); err != nil {
		t.Fatalf("decode %q: %v", res.Text, err)
	}
	return records
}

func ids(records []models.TrafficRecord) []int64 {
	var out []int64
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestRecordLookups(t *testing.T) {
	r := sampleRegistry()
	ctx := context.Background()

	tests := []struct {
		name string
		tool string
		args map[string]any
		want []int64
	}{
		{"limit from a JSON number", "get_all_traffic_data", map[string]any{"limit": float64(2)}, []int64{3, 2}},
		{"default limit", "get_all_traffic_data", nil, []int64{3, 2, 1}},
		{"location is case insensitive", "get_traffic_by_location", map[string]any{"location": "skåne"}, []int64{3, 2}},
		{"road", "get_traffic_by_road", map[string]any{"road_number": "E4"}, []int64{1}},
		{"county", "get_traffic_by_county", map[string]any{"county": "Stockholm"}, []int64{1}},
		{"numeric point id", "get_traffic_by_measurement_point", map[string]any{"punkt_nummer": float64(13530001)}, []int64{3, 2}},
		{"date range", "get_traffic_by_date_range", map[string]any{"start_date": "2023-11-02", "end_date": "2023-11-03T23:59:59Z"}, []int64{3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(decodeRecords(t, r.Call(ctx, tt.tool, tt.args)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("record ids mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("no match is an empty list", func(t *testing.T) {
		got := r.Call(ctx, "get_traffic_by_road", map[string]any{"road_number": "E20"})
		if got.IsError || got.Text != "[]" {
			t.Errorf("got %+v", got)
		}
	})
}

func TestAverageSpeed(t *testing.T) {
	r := sampleRegistry()
	ctx := context.Background()

	decode := func(res Result) *float64 {
		t.Helper()
		if res.IsError {
			t.Fatalf("unexpected error: %s", res.Text)
		}
		var out map[string]*float64
		if err := json.Unmarshal([]byte(res.Text), &out); err != nil {
			t.Fatal(err)
		}
		return out["average_speed"]
	}

	// zero readings count, as they do in SQL AVG over the stored column
	if got := decode(r.Call(ctx, "get_average_speed", map[string]any{"vehicle_type": "heavy_vehicles"})); got == nil || *got != 50 {
		t.Errorf("average over everything = %v, want 50", got)
	}

	args := map[string]any{"vehicle_type": "heavy_vehicles", "start_date": "2023-11-01", "end_date": "2023-11-02"}
	if got := decode(r.Call(ctx, "get_average_speed", args)); got == nil || *got != 80 {
		t.Errorf("average within range = %v, want 80", got)
	}

	args = map[string]any{"vehicle_type": "heavy_vehicles", "start_date": "2024-01-01", "end_date": "2024-01-02"}
	if got := decode(r.Call(ctx, "get_average_speed", args)); got != nil {
		t.Errorf("average of nothing = %v, want null", *got)
	}
}

func TestSpeedStatistics(t *testing.T) {
	r := sampleRegistry()
	ctx := context.Background()

	got := r.Call(ctx, "get_speed_statistics", map[string]any{"vehicle_type": "heavy_vehicles"})
	var stats analytics.Statistics
	if err := json.Unmarshal([]byte(got.Text), &stats); err != nil {
		t.Fatalf("decode %q: %v", got.Text, err)
	}
	want := analytics.Statistics{Count: 2, Average: 75, Min: 70, Max: 80, Median: 75}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("statistics mismatch (-want +got):\n%s", diff)
	}

	got = r.Call(ctx, "get_speed_statistics", map[string]any{"vehicle_type": "passenger_car_trailer"})
	if got.IsError || got.Text != "null" {
		t.Errorf("class without data: %+v", got)
	}
}

func TestTextTools(t *testing.T) {
	ctx := context.Background()

	t.Run("empty source", func(t *testing.T) {
		r := newTestRegistry()
		tests := map[string]string{
			"generate_speed_graph":     analytics.NoDataMessage,
			"analyze_peak_hours":       analytics.NoDataMessage,
			"transform_to_long_format": "[]",
		}
		for tool, want := range tests {
			got := r.Call(ctx, tool, nil)
			if got.IsError || got.Text != want {
				t.Errorf("%s: got %+v, want %q", tool, got, want)
			}
		}
	})

	t.Run("peak hours for one class", func(t *testing.T) {
		got := sampleRegistry().Call(ctx, "analyze_peak_hours", map[string]any{"vehicle_type": "heavy_vehicles"})
		if got.IsError {
			t.Fatal(got.Text)
		}
		for _, want := range []string{"Vehicle Type: heavy_vehicles", "08:00: 80 km/h (1 data points)"} {
			if !strings.Contains(got.Text, want) {
				t.Errorf("report lacks %q:\n%s", want, got.Text)
			}
		}
	})

	t.Run("speed graph with explicit fields", func(t *testing.T) {
		args := map[string]any{"vehicle_types": []any{"heavy_vehicles_avg_speed"}}
		got := sampleRegistry().Call(ctx, "generate_speed_graph", args)
		if got.IsError || !strings.Contains(got.Text, "Data points: 3") {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("long format rows", func(t *testing.T) {
		got := sampleRegistry().Call(ctx, "transform_to_long_format", map[string]any{"limit": "1"})
		var rows []models.LongFormatRecord
		if err := json.Unmarshal([]byte(got.Text), &rows); err != nil {
			t.Fatalf("decode %q: %v", got.Text, err)
		}
		if len(rows) != 1 || rows[0].VehicleType != "heavy_vehicles" || rows[0].Count != 10 {
			t.Errorf("got %+v", rows)
		}
	})
}

func TestMissingArgumentError(t *testing.T) {
	err := missing("location")
	if !errors.Is(err, ErrMissingArgument) {
		t.Error("missing argument error should match ErrMissingArgument")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2023-11-05", time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC), true},
		{" 2023-11-05 ", time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC), true},
		{"2023-11-05T14:30:00Z", time.Date(2023, 11, 5, 14, 30, 0, 0, time.UTC), true},
		{"05/11/2023", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("err = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCallTimeout(t *testing.T) {
	r := NewRegistry()
	r.Register(Tool{
		Name: "slow",
		Handler: func(ctx context.Context, _ map[string]any) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	})
	r.SetTimeout(10 * time.Millisecond)

	got := r.Call(context.Background(), "slow", nil)
	if !got.IsError || got.Text != "Error: "+context.DeadlineExceeded.Error() {
		t.Errorf("got %+v", got)
	}
}
