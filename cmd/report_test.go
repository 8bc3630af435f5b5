package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseToolArgs(t *testing.T) {
	got, err := parseToolArgs([]string{
		"vehicle_type=heavy_vehicles",
		"limit=100",
		`vehicle_types=["heavy_vehicles_avg_speed","passenger_car_avg_speed"]`,
		"punkt_nummer=13520237",
		"location=E4=north",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"vehicle_type":  "heavy_vehicles",
		"limit":         float64(100),
		"vehicle_types": []any{"heavy_vehicles_avg_speed", "passenger_car_avg_speed"},
		"punkt_nummer":  float64(13520237),
		"location":      "E4=north",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"limit", "=5"} {
		if _, err := parseToolArgs([]string{bad}); err == nil {
			t.Errorf("%q should be rejected", bad)
		}
	}
}
