package models

import (
	"errors"
	"testing"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{in: "heavy_vehicles_avg_speed", want: SpeedOf(HeavyVehicles)},
		{in: "heavy_vehicles_trailer_avg_speed", want: SpeedOf(HeavyVehiclesTrailer)},
		{in: "all_vehicles_count", want: CountOf(AllVehicles)},
		{in: " Passenger_Car_No_Trailer_Count ", want: CountOf(PassengerCarNoTrailer)},
		{in: "bicycles_avg_speed", wantErr: true},
		{in: "heavy_vehicles", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMetric(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownField) {
					t.Fatalf("expected ErrUnknownField, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetricStringRoundTrip(t *testing.T) {
	for _, c := range VehicleClasses() {
		for _, m := range []Metric{SpeedOf(c), CountOf(c)} {
			got, err := ParseMetric(m.String())
			if err != nil {
				t.Fatalf("ParseMetric(%q): %v", m.String(), err)
			}
			if got != m {
				t.Errorf("ParseMetric(%q) = %v", m.String(), got)
			}
		}
	}
}

func TestTrafficRecordClassAccessor(t *testing.T) {
	r := &TrafficRecord{}
	for i, c := range VehicleClasses() {
		r.Class(c).Count = i + 1
		r.Class(c).AvgSpeed = float64(10 * (i + 1))
	}

	if r.AllVehicles.Count != 1 || r.PassengerCarNoTrailer.Count != NumVehicleClasses {
		t.Fatalf("accessor table out of order: %+v", r)
	}
	if got := r.Value(SpeedOf(ThreeAxleTractorTrailer)); got != 60 {
		t.Errorf("three_axle_tractor_trailer_avg_speed = %v, want 60", got)
	}
	if got := r.Value(CountOf(HeavyVehicles)); got != 3 {
		t.Errorf("heavy_vehicles_count = %v, want 3", got)
	}
}

func TestVehicleClassLabelsFitGutter(t *testing.T) {
	for _, c := range VehicleClasses() {
		if len(c.Label()) > 25 {
			t.Errorf("label %q is wider than 25 columns", c.Label())
		}
	}
}
