package analytics

import (
	"encoding/json"
	"testing"

	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/google/go-cmp/cmp"
)

func TestAggregateDaily(t *testing.T) {
	heavy := models.SpeedOf(models.HeavyVehicles)
	records := []*models.TrafficRecord{
		newRecord("2023-11-02T10:00:00Z", withSpeed(models.HeavyVehicles, 60)),
		newRecord("2023-11-01T07:00:00Z", withSpeed(models.HeavyVehicles, 80)),
		newRecord("2023-11-01T16:45:00Z", withSpeed(models.HeavyVehicles, 90)),
	}

	got := AggregateDaily(records, []models.Metric{heavy})
	want := []TimeSeriesPoint{
		{Date: "2023-11-01", Values: map[models.Metric]float64{heavy: 85}},
		{Date: "2023-11-02", Values: map[models.Metric]float64{heavy: 60}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AggregateDaily mismatch (-want +got):\n%s", diff)
	}

	encoded, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	wantJSON := `[{"date":"2023-11-01","heavy_vehicles_avg_speed":85},{"date":"2023-11-02","heavy_vehicles_avg_speed":60}]`
	if string(encoded) != wantJSON {
		t.Errorf("json = %s, want %s", encoded, wantJSON)
	}
}

func TestAggregateDailyGroupsByUTCDay(t *testing.T) {
	heavy := models.SpeedOf(models.HeavyVehicles)
	records := []*models.TrafficRecord{
		newRecord("2023-11-01T00:00:01Z", withSpeed(models.HeavyVehicles, 70)),
		newRecord("2023-11-01T23:59:59Z", withSpeed(models.HeavyVehicles, 71)),
		// 00:30 in Stockholm is still 2023-10-31 in UTC
		newRecord("2023-11-01T00:30:00+01:00", withSpeed(models.HeavyVehicles, 50)),
	}

	got := AggregateDaily(records, []models.Metric{heavy})
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2: %+v", len(got), got)
	}
	if got[0].Date != "2023-10-31" || got[1].Date != "2023-11-01" {
		t.Errorf("unexpected dates %q, %q", got[0].Date, got[1].Date)
	}
	if got[1].Values[heavy] != 70.5 {
		t.Errorf("same-day average = %v, want 70.5", got[1].Values[heavy])
	}
}

func TestAggregateDailyMissingValuesAndUnknownDay(t *testing.T) {
	heavy := models.SpeedOf(models.HeavyVehicles)
	cars := models.SpeedOf(models.PassengerCar)
	records := []*models.TrafficRecord{
		newRecord("", withSpeed(models.PassengerCar, 40)),
		newRecord("2023-11-05T12:00:00Z", withSpeed(models.HeavyVehicles, 0)),
	}

	got := AggregateDaily(records, []models.Metric{heavy, cars})
	want := []TimeSeriesPoint{
		{Date: "2023-11-05", Values: map[models.Metric]float64{}},
		{Date: UnknownDay, Values: map[models.Metric]float64{cars: 40}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AggregateDaily mismatch (-want +got):\n%s", diff)
	}
}
