package analytics

import (
	"time"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

func at(ts string) *time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return &t
}

// newRecord builds a record at ts ("" for no time) and lets fill set metrics.
func newRecord(ts string, fill func(r *models.TrafficRecord)) *models.TrafficRecord {
	r := &models.TrafficRecord{County: "Stockholms län", RoadNumber: "E4", MeasurementPointID: "13520237"}
	if ts != "" {
		r.MeasurementTime = at(ts)
	}
	if fill != nil {
		fill(r)
	}
	return r
}

func withSpeed(c models.VehicleClass, speed float64) func(r *models.TrafficRecord) {
	return func(r *models.TrafficRecord) { r.Class(c).AvgSpeed = speed }
}
