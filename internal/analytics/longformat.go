package analytics

import "github.com/chrisdamba/trafficmcp/internal/models"

// ToLongFormat emits one row per (record, vehicle class) pair that has a
// positive count or speed. Rows follow record order, then class order.
func ToLongFormat(records []*models.TrafficRecord) []models.LongFormatRecord {
	var rows []models.LongFormatRecord
	for _, r := range records {
		for _, c := range models.VehicleClasses() {
			vm := r.Class(c)
			count, speed := max(vm.Count, 0), max(vm.AvgSpeed, 0)
			if count == 0 && speed == 0 {
				continue
			}
			rows = append(rows, models.LongFormatRecord{
				MeasurementTime:    r.MeasurementTime,
				County:             r.County,
				RoadNumber:         r.RoadNumber,
				MeasurementPointID: r.MeasurementPointID,
				VehicleType:        c.String(),
				Count:              count,
				AvgSpeed:           speed,
			})
		}
	}
	return rows
}
