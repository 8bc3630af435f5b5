package models

import "time"

// VehicleMetrics is one vehicle class's reading. Zero means "no data".
type VehicleMetrics struct {
	Count    int     `json:"count"`
	AvgSpeed float64 `json:"avg_speed"`
}

// TrafficRecord is one sensor reading at one measurement point and time.
type TrafficRecord struct {
	ID                 int64      `json:"id"`
	MeasurementTime    *time.Time `json:"measurement_time"`
	County             string     `json:"county"`
	RoadNumber         string     `json:"road_number"`
	MeasurementPointID string     `json:"punkt_nummer"`

	AllVehicles               VehicleMetrics `json:"all_vehicles"`
	PassengerCar              VehicleMetrics `json:"passenger_car"`
	HeavyVehicles             VehicleMetrics `json:"heavy_vehicles"`
	HeavyVehiclesTrailer      VehicleMetrics `json:"heavy_vehicles_trailer"`
	HeavyVehiclesNoTrailer    VehicleMetrics `json:"heavy_vehicles_no_trailer"`
	ThreeAxleTractorTrailer   VehicleMetrics `json:"three_axle_tractor_trailer"`
	TwoAxleTractorTrailer     VehicleMetrics `json:"two_axle_tractor_trailer"`
	ThreeAxleTractorNoTrailer VehicleMetrics `json:"three_axle_tractor_no_trailer"`
	TwoAxleTractorNoTrailer   VehicleMetrics `json:"two_axle_tractor_no_trailer"`
	PassengerCarTrailer       VehicleMetrics `json:"passenger_car_trailer"`
	PassengerCarNoTrailer     VehicleMetrics `json:"passenger_car_no_trailer"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
}

var classFields = [NumVehicleClasses]func(r *TrafficRecord) *VehicleMetrics{
	AllVehicles:               func(r *TrafficRecord) *VehicleMetrics { return &r.AllVehicles },
	PassengerCar:              func(r *TrafficRecord) *VehicleMetrics { return &r.PassengerCar },
	HeavyVehicles:             func(r *TrafficRecord) *VehicleMetrics { return &r.HeavyVehicles },
	HeavyVehiclesTrailer:      func(r *TrafficRecord) *VehicleMetrics { return &r.HeavyVehiclesTrailer },
	HeavyVehiclesNoTrailer:    func(r *TrafficRecord) *VehicleMetrics { return &r.HeavyVehiclesNoTrailer },
	ThreeAxleTractorTrailer:   func(r *TrafficRecord) *VehicleMetrics { return &r.ThreeAxleTractorTrailer },
	TwoAxleTractorTrailer:     func(r *TrafficRecord) *VehicleMetrics { return &r.TwoAxleTractorTrailer },
	ThreeAxleTractorNoTrailer: func(r *TrafficRecord) *VehicleMetrics { return &r.ThreeAxleTractorNoTrailer },
	TwoAxleTractorNoTrailer:   func(r *TrafficRecord) *VehicleMetrics { return &r.TwoAxleTractorNoTrailer },
	PassengerCarTrailer:       func(r *TrafficRecord) *VehicleMetrics { return &r.PassengerCarTrailer },
	PassengerCarNoTrailer:     func(r *TrafficRecord) *VehicleMetrics { return &r.PassengerCarNoTrailer },
}

// Class returns a pointer to the metrics of vehicle class c, so callers can
// both read and fill a record without string-keyed access.
func (r *TrafficRecord) Class(c VehicleClass) *VehicleMetrics {
	return classFields[c](r)
}

// Value returns the reading selected by m.
func (r *TrafficRecord) Value(m Metric) float64 {
	vm := r.Class(m.Class)
	if m.Kind == KindCount {
		return float64(vm.Count)
	}
	return vm.AvgSpeed
}

// LongFormatRecord is one (measurement, vehicle class) pair.
type LongFormatRecord struct {
	MeasurementTime    *time.Time `json:"measurement_time"`
	County             string     `json:"county"`
	RoadNumber         string     `json:"road_number"`
	MeasurementPointID string     `json:"measurement_point_id"`
	VehicleType        string     `json:"vehicle_type"`
	Count              int        `json:"count"`
	AvgSpeed           float64    `json:"avg_speed"`
}

// DateRange bounds a query on measurement_time, both ends inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// TrafficSummary is the result of the table-wide statistics query.
type TrafficSummary struct {
	TotalRecords            int64    `json:"total_records"`
	AvgAllVehiclesSpeed     *float64 `json:"avg_all_vehicles_speed"`
	AvgHeavyVehiclesSpeed   *float64 `json:"avg_heavy_vehicles_speed"`
	AvgPassengerCarSpeed    *float64 `json:"avg_passenger_car_speed"`
	MaxSpeed                *float64 `json:"max_speed"`
	MinSpeed                *float64 `json:"min_speed"`
	UniqueCounties          int64    `json:"unique_counties"`
	UniqueRoads             int64    `json:"unique_roads"`
	UniqueMeasurementPoints int64    `json:"unique_measurement_points"`
}

type CountsComparison struct {
	AvgAllVehicles             *float64 `json:"avg_all_vehicles"`
	AvgPassengerCars           *float64 `json:"avg_passenger_cars"`
	AvgHeavyVehicles           *float64 `json:"avg_heavy_vehicles"`
	AvgHeavyWithTrailer        *float64 `json:"avg_heavy_with_trailer"`
	AvgHeavyWithoutTrailer     *float64 `json:"avg_heavy_without_trailer"`
	AvgPassengerWithTrailer    *float64 `json:"avg_passenger_with_trailer"`
	AvgPassengerWithoutTrailer *float64 `json:"avg_passenger_without_trailer"`
}

type SpeedsComparison struct {
	AvgAllVehiclesSpeed          *float64 `json:"avg_all_vehicles_speed"`
	AvgPassengerCarsSpeed        *float64 `json:"avg_passenger_cars_speed"`
	AvgHeavyVehiclesSpeed        *float64 `json:"avg_heavy_vehicles_speed"`
	AvgHeavyWithTrailerSpeed     *float64 `json:"avg_heavy_with_trailer_speed"`
	AvgHeavyWithoutTrailerSpeed  *float64 `json:"avg_heavy_without_trailer_speed"`
	AvgPassengerWithTrailerSpeed *float64 `json:"avg_passenger_with_trailer_speed"`
	AvgPassengerNoTrailerSpeed   *float64 `json:"avg_passenger_without_trailer_speed"`
	AvgThreeAxleTrailerSpeed     *float64 `json:"avg_three_axle_trailer_speed"`
	AvgTwoAxleTrailerSpeed       *float64 `json:"avg_two_axle_trailer_speed"`
}
