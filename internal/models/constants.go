package models

import (
	"errors"
	"fmt"
	"strings"
)

// VehicleClass is one of the fixed traffic-sensor categories.
type VehicleClass int

const (
	AllVehicles VehicleClass = iota
	PassengerCar
	HeavyVehicles
	HeavyVehiclesTrailer
	HeavyVehiclesNoTrailer
	ThreeAxleTractorTrailer
	TwoAxleTractorTrailer
	ThreeAxleTractorNoTrailer
	TwoAxleTractorNoTrailer
	PassengerCarTrailer
	PassengerCarNoTrailer

	NumVehicleClasses = 11
)

var ErrUnknownField = errors.New("unknown field")

// column prefixes in the traffic_data table
var classNames = [NumVehicleClasses]string{
	"all_vehicles",
	"passenger_car",
	"heavy_vehicles",
	"heavy_vehicles_trailer",
	"heavy_vehicles_no_trailer",
	"three_axle_tractor_trailer",
	"two_axle_tractor_trailer",
	"three_axle_tractor_no_trailer",
	"two_axle_tractor_no_trailer",
	"passenger_car_trailer",
	"passenger_car_no_trailer",
}

// labels fit the 25-column bar chart gutter
var classLabels = [NumVehicleClasses]string{
	"All Vehicles",
	"Passenger Cars",
	"Heavy Vehicles",
	"Heavy w/ Trailer",
	"Heavy no Trailer",
	"3-Axle Tractor w/ Trailer",
	"2-Axle Tractor w/ Trailer",
	"3-Axle Tractor no Trailer",
	"2-Axle Tractor no Trailer",
	"Passenger Car w/ Trailer",
	"Passenger Car no Trailer",
}

// VehicleClasses lists every class in column order.
func VehicleClasses() []VehicleClass {
	classes := make([]VehicleClass, NumVehicleClasses)
	for i := range classes {
		classes[i] = VehicleClass(i)
	}
	return classes
}

func (c VehicleClass) String() string {
	if c < 0 || c >= NumVehicleClasses {
		return fmt.Sprintf("VehicleClass(%d)", int(c))
	}
	return classNames[c]
}

func (c VehicleClass) Label() string {
	if c < 0 || c >= NumVehicleClasses {
		return c.String()
	}
	return classLabels[c]
}

func ParseVehicleClass(s string) (VehicleClass, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range classNames {
		if n == name {
			return VehicleClass(i), nil
		}
	}
	return 0, fmt.Errorf("%w: vehicle type %q", ErrUnknownField, s)
}

// MetricKind selects the count or the average speed of a class.
type MetricKind int

const (
	KindCount MetricKind = iota
	KindAvgSpeed
)

func (k MetricKind) Suffix() string {
	if k == KindCount {
		return "_count"
	}
	return "_avg_speed"
}

// Metric names one column of the wide record, e.g. heavy_vehicles_avg_speed.
type Metric struct {
	Class VehicleClass
	Kind  MetricKind
}

func SpeedOf(c VehicleClass) Metric { return Metric{Class: c, Kind: KindAvgSpeed} }
func CountOf(c VehicleClass) Metric { return Metric{Class: c, Kind: KindCount} }

func (m Metric) String() string {
	return m.Class.String() + m.Kind.Suffix()
}

func ParseMetric(s string) (Metric, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, kind := range []MetricKind{KindAvgSpeed, KindCount} {
		if prefix, ok := strings.CutSuffix(name, kind.Suffix()); ok {
			c, err := ParseVehicleClass(prefix)
			if err != nil {
				break
			}
			return Metric{Class: c, Kind: kind}, nil
		}
	}
	return Metric{}, fmt.Errorf("%w: %q", ErrUnknownField, s)
}
