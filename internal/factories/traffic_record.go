package factories

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/jaswdr/faker"
)

var counties = []string{
	"Stockholms län", "Uppsala län", "Södermanlands län", "Östergötlands län",
	"Västra Götalands län", "Skåne län", "Hallands län", "Dalarnas län",
}

var roads = []string{"E4", "E6", "E18", "E20", "55", "73", "222", "40"}

// free-flow speed per class in km/h
var baseSpeeds = [models.NumVehicleClasses]float64{
	models.AllVehicles:               90,
	models.PassengerCar:              96,
	models.HeavyVehicles:             82,
	models.HeavyVehiclesTrailer:      80,
	models.HeavyVehiclesNoTrailer:    84,
	models.ThreeAxleTractorTrailer:   79,
	models.TwoAxleTractorTrailer:     81,
	models.ThreeAxleTractorNoTrailer: 83,
	models.TwoAxleTractorNoTrailer:   85,
	models.PassengerCarTrailer:       78,
	models.PassengerCarNoTrailer:     97,
}

type measurementPoint struct {
	id     string
	county string
	road   string
}

// TrafficRecordFactory produces synthetic sensor readings. The same seed
// always yields the same records.
type TrafficRecordFactory struct {
	fake     faker.Faker
	rng      *rand.Rand
	points   []measurementPoint
	start    time.Time
	interval time.Duration
	nextID   int64
}

func NewTrafficRecordFactory(config models.SyntheticConfig) *TrafficRecordFactory {
	rng := rand.New(rand.NewSource(config.Seed))
	f := &TrafficRecordFactory{
		fake:     faker.NewWithSeed(rand.NewSource(config.Seed)),
		rng:      rng,
		start:    config.StartDate,
		interval: config.Interval,
	}
	if f.interval <= 0 {
		f.interval = 15 * time.Minute
	}
	if f.start.IsZero() {
		f.start = time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	}

	numPoints := max(config.Points, 1)
	for i := 0; i < numPoints; i++ {
		f.points = append(f.points, measurementPoint{
			id:     fmt.Sprintf("%d", f.fake.IntBetween(13500000, 13599999)),
			county: f.fake.RandomStringElement(counties),
			road:   f.fake.RandomStringElement(roads),
		})
	}
	return f
}

// CreateTrafficRecords emits n records, cycling through the measurement
// points and advancing the clock by one interval per full cycle.
func (f *TrafficRecordFactory) CreateTrafficRecords(n int) []*models.TrafficRecord {
	records := make([]*models.TrafficRecord, 0, n)
	for i := 0; i < n; i++ {
		point := f.points[i%len(f.points)]
		ts := f.start.Add(time.Duration(i/len(f.points)) * f.interval)
		records = append(records, f.createTrafficRecord(point, ts))
	}
	return records
}

func (f *TrafficRecordFactory) createTrafficRecord(point measurementPoint, ts time.Time) *models.TrafficRecord {
	f.nextID++
	created := ts.Add(time.Duration(f.fake.IntBetween(1, 120)) * time.Second)
	measured := ts
	record := &models.TrafficRecord{
		ID:                 f.nextID,
		MeasurementTime:    &measured,
		County:             point.county,
		RoadNumber:         point.road,
		MeasurementPointID: point.id,
		CreatedAt:          &created,
	}

	congestion := congestionFactor(ts)
	volume := volumeFactor(ts)

	passengers := f.count(60 * volume)
	heavy := f.count(12 * volume)
	heavyTrailer := int(float64(heavy) * 0.55)
	passengerTrailer := int(float64(passengers) * 0.04)

	counts := [models.NumVehicleClasses]int{
		models.AllVehicles:               passengers + heavy,
		models.PassengerCar:              passengers,
		models.HeavyVehicles:             heavy,
		models.HeavyVehiclesTrailer:      heavyTrailer,
		models.HeavyVehiclesNoTrailer:    heavy - heavyTrailer,
		models.ThreeAxleTractorTrailer:   heavyTrailer / 3,
		models.TwoAxleTractorTrailer:     heavyTrailer / 4,
		models.ThreeAxleTractorNoTrailer: (heavy - heavyTrailer) / 5,
		models.TwoAxleTractorNoTrailer:   (heavy - heavyTrailer) / 6,
		models.PassengerCarTrailer:       passengerTrailer,
		models.PassengerCarNoTrailer:     passengers - passengerTrailer,
	}

	for _, c := range models.VehicleClasses() {
		// sensors drop a reading now and then; zero stands for "not measured"
		if counts[c] == 0 || f.rng.Float64() < 0.03 {
			continue
		}
		speed := baseSpeeds[c]*congestion + f.rng.NormFloat64()*4
		*record.Class(c) = models.VehicleMetrics{
			Count:    counts[c],
			AvgSpeed: math.Round(max(speed, 5)*10) / 10,
		}
	}
	return record
}

func (f *TrafficRecordFactory) count(mean float64) int {
	n := int(math.Round(mean + f.rng.NormFloat64()*mean*0.2))
	return max(n, 0)
}

// congestionFactor slows traffic during the weekday rush hours.
func congestionFactor(t time.Time) float64 {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return 0.97
	}
	switch h := t.Hour(); {
	case h >= 7 && h <= 8:
		return 0.72
	case h >= 16 && h <= 17:
		return 0.78
	case h >= 22 || h <= 4:
		return 1.04
	}
	return 0.95
}

func volumeFactor(t time.Time) float64 {
	switch h := t.Hour(); {
	case h >= 7 && h <= 8, h >= 16 && h <= 17:
		return 1.8
	case h >= 22 || h <= 4:
		return 0.25
	}
	return 1.0
}
