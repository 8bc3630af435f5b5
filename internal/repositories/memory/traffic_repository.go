// Package memory is a slice-backed TrafficRepository. It serves the
// synthetic data source and stands in for Postgres in tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/chrisdamba/trafficmcp/internal/repositories"
)

var ErrClosed = errors.New("repository is closed")

type TrafficRepository struct {
	records []*models.TrafficRecord
	closed  atomic.Bool
}

var _ repositories.TrafficRepository = (*TrafficRepository)(nil)

// NewTrafficRepository keeps a newest-first copy of records. NULL times sort
// first, as they do under ORDER BY ... DESC in Postgres.
func NewTrafficRepository(records []*models.TrafficRecord) *TrafficRepository {
	sorted := make([]*models.TrafficRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].MeasurementTime, sorted[j].MeasurementTime
		if a == nil || b == nil {
			return a == nil && b != nil
		}
		return a.After(*b)
	})
	return &TrafficRepository{records: sorted}
}

func (r *TrafficRepository) Ping(ctx context.Context) error {
	if r.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

func (r *TrafficRepository) Close() {
	r.closed.Store(true)
}

func (r *TrafficRepository) GetAll(ctx context.Context, limit int) ([]*models.TrafficRecord, error) {
	return r.filter(ctx, limit, func(*models.TrafficRecord) bool { return true })
}

func (r *TrafficRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.TrafficRecord, error) {
	dr := &models.DateRange{Start: start, End: end}
	return r.filter(ctx, 0, func(rec *models.TrafficRecord) bool { return inRange(rec, dr) })
}

func (r *TrafficRepository) GetByLocation(ctx context.Context, location string) ([]*models.TrafficRecord, error) {
	return r.filter(ctx, repositories.DefaultLookupLimit, func(rec *models.TrafficRecord) bool {
		return containsFold(rec.County, location) ||
			containsFold(rec.RoadNumber, location) ||
			containsFold(rec.MeasurementPointID, location)
	})
}

func (r *TrafficRepository) GetByRoad(ctx context.Context, roadNumber string) ([]*models.TrafficRecord, error) {
	return r.filter(ctx, repositories.DefaultLookupLimit, func(rec *models.TrafficRecord) bool {
		return rec.RoadNumber == roadNumber
	})
}

func (r *TrafficRepository) GetByCounty(ctx context.Context, county string) ([]*models.TrafficRecord, error) {
	return r.filter(ctx, repositories.DefaultLookupLimit, func(rec *models.TrafficRecord) bool {
		return containsFold(rec.County, county)
	})
}

func (r *TrafficRepository) GetByMeasurementPoint(ctx context.Context, pointID string) ([]*models.TrafficRecord, error) {
	return r.filter(ctx, repositories.DefaultLookupLimit, func(rec *models.TrafficRecord) bool {
		return rec.MeasurementPointID == pointID
	})
}

func (r *TrafficRepository) Stats(ctx context.Context) (*models.TrafficSummary, error) {
	if err := r.Ping(ctx); err != nil {
		return nil, err
	}

	counties := make(map[string]struct{})
	roads := make(map[string]struct{})
	points := make(map[string]struct{})
	for _, rec := range r.records {
		counties[rec.County] = struct{}{}
		roads[rec.RoadNumber] = struct{}{}
		points[rec.MeasurementPointID] = struct{}{}
	}

	all := models.SpeedOf(models.AllVehicles)
	return &models.TrafficSummary{
		TotalRecords:            int64(len(r.records)),
		AvgAllVehiclesSpeed:     average(r.records, nil, all),
		AvgHeavyVehiclesSpeed:   average(r.records, nil, models.SpeedOf(models.HeavyVehicles)),
		AvgPassengerCarSpeed:    average(r.records, nil, models.SpeedOf(models.PassengerCar)),
		MaxSpeed:                extreme(r.records, all, func(a, b float64) bool { return a > b }),
		MinSpeed:                extreme(r.records, all, func(a, b float64) bool { return a < b }),
		UniqueCounties:          int64(len(counties)),
		UniqueRoads:             int64(len(roads)),
		UniqueMeasurementPoints: int64(len(points)),
	}, nil
}

func (r *TrafficRepository) AverageSpeed(ctx context.Context, class models.VehicleClass, dr *models.DateRange) (*float64, error) {
	if err := r.Ping(ctx); err != nil {
		return nil, err
	}
	return average(r.records, dr, models.SpeedOf(class)), nil
}

func (r *TrafficRepository) CountsComparison(ctx context.Context, dr *models.DateRange) (*models.CountsComparison, error) {
	if err := r.Ping(ctx); err != nil {
		return nil, err
	}
	avg := func(c models.VehicleClass) *float64 { return average(r.records, dr, models.CountOf(c)) }
	return &models.CountsComparison{
		AvgAllVehicles:             avg(models.AllVehicles),
		AvgPassengerCars:           avg(models.PassengerCar),
		AvgHeavyVehicles:           avg(models.HeavyVehicles),
		AvgHeavyWithTrailer:        avg(models.HeavyVehiclesTrailer),
		AvgHeavyWithoutTrailer:     avg(models.HeavyVehiclesNoTrailer),
		AvgPassengerWithTrailer:    avg(models.PassengerCarTrailer),
		AvgPassengerWithoutTrailer: avg(models.PassengerCarNoTrailer),
	}, nil
}

func (r *TrafficRepository) SpeedsComparison(ctx context.Context, dr *models.DateRange) (*models.SpeedsComparison, error) {
	if err := r.Ping(ctx); err != nil {
		return nil, err
	}
	avg := func(c models.VehicleClass) *float64 { return average(r.records, dr, models.SpeedOf(c)) }
	return &models.SpeedsComparison{
		AvgAllVehiclesSpeed:          avg(models.AllVehicles),
		AvgPassengerCarsSpeed:        avg(models.PassengerCar),
		AvgHeavyVehiclesSpeed:        avg(models.HeavyVehicles),
		AvgHeavyWithTrailerSpeed:     avg(models.HeavyVehiclesTrailer),
		AvgHeavyWithoutTrailerSpeed:  avg(models.HeavyVehiclesNoTrailer),
		AvgPassengerWithTrailerSpeed: avg(models.PassengerCarTrailer),
		AvgPassengerNoTrailerSpeed:   avg(models.PassengerCarNoTrailer),
		AvgThreeAxleTrailerSpeed:     avg(models.ThreeAxleTractorTrailer),
		AvgTwoAxleTrailerSpeed:       avg(models.TwoAxleTractorTrailer),
	}, nil
}

// filter returns matching records in stored order; limit <= 0 means no cap.
func (r *TrafficRepository) filter(ctx context.Context, limit int, match func(*models.TrafficRecord) bool) ([]*models.TrafficRecord, error) {
	if err := r.Ping(ctx); err != nil {
		return nil, err
	}

	var out []*models.TrafficRecord
	for _, rec := range r.records {
		if limit > 0 && len(out) >= limit {
			break
		}
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func inRange(rec *models.TrafficRecord, dr *models.DateRange) bool {
	if dr == nil {
		return true
	}
	if rec.MeasurementTime == nil {
		return false
	}
	t := *rec.MeasurementTime
	return !t.Before(dr.Start) && !t.After(dr.End)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// average mirrors SQL AVG over the stored (zero-coalesced) column: nil when
// no row matches.
func average(records []*models.TrafficRecord, dr *models.DateRange, m models.Metric) *float64 {
	var sum float64
	var n int
	for _, rec := range records {
		if !inRange(rec, dr) {
			continue
		}
		sum += rec.Value(m)
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func extreme(records []*models.TrafficRecord, m models.Metric, better func(a, b float64) bool) *float64 {
	if len(records) == 0 {
		return nil
	}
	best := records[0].Value(m)
	for _, rec := range records[1:] {
		if v := rec.Value(m); better(v, best) {
			best = v
		}
	}
	return &best
}
