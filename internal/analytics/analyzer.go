// Package analytics summarizes traffic records in memory: statistics,
// daily time series with a line chart, hour-of-day peaks, wide-to-long
// reshaping and per-class bar charts.
//
// Every metric reading of 0 counts as "not measured" and is left out of
// means, medians and extremes.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/chrisdamba/trafficmcp/internal/repositories"
)

const (
	GraphFetchLimit        = 10000
	PeakHoursFetchLimit    = 10000
	StatisticsFetchLimit   = 10000
	BarChartFetchLimit     = 5000
	DefaultLongFormatLimit = 5000
)

const NoDataMessage = "No data available"

// Analyzer runs the summaries against one record source. It holds no state
// between calls.
type Analyzer struct {
	repo        repositories.TrafficRepository
	location    *time.Location
	lowestOrder LowestOrder
}

type Option func(*Analyzer)

// WithLocation sets the zone used to derive hour-of-day buckets.
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) {
		if loc != nil {
			a.location = loc
		}
	}
}

func WithLowestOrder(order LowestOrder) Option {
	return func(a *Analyzer) { a.lowestOrder = order }
}

func NewAnalyzer(repo repositories.TrafficRepository, opts ...Option) *Analyzer {
	a := &Analyzer{
		repo:        repo,
		location:    time.Local,
		lowestOrder: LowestAscending,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SpeedStatistics summarizes one class's average speeds. A nil result means
// the class has no positive readings.
func (a *Analyzer) SpeedStatistics(ctx context.Context, class models.VehicleClass) (*Statistics, error) {
	records, err := a.repo.GetAll(ctx, StatisticsFetchLimit)
	if err != nil {
		return nil, err
	}
	return ComputeStatistics(MetricValues(records, models.SpeedOf(class))), nil
}

// AllVehicleStatistics renders the speed statistics of every class that has
// data.
func (a *Analyzer) AllVehicleStatistics(ctx context.Context) (string, error) {
	records, err := a.repo.GetAll(ctx, StatisticsFetchLimit)
	if err != nil {
		return "", err
	}
	return RenderAllVehicleStatistics(records), nil
}

// SpeedGraph charts daily average speeds. ok is false when the source
// returned no records at all.
func (a *Analyzer) SpeedGraph(ctx context.Context, metrics []models.Metric, dr *models.DateRange) (chart string, ok bool, err error) {
	if len(metrics) == 0 {
		metrics = DefaultGraphMetrics()
	}

	var records []*models.TrafficRecord
	if dr != nil {
		records, err = a.repo.GetByDateRange(ctx, dr.Start, dr.End)
		// ranges are uncapped at the source; keep the newest rows only
		records = records[:min(len(records), GraphFetchLimit)]
	} else {
		records, err = a.repo.GetAll(ctx, GraphFetchLimit)
	}
	if err != nil {
		return "", false, fmt.Errorf("error generating speed graph: %w", err)
	}
	if len(records) == 0 {
		return "", false, nil
	}

	points := AggregateDaily(records, metrics)
	return RenderLineChart(points, metrics), true, nil
}

// PeakHours ranks hours of the day by average speed. A nil class means all
// vehicles.
func (a *Analyzer) PeakHours(ctx context.Context, class *models.VehicleClass) (string, error) {
	records, err := a.repo.GetAll(ctx, PeakHoursFetchLimit)
	if err != nil {
		return "", fmt.Errorf("error analyzing peak hours: %w", err)
	}
	if len(records) == 0 {
		return NoDataMessage, nil
	}

	selected := models.AllVehicles
	if class != nil {
		selected = *class
	}
	hours := AggregateHourly(records, models.SpeedOf(selected), a.location)
	peak, lowest := RankHours(hours, a.lowestOrder)
	return RenderPeakHours(class, peak, lowest), nil
}

// LongFormat reshapes up to limit records; limit <= 0 uses the default.
func (a *Analyzer) LongFormat(ctx context.Context, limit int) ([]models.LongFormatRecord, error) {
	if limit <= 0 {
		limit = DefaultLongFormatLimit
	}
	records, err := a.repo.GetAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error transforming to long format: %w", err)
	}
	return ToLongFormat(records), nil
}

func (a *Analyzer) SpeedBarChart(ctx context.Context) (string, error) {
	return a.barChart(ctx, models.KindAvgSpeed)
}

func (a *Analyzer) VehicleCountBarChart(ctx context.Context) (string, error) {
	return a.barChart(ctx, models.KindCount)
}

func (a *Analyzer) barChart(ctx context.Context, kind models.MetricKind) (string, error) {
	records, err := a.repo.GetAll(ctx, BarChartFetchLimit)
	if err != nil {
		return "", fmt.Errorf("error generating bar chart: %w", err)
	}
	return RenderBarChart(kind, ClassMeans(records, kind), len(records)), nil
}
