package repositories

import (
	"context"
	"time"

	"github.com/chrisdamba/trafficmcp/internal/models"
)

// Fetch caps applied by the location, road, county and point lookups.
const DefaultLookupLimit = 1000

// TrafficRepository is the read-only record source. Every fetch returns
// records newest first.
type TrafficRepository interface {
	GetAll(ctx context.Context, limit int) ([]*models.TrafficRecord, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.TrafficRecord, error)
	GetByLocation(ctx context.Context, location string) ([]*models.TrafficRecord, error)
	GetByRoad(ctx context.Context, roadNumber string) ([]*models.TrafficRecord, error)
	GetByCounty(ctx context.Context, county string) ([]*models.TrafficRecord, error)
	GetByMeasurementPoint(ctx context.Context, pointID string) ([]*models.TrafficRecord, error)

	Stats(ctx context.Context) (*models.TrafficSummary, error)
	AverageSpeed(ctx context.Context, class models.VehicleClass, dr *models.DateRange) (*float64, error)
	CountsComparison(ctx context.Context, dr *models.DateRange) (*models.CountsComparison, error)
	SpeedsComparison(ctx context.Context, dr *models.DateRange) (*models.SpeedsComparison, error)

	Ping(ctx context.Context) error
	Close()
}
