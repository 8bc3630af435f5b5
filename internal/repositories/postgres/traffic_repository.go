package postgres

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/chrisdamba/trafficmcp/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrafficRepository struct {
	pool *pgxpool.Pool
}

var _ repositories.TrafficRepository = (*TrafficRepository)(nil)

// selectColumnList holds the identity columns followed by count/speed pairs
// in VehicleClass order; scanRecord depends on that order.
var selectColumnList = func() []string {
	cols := []string{
		"id",
		"measurement_time",
		"COALESCE(county, '')",
		"COALESCE(road_number, '')",
		"COALESCE(punkt_nummer, '')",
		"created_at",
	}
	for _, c := range models.VehicleClasses() {
		cols = append(cols,
			fmt.Sprintf("COALESCE(%s, 0)::bigint", models.CountOf(c)),
			fmt.Sprintf("COALESCE(%s, 0)::float8", models.SpeedOf(c)),
		)
	}
	return cols
}()

var selectColumns = strings.Join(selectColumnList, ", ")

func NewTrafficRepository(pool *pgxpool.Pool) *TrafficRepository {
	return &TrafficRepository{pool: pool}
}

// Connect opens a pool against the configured database and verifies it
// with a ping.
func Connect(ctx context.Context, config models.DatabaseConfig) (*TrafficRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}
	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	repo := NewTrafficRepository(pool)
	if err := repo.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Printf("Connected to PostgreSQL database %s on %s:%s", config.DBName, config.Host, config.Port)
	return repo, nil
}

func (r *TrafficRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("error pinging database: %w", err)
	}
	return nil
}

func (r *TrafficRepository) Close() {
	r.pool.Close()
	log.Printf("Database connection closed")
}

func (r *TrafficRepository) GetAll(ctx context.Context, limit int) ([]*models.TrafficRecord, error) {
	query := `SELECT ` + selectColumns + `
        FROM traffic_data
        ORDER BY measurement_time DESC
        LIMIT $1`

	records, err := r.queryRecords(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching traffic data: %w", err)
	}
	return records, nil
}

func (r *TrafficRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.TrafficRecord, error) {
	query := `SELECT ` + selectColumns + `
        FROM traffic_data
        WHERE measurement_time BETWEEN $1 AND $2
        ORDER BY measurement_time DESC`

	records, err := r.queryRecords(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("error fetching traffic data by date range: %w", err)
	}
	return records, nil
}

func (r *TrafficRepository) GetByLocation(ctx context.Context, location string) ([]*models.TrafficRecord, error) {
	query := `SELECT ` + selectColumns + `
        FROM traffic_data
        WHERE county ILIKE $1 OR road_number ILIKE $1 OR punkt_nummer ILIKE $1
        ORDER BY measurement_time DESC
        LIMIT $2`

	records, err := r.queryRecords(ctx, query, "%"+location+"%", repositories.DefaultLookupLimit)
	if err != nil {
		return nil, fmt.Errorf("error fetching traffic data by location: %w", err)
	}
	return records, nil
}

func (r *TrafficRepository) GetByRoad(ctx context.Context, roadNumber string) ([]*models.TrafficRecord, error) {
	query := `SELECT ` + selectColumns + `
        FROM traffic_data
        WHERE road_number = $1
        ORDER BY measurement_time DESC
        LIMIT $2`

	records, err := r.queryRecords(ctx, query, roadNumber, repositories.DefaultLookupLimit)
	if err != nil {
		return nil, fmt.Errorf("error fetching traffic data by road: %w", err)
	}
	return records, nil
}

func (r *TrafficRepository) GetByCounty(ctx context.Context, county string) ([]*models.TrafficRecord, error) {
	query := `SELECT ` + selectColumns + `
        FROM traffic_data
        WHERE county ILIKE $1
        ORDER BY measurement_time DESC
        LIMIT $2`

	records, err := r.queryRecords(ctx, query, "%"+county+"%", repositories.DefaultLookupLimit)
	if err != nil {
		return nil, fmt.Errorf("error fetching traffic data by county: %w", err)
	}
	return records, nil
}

func (r *TrafficRepository) GetByMeasurementPoint(ctx context.Context, pointID string) ([]*models.TrafficRecord, error) {
	query := `SELECT ` + selectColumns + `
        FROM traffic_data
        WHERE punkt_nummer = $1
        ORDER BY measurement_time DESC
        LIMIT $2`

	records, err := r.queryRecords(ctx, query, pointID, repositories.DefaultLookupLimit)
	if err != nil {
		return nil, fmt.Errorf("error fetching traffic data by measurement point: %w", err)
	}
	return records, nil
}

func (r *TrafficRepository) Stats(ctx context.Context) (*models.TrafficSummary, error) {
	query := `
        SELECT
            COUNT(*),
            AVG(all_vehicles_avg_speed)::float8,
            AVG(heavy_vehicles_avg_speed)::float8,
            AVG(passenger_car_avg_speed)::float8,
            MAX(all_vehicles_avg_speed)::float8,
            MIN(all_vehicles_avg_speed)::float8,
            COUNT(DISTINCT county),
            COUNT(DISTINCT road_number),
            COUNT(DISTINCT punkt_nummer)
        FROM traffic_data`

	s := &models.TrafficSummary{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.TotalRecords,
		&s.AvgAllVehiclesSpeed,
		&s.AvgHeavyVehiclesSpeed,
		&s.AvgPassengerCarSpeed,
		&s.MaxSpeed,
		&s.MinSpeed,
		&s.UniqueCounties,
		&s.UniqueRoads,
		&s.UniqueMeasurementPoints,
	)
	if err != nil {
		return nil, fmt.Errorf("error fetching traffic statistics: %w", err)
	}
	return s, nil
}

func (r *TrafficRepository) AverageSpeed(ctx context.Context, class models.VehicleClass, dr *models.DateRange) (*float64, error) {
	// the column name comes from the VehicleClass table, never from input
	query := fmt.Sprintf(`SELECT AVG(%s)::float8 FROM traffic_data`, models.SpeedOf(class))
	query, args := withDateRange(query, dr)

	var avg *float64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return nil, fmt.Errorf("error calculating average speed: %w", err)
	}
	return avg, nil
}

func (r *TrafficRepository) CountsComparison(ctx context.Context, dr *models.DateRange) (*models.CountsComparison, error) {
	query, args := withDateRange(`
        SELECT
            AVG(all_vehicles_count)::float8,
            AVG(passenger_car_count)::float8,
            AVG(heavy_vehicles_count)::float8,
            AVG(heavy_vehicles_trailer_count)::float8,
            AVG(heavy_vehicles_no_trailer_count)::float8,
            AVG(passenger_car_trailer_count)::float8,
            AVG(passenger_car_no_trailer_count)::float8
        FROM traffic_data`, dr)

	c := &models.CountsComparison{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.AvgAllVehicles,
		&c.AvgPassengerCars,
		&c.AvgHeavyVehicles,
		&c.AvgHeavyWithTrailer,
		&c.AvgHeavyWithoutTrailer,
		&c.AvgPassengerWithTrailer,
		&c.AvgPassengerWithoutTrailer,
	)
	if err != nil {
		return nil, fmt.Errorf("error comparing vehicle counts: %w", err)
	}
	return c, nil
}

func (r *TrafficRepository) SpeedsComparison(ctx context.Context, dr *models.DateRange) (*models.SpeedsComparison, error) {
	query, args := withDateRange(`
        SELECT
            AVG(all_vehicles_avg_speed)::float8,
            AVG(passenger_car_avg_speed)::float8,
            AVG(heavy_vehicles_avg_speed)::float8,
            AVG(heavy_vehicles_trailer_avg_speed)::float8,
            AVG(heavy_vehicles_no_trailer_avg_speed)::float8,
            AVG(passenger_car_trailer_avg_speed)::float8,
            AVG(passenger_car_no_trailer_avg_speed)::float8,
            AVG(three_axle_tractor_trailer_avg_speed)::float8,
            AVG(two_axle_tractor_trailer_avg_speed)::float8
        FROM traffic_data`, dr)

	s := &models.SpeedsComparison{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.AvgAllVehiclesSpeed,
		&s.AvgPassengerCarsSpeed,
		&s.AvgHeavyVehiclesSpeed,
		&s.AvgHeavyWithTrailerSpeed,
		&s.AvgHeavyWithoutTrailerSpeed,
		&s.AvgPassengerWithTrailerSpeed,
		&s.AvgPassengerNoTrailerSpeed,
		&s.AvgThreeAxleTrailerSpeed,
		&s.AvgTwoAxleTrailerSpeed,
	)
	if err != nil {
		return nil, fmt.Errorf("error comparing speeds: %w", err)
	}
	return s, nil
}

func (r *TrafficRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*models.TrafficRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.TrafficRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanRecord(rows pgx.Rows) (*models.TrafficRecord, error) {
	record := &models.TrafficRecord{}
	dest := []any{
		&record.ID,
		&record.MeasurementTime,
		&record.County,
		&record.RoadNumber,
		&record.MeasurementPointID,
		&record.CreatedAt,
	}
	for _, c := range models.VehicleClasses() {
		vm := record.Class(c)
		dest = append(dest, &vm.Count, &vm.AvgSpeed)
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	return record, nil
}

func withDateRange(query string, dr *models.DateRange) (string, []any) {
	if dr == nil {
		return query, nil
	}
	return query + ` WHERE measurement_time BETWEEN $1 AND $2`, []any{dr.Start, dr.End}
}
