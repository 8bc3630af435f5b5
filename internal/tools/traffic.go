package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/trafficmcp/internal/analytics"
	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/chrisdamba/trafficmcp/internal/repositories"
)

const (
	defaultRecordLimit = 1000

	dateRangeHint   = "(YYYY-MM-DD or RFC 3339)"
	vehicleTypeHint = "Vehicle class, e.g. heavy_vehicles, passenger_car, all_vehicles"
)

type trafficTools struct {
	repo     repositories.TrafficRepository
	analyzer *analytics.Analyzer
}

// NewTrafficTools registers every traffic tool against one record source.
func NewTrafficTools(repo repositories.TrafficRepository, analyzer *analytics.Analyzer) *Registry {
	t := &trafficTools{repo: repo, analyzer: analyzer}
	r := NewRegistry()

	r.Register(Tool{
		Name:        "get_all_traffic_data",
		Description: "Get all traffic data with optional limit",
		Params: []Param{
			{Name: "limit", Type: ParamNumber, Description: "Maximum number of records to return (default: 1000)"},
		},
		Handler: t.getAll,
	})
	r.Register(Tool{
		Name:        "get_traffic_by_location",
		Description: "Get traffic data for a specific location (county, road, or measurement point)",
		Params: []Param{
			{Name: "location", Type: ParamString, Description: "Location to search for (county, road number, or measurement point)", Required: true},
		},
		Handler: t.byLocation,
	})
	r.Register(Tool{
		Name:        "get_traffic_by_date_range",
		Description: "Get traffic data within a specific date range",
		Params:      dateRangeParams(true),
		Handler:     t.byDateRange,
	})
	r.Register(Tool{
		Name:        "get_traffic_statistics",
		Description: "Get overall traffic statistics including averages, min/max speeds, and unique counts",
		Handler:     t.statistics,
	})
	r.Register(Tool{
		Name:        "get_traffic_by_road",
		Description: "Get traffic data for a specific road number",
		Params: []Param{
			{Name: "road_number", Type: ParamString, Description: "Road number to search for", Required: true},
		},
		Handler: t.byRoad,
	})
	r.Register(Tool{
		Name:        "get_traffic_by_county",
		Description: "Get traffic data for a specific county",
		Params: []Param{
			{Name: "county", Type: ParamString, Description: "County name to search for", Required: true},
		},
		Handler: t.byCounty,
	})
	r.Register(Tool{
		Name:        "get_traffic_by_measurement_point",
		Description: "Get traffic data for a specific measurement point",
		Params: []Param{
			{Name: "punkt_nummer", Type: ParamString, Description: "Measurement point number", Required: true},
		},
		Handler: t.byMeasurementPoint,
	})
	r.Register(Tool{
		Name:        "get_vehicle_counts_comparison",
		Description: "Compare average vehicle counts across vehicle types",
		Params:      dateRangeParams(false),
		Handler:     t.countsComparison,
	})
	r.Register(Tool{
		Name:        "get_speeds_comparison",
		Description: "Compare average speeds across vehicle types",
		Params:      dateRangeParams(false),
		Handler:     t.speedsComparison,
	})
	r.Register(Tool{
		Name:        "get_average_speed",
		Description: "Get the average speed of one vehicle type, optionally within a date range",
		Params: append([]Param{
			{Name: "vehicle_type", Type: ParamString, Description: vehicleTypeHint, Required: true},
		}, dateRangeParams(false)...),
		Handler: t.averageSpeed,
	})
	r.Register(Tool{
		Name:        "get_speed_statistics",
		Description: "Get count, average, min, max and median speed for one vehicle type",
		Params: []Param{
			{Name: "vehicle_type", Type: ParamString, Description: vehicleTypeHint, Required: true},
		},
		Handler: t.speedStatistics,
	})
	r.Register(Tool{
		Name:        "get_all_vehicle_statistics",
		Description: "Get speed statistics for every vehicle type",
		Handler:     t.allVehicleStatistics,
	})
	r.Register(Tool{
		Name:        "generate_speed_graph",
		Description: "Plot daily average speeds as a text chart",
		Params: append([]Param{
			{Name: "vehicle_types", Type: ParamArray, Description: "Speed fields to plot (default: heavy_vehicles_avg_speed, passenger_car_avg_speed)"},
		}, dateRangeParams(false)...),
		Handler: t.speedGraph,
	})
	r.Register(Tool{
		Name:        "analyze_peak_hours",
		Description: "Find the hours of the day with the highest and lowest average speeds",
		Params: []Param{
			{Name: "vehicle_type", Type: ParamString, Description: vehicleTypeHint + " (default: all vehicles)"},
		},
		Handler: t.peakHours,
	})
	r.Register(Tool{
		Name:        "transform_to_long_format",
		Description: "Reshape records into one row per vehicle type",
		Params: []Param{
			{Name: "limit", Type: ParamNumber, Description: "Maximum number of source records (default: 5000)"},
		},
		Handler: t.longFormat,
	})
	r.Register(Tool{
		Name:        "generate_speed_bar_chart",
		Description: "Bar chart of average speed per vehicle type",
		Handler:     t.speedBarChart,
	})
	r.Register(Tool{
		Name:        "generate_vehicle_count_bar_chart",
		Description: "Bar chart of average vehicle count per vehicle type",
		Handler:     t.vehicleCountBarChart,
	})
	return r
}

func dateRangeParams(required bool) []Param {
	return []Param{
		{Name: "start_date", Type: ParamString, Description: "Start date " + dateRangeHint, Required: required},
		{Name: "end_date", Type: ParamString, Description: "End date " + dateRangeHint, Required: required},
	}
}

// recordsJSON renders an empty result as [] rather than null.
func recordsJSON(records []*models.TrafficRecord) (string, error) {
	if records == nil {
		records = []*models.TrafficRecord{}
	}
	return toJSON(records)
}

func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding result: %w", err)
	}
	return string(data), nil
}

func (t *trafficTools) getAll(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		Limit int `mapstructure:"limit"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if in.Limit <= 0 {
		in.Limit = defaultRecordLimit
	}
	records, err := t.repo.GetAll(ctx, in.Limit)
	if err != nil {
		return "", err
	}
	return recordsJSON(records)
}

// lookup decodes one required string argument and runs fetch with it.
func (t *trafficTools) lookup(ctx context.Context, args map[string]any, name string,
	fetch func(context.Context, string) ([]*models.TrafficRecord, error)) (string, error) {
	var value string
	if err := decodeArgs(args[name], &value); err != nil {
		return "", err
	}
	if value == "" {
		return "", missing(name)
	}
	records, err := fetch(ctx, value)
	if err != nil {
		return "", err
	}
	return recordsJSON(records)
}

func (t *trafficTools) byLocation(ctx context.Context, args map[string]any) (string, error) {
	return t.lookup(ctx, args, "location", t.repo.GetByLocation)
}

func (t *trafficTools) byRoad(ctx context.Context, args map[string]any) (string, error) {
	return t.lookup(ctx, args, "road_number", t.repo.GetByRoad)
}

func (t *trafficTools) byCounty(ctx context.Context, args map[string]any) (string, error) {
	return t.lookup(ctx, args, "county", t.repo.GetByCounty)
}

func (t *trafficTools) byMeasurementPoint(ctx context.Context, args map[string]any) (string, error) {
	return t.lookup(ctx, args, "punkt_nummer", t.repo.GetByMeasurementPoint)
}

func (t *trafficTools) byDateRange(ctx context.Context, args map[string]any) (string, error) {
	var in dateRangeArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	dr, err := in.required()
	if err != nil {
		return "", err
	}
	records, err := t.repo.GetByDateRange(ctx, dr.Start, dr.End)
	if err != nil {
		return "", err
	}
	return recordsJSON(records)
}

func (t *trafficTools) statistics(ctx context.Context, _ map[string]any) (string, error) {
	summary, err := t.repo.Stats(ctx)
	if err != nil {
		return "", err
	}
	return toJSON(summary)
}

func (t *trafficTools) optionalRange(args map[string]any) (*models.DateRange, error) {
	var in dateRangeArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	return in.optional()
}

func (t *trafficTools) countsComparison(ctx context.Context, args map[string]any) (string, error) {
	dr, err := t.optionalRange(args)
	if err != nil {
		return "", err
	}
	result, err := t.repo.CountsComparison(ctx, dr)
	if err != nil {
		return "", err
	}
	return toJSON(result)
}

func (t *trafficTools) speedsComparison(ctx context.Context, args map[string]any) (string, error) {
	dr, err := t.optionalRange(args)
	if err != nil {
		return "", err
	}
	result, err := t.repo.SpeedsComparison(ctx, dr)
	if err != nil {
		return "", err
	}
	return toJSON(result)
}

type vehicleTypeArgs struct {
	VehicleType string `mapstructure:"vehicle_type"`
	StartDate   string `mapstructure:"start_date"`
	EndDate     string `mapstructure:"end_date"`
}

func (a vehicleTypeArgs) dates() dateRangeArgs {
	return dateRangeArgs{StartDate: a.StartDate, EndDate: a.EndDate}
}

func (a vehicleTypeArgs) class() (models.VehicleClass, error) {
	if a.VehicleType == "" {
		return 0, missing("vehicle_type")
	}
	return models.ParseVehicleClass(a.VehicleType)
}

func (t *trafficTools) averageSpeed(ctx context.Context, args map[string]any) (string, error) {
	var in vehicleTypeArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	class, err := in.class()
	if err != nil {
		return "", err
	}
	dr, err := in.dates().optional()
	if err != nil {
		return "", err
	}
	avg, err := t.repo.AverageSpeed(ctx, class, dr)
	if err != nil {
		return "", err
	}
	return toJSON(map[string]*float64{"average_speed": avg})
}

func (t *trafficTools) speedStatistics(ctx context.Context, args map[string]any) (string, error) {
	var in vehicleTypeArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	class, err := in.class()
	if err != nil {
		return "", err
	}
	stats, err := t.analyzer.SpeedStatistics(ctx, class)
	if err != nil {
		return "", err
	}
	return toJSON(stats)
}

func (t *trafficTools) allVehicleStatistics(ctx context.Context, _ map[string]any) (string, error) {
	return t.analyzer.AllVehicleStatistics(ctx)
}

func (t *trafficTools) speedGraph(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		VehicleTypes []string `mapstructure:"vehicle_types"`
		StartDate    string   `mapstructure:"start_date"`
		EndDate      string   `mapstructure:"end_date"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	var metrics []models.Metric
	for _, name := range in.VehicleTypes {
		m, err := models.ParseMetric(name)
		if err != nil {
			return "", err
		}
		metrics = append(metrics, m)
	}
	dr, err := dateRangeArgs{StartDate: in.StartDate, EndDate: in.EndDate}.optional()
	if err != nil {
		return "", err
	}

	chart, ok, err := t.analyzer.SpeedGraph(ctx, metrics, dr)
	if err != nil {
		return "", err
	}
	if !ok {
		return analytics.NoDataMessage, nil
	}
	return chart, nil
}

func (t *trafficTools) peakHours(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		VehicleType string `mapstructure:"vehicle_type"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	var class *models.VehicleClass
	if in.VehicleType != "" {
		c, err := models.ParseVehicleClass(in.VehicleType)
		if err != nil {
			return "", err
		}
		class = &c
	}
	return t.analyzer.PeakHours(ctx, class)
}

func (t *trafficTools) longFormat(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		Limit int `mapstructure:"limit"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	rows, err := t.analyzer.LongFormat(ctx, in.Limit)
	if err != nil {
		return "", err
	}
	if rows == nil {
		rows = []models.LongFormatRecord{}
	}
	return toJSON(rows)
}

func (t *trafficTools) speedBarChart(ctx context.Context, _ map[string]any) (string, error) {
	return t.analyzer.SpeedBarChart(ctx)
}

func (t *trafficTools) vehicleCountBarChart(ctx context.Context, _ map[string]any) (string, error) {
	return t.analyzer.VehicleCountBarChart(ctx)
}
