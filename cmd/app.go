package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/chrisdamba/trafficmcp/internal/analytics"
	"github.com/chrisdamba/trafficmcp/internal/factories"
	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/chrisdamba/trafficmcp/internal/repositories"
	"github.com/chrisdamba/trafficmcp/internal/repositories/memory"
	"github.com/chrisdamba/trafficmcp/internal/repositories/postgres"
	"github.com/chrisdamba/trafficmcp/internal/tools"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app bundles what every command needs once configuration is loaded.
type app struct {
	config   *models.Config
	repo     repositories.TrafficRepository
	analyzer *analytics.Analyzer
	tools    *tools.Registry
}

func bindFlag(key string, flag *pflag.Flag) {
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	cfg, err := models.LoadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if timeout, _ := cmd.Flags().GetDuration("query-timeout"); timeout > 0 {
		cfg.QueryTimeout = timeout
	}
	if used := viper.ConfigFileUsed(); used != "" {
		log.Println("Using config file:", used)
	}
	return cfg, nil
}

// newApp loads configuration and opens the record source. The source is
// pinged before returning, so a dead database fails the command up front.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	analyzer, err := newAnalyzer(cfg, repo)
	if err != nil {
		repo.Close()
		return nil, err
	}

	registry := tools.NewTrafficTools(repo, analyzer)
	registry.SetTimeout(cfg.QueryTimeout)

	return &app{
		config:   cfg,
		repo:     repo,
		analyzer: analyzer,
		tools:    registry,
	}, nil
}

func (a *app) Close() {
	a.repo.Close()
}

func openRepository(ctx context.Context, cfg *models.Config) (repositories.TrafficRepository, error) {
	switch cfg.Source {
	case models.SourceSynthetic:
		records := factories.NewTrafficRecordFactory(cfg.Synthetic).CreateTrafficRecords(cfg.Synthetic.Records)
		log.Printf("Generated %d synthetic traffic records (seed %d)", len(records), cfg.Synthetic.Seed)
		return memory.NewTrafficRepository(records), nil
	case models.SourcePostgres:
		repo, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unsupported source: %s", cfg.Source)
}

func newAnalyzer(cfg *models.Config, repo repositories.TrafficRepository) (*analytics.Analyzer, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	order, err := analytics.ParseLowestOrder(cfg.PeakHours.LowestOrder)
	if err != nil {
		return nil, err
	}
	return analytics.NewAnalyzer(repo, analytics.WithLocation(loc), analytics.WithLowestOrder(order)), nil
}
