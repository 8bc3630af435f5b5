package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	SourcePostgres  = "postgres"
	SourceSynthetic = "synthetic"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// ConnString renders the settings as a libpq keyword/value string.
func (d DatabaseConfig) ConnString() string {
	connStr := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.DBName, d.SSLMode)
	if d.Password != "" {
		connStr += fmt.Sprintf(" password=%s", d.Password)
	}
	return connStr
}

type SyntheticConfig struct {
	Records   int           `mapstructure:"records"`
	Seed      int64         `mapstructure:"seed"`
	StartDate time.Time     `mapstructure:"start_date"`
	Interval  time.Duration `mapstructure:"interval"`
	Points    int           `mapstructure:"points"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type KafkaConfig struct {
	BrokerList       string `mapstructure:"broker_list"`
	Topic            string `mapstructure:"topic"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`
}

type PeakHoursConfig struct {
	LowestOrder string `mapstructure:"lowest_order"`
}

type Config struct {
	Source    string          `mapstructure:"source"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Synthetic SyntheticConfig `mapstructure:"synthetic"`

	Timezone     string          `mapstructure:"timezone"`
	QueryTimeout time.Duration   `mapstructure:"query_timeout"`
	PeakHours    PeakHoursConfig `mapstructure:"peak_hours"`

	OutputFormat      string             `mapstructure:"output_format"`
	OutputDestination string             `mapstructure:"output_destination"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
	Kafka             KafkaConfig        `mapstructure:"kafka"`
}

// SetDefaults registers the default settings and the environment variable
// names of the database settings (DB_HOST, DB_PORT, ...).
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", SourcePostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "traffic_data")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("synthetic.records", 2000)
	v.SetDefault("synthetic.seed", 42)
	v.SetDefault("synthetic.start_date", "2023-11-01T00:00:00Z")
	v.SetDefault("synthetic.interval", "15m")
	v.SetDefault("synthetic.points", 3)
	v.SetDefault("timezone", "Local")
	v.SetDefault("query_timeout", "30s")
	v.SetDefault("peak_hours.lowest_order", "ascending")
	v.SetDefault("output_format", "csv")
	v.SetDefault("output_destination", "local")
	v.SetDefault("output_path", "./output")
	v.SetDefault("output_folder", "traffic")
	v.SetDefault("kafka.broker_list", "localhost:9092")
	v.SetDefault("kafka.topic", "traffic_long_format")

	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.dbname", "DB_NAME")
	_ = v.BindEnv("database.sslmode", "DB_SSLMODE")
}

// LoadConfig reads the optional config file and decodes the merged settings.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (cfg *Config) Validate() error {
	switch cfg.Source {
	case SourcePostgres, SourceSynthetic:
	default:
		return fmt.Errorf("unsupported source: %s", cfg.Source)
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	if _, err := NormalizeLowestOrder(cfg.PeakHours.LowestOrder); err != nil {
		return fmt.Errorf("unsupported peak_hours.lowest_order: %w", err)
	}
	return nil
}

// NormalizeLowestOrder maps the accepted spellings of peak_hours.lowest_order
// onto "ascending" or "descending". Empty means ascending.
func NormalizeLowestOrder(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascending", "asc":
		return "ascending", nil
	case "descending", "desc":
		return "descending", nil
	}
	return "", fmt.Errorf("unknown lowest order %q", s)
}

// Location resolves the configured zone used for hour-of-day bucketing.
func (cfg *Config) Location() (*time.Location, error) {
	if cfg.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	return loc, nil
}
