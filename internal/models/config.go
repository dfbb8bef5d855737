package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type Config struct {
	Seed               int64     `mapstructure:"seed"`
	AvgDailyOrders     float64   `mapstructure:"average_daily_orders"`
	LookbackDays       int       `mapstructure:"lookback_days"`
	WeekdayMultipliers []float64 `mapstructure:"weekday_multipliers"` // Monday..Sunday
	JitterLow          float64   `mapstructure:"jitter_low"`
	JitterHigh         float64   `mapstructure:"jitter_high"`

	// Catalog source: "generated" builds a faker catalog in memory,
	// "postgres" reads brands and items from the catalog database.
	CatalogSource string         `mapstructure:"catalog_source"`
	InitialBrands int            `mapstructure:"initial_brands"`
	Database      DatabaseConfig `mapstructure:"database"`

	KafkaEnabled     bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`

	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputFormat      string             `mapstructure:"output_format"`
	OutputDestination string             `mapstructure:"output_destination"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	// Publish-failure policy for the realtime phase. Backfill always aborts
	// on the first failed publish.
	RealtimeAbortOnPublishError bool `mapstructure:"realtime_abort_on_publish_error"`
}

// DemandParameters is the read-only slice of configuration driving the
// demand model, fixed for the lifetime of a run.
type DemandParameters struct {
	AverageDailyOrders float64
	WeekdayMultipliers [7]float64 // Monday..Sunday
	JitterLow          float64
	JitterHigh         float64
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("seed", time.Now().UnixNano())
	viper.SetDefault("catalog_source", CatalogSourceGenerated)
	viper.SetDefault("initial_brands", 20)
	viper.SetDefault("jitter_low", 0.85)
	viper.SetDefault("jitter_high", 1.15)
	viper.SetDefault("weekday_multipliers", DefaultWeekdayMultipliers)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

// Validate rejects any configuration that would make the generated stream
// statistically meaningless. It runs before the first event is produced.
func (cfg *Config) Validate() error {
	if cfg.AvgDailyOrders <= 0 {
		return fmt.Errorf("average_daily_orders must be positive, got %v", cfg.AvgDailyOrders)
	}
	if cfg.LookbackDays < 0 {
		return fmt.Errorf("lookback_days must be zero or positive, got %d", cfg.LookbackDays)
	}
	if len(cfg.WeekdayMultipliers) != 7 {
		return fmt.Errorf("weekday_multipliers must contain exactly 7 values (Monday..Sunday), got %d", len(cfg.WeekdayMultipliers))
	}
	for i, m := range cfg.WeekdayMultipliers {
		if m <= 0 {
			return fmt.Errorf("weekday_multipliers[%d] must be positive, got %v", i, m)
		}
	}
	if cfg.JitterLow <= 0 {
		return fmt.Errorf("jitter_low must be positive, got %v", cfg.JitterLow)
	}
	if cfg.JitterHigh < cfg.JitterLow {
		return fmt.Errorf("jitter_high (%v) must not be below jitter_low (%v)", cfg.JitterHigh, cfg.JitterLow)
	}
	switch cfg.CatalogSource {
	case CatalogSourceGenerated:
		if cfg.InitialBrands <= 0 {
			return fmt.Errorf("initial_brands must be positive for a generated catalog, got %d", cfg.InitialBrands)
		}
	case CatalogSourcePostgres:
		if cfg.Database.Host == "" || cfg.Database.DBName == "" {
			return fmt.Errorf("catalog_source %q requires database.host and database.dbname", cfg.CatalogSource)
		}
	default:
		return fmt.Errorf("unsupported catalog_source: %q", cfg.CatalogSource)
	}
	if cfg.OutputPath != "" {
		switch cfg.OutputFormat {
		case "json", "parquet", "postgres":
		default:
			return fmt.Errorf("unsupported output_format: %q", cfg.OutputFormat)
		}
	}
	return nil
}

// DemandParameters extracts the demand model inputs from the run config.
func (cfg *Config) DemandParameters() DemandParameters {
	params := DemandParameters{
		AverageDailyOrders: cfg.AvgDailyOrders,
		JitterLow:          cfg.JitterLow,
		JitterHigh:         cfg.JitterHigh,
	}
	copy(params.WeekdayMultipliers[:], cfg.WeekdayMultipliers)
	return params
}
