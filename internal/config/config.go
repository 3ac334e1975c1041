package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Maps    MapsConfig    `yaml:"maps" mapstructure:"maps"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Jobs    JobsConfig    `yaml:"jobs" mapstructure:"jobs"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// MapsConfig holds Google Maps API credentials and client settings.
type MapsConfig struct {
	APIKey    string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SearchConfig configures the search aggregator.
type SearchConfig struct {
	FilterMode                string `yaml:"filter_mode" mapstructure:"filter_mode"`
	TextResultCap             int    `yaml:"text_result_cap" mapstructure:"text_result_cap"`
	AltTextResultCap          int    `yaml:"alt_text_result_cap" mapstructure:"alt_text_result_cap"`
	MinResultsForContinuation int    `yaml:"min_results_for_continuation" mapstructure:"min_results_for_continuation"`
	PageTokenDelaySecs        int    `yaml:"page_token_delay_secs" mapstructure:"page_token_delay_secs"`
}

// JobsConfig bounds the background search workers.
type JobsConfig struct {
	Workers   int `yaml:"workers" mapstructure:"workers"`
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size"`
}

// ExportConfig configures spreadsheet output.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// HistoryConfig configures search-history persistence. An empty path
// disables it.
type HistoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Older deployments supplied the key as GOOGLE_MAPS_API_KEY; keep
	// honoring it alongside the prefixed form.
	_ = v.BindEnv("maps.api_key", "SCRAPER_MAPS_API_KEY", "GOOGLE_MAPS_API_KEY")

	// Defaults
	v.SetDefault("maps.rate_limit", 10)
	v.SetDefault("search.filter_mode", "permissive")
	v.SetDefault("search.text_result_cap", 20)
	v.SetDefault("search.alt_text_result_cap", 15)
	v.SetDefault("search.min_results_for_continuation", 10)
	v.SetDefault("search.page_token_delay_secs", 2)
	v.SetDefault("jobs.workers", 4)
	v.SetDefault("jobs.queue_size", 64)
	v.SetDefault("export.dir", "downloads")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
