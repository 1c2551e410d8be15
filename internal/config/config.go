// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - Keys are flat snake_case so they map 1:1 to EVAL360_* environment variables.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Provider names accepted by the provider key.
const (
	ProviderCSV      = "csv"
	ProviderSheets   = "sheets"
	ProviderPostgres = "postgres"
)

// Tab combination modes.
const (
	TabModeUnion  = "union"
	TabModePrefer = "prefer"
)

// Report sinks.
const (
	SinkLocal = "local"
	SinkS3    = "s3"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Provider selects the survey data source: csv, sheets or postgres.
	Provider string `koanf:"provider"`

	// CSVDir holds <tab>.csv files for the csv provider.
	CSVDir string `koanf:"csv_dir"`

	// TextTab and NumericTab name the two response tabs.
	TextTab    string `koanf:"text_tab"`
	NumericTab string `koanf:"numeric_tab"`

	// TabMode is union (concatenate both tabs) or prefer (numeric tab first).
	TabMode string `koanf:"tab_mode"`

	// DedupeResponses drops identical responses after tabs are combined.
	DedupeResponses bool `koanf:"dedupe_responses"`

	// Google Sheets source.
	SheetID         string `koanf:"sheet_id"`
	SheetGID        string `koanf:"sheet_gid"`
	CredentialsPath string `koanf:"credentials_path"`

	// DatabaseURL is the Postgres DSN for the postgres provider and `eval360 import`.
	DatabaseURL string `koanf:"database_url"`

	// ExcludeColumns are extra glob patterns matched against normalized headers.
	ExcludeColumns []string `koanf:"exclude_columns"`

	// Default rater-group weights used when a request omits them.
	WeightSelf         float64 `koanf:"weight_self"`
	WeightManager      float64 `koanf:"weight_manager"`
	WeightPeers        float64 `koanf:"weight_peers"`
	WeightSubordinates float64 `koanf:"weight_subordinates"`

	// RefreshIntervalS reloads the dataset periodically when > 0.
	RefreshIntervalS int `koanf:"refresh_interval_s"`

	// ReportWorkers sets the number of report generation workers.
	ReportWorkers int `koanf:"report_workers"`

	// ReportQueueSize bounds the pending report jobs.
	ReportQueueSize int `koanf:"report_queue_size"`

	// ReportSink stores generated reports: local or s3.
	ReportSink string `koanf:"report_sink"`
	ReportDir  string `koanf:"report_dir"`
	S3Bucket   string `koanf:"s3_bucket"`
	S3Region   string `koanf:"s3_region"`
	S3Prefix   string `koanf:"s3_prefix"`

	// RateLimitRPS and RateLimitBurst bound API requests per client; 0 disables.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// MaxPopulation caps subjects plotted on the talent matrix and ranking.
	MaxPopulation int `koanf:"max_population"`
}

// New creates a Config populated with defaults. Context is accepted first to
// follow the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		Provider:           ProviderCSV,
		CSVDir:             "data",
		TextTab:            "Respuestas de formulario 1",
		NumericTab:         "Base de Datos Limpia",
		TabMode:            TabModeUnion,
		WeightSelf:         5,
		WeightManager:      18,
		WeightPeers:        30,
		WeightSubordinates: 47,
		ReportWorkers:      runtime.NumCPU(),
		ReportQueueSize:    256,
		ReportSink:         SinkLocal,
		ReportDir:          "reports",
		S3Prefix:           "reports/",
		RateLimitRPS:       50,
		RateLimitBurst:     100,
		MaxPopulation:      500,
	}
}

// RefreshInterval returns the dataset refresh period, zero when disabled.
func (c *Config) RefreshInterval() time.Duration {
	if c.RefreshIntervalS <= 0 {
		return 0
	}
	return time.Duration(c.RefreshIntervalS) * time.Second
}

// Validate checks the values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Provider {
	case ProviderCSV, ProviderSheets, ProviderPostgres:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}
	switch c.TabMode {
	case TabModeUnion, TabModePrefer:
	default:
		return fmt.Errorf("%w: unknown tab_mode %q", ErrInvalidConfig, c.TabMode)
	}
	switch c.ReportSink {
	case SinkLocal:
	case SinkS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("%w: s3_bucket is required for the s3 sink", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown report_sink %q", ErrInvalidConfig, c.ReportSink)
	}
	if c.Provider == ProviderSheets && c.SheetID == "" {
		return fmt.Errorf("%w: sheet_id is required for the sheets provider", ErrInvalidConfig)
	}
	if c.Provider == ProviderPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("%w: database_url is required for the postgres provider", ErrInvalidConfig)
	}
	weights := []float64{c.WeightSelf, c.WeightManager, c.WeightPeers, c.WeightSubordinates}
	var sum float64
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: default weights must be non-negative", ErrInvalidConfig)
		}
		sum += w
	}
	if sum <= 0 {
		return fmt.Errorf("%w: default weights must not all be zero", ErrInvalidConfig)
	}
	return nil
}
