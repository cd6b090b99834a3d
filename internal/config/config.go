// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// DefaultMASTMetricsURL is the published MAST metrics document.
const DefaultMASTMetricsURL = "https://raw.githubusercontent.com/HealthRex/mast/main/leaderboards/harmdash/data/metrics.csv"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address of the serve command, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir holds the per-benchmark score files and the release-dates file.
	DataDir string `koanf:"data_dir"`

	// OutputDir receives rendered charts.
	OutputDir string `koanf:"output_dir"`

	// OutputBase is the file name stem of rendered charts.
	OutputBase string `koanf:"output_base"`

	// MASTMetricsURL, MASTCacheFile and ReleaseDatesFile configure the MAST source.
	// Relative file paths are resolved against DataDir.
	MASTMetricsURL   string `koanf:"mast_metrics_url"`
	MASTCacheFile    string `koanf:"mast_cache_file"`
	ReleaseDatesFile string `koanf:"release_dates_file"`

	// MASTTeam, MASTCondition and MASTMetric select the leaderboard rows.
	MASTTeam      string `koanf:"mast_team"`
	MASTCondition string `koanf:"mast_condition"`
	MASTMetric    string `koanf:"mast_metric"`

	// FetchTimeoutMS bounds the MAST download.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// FetchMaxBytes caps the size of the downloaded MAST document.
	FetchMaxBytes int64 `koanf:"fetch_max_bytes"`

	// PreferCache serves the cached MAST copy without contacting the remote.
	PreferCache bool `koanf:"prefer_cache"`

	// PNGWidth and PNGHeight size the static chart.
	PNGWidth  int `koanf:"png_width"`
	PNGHeight int `koanf:"png_height"`

	// Themes lists the rendered themes: white, dark.
	Themes []string `koanf:"themes"`

	// Colors overrides benchmark colors, keyed by benchmark id.
	Colors map[string]string `koanf:"colors"`

	// Scales overrides the declared source scale (fraction or percent), keyed
	// by benchmark id.
	Scales map[string]string `koanf:"scales"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		DataDir:          "data",
		OutputDir:        "output",
		OutputBase:       "healthcare_ai_benchmarks",
		MASTMetricsURL:   DefaultMASTMetricsURL,
		MASTCacheFile:    "metrics.csv",
		ReleaseDatesFile: "model_release_dates.csv",
		MASTTeam:         "Solo Models",
		MASTCondition:    "Advisor",
		MASTMetric:       "OverallScore",
		FetchTimeoutMS:   30_000,
		FetchMaxBytes:    16 << 20,
		PNGWidth:         1200,
		PNGHeight:        700,
		Themes:           []string{"white", "dark"},
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}
