// Package config manages tool configuration using Viper.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/lfr"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/powerlaw"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. LFRTOOLS_LOGGING_LEVEL.
const EnvPrefix = "LFRTOOLS"

// Config manages tool configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.service", "lfr-tools")

	// Accuracy parameters
	v.SetDefault("accuracy.policy", string(membership.PolicySingletons))
	v.SetDefault("accuracy.results_file", "")

	// Power-law fitting
	v.SetDefault("powerlaw.min_tail", 1)

	// LFR clamps
	clamps := lfr.DefaultClamps()
	v.SetDefault("lfr.large_network_threshold", clamps.LargeNetworkThreshold)
	v.SetDefault("lfr.target_node_count", clamps.TargetNodeCount)
	v.SetDefault("lfr.large_network_max_cluster_size", clamps.LargeNetworkMaxClusterSize)
	v.SetDefault("lfr.low_mean_degree", clamps.LowMeanDegree)
	v.SetDefault("lfr.low_degree_max_degree", clamps.LowDegreeMaxDegree)
	v.SetDefault("lfr.max_degree_cap", clamps.MaxDegreeCap)
	v.SetDefault("lfr.max_cluster_size_cap", clamps.MaxClusterSizeCap)
	v.SetDefault("lfr.high_mean_degree", clamps.HighMeanDegree)
	v.SetDefault("lfr.high_degree_max_cluster_size", clamps.HighDegreeMaxClusterSize)
	v.SetDefault("lfr.cmin", 1)

	// Server parameters
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_body_bytes", 32<<20)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }
func (c *Config) Service() string  { return c.v.GetString("logging.service") }

func (c *Config) AccuracyResultsFile() string { return c.v.GetString("accuracy.results_file") }

// AccuracyPolicy returns the configured reconciliation policy.
func (c *Config) AccuracyPolicy() (membership.Policy, error) {
	return membership.ParsePolicy(c.v.GetString("accuracy.policy"))
}

func (c *Config) PowerLawMinTail() int { return c.v.GetInt("powerlaw.min_tail") }

// PowerLawOptions returns the fit options shared by every estimate.
func (c *Config) PowerLawOptions() []powerlaw.Option {
	return []powerlaw.Option{powerlaw.WithMinTail(c.PowerLawMinTail())}
}

func (c *Config) LFRMinCommunity() int { return c.v.GetInt("lfr.cmin") }

// LFRClamps assembles the LFR parameter clamps.
func (c *Config) LFRClamps() lfr.Clamps {
	return lfr.Clamps{
		LargeNetworkThreshold:      c.v.GetInt("lfr.large_network_threshold"),
		TargetNodeCount:            c.v.GetInt("lfr.target_node_count"),
		LargeNetworkMaxClusterSize: c.v.GetInt("lfr.large_network_max_cluster_size"),
		LowMeanDegree:              c.v.GetFloat64("lfr.low_mean_degree"),
		LowDegreeMaxDegree:         c.v.GetInt("lfr.low_degree_max_degree"),
		MaxDegreeCap:               c.v.GetInt("lfr.max_degree_cap"),
		MaxClusterSizeCap:          c.v.GetInt("lfr.max_cluster_size_cap"),
		HighMeanDegree:             c.v.GetFloat64("lfr.high_mean_degree"),
		HighDegreeMaxClusterSize:   c.v.GetInt("lfr.high_degree_max_cluster_size"),
	}
}

func (c *Config) ServerAddr() string             { return c.v.GetString("server.addr") }
func (c *Config) ServerAllowedOrigins() []string { return c.v.GetStringSlice("server.allowed_origins") }
func (c *Config) ServerMaxBodyBytes() int64      { return c.v.GetInt64("server.max_body_bytes") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	return c.CreateLoggerTo(os.Stderr)
}

// CreateLoggerTo creates a console logger writing to out.
func (c *Config) CreateLoggerTo(out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", c.Service()).Logger()
}
