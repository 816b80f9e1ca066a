// Package config loads runtime settings from the environment and .env files.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rshade/ecoshop-impact/internal/batch"
	"github.com/rshade/ecoshop-impact/internal/climatiq"
)

// Environment variable names.
const (
	EnvClimatiqAPIKey  = "CLIMATIQ_API_KEY"
	EnvClimatiqBaseURL = "CLIMATIQ_BASE_URL"
	EnvClimatiqTimeout = "CLIMATIQ_TIMEOUT"
	EnvFactorsFile     = "ECOSHOP_FACTORS_FILE"
	EnvBatchDelay      = "ECOSHOP_BATCH_DELAY"
	EnvDelayPolicy     = "ECOSHOP_DELAY_POLICY"
	EnvLogLevel        = "ECOSHOP_LOG_LEVEL"
	EnvLogFormat       = "ECOSHOP_LOG_FORMAT"
	EnvMetricsListen   = "ECOSHOP_METRICS_LISTEN"
)

// Config holds every runtime setting. The zero value is not usable; call
// Default or Load.
type Config struct {
	// ClimatiqAPIKey gates external lookups; empty means local-only mode.
	ClimatiqAPIKey  string
	ClimatiqBaseURL string
	ClimatiqTimeout time.Duration

	// FactorsPath is an optional YAML override for the factor tables.
	FactorsPath string

	Delay       time.Duration
	DelayPolicy batch.DelayPolicy
	UseExternal bool

	LogLevel  string
	LogFormat string

	// MetricsListen, if set, is the address /metrics is served on during a run.
	MetricsListen string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ClimatiqBaseURL: climatiq.DefaultBaseURL,
		ClimatiqTimeout: climatiq.DefaultTimeout,
		Delay:           batch.DefaultDelay,
		DelayPolicy:     batch.DelayAlways,
		UseExternal:     true,
		LogLevel:        "info",
		LogFormat:       FormatAuto,
	}
}

// LoadDotEnv loads .env from the working directory if present. Variables
// already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load overlays environment variables on Default. Invalid values are
// logged and the default kept; a missing API key is not an error.
func Load(lookupEnv func(string) (string, bool), logger zerolog.Logger) Config {
	cfg := Default()
	get := func(key string) string {
		v, _ := lookupEnv(key)
		return strings.TrimSpace(v)
	}

	cfg.ClimatiqAPIKey = get(EnvClimatiqAPIKey)
	if v := get(EnvClimatiqBaseURL); v != "" {
		cfg.ClimatiqBaseURL = v
	}
	if v := get(EnvClimatiqTimeout); v != "" {
		if d, err := parsePositiveDuration(v); err == nil {
			cfg.ClimatiqTimeout = d
		} else {
			logger.Warn().Str("env_var", EnvClimatiqTimeout).Str("value", v).Err(err).Msg("invalid value, using default")
		}
	}
	cfg.FactorsPath = get(EnvFactorsFile)
	if v := get(EnvBatchDelay); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.Delay = d
		} else {
			logger.Warn().Str("env_var", EnvBatchDelay).Str("value", v).Msg("invalid value, using default")
		}
	}
	if v := get(EnvDelayPolicy); v != "" {
		if p, err := batch.ParseDelayPolicy(v); err == nil {
			cfg.DelayPolicy = p
		} else {
			logger.Warn().Str("env_var", EnvDelayPolicy).Str("value", v).Err(err).Msg("invalid value, using default")
		}
	}
	if v := get(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := get(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	cfg.MetricsListen = get(EnvMetricsListen)
	return cfg
}

// LoadFromEnv loads .env and then the process environment.
func LoadFromEnv(logger zerolog.Logger) Config {
	LoadDotEnv()
	return Load(os.LookupEnv, logger)
}

// ClimatiqConfig returns the client settings.
func (c Config) ClimatiqConfig() climatiq.Config {
	return climatiq.Config{
		APIKey:  c.ClimatiqAPIKey,
		BaseURL: c.ClimatiqBaseURL,
		Timeout: c.ClimatiqTimeout,
	}
}

// BatchOptions returns the driver settings.
func (c Config) BatchOptions() batch.Options {
	return batch.Options{
		Delay:       c.Delay,
		DelayPolicy: c.DelayPolicy,
		UseExternal: c.UseExternal,
	}
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}
