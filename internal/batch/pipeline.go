package batch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rshade/ecoshop-impact/internal/carbon"
	"github.com/rshade/ecoshop-impact/internal/climatiq"
)

// PipelineConfig wires the calculator to its collaborators.
type PipelineConfig struct {
	// Factors are the lookup tables; nil selects the embedded defaults.
	Factors *carbon.Factors

	// Climatiq configures the external estimator. An empty APIKey runs the
	// pipeline in local-only mode.
	Climatiq climatiq.Config

	// Recorder, if set, receives manufacturing events.
	Recorder carbon.Recorder
}

// NewCalculator builds a Calculator backed by the Climatiq client.
func NewCalculator(cfg PipelineConfig, logger zerolog.Logger) *carbon.Calculator {
	factors := cfg.Factors
	if factors == nil {
		factors = carbon.DefaultFactors()
	}

	var external carbon.ExternalEstimator
	client := climatiq.NewClient(cfg.Climatiq, factors, logger.With().Str("component", "climatiq").Logger())
	if client.Enabled() {
		external = client
	} else {
		logger.Info().Msg("no Climatiq API key configured, using approximate manufacturing formula only")
	}

	manufacturing := carbon.NewManufacturingEstimator(factors, external, cfg.Recorder, logger)
	return carbon.NewCalculator(factors, manufacturing, logger)
}

// ComputeImpact computes the impact of a single product with the default
// factor tables. An empty apiKey skips the external estimator.
func ComputeImpact(ctx context.Context, p carbon.Product, apiKey string, logger zerolog.Logger) (carbon.ImpactResult, error) {
	calc := NewCalculator(PipelineConfig{Climatiq: climatiq.Config{APIKey: apiKey}}, logger)
	return calc.ComputeProduct(ctx, p, true)
}
