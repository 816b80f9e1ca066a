package carbon

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LocalManufacturingEstimator approximates the manufacturing footprint of a
// product from its formulation base, weight and packaging. It always succeeds
// and is the fallback for every external failure.
type LocalManufacturingEstimator struct {
	factors *Factors
}

// NewLocalManufacturingEstimator creates a local estimator over the given tables.
func NewLocalManufacturingEstimator(factors *Factors) *LocalManufacturingEstimator {
	return &LocalManufacturingEstimator{factors: factors}
}

// Estimate returns the approximate manufacturing footprint of p in kg CO2e.
//
// The calculation:
//  1. Base emission = weight_kg × base type factor
//  2. Carbon = round3(base emission × packaging multiplier)
func (e *LocalManufacturingEstimator) Estimate(p Product) float64 {
	base := p.WeightKg() * e.factors.GetBaseTypeFactor(p.BaseType)
	return Round3(base * e.factors.GetPackagingMultiplier(p.PackagingMaterial))
}

// Detail returns a human-readable description of the local estimate.
func (e *LocalManufacturingEstimator) Detail(p Product) string {
	return p.BaseType + " (" + formatFactor(e.factors.GetBaseTypeFactor(p.BaseType)) + " kg/kg), " +
		formatFloat(p.Weight) + " g, " +
		p.PackagingMaterial + " ×" + formatFactor(e.factors.GetPackagingMultiplier(p.PackagingMaterial))
}

// ManufacturingApproxKg is a convenience wrapper over LocalManufacturingEstimator.Estimate.
func ManufacturingApproxKg(p Product, factors *Factors) float64 {
	return NewLocalManufacturingEstimator(factors).Estimate(p)
}

// ManufacturingEstimator decides between the external estimator and the
// local formula for each product.
//
// It has two states: tryExternal (initial) and useLocalFallback (terminal).
// External lookups are skipped when disabled by the caller or when the
// external estimator is nil or unconfigured; any external failure moves to
// the local fallback. Failures are logged, never returned.
type ManufacturingEstimator struct {
	external ExternalEstimator
	local    *LocalManufacturingEstimator
	recorder Recorder
	logger   zerolog.Logger
}

// NewManufacturingEstimator creates an orchestrator. external and recorder may be nil.
func NewManufacturingEstimator(factors *Factors, external ExternalEstimator, recorder Recorder, logger zerolog.Logger) *ManufacturingEstimator {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ManufacturingEstimator{
		external: external,
		local:    NewLocalManufacturingEstimator(factors),
		recorder: recorder,
		logger:   logger,
	}
}

// ExternalEnabled reports whether Estimate may perform network I/O.
func (m *ManufacturingEstimator) ExternalEnabled() bool {
	return m.external != nil && m.external.Enabled()
}

// Estimate returns the manufacturing footprint of p.
func (m *ManufacturingEstimator) Estimate(ctx context.Context, p Product, useExternal bool) ManufacturingEstimate {
	if !useExternal || !m.ExternalEnabled() {
		return m.useLocal(p, false)
	}

	start := time.Now()
	result := m.external.Estimate(ctx, p)
	m.recorder.ObserveExternalDuration(time.Since(start))

	if result.OK {
		m.recorder.ObserveManufacturing(SourceExternal)
		m.logger.Debug().
			Str("product_id", p.ID).
			Str("operation", "EstimateManufacturing").
			Float64("manufacturing_kg", result.Value).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("external estimate")
		return ManufacturingEstimate{Kg: result.Value, Source: SourceExternal, Called: true}
	}

	m.recorder.ObserveExternalFailure(result.Reason)
	m.logger.Warn().
		Str("product_id", p.ID).
		Str("operation", "EstimateManufacturing").
		Str("reason", string(result.Reason)).
		Err(result.Err).
		Msg("external estimate unavailable, using approximate formula")
	return m.useLocal(p, true)
}

func (m *ManufacturingEstimator) useLocal(p Product, called bool) ManufacturingEstimate {
	m.recorder.ObserveManufacturing(SourceLocal)
	return ManufacturingEstimate{Kg: m.local.Estimate(p), Source: SourceLocal, Called: called}
}
