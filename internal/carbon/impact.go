package carbon

import (
	"context"

	"github.com/rs/zerolog"
)

// Calculator composes the materials, transport and manufacturing estimators
// into a total footprint and eco badge.
type Calculator struct {
	factors       *Factors
	materials     *MaterialsEstimator
	transport     *TransportEstimator
	manufacturing *ManufacturingEstimator
	logger        zerolog.Logger
}

// NewCalculator creates a Calculator. A nil manufacturing estimator is
// replaced by a local-only one.
func NewCalculator(factors *Factors, manufacturing *ManufacturingEstimator, logger zerolog.Logger) *Calculator {
	if manufacturing == nil {
		manufacturing = NewManufacturingEstimator(factors, nil, nil, logger)
	}
	return &Calculator{
		factors:       factors,
		materials:     NewMaterialsEstimator(factors),
		transport:     NewTransportEstimator(factors),
		manufacturing: manufacturing,
		logger:        logger,
	}
}

// Factors returns the tables the calculator was built with.
func (c *Calculator) Factors() *Factors { return c.factors }

// Manufacturing returns the manufacturing orchestrator.
func (c *Calculator) Manufacturing() *ManufacturingEstimator { return c.manufacturing }

// LocalScores fills the materials and transport fields of a new result for p.
// It performs no I/O.
func (c *Calculator) LocalScores(p Product) ImpactResult {
	return ImpactResult{
		Product:        p,
		MaterialsScore: c.materials.Estimate(p),
		TransportKg:    c.transport.Estimate(p),
	}
}

// SetManufacturing stores a manufacturing estimate on r.
func SetManufacturing(r *ImpactResult, est ManufacturingEstimate) {
	kg := est.Kg
	r.ManufacturingKg = &kg
	r.ManufacturingSource = est.Source
}

// Finalize computes the total and badge of r from its sub-scores.
func (c *Calculator) Finalize(r *ImpactResult) {
	total := r.MaterialsScore + r.TransportKg
	if r.ManufacturingKg != nil {
		total += *r.ManufacturingKg
	}
	r.TotalKg = total
	r.Badge = c.ClassifyBadge(total)
}

// ClassifyBadge maps a total footprint to a badge using the calculator's thresholds.
func (c *Calculator) ClassifyBadge(total float64) Badge {
	return c.factors.BadgeThresholds.ClassifyBadge(total)
}

// ComputeProduct computes the full impact of one product. It returns
// ErrInvalidProduct when p lacks a positive weight; external failures never
// produce an error.
func (c *Calculator) ComputeProduct(ctx context.Context, p Product, useExternal bool) (ImpactResult, error) {
	if err := p.Validate(); err != nil {
		return ImpactResult{Product: p}, err
	}

	result := c.LocalScores(p)
	SetManufacturing(&result, c.manufacturing.Estimate(ctx, p, useExternal))
	c.Finalize(&result)

	c.logger.Debug().
		Str("product_id", p.ID).
		Str("operation", "ComputeProduct").
		Float64("huella_materiales", result.MaterialsScore).
		Float64("huella_transporte", result.TransportKg).
		Float64("huella_manufactura", *result.ManufacturingKg).
		Str("manufacturing_source", string(result.ManufacturingSource)).
		Float64("huella_total", result.TotalKg).
		Str("eco_badge", result.Badge.String()).
		Msg("impact calculated")

	return result, nil
}

// Describe returns the factors behind each sub-score of p, keyed by component.
func (c *Calculator) Describe(p Product) map[string]string {
	return map[string]string{
		"materials":     c.materials.Detail(p),
		"transport":     c.transport.Detail(p),
		"manufacturing": c.manufacturing.local.Detail(p),
	}
}
