package carbon

// MaterialsEstimator scores the packaging and main-ingredient impact of a product.
type MaterialsEstimator struct {
	factors *Factors
}

// NewMaterialsEstimator creates a materials estimator over the given tables.
func NewMaterialsEstimator(factors *Factors) *MaterialsEstimator {
	return &MaterialsEstimator{factors: factors}
}

// Estimate returns the materials score of p.
//
// The calculation:
//  1. Packaging score = packaging impact (+ non-recyclable penalty)
//  2. Ingredient score = processing tier of the main ingredient
//  3. Score = round3(packaging + ingredient)
//
// Every input maps to a score; unknown values use the table defaults.
func (e *MaterialsEstimator) Estimate(p Product) float64 {
	return Round3(e.packagingScore(p) + e.factors.GetIngredientScore(p.IngredientMain))
}

func (e *MaterialsEstimator) packagingScore(p Product) float64 {
	score := e.factors.GetPackagingImpact(p.PackagingMaterial)
	if !p.RecyclablePackaging {
		score += e.factors.NonRecyclablePenalty
	}
	return score
}

// Detail returns a human-readable description of the materials score.
func (e *MaterialsEstimator) Detail(p Product) string {
	detail := p.PackagingMaterial + " (" + formatFactor(e.factors.GetPackagingImpact(p.PackagingMaterial)) + ")"
	if !p.RecyclablePackaging {
		detail += " + non-recyclable (" + formatFactor(e.factors.NonRecyclablePenalty) + ")"
	}
	return detail + " + " + p.IngredientMain + " (" + formatFactor(e.factors.GetIngredientScore(p.IngredientMain)) + ")"
}

// MaterialsScore is a convenience wrapper over MaterialsEstimator.Estimate.
func MaterialsScore(p Product, factors *Factors) float64 {
	return NewMaterialsEstimator(factors).Estimate(p)
}
