// Package carbon provides carbon footprint estimation for EcoShop products
// from their packaging, ingredient, origin and manufacturing attributes.
package carbon

const (
	// GramsPerKg converts product weight (grams) to kilograms.
	GramsPerKg = 1000.0

	// RoundingPrecision is the number of decimals every sub-score is rounded to.
	RoundingPrecision = 3

	// DefaultMediumThreshold is the total footprint (kg CO2e) at which a
	// product stops being low impact.
	DefaultMediumThreshold = 0.5

	// DefaultHighThreshold is the total footprint (kg CO2e) at which a
	// product becomes high impact.
	DefaultHighThreshold = 1.5

	// DefaultMoneyUnit is the currency sent to the external estimator when
	// the product has a price but no currency.
	DefaultMoneyUnit = "USD"

	// DefaultWeightUnit is the weight unit of Product.Weight.
	DefaultWeightUnit = "g"

	// DefaultVolumeUnit is the volume unit sent when only a volume is known.
	DefaultVolumeUnit = "ml"
)
