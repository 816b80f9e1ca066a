package carbon

import (
	"fmt"
	"math"
)

// Validate checks the fields the local formulas cannot default.
// Weight must be a positive finite number; Money and Volume, when present,
// must be non-negative finite numbers.
func (p Product) Validate() error {
	if math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) || p.Weight <= 0 {
		return fmt.Errorf("%w: product %q: weight must be positive, got %v", ErrInvalidProduct, p.ID, p.Weight)
	}
	if p.Money != nil && !validOptional(*p.Money) {
		return fmt.Errorf("%w: product %q: money must be non-negative, got %v", ErrInvalidProduct, p.ID, *p.Money)
	}
	if p.Volume != nil && !validOptional(*p.Volume) {
		return fmt.Errorf("%w: product %q: volume must be non-negative, got %v", ErrInvalidProduct, p.ID, *p.Volume)
	}
	return nil
}

func validOptional(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// WeightKg returns the product weight in kilograms.
func (p Product) WeightKg() float64 {
	return p.Weight / GramsPerKg
}
