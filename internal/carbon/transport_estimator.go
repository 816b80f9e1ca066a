package carbon

// TransportEstimator estimates the shipping footprint of a product.
type TransportEstimator struct {
	factors *Factors
}

// NewTransportEstimator creates a transport estimator over the given tables.
func NewTransportEstimator(factors *Factors) *TransportEstimator {
	return &TransportEstimator{factors: factors}
}

// Estimate returns the transport footprint of p in kg CO2e.
//
// The calculation:
//  1. Distance (km) from the origin country table
//  2. Factor (kg CO2e per km per kg) from the transport mode table
//  3. Carbon = round3(distance × factor × weight_kg)
//
// Unknown countries and modes use the table defaults.
func (e *TransportEstimator) Estimate(p Product) float64 {
	distance := e.factors.GetDistanceKm(p.OriginCountry)
	factor := e.factors.GetTransportFactor(p.TransportationType)
	return Round3(distance * factor * p.WeightKg())
}

// Detail returns a human-readable description of the transport estimate.
func (e *TransportEstimator) Detail(p Product) string {
	return p.OriginCountry + " " + formatFloat(e.factors.GetDistanceKm(p.OriginCountry)) + " km by " +
		p.TransportationType + " (" + formatFactor(e.factors.GetTransportFactor(p.TransportationType)) + " kg/km/kg), " +
		formatFloat(p.Weight) + " g"
}

// TransportKg is a convenience wrapper over TransportEstimator.Estimate.
func TransportKg(p Product, factors *Factors) float64 {
	return NewTransportEstimator(factors).Estimate(p)
}
