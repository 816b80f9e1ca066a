package climatiq

import "github.com/goccy/go-json"

// estimateRequest is the body of POST /data/v1/estimate.
type estimateRequest struct {
	EmissionFactor emissionFactor `json:"emission_factor"`
	Parameters     parameters     `json:"parameters"`
}

// emissionFactor selects the activity the provider estimates against.
type emissionFactor struct {
	ActivityID  string `json:"activity_id"`
	DataVersion string `json:"data_version"`
}

// parameters carries exactly one sizing basis. Unused fields are omitted.
type parameters struct {
	Money      *float64 `json:"money,omitempty"`
	MoneyUnit  string   `json:"money_unit,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
	WeightUnit string   `json:"weight_unit,omitempty"`
	Volume     *float64 `json:"volume,omitempty"`
	VolumeUnit string   `json:"volume_unit,omitempty"`
}

// estimateResponse holds the field we read from a successful estimate.
// co2e is kept raw so a null or non-numeric value can be told apart from
// a malformed body.
type estimateResponse struct {
	CO2e     json.RawMessage `json:"co2e"`
	CO2eUnit string          `json:"co2e_unit"`
}
