package carbon

import "github.com/goccy/go-json"

// Product describes the physical attributes of a product that drive its
// footprint. It is read-only input: estimators never modify it.
type Product struct {
	// ID is an opaque identifier used for logging and correlation only.
	ID string `json:"id,omitempty"`

	// PackagingMaterial is one of plastic_bottle, plastic_tube,
	// glass_container or paper_wrap.
	PackagingMaterial string `json:"packaging_material"`

	// RecyclablePackaging reports whether the packaging can be recycled.
	// When absent from JSON input it defaults to true.
	RecyclablePackaging bool `json:"recyclable_packaging"`

	// IngredientMain is the main ingredient name (e.g., "Aloe Vera").
	IngredientMain string `json:"ingredient_main"`

	// OriginCountry is the ISO-3 style country code of origin (e.g., "ARG").
	OriginCountry string `json:"origin_country"`

	// TransportationType is one of air, sea or land.
	TransportationType string `json:"transportation_type"`

	// Weight is the product mass in grams. Must be positive.
	Weight float64 `json:"weight"`

	// WeightUnit is sent to the external estimator (default "g").
	WeightUnit string `json:"weight_unit,omitempty"`

	// BaseType is one of water_based, plant_based or oil_based.
	BaseType string `json:"base_type"`

	// CategoryClimatiq is an optional category hint for the external estimator.
	CategoryClimatiq string `json:"category_climatiq,omitempty"`

	// Money is the optional product price, the preferred sizing basis for
	// the external estimator.
	Money *float64 `json:"money,omitempty"`

	// MoneyUnit is the currency of Money (default "USD").
	MoneyUnit string `json:"money_unit,omitempty"`

	// Volume is the optional product volume.
	Volume *float64 `json:"volume,omitempty"`

	// VolumeUnit is the unit of Volume (default "ml").
	VolumeUnit string `json:"volume_unit,omitempty"`
}

// UnmarshalJSON decodes a product, treating a missing recyclable_packaging
// as recyclable.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	v := plain{RecyclablePackaging: true}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Product(v)
	return nil
}

// ManufacturingSource identifies which path produced a manufacturing figure.
type ManufacturingSource string

const (
	// SourceExternal means the figure came from the external emissions API.
	SourceExternal ManufacturingSource = "external"

	// SourceLocal means the figure came from the approximate local formula.
	SourceLocal ManufacturingSource = "local"
)

// ImpactResult is the footprint computed for one product. It embeds a copy
// of the input and adds the five computed fields.
type ImpactResult struct {
	Product Product `json:"product"`

	// MaterialsScore is the dimensionless packaging + ingredient score.
	MaterialsScore float64 `json:"huella_materiales"`

	// TransportKg is the transport footprint in kg CO2e.
	TransportKg float64 `json:"huella_transporte"`

	// ManufacturingKg is the manufacturing footprint in kg CO2e.
	// Nil only when the product could not be estimated at all.
	ManufacturingKg *float64 `json:"huella_manufactura"`

	// ManufacturingSource reports whether ManufacturingKg is external or local.
	ManufacturingSource ManufacturingSource `json:"manufacturing_source,omitempty"`

	// TotalKg is MaterialsScore + TransportKg + ManufacturingKg (nil counts as 0).
	TotalKg float64 `json:"huella_total"`

	// Badge is the eco badge tier derived from TotalKg.
	Badge Badge `json:"eco_badge"`

	// Err is set when the product failed validation inside a batch.
	Err error `json:"-"`
}

// FailureReason categorizes why an external estimate was unavailable.
type FailureReason string

const (
	// ReasonNone marks a successful external estimate.
	ReasonNone FailureReason = ""

	// ReasonTimeout means the request exceeded its deadline.
	ReasonTimeout FailureReason = "timeout"

	// ReasonConnection means the request could not reach the provider.
	ReasonConnection FailureReason = "connection"

	// ReasonStatus means the provider answered with a non-200 status.
	ReasonStatus FailureReason = "status"

	// ReasonDecode means the response body was not valid JSON.
	ReasonDecode FailureReason = "decode"

	// ReasonMissingField means the response had no numeric co2e field.
	ReasonMissingField FailureReason = "missing_field"

	// ReasonRequest means the request could not be built.
	ReasonRequest FailureReason = "request"
)

// ExternalResult is the outcome of one external estimate: either a value
// (OK true) or a failure reason. It is never returned as a Go error so the
// orchestrator can switch to the local formula explicitly.
type ExternalResult struct {
	// Value is the rounded manufacturing footprint in kg CO2e when OK.
	Value float64

	// OK reports whether Value is usable.
	OK bool

	// Reason categorizes the failure when OK is false.
	Reason FailureReason

	// Err carries the underlying cause for logging, if any.
	Err error
}

// ExternalSuccess returns a successful ExternalResult for value.
func ExternalSuccess(value float64) ExternalResult {
	return ExternalResult{Value: value, OK: true}
}

// ExternalFailure returns an unavailable ExternalResult.
func ExternalFailure(reason FailureReason, err error) ExternalResult {
	return ExternalResult{Reason: reason, Err: err}
}

// ManufacturingEstimate is the output of ManufacturingEstimator.Estimate.
type ManufacturingEstimate struct {
	// Kg is the manufacturing footprint in kg CO2e.
	Kg float64

	// Source is the path that produced Kg.
	Source ManufacturingSource

	// Called reports whether a network request was attempted.
	Called bool
}
