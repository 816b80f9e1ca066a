package carbon

import (
	_ "embed"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/factors.yaml
var defaultFactorsYAML []byte

// IngredientTier groups ingredients that share a processing-intensity score.
type IngredientTier struct {
	Score       float64  `yaml:"score"`
	Ingredients []string `yaml:"ingredients"`
}

// IngredientTiers holds the three processing-intensity tiers.
type IngredientTiers struct {
	Low    IngredientTier `yaml:"low"`
	Medium IngredientTier `yaml:"medium"`
	High   IngredientTier `yaml:"high"`
}

// BadgeThresholds holds the lower bounds (kg CO2e) of the medium and high badges.
type BadgeThresholds struct {
	Medium float64 `yaml:"medium"`
	High   float64 `yaml:"high"`
}

// ClimatiqMapping translates product category hints to provider activity ids.
type ClimatiqMapping struct {
	DefaultActivityID string            `yaml:"default_activity_id"`
	Categories        map[string]string `yaml:"categories"`
}

// Factors holds every lookup table used by the estimators. A Factors value
// is loaded once at startup and treated as read-only afterwards.
type Factors struct {
	PackagingImpact        map[string]float64 `yaml:"packaging_impact"`
	DefaultPackagingImpact float64            `yaml:"default_packaging_impact"`
	NonRecyclablePenalty   float64            `yaml:"non_recyclable_penalty"`

	IngredientTiers        IngredientTiers `yaml:"ingredient_tiers"`
	DefaultIngredientScore float64         `yaml:"default_ingredient_score"`

	TransportFactors       map[string]float64 `yaml:"transport_factors"`
	DefaultTransportFactor float64            `yaml:"default_transport_factor"`

	CountryDistanceKm map[string]float64 `yaml:"country_distance_km"`
	DefaultDistanceKm float64            `yaml:"default_distance_km"`

	BaseTypeFactors       map[string]float64 `yaml:"base_type_factors"`
	DefaultBaseTypeFactor float64            `yaml:"default_base_type_factor"`

	PackagingMultipliers       map[string]float64 `yaml:"packaging_multipliers"`
	DefaultPackagingMultiplier float64            `yaml:"default_packaging_multiplier"`

	BadgeThresholds BadgeThresholds `yaml:"badge_thresholds"`

	Climatiq ClimatiqMapping `yaml:"climatiq"`

	// ingredientIndex maps ingredient name to tier score, built by prepare.
	ingredientIndex map[string]float64
}

var (
	defaultFactors     *Factors
	defaultFactorsErr  error
	defaultFactorsOnce sync.Once
)

// DefaultFactors returns the embedded factor tables, parsed on first use.
// The returned value is shared and must not be modified; use Clone first.
func DefaultFactors() *Factors {
	defaultFactorsOnce.Do(func() {
		defaultFactors, defaultFactorsErr = ParseFactors(defaultFactorsYAML)
	})
	if defaultFactorsErr != nil {
		// The embedded file is covered by tests; reaching this is a build defect.
		panic(fmt.Sprintf("carbon: embedded factor tables: %v", defaultFactorsErr))
	}
	return defaultFactors
}

// ParseFactors parses a complete factor table document.
func ParseFactors(data []byte) (*Factors, error) {
	f := &Factors{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFactors, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.prepare()
	return f, nil
}

// LoadFactors reads a YAML override file and overlays it on the defaults.
// Keys absent from the file keep their default values; map entries are
// merged key by key. An empty path returns the defaults.
func LoadFactors(path string) (*Factors, error) {
	if path == "" {
		return DefaultFactors(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading factor tables %s: %w", path, err)
	}
	return OverlayFactors(DefaultFactors(), data)
}

// OverlayFactors decodes data on top of a copy of base.
func OverlayFactors(base *Factors, data []byte) (*Factors, error) {
	f := base.Clone()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFactors, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.prepare()
	return f, nil
}

// Clone returns a deep copy of f.
func (f *Factors) Clone() *Factors {
	c := *f
	c.PackagingImpact = maps.Clone(f.PackagingImpact)
	c.TransportFactors = maps.Clone(f.TransportFactors)
	c.CountryDistanceKm = maps.Clone(f.CountryDistanceKm)
	c.BaseTypeFactors = maps.Clone(f.BaseTypeFactors)
	c.PackagingMultipliers = maps.Clone(f.PackagingMultipliers)
	c.Climatiq.Categories = maps.Clone(f.Climatiq.Categories)
	c.IngredientTiers.Low.Ingredients = slices.Clone(f.IngredientTiers.Low.Ingredients)
	c.IngredientTiers.Medium.Ingredients = slices.Clone(f.IngredientTiers.Medium.Ingredients)
	c.IngredientTiers.High.Ingredients = slices.Clone(f.IngredientTiers.High.Ingredients)
	c.ingredientIndex = nil
	return &c
}

// Validate rejects negative or non-finite factors and inconsistent badge thresholds.
func (f *Factors) Validate() error {
	tables := map[string]map[string]float64{
		"packaging_impact":      f.PackagingImpact,
		"transport_factors":     f.TransportFactors,
		"country_distance_km":   f.CountryDistanceKm,
		"base_type_factors":     f.BaseTypeFactors,
		"packaging_multipliers": f.PackagingMultipliers,
	}
	for name, table := range tables {
		for key, v := range table {
			if !validFactor(v) {
				return fmt.Errorf("%w: %s[%s] must be a finite non-negative number, got %v", ErrInvalidFactors, name, key, v)
			}
		}
	}

	scalars := map[string]float64{
		"default_packaging_impact":      f.DefaultPackagingImpact,
		"non_recyclable_penalty":        f.NonRecyclablePenalty,
		"default_ingredient_score":      f.DefaultIngredientScore,
		"default_transport_factor":      f.DefaultTransportFactor,
		"default_distance_km":           f.DefaultDistanceKm,
		"default_base_type_factor":      f.DefaultBaseTypeFactor,
		"default_packaging_multiplier":  f.DefaultPackagingMultiplier,
		"ingredient_tiers.low.score":    f.IngredientTiers.Low.Score,
		"ingredient_tiers.medium.score": f.IngredientTiers.Medium.Score,
		"ingredient_tiers.high.score":   f.IngredientTiers.High.Score,
	}
	for name, v := range scalars {
		if !validFactor(v) {
			return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidFactors, name, v)
		}
	}

	// NaN thresholds fail this check as well.
	if !(f.BadgeThresholds.Medium > 0 && f.BadgeThresholds.Medium < f.BadgeThresholds.High) ||
		math.IsInf(f.BadgeThresholds.High, 0) {
		return fmt.Errorf("%w: badge thresholds must satisfy 0 < medium < high, got medium=%v high=%v",
			ErrInvalidFactors, f.BadgeThresholds.Medium, f.BadgeThresholds.High)
	}
	if f.Climatiq.DefaultActivityID == "" {
		return fmt.Errorf("%w: climatiq.default_activity_id is required", ErrInvalidFactors)
	}
	return nil
}

func validFactor(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// prepare builds the ingredient index. Lower tiers are written last so an
// ingredient listed in several tiers resolves to the first one checked.
func (f *Factors) prepare() {
	idx := make(map[string]float64)
	for _, tier := range []IngredientTier{f.IngredientTiers.High, f.IngredientTiers.Medium, f.IngredientTiers.Low} {
		for _, name := range tier.Ingredients {
			idx[name] = tier.Score
		}
	}
	f.ingredientIndex = idx
}

// GetPackagingImpact returns the materials score of a packaging material,
// or DefaultPackagingImpact when the material is not listed.
func (f *Factors) GetPackagingImpact(material string) float64 {
	if v, ok := f.PackagingImpact[material]; ok {
		return v
	}
	return f.DefaultPackagingImpact
}

// GetIngredientScore returns the processing-intensity score of an
// ingredient, or DefaultIngredientScore when it is in no tier.
func (f *Factors) GetIngredientScore(ingredient string) float64 {
	if f.ingredientIndex != nil {
		if v, ok := f.ingredientIndex[ingredient]; ok {
			return v
		}
		return f.DefaultIngredientScore
	}
	// Factors built as literals have no index.
	for _, tier := range []IngredientTier{f.IngredientTiers.Low, f.IngredientTiers.Medium, f.IngredientTiers.High} {
		if slices.Contains(tier.Ingredients, ingredient) {
			return tier.Score
		}
	}
	return f.DefaultIngredientScore
}

// GetTransportFactor returns kg CO2e per km per kg for a transport mode.
func (f *Factors) GetTransportFactor(mode string) float64 {
	if v, ok := f.TransportFactors[mode]; ok {
		return v
	}
	return f.DefaultTransportFactor
}

// GetDistanceKm returns the shipping distance for an origin country code.
func (f *Factors) GetDistanceKm(country string) float64 {
	if v, ok := f.CountryDistanceKm[country]; ok {
		return v
	}
	return f.DefaultDistanceKm
}

// GetBaseTypeFactor returns kg CO2e per kg of product for a formulation base.
func (f *Factors) GetBaseTypeFactor(baseType string) float64 {
	if v, ok := f.BaseTypeFactors[baseType]; ok {
		return v
	}
	return f.DefaultBaseTypeFactor
}

// GetPackagingMultiplier returns the manufacturing adjustment for a packaging material.
func (f *Factors) GetPackagingMultiplier(material string) float64 {
	if v, ok := f.PackagingMultipliers[material]; ok {
		return v
	}
	return f.DefaultPackagingMultiplier
}

// GetActivityID maps a category hint to an external activity identifier.
// Unknown or empty categories map to the default activity.
func (f *Factors) GetActivityID(category string) string {
	if v, ok := f.Climatiq.Categories[category]; ok && v != "" {
		return v
	}
	return f.Climatiq.DefaultActivityID
}

// YAML renders the effective tables in the same layout as the factor file.
func (f *Factors) YAML() ([]byte, error) {
	return yaml.Marshal(f)
}
