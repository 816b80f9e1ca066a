package carbon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMaterialsEstimator_Estimate verifies packaging plus ingredient scoring.
func TestMaterialsEstimator_Estimate(t *testing.T) {
	e := NewMaterialsEstimator(DefaultFactors())

	tests := []struct {
		name    string
		product Product
		want    float64
	}{
		{
			name:    "recyclable glass with low-tier ingredient",
			product: Product{PackagingMaterial: "glass_container", RecyclablePackaging: true, IngredientMain: "Aloe Vera"},
			want:    0.3,
		},
		{
			name:    "non-recyclable plastic with high-tier ingredient",
			product: Product{PackagingMaterial: "plastic_bottle", RecyclablePackaging: false, IngredientMain: "Niacinamide"},
			want:    0.8,
		},
		{
			name:    "paper with medium-tier ingredient",
			product: Product{PackagingMaterial: "paper_wrap", RecyclablePackaging: true, IngredientMain: "Green Tea"},
			want:    0.3,
		},
		{
			name:    "unknown packaging and ingredient use defaults",
			product: Product{PackagingMaterial: "cardboard", RecyclablePackaging: true, IngredientMain: "Retinol"},
			want:    0.5,
		},
		{
			name:    "empty fields use defaults",
			product: Product{RecyclablePackaging: true},
			want:    0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, e.Estimate(tt.product), 1e-9)
		})
	}
}

// TestMaterialsEstimator_NonRecyclablePenalty verifies the penalty adds exactly 0.2.
func TestMaterialsEstimator_NonRecyclablePenalty(t *testing.T) {
	e := NewMaterialsEstimator(DefaultFactors())

	for _, material := range []string{"plastic_bottle", "plastic_tube", "glass_container", "paper_wrap", "other"} {
		t.Run(material, func(t *testing.T) {
			recyclable := Product{PackagingMaterial: material, RecyclablePackaging: true, IngredientMain: "Lemon"}
			nonRecyclable := recyclable
			nonRecyclable.RecyclablePackaging = false

			assert.InDelta(t, 0.2, e.Estimate(nonRecyclable)-e.Estimate(recyclable), 1e-9)
		})
	}
}

// TestMaterialsEstimator_Detail verifies the factors are described.
func TestMaterialsEstimator_Detail(t *testing.T) {
	e := NewMaterialsEstimator(DefaultFactors())

	assert.Equal(t, "glass_container (0.2) + Aloe Vera (0.1)",
		e.Detail(Product{PackagingMaterial: "glass_container", RecyclablePackaging: true, IngredientMain: "Aloe Vera"}))
	assert.Equal(t, "plastic_tube (0.3) + non-recyclable (0.2) + Vitamin C (0.3)",
		e.Detail(Product{PackagingMaterial: "plastic_tube", IngredientMain: "Vitamin C"}))
}

// TestMaterialsScore verifies the convenience wrapper matches the estimator.
func TestMaterialsScore(t *testing.T) {
	p := Product{PackagingMaterial: "plastic_tube", IngredientMain: "Lavender Oil"}
	assert.InDelta(t, NewMaterialsEstimator(DefaultFactors()).Estimate(p), MaterialsScore(p, DefaultFactors()), 1e-12)
}
