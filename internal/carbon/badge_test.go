package carbon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClassifyBadge verifies band boundaries are closed below and open above.
func TestClassifyBadge(t *testing.T) {
	tests := []struct {
		total float64
		want  Badge
	}{
		{0, BadgeLow},
		{0.395, BadgeLow},
		{0.4999, BadgeLow},
		{0.5, BadgeMedium},
		{1.0, BadgeMedium},
		{1.4999, BadgeMedium},
		{1.5, BadgeHigh},
		{12, BadgeHigh},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyBadge(tt.total), "total %v", tt.total)
		})
	}
}

// TestBadgeThresholds_ClassifyBadge verifies custom thresholds.
func TestBadgeThresholds_ClassifyBadge(t *testing.T) {
	th := BadgeThresholds{Medium: 0.2, High: 0.4}

	assert.Equal(t, BadgeLow, th.ClassifyBadge(0.19))
	assert.Equal(t, BadgeMedium, th.ClassifyBadge(0.2))
	assert.Equal(t, BadgeHigh, th.ClassifyBadge(0.4))
}

// TestBadge_Display verifies storefront labels.
func TestBadge_Display(t *testing.T) {
	assert.Equal(t, "🌱 low impact", BadgeLow.Display())
	assert.Equal(t, "🌿 medium impact", BadgeMedium.Display())
	assert.Equal(t, "🌳 high impact", BadgeHigh.Display())
	assert.Equal(t, "custom", Badge("custom").Display())
	assert.Empty(t, Badge("").Emoji())
}
