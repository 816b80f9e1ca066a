package carbon

// Badge is the eco badge tier of a product, derived from its total footprint.
type Badge string

const (
	// BadgeLow is assigned when total < medium threshold.
	BadgeLow Badge = "low impact"

	// BadgeMedium is assigned when medium threshold <= total < high threshold.
	BadgeMedium Badge = "medium impact"

	// BadgeHigh is assigned when total >= high threshold.
	BadgeHigh Badge = "high impact"
)

// Badges lists the tiers from lowest to highest impact.
var Badges = []Badge{BadgeLow, BadgeMedium, BadgeHigh}

// String returns the badge label.
func (b Badge) String() string { return string(b) }

// Emoji returns the storefront icon of the badge.
func (b Badge) Emoji() string {
	switch b {
	case BadgeLow:
		return "🌱"
	case BadgeMedium:
		return "🌿"
	case BadgeHigh:
		return "🌳"
	default:
		return ""
	}
}

// Display returns the badge as shown in the storefront, e.g. "🌱 low impact".
func (b Badge) Display() string {
	if e := b.Emoji(); e != "" {
		return e + " " + string(b)
	}
	return string(b)
}

// ClassifyBadge maps a total footprint to a badge using the thresholds.
// Each band is closed on its lower bound and open on its upper bound.
func (t BadgeThresholds) ClassifyBadge(total float64) Badge {
	switch {
	case total < t.Medium:
		return BadgeLow
	case total < t.High:
		return BadgeMedium
	default:
		return BadgeHigh
	}
}

// ClassifyBadge maps a total footprint to a badge using the default
// thresholds (0.5 and 1.5 kg CO2e).
func ClassifyBadge(total float64) Badge {
	return BadgeThresholds{Medium: DefaultMediumThreshold, High: DefaultHighThreshold}.ClassifyBadge(total)
}
