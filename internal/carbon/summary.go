package carbon

import "math"

// Summary aggregates the totals of a set of results.
type Summary struct {
	// Count is the number of successful results.
	Count int `json:"count"`

	// Failed is the number of results that carry an error.
	Failed int `json:"failed"`

	// MeanKg, MinKg and MaxKg describe TotalKg over successful results.
	MeanKg float64 `json:"mean_kg"`
	MinKg  float64 `json:"min_kg"`
	MaxKg  float64 `json:"max_kg"`

	// ExternalCount is the number of results whose manufacturing figure
	// came from the external estimator.
	ExternalCount int `json:"external_count"`

	// Badges counts results per badge.
	Badges map[Badge]int `json:"badges"`
}

// Summarize computes summary statistics over results. Results with Err set
// are counted as failed and excluded from the statistics.
func Summarize(results []ImpactResult) Summary {
	s := Summary{Badges: make(map[Badge]int, len(Badges))}
	sum := 0.0
	s.MinKg = math.Inf(1)
	s.MaxKg = math.Inf(-1)

	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Count++
		sum += r.TotalKg
		s.MinKg = math.Min(s.MinKg, r.TotalKg)
		s.MaxKg = math.Max(s.MaxKg, r.TotalKg)
		s.Badges[r.Badge]++
		if r.ManufacturingSource == SourceExternal {
			s.ExternalCount++
		}
	}

	if s.Count == 0 {
		s.MinKg, s.MaxKg = 0, 0
		return s
	}
	s.MeanKg = sum / float64(s.Count)
	return s
}
