package metrics

import "math"

// Readiness flags.
const (
	FlagOverload  = "overload"
	FlagUnderload = "underload"
	FlagBalanced  = "balanced"
)

// Ratio basis, naming which branch of the fallback chain produced the ratio.
const (
	BasisStress   = "stress"
	BasisDuration = "duration"
	BasisNeutral  = "neutral"
)

const (
	overloadRatio  = 1.5
	underloadRatio = 0.6
)

// LoadAggregates are the windowed sums supplied by the persistence layer.
// The chronic terms are 28-day sums divided by four (a weekly rate).
type LoadAggregates struct {
	Acute7dStress            float64 `json:"acute7dStress"`
	Chronic28dStressPerWeek  float64 `json:"chronic28dStressPerWeek"`
	Acute7dSeconds           float64 `json:"acute7dSeconds"`
	Chronic28dSecondsPerWeek float64 `json:"chronic28dSecondsPerWeek"`
}

// Readiness is the acute:chronic evaluation of an athlete.
type Readiness struct {
	Score int     `json:"score"`
	Ratio float64 `json:"ratio"`
	Flag  string  `json:"flag"`
	Basis string  `json:"basis"`
}

// ComputeReadiness prefers stress, falls back to duration and finally to a
// neutral ratio of 1. The fallback order is fixed even though units differ.
func ComputeReadiness(agg LoadAggregates) Readiness {
	ratio, basis := 1.0, BasisNeutral
	switch {
	case agg.Chronic28dStressPerWeek > 0:
		ratio, basis = agg.Acute7dStress/agg.Chronic28dStressPerWeek, BasisStress
	case agg.Chronic28dSecondsPerWeek > 0:
		ratio, basis = agg.Acute7dSeconds/agg.Chronic28dSecondsPerWeek, BasisDuration
	}
	ratio = round2(ratio)

	flag := FlagBalanced
	if ratio > overloadRatio {
		flag = FlagOverload
	} else if ratio < underloadRatio {
		flag = FlagUnderload
	}

	score := int(math.Floor(clamp(100-math.Abs(ratio-1)*60, 0, 100) + 0.5))

	return Readiness{Score: score, Ratio: ratio, Flag: flag, Basis: basis}
}
