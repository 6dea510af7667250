// Package metrics holds the pure training-load math: intensity factor and
// stress per workout, the chronic/acute exponentially weighted load model and
// the acute:chronic readiness score.
package metrics

import "math"

const (
	// ChronicDays is the time constant of the chronic (fitness) accumulator.
	ChronicDays = 42.0
	// AcuteDays is the time constant of the acute (fatigue) accumulator.
	AcuteDays = 7.0

	maxIntensityFactor = 2.0
)

// zoneWeights are the per-zone intensity proxies used when no power data exists.
var zoneWeights = [5]float64{0.55, 0.70, 0.80, 0.90, 1.05}

// ZoneSeconds is time spent in each of five ascending pace/heart-rate zones.
type ZoneSeconds struct {
	Z1 float64 `json:"z1"`
	Z2 float64 `json:"z2"`
	Z3 float64 `json:"z3"`
	Z4 float64 `json:"z4"`
	Z5 float64 `json:"z5"`
}

func (z ZoneSeconds) values() [5]float64 {
	return [5]float64{z.Z1, z.Z2, z.Z3, z.Z4, z.Z5}
}

// StressInput are the raw workout fields the stress model reads.
type StressInput struct {
	MovingSeconds  float64
	AvgPower       *float64
	ThresholdPower *float64
	Zones          *ZoneSeconds
}

// Computed is written back into an activity's metadata.computed.
type Computed struct {
	IntensityFactor float64 `json:"intensityFactor"`
	Stress          float64 `json:"stress"`
}

// ComputeIntensityAndStress derives the intensity factor and stress score of a
// single workout. Power is preferred; zone time is a heuristic fallback.
func ComputeIntensityAndStress(in StressInput) Computed {
	movingHours := math.Max(0, in.MovingSeconds) / 3600
	if movingHours == 0 || math.IsNaN(movingHours) {
		return Computed{}
	}

	intensity := 0.0
	switch {
	case in.AvgPower != nil && *in.AvgPower > 0 && in.ThresholdPower != nil && *in.ThresholdPower > 0:
		intensity = clamp(*in.AvgPower / *in.ThresholdPower, 0, maxIntensityFactor)
	case in.Zones != nil:
		var total, weighted float64
		// Every zone counts toward the total, negative ones included.
		for i, secs := range in.Zones.values() {
			total += secs
			weighted += secs * zoneWeights[i]
		}
		if total > 0 {
			intensity = weighted / total
		}
	}

	if math.IsNaN(intensity) || math.IsInf(intensity, 0) || intensity <= 0 {
		intensity = 0
	}

	stress := intensity * intensity * movingHours * 100
	return Computed{
		IntensityFactor: round2(intensity),
		Stress:          Round1(stress),
	}
}

// RollingLoadState is the chronic/acute pair (CTL/ATL) and their balance.
type RollingLoadState struct {
	Chronic float64 `json:"chronic"`
	Acute   float64 `json:"acute"`
	TSB     float64 `json:"tsb"`
}

// UpdateRollingLoad advances the load model by exactly one calendar day.
// Days without training must still be applied with zero stress.
func UpdateRollingLoad(prev RollingLoadState, todayStress float64) RollingLoadState {
	chronic := Round1(prev.Chronic + (todayStress-prev.Chronic)/ChronicDays)
	acute := Round1(prev.Acute + (todayStress-prev.Acute)/AcuteDays)
	return RollingLoadState{
		Chronic: chronic,
		Acute:   acute,
		TSB:     Round1(chronic - acute),
	}
}

// FoldRollingLoad walks an ordered, gap-free daily stress sequence from a zero
// seed. It is a sequential fold and must see every day in order.
func FoldRollingLoad(daily []float64) RollingLoadState {
	var state RollingLoadState
	for _, stress := range daily {
		state = UpdateRollingLoad(state, stress)
	}
	return state
}

// Monotony is Foster's training monotony: mean daily load over its standard
// deviation. A flat sequence reports zero rather than infinity.
func Monotony(daily []float64) float64 {
	if len(daily) == 0 {
		return 0
	}
	var sum float64
	for _, v := range daily {
		sum += v
	}
	mean := sum / float64(len(daily))

	var variance float64
	for _, v := range daily {
		variance += (v - mean) * (v - mean)
	}
	sd := math.Sqrt(variance / float64(len(daily)))
	if sd == 0 {
		return 0
	}
	return round2(mean / sd)
}

// Strain is weekly load multiplied by monotony.
func Strain(daily []float64) float64 {
	var sum float64
	for _, v := range daily {
		sum += v
	}
	return Round1(sum * Monotony(daily))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round1 rounds to one decimal, half up (toward +Inf), so -2.25 becomes
// -2.2. Stored history was written with this rule.
func Round1(n float64) float64 { return math.Floor(n*10+0.5) / 10 }

func round2(n float64) float64 { return math.Floor(n*100+0.5) / 100 }
