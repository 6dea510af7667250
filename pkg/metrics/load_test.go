package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestComputeIntensityAndStress(t *testing.T) {
	tests := []struct {
		name       string
		in         StressInput
		wantIF     float64
		wantStress float64
	}{
		{
			name:       "power based one hour at 80 percent",
			in:         StressInput{MovingSeconds: 3600, AvgPower: ptr(200), ThresholdPower: ptr(250)},
			wantIF:     0.8,
			wantStress: 64.0,
		},
		{
			name:       "zero moving time ignores everything else",
			in:         StressInput{MovingSeconds: 0, AvgPower: ptr(300), ThresholdPower: ptr(250), Zones: &ZoneSeconds{Z5: 600}},
			wantIF:     0,
			wantStress: 0,
		},
		{
			name:       "negative moving time treated as zero",
			in:         StressInput{MovingSeconds: -50, AvgPower: ptr(300), ThresholdPower: ptr(250)},
			wantIF:     0,
			wantStress: 0,
		},
		{
			name:       "power clamped to two",
			in:         StressInput{MovingSeconds: 1800, AvgPower: ptr(900), ThresholdPower: ptr(250)},
			wantIF:     2,
			wantStress: 200,
		},
		{
			name:       "zone heuristic all in zone two",
			in:         StressInput{MovingSeconds: 3600, Zones: &ZoneSeconds{Z2: 3600}},
			wantIF:     0.7,
			wantStress: 49,
		},
		{
			name:       "zone heuristic mixed",
			in:         StressInput{MovingSeconds: 3600, Zones: &ZoneSeconds{Z1: 1800, Z5: 1800}},
			wantIF:     0.8,
			wantStress: 64,
		},
		{
			name:       "non positive threshold falls through to zones",
			in:         StressInput{MovingSeconds: 3600, AvgPower: ptr(200), ThresholdPower: ptr(0), Zones: &ZoneSeconds{Z3: 100}},
			wantIF:     0.8,
			wantStress: 64,
		},
		{
			name:       "negative zone seconds still count toward the total",
			in:         StressInput{MovingSeconds: 3600, Zones: &ZoneSeconds{Z2: 3600, Z4: -1800}},
			wantIF:     0.5,
			wantStress: 25,
		},
		{
			name:       "zones cancelling to zero yield zero",
			in:         StressInput{MovingSeconds: 3600, Zones: &ZoneSeconds{Z1: 1800, Z2: -1800}},
			wantIF:     0,
			wantStress: 0,
		},
		{
			name:       "empty zones yield zero",
			in:         StressInput{MovingSeconds: 3600, Zones: &ZoneSeconds{}},
			wantIF:     0,
			wantStress: 0,
		},
		{
			name:       "no data yields zero",
			in:         StressInput{MovingSeconds: 5400},
			wantIF:     0,
			wantStress: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeIntensityAndStress(tt.in)
			assert.InDelta(t, tt.wantIF, got.IntensityFactor, 1e-9)
			assert.InDelta(t, tt.wantStress, got.Stress, 1e-9)
		})
	}
}

func TestComputeIntensityAndStress_PowerAlwaysWithinRange(t *testing.T) {
	for power := 0.0; power <= 2000; power += 37 {
		for _, ftp := range []float64{50, 180, 250, 400} {
			got := ComputeIntensityAndStress(StressInput{MovingSeconds: 3600, AvgPower: ptr(power), ThresholdPower: ptr(ftp)})
			assert.GreaterOrEqual(t, got.IntensityFactor, 0.0)
			assert.LessOrEqual(t, got.IntensityFactor, 2.0)
		}
	}
}

func TestUpdateRollingLoad_SingleStep(t *testing.T) {
	got := UpdateRollingLoad(RollingLoadState{}, 84)
	assert.Equal(t, 2.0, got.Chronic)
	assert.Equal(t, 12.0, got.Acute)
	assert.Equal(t, -10.0, got.TSB)
}

func TestUpdateRollingLoad_ConvergesWithoutOvershoot(t *testing.T) {
	const daily = 100.0
	state := RollingLoadState{}
	for day := 0; day < 400; day++ {
		next := UpdateRollingLoad(state, daily)
		assert.GreaterOrEqual(t, next.Chronic, state.Chronic, "chronic must not decrease")
		assert.GreaterOrEqual(t, next.Acute, state.Acute, "acute must not decrease")
		assert.LessOrEqual(t, next.Chronic, daily)
		assert.LessOrEqual(t, next.Acute, daily)
		state = next
	}
	assert.InDelta(t, daily, state.Chronic, 2.5)
	assert.InDelta(t, daily, state.Acute, 0.5)
}

func TestFoldRollingLoad_MatchesStepwise(t *testing.T) {
	seq := []float64{0, 50, 0, 0, 120, 30, 0, 75}
	want := RollingLoadState{}
	for _, s := range seq {
		want = UpdateRollingLoad(want, s)
	}
	assert.Equal(t, want, FoldRollingLoad(seq))
	assert.Equal(t, RollingLoadState{}, FoldRollingLoad(nil))
}

func TestMonotonyAndStrain(t *testing.T) {
	assert.Equal(t, 0.0, Monotony(nil))
	assert.Equal(t, 0.0, Monotony([]float64{50, 50, 50}), "flat load has no deviation")

	week := []float64{100, 0, 100, 0, 100, 0, 100}
	m := Monotony(week)
	assert.Greater(t, m, 0.0)
	assert.InDelta(t, 400*m, Strain(week), 0.1)
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.25, 2.3},
		{-2.25, -2.2},
		{-2.26, -2.3},
		{0.04, 0},
		{10, 10},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round1(tt.in), 1e-9, "Round1(%v)", tt.in)
	}
}
