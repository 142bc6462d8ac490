package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bestInputs() Inputs {
	return Inputs{
		ProcessVolume:         10000,
		Variance:              0,
		ExceptionRate:         0,
		DataQuality:           100,
		SystemAccess:          100,
		ComplianceSensitivity: 0,
	}
}

func worstInputs() Inputs {
	return Inputs{
		ProcessVolume:         0,
		Variance:              100,
		ExceptionRate:         100,
		DataQuality:           0,
		SystemAccess:          0,
		ComplianceSensitivity: 100,
	}
}

func TestEvaluateBestCase(t *testing.T) {
	res := Evaluate(bestInputs())

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, BandGreen, res.Band)
	assert.Empty(t, res.Blockers)
	assert.Equal(t, narratives[BandGreen], res.Narrative)
}

func TestEvaluateWorstCase(t *testing.T) {
	res := Evaluate(worstInputs())

	assert.Equal(t, 0, res.Score)
	assert.Equal(t, BandRed, res.Band)
	require.NotEmpty(t, res.Blockers)
	assert.LessOrEqual(t, len(res.Blockers), 4)

	// sorted by descending gap
	for i := 1; i < len(res.Blockers); i++ {
		assert.GreaterOrEqual(t, res.Blockers[i-1].Gap, res.Blockers[i].Gap)
	}

	// five factors tie at gap 100; declaration order breaks the tie and the
	// list is truncated to four.
	assert.Equal(t, FactorStableProcess, res.Blockers[0].Factor)
	assert.Equal(t, FactorLowExceptions, res.Blockers[1].Factor)
	assert.Equal(t, FactorDataQuality, res.Blockers[2].Factor)
	assert.Equal(t, FactorSystemAccess, res.Blockers[3].Factor)
}

func TestVolumeSubscore(t *testing.T) {
	tests := []struct {
		name     string
		volume   int
		expected float64
		delta    float64
	}{
		{name: "zero volume scores zero", volume: 0, expected: 0, delta: 0},
		{name: "negative volume scores zero", volume: -5, expected: 0, delta: 0},
		{name: "volume 100", volume: 100, expected: 63, delta: 1},
		{name: "volume 1000", volume: 1000, expected: 94.5, delta: 1},
		{name: "volume 10000 saturates the cap", volume: 10000, expected: 95, delta: 0},
		{name: "cap holds for larger volumes", volume: 1000000, expected: 95, delta: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := volumeSubscore(tt.volume)
			if tt.delta == 0 {
				assert.Equal(t, tt.expected, result)
			} else {
				assert.InDelta(t, tt.expected, result, tt.delta)
			}
		})
	}
}

func TestVolumeSubscoreMonotonic(t *testing.T) {
	prev := volumeSubscore(0)
	for _, v := range []int{1, 10, 100, 1000, 10000, 100000, 10000000} {
		cur := volumeSubscore(v)
		assert.GreaterOrEqual(t, cur, prev, "volume %d", v)
		assert.LessOrEqual(t, cur, 95.0, "volume %d", v)
		prev = cur
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	in := Inputs{
		ProcessVolume:         1000,
		Variance:              90,
		ExceptionRate:         10,
		DataQuality:           70,
		SystemAccess:          60,
		ComplianceSensitivity: 30,
	}

	first := Evaluate(in)
	second := Evaluate(in)
	assert.Equal(t, first, second)
}

func TestBandThresholds(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		expected Band
	}{
		{name: "exactly 75 is green", score: 75, expected: BandGreen},
		{name: "exactly 74 is yellow", score: 74, expected: BandYellow},
		{name: "exactly 50 is yellow", score: 50, expected: BandYellow},
		{name: "exactly 49 is red", score: 49, expected: BandRed},
		{name: "100 is green", score: 100, expected: BandGreen},
		{name: "0 is red", score: 0, expected: BandRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, bandFor(tt.score))
		})
	}
}

func TestBlockerThresholdIsStrict(t *testing.T) {
	// dataQuality 85 leaves a gap of exactly 15, which must not be reported.
	in := bestInputs()
	in.DataQuality = 85
	res := Evaluate(in)
	assert.Empty(t, res.Blockers)

	// one point lower crosses the threshold
	in.DataQuality = 84
	res = Evaluate(in)
	require.Len(t, res.Blockers, 1)
	assert.Equal(t, FactorDataQuality, res.Blockers[0].Factor)
	assert.Equal(t, 16.0, res.Blockers[0].Gap)
}

func TestBlockerThresholdFractionalGap(t *testing.T) {
	// The volume transform produces fractional subscores around the
	// threshold: volume 346 lands just above subscore 80 (gap < 15, kept
	// out), volume 345 just below it (gap > 15, reported).
	in := bestInputs()

	in.ProcessVolume = 346
	res := Evaluate(in)
	assert.Empty(t, res.Blockers)

	in.ProcessVolume = 345
	res = Evaluate(in)
	require.Len(t, res.Blockers, 1)
	assert.Equal(t, FactorVolumePotential, res.Blockers[0].Factor)
	assert.Greater(t, res.Blockers[0].Gap, 15.0)
}

func TestEvaluateEndToEnd(t *testing.T) {
	in := Inputs{
		ProcessVolume:         1000,
		Variance:              90,
		ExceptionRate:         10,
		DataQuality:           70,
		SystemAccess:          60,
		ComplianceSensitivity: 30,
	}

	res := Evaluate(in)

	assert.Equal(t, 10.0, res.Subscores.StableProcess)
	assert.Equal(t, 90.0, res.Subscores.LowExceptions)
	assert.Equal(t, 70.0, res.Subscores.DataQuality)
	assert.Equal(t, 60.0, res.Subscores.SystemAccess)
	assert.Equal(t, 70.0, res.Subscores.LowComplianceRisk)
	assert.InDelta(t, 94.5, res.Subscores.VolumePotential, 0.1)

	assert.Equal(t, 63, res.Score)
	assert.Equal(t, BandYellow, res.Band)

	require.NotEmpty(t, res.Blockers)
	assert.Equal(t, FactorStableProcess, res.Blockers[0].Factor)
	assert.Equal(t, "High Process Variance", res.Blockers[0].Reason)

	// dataQuality and lowComplianceRisk tie at gap 30; declaration order
	// puts dataQuality first.
	require.Len(t, res.Blockers, 4)
	assert.Equal(t, FactorSystemAccess, res.Blockers[1].Factor)
	assert.Equal(t, FactorDataQuality, res.Blockers[2].Factor)
	assert.Equal(t, FactorLowComplianceRisk, res.Blockers[3].Factor)
}

func TestEvaluateHealthyProcessHasNoBlockers(t *testing.T) {
	in := Inputs{
		ProcessVolume:         5000,
		Variance:              5,
		ExceptionRate:         5,
		DataQuality:           90,
		SystemAccess:          88,
		ComplianceSensitivity: 8,
	}

	res := Evaluate(in)
	assert.Empty(t, res.Blockers)
}

func TestWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, f := range factors {
		sum += f.weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestFactorMaxima(t *testing.T) {
	for _, f := range factors {
		if f.key == FactorVolumePotential {
			assert.Equal(t, 95.0, f.max)
			continue
		}
		assert.Equal(t, 100.0, f.max, "factor %s", f.key)
	}
}

func TestFactorLabel(t *testing.T) {
	assert.Equal(t, "Process Stability", FactorLabel(FactorStableProcess))
	assert.Equal(t, "unknown", FactorLabel(FactorKey("unknown")))
}
