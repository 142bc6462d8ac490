package readiness

import (
	"math"
	"sort"
)

const (
	// volumeLogScale maps each order of magnitude of transaction volume onto
	// a roughly constant subscore contribution.
	volumeLogScale = 31.5

	// volumeMax caps the volume subscore below the other maxima: volume alone
	// never fully justifies automation.
	volumeMax = 95

	// blockerGapThreshold is the strict lower bound a gap must exceed before
	// the factor is reported as a blocker.
	blockerGapThreshold = 15

	// maxBlockers bounds how many blockers a result carries.
	maxBlockers = 4
)

// Band classifies the aggregate score.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandRed    Band = "red"
)

// narratives holds the fixed per-band summary text. The text is selected by
// band only, never parameterized by inputs.
var narratives = map[Band]string{
	BandGreen:  "Strong automation candidate. The process is stable, well supported by its systems, and the expected payback justifies starting an automation build now.",
	BandYellow: "Promising but not ready. Address the top blockers before committing build effort; a targeted fix usually moves this process into the green band.",
	BandRed:    "Not an automation candidate yet. The fundamentals need work first; automating now would harden today's problems into software.",
}

// Inputs holds the six raw process metrics. Callers are expected to have
// parsed, clamped, and rounded them already (see the validation package);
// the evaluator clamps nothing itself except inside the volume transform.
type Inputs struct {
	ProcessVolume         int `json:"process_volume"`
	Variance              int `json:"variance"`
	ExceptionRate         int `json:"exception_rate"`
	DataQuality           int `json:"data_quality"`
	SystemAccess          int `json:"system_access"`
	ComplianceSensitivity int `json:"compliance_sensitivity"`
}

// Subscores holds the per-factor normalized favorability values. Higher is
// always more automation-ready; every maximum is 100 except VolumePotential,
// which is capped at 95.
type Subscores struct {
	StableProcess     float64 `json:"stable_process"`
	LowExceptions     float64 `json:"low_exceptions"`
	DataQuality       float64 `json:"data_quality"`
	SystemAccess      float64 `json:"system_access"`
	LowComplianceRisk float64 `json:"low_compliance_risk"`
	VolumePotential   float64 `json:"volume_potential"`
}

// Blocker is one factor whose gap from its attainable maximum exceeds the
// reporting threshold, surfaced with its fixed reason and remediation hint.
type Blocker struct {
	Factor   FactorKey `json:"factor"`
	Reason   string    `json:"reason"`
	Hint     string    `json:"hint"`
	Gap      float64   `json:"gap"`
	Subscore float64   `json:"subscore"`
}

// Result is the full output of one evaluation. It is created fresh on every
// call and has no lifecycle beyond it.
type Result struct {
	Score     int       `json:"score"`
	Band      Band      `json:"band"`
	Narrative string    `json:"narrative"`
	Subscores Subscores `json:"subscores"`
	Blockers  []Blocker `json:"blockers"`
}

// Evaluate computes the readiness score, band, and ranked blocker list for
// one set of inputs. It is pure and deterministic: no I/O, no shared state,
// safe to call concurrently.
func Evaluate(in Inputs) Result {
	subs := make(map[FactorKey]float64, len(factors))
	total := 0.0
	for _, f := range factors {
		s := f.derive(in)
		subs[f.key] = s
		total += s * f.weight
	}

	// math.Round rounds half away from zero, which pins the .5 cases.
	score := int(math.Round(total))
	band := bandFor(score)

	return Result{
		Score:     score,
		Band:      band,
		Narrative: narratives[band],
		Subscores: Subscores{
			StableProcess:     subs[FactorStableProcess],
			LowExceptions:     subs[FactorLowExceptions],
			DataQuality:       subs[FactorDataQuality],
			SystemAccess:      subs[FactorSystemAccess],
			LowComplianceRisk: subs[FactorLowComplianceRisk],
			VolumePotential:   subs[FactorVolumePotential],
		},
		Blockers: rankBlockers(subs),
	}
}

// bandFor maps a score onto its band via the fixed thresholds.
func bandFor(score int) Band {
	switch {
	case score >= 75:
		return BandGreen
	case score >= 50:
		return BandYellow
	default:
		return BandRed
	}
}

// rankBlockers retains factors whose gap strictly exceeds the threshold,
// sorts them by gap descending, and truncates to maxBlockers. The stable sort
// over the declaration-ordered factor table makes equal-gap ordering
// deterministic.
func rankBlockers(subs map[FactorKey]float64) []Blocker {
	blockers := make([]Blocker, 0, len(factors))
	for _, f := range factors {
		gap := f.max - subs[f.key]
		if gap <= blockerGapThreshold {
			continue
		}
		blockers = append(blockers, Blocker{
			Factor:   f.key,
			Reason:   f.reason,
			Hint:     f.hint,
			Gap:      gap,
			Subscore: subs[f.key],
		})
	}

	sort.SliceStable(blockers, func(i, j int) bool {
		return blockers[i].Gap > blockers[j].Gap
	})

	if len(blockers) > maxBlockers {
		blockers = blockers[:maxBlockers]
	}
	return blockers
}

// volumeSubscore applies the diminishing-returns transform to raw volume:
// each order-of-magnitude increase contributes a roughly constant amount,
// capped at volumeMax.
func volumeSubscore(volume int) float64 {
	if volume <= 0 {
		return 0
	}
	return clip(math.Log10(float64(volume)+1)*volumeLogScale, 0, volumeMax)
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
