package readiness

// FactorKey identifies one scored readiness dimension.
type FactorKey string

const (
	FactorStableProcess     FactorKey = "stableProcess"
	FactorLowExceptions     FactorKey = "lowExceptions"
	FactorDataQuality       FactorKey = "dataQuality"
	FactorSystemAccess      FactorKey = "systemAccess"
	FactorLowComplianceRisk FactorKey = "lowComplianceRisk"
	FactorVolumePotential   FactorKey = "volumePotential"
)

// factor bundles everything the evaluator knows about one dimension: how to
// derive its subscore from raw inputs, its weight in the aggregate, the
// highest subscore it can reach, and the fixed blocker text surfaced when it
// falls short.
type factor struct {
	key    FactorKey
	label  string
	weight float64
	max    float64
	reason string
	hint   string
	derive func(Inputs) float64
}

// factors is the full factor table in declaration order. Blocker ties on gap
// are broken by this order. Weights sum to exactly 1.0.
var factors = []factor{
	{
		key:    FactorStableProcess,
		label:  "Process Stability",
		weight: 0.20,
		max:    100,
		reason: "High Process Variance",
		hint:   "Standardize the process steps and document every exception path before automating.",
		derive: func(in Inputs) float64 { return 100 - float64(in.Variance) },
	},
	{
		key:    FactorLowExceptions,
		label:  "Exception Rate",
		weight: 0.20,
		max:    100,
		reason: "Frequent Exceptions",
		hint:   "Reduce the exception rate by fixing upstream data issues and adding explicit handling rules.",
		derive: func(in Inputs) float64 { return 100 - float64(in.ExceptionRate) },
	},
	{
		key:    FactorDataQuality,
		label:  "Data Quality",
		weight: 0.20,
		max:    100,
		reason: "Poor Data Quality",
		hint:   "Cleanse and normalize source data, and validate it at the point of entry.",
		derive: func(in Inputs) float64 { return float64(in.DataQuality) },
	},
	{
		key:    FactorSystemAccess,
		label:  "System Access",
		weight: 0.15,
		max:    100,
		reason: "Limited System Access",
		hint:   "Secure API access or stable interfaces for every system the process touches.",
		derive: func(in Inputs) float64 { return float64(in.SystemAccess) },
	},
	{
		key:    FactorLowComplianceRisk,
		label:  "Compliance Risk",
		weight: 0.15,
		max:    100,
		reason: "High Compliance Sensitivity",
		hint:   "Involve compliance early and design audit trails into the automated workflow.",
		derive: func(in Inputs) float64 { return 100 - float64(in.ComplianceSensitivity) },
	},
	{
		key:    FactorVolumePotential,
		label:  "Volume Potential",
		weight: 0.10,
		max:    volumeMax,
		reason: "Low Transaction Volume",
		hint:   "Batch similar tasks or widen the process scope to improve the automation payback.",
		derive: func(in Inputs) float64 { return volumeSubscore(in.ProcessVolume) },
	},
}

// FactorLabel returns the display label for a factor key, or the key itself
// when unknown.
func FactorLabel(key FactorKey) string {
	for _, f := range factors {
		if f.key == key {
			return f.label
		}
	}
	return string(key)
}
