package anomaly

// Tier is the alert classification of the composite score.
type Tier string

const (
	TierCritical Tier = "critical"
	TierElevated Tier = "elevated"
	TierNormal   Tier = "normal"
	TierOffline  Tier = "offline"
)

// Composite tier thresholds. The critical/elevated boundaries mirror
// the per-sensor spike/elevated boundaries.
const (
	criticalTier = 50.0
	elevatedTier = 25.0
)

// Input is one sensor's contribution to the composite: its normalized
// current value, its baseline for the current time bucket, and its
// polarity.
type Input struct {
	Current  *int
	Baseline *int
	Polarity Polarity
}

// Composite is the aggregated anomaly metric. Score is nil when no
// sensor had both a current value and a positive baseline.
type Composite struct {
	Score *float64 `json:"composite_score"`
	Tier  Tier     `json:"alert_tier"`
}

// Aggregate combines the polarity-adjusted percentages of all usable
// sensors into their arithmetic mean. Sensors without a current value
// or a positive baseline do not affect the composite; with no usable
// sensor at all the tier is offline.
func Aggregate(inputs []Input) Composite {
	sum := 0.0
	n := 0
	for _, in := range inputs {
		if in.Current == nil || in.Baseline == nil || *in.Baseline <= 0 {
			continue
		}
		pct := float64(*in.Current-*in.Baseline) / float64(*in.Baseline) * 100.0
		if in.Polarity == PolarityInverse {
			pct = -pct
		}
		sum += pct
		n++
	}

	if n == 0 {
		return Composite{Tier: TierOffline}
	}

	mean := sum / float64(n)
	return Composite{Score: &mean, Tier: classifyTier(mean)}
}

func classifyTier(score float64) Tier {
	switch {
	case score > criticalTier:
		return TierCritical
	case score > elevatedTier:
		return TierElevated
	default:
		return TierNormal
	}
}
