// Package anomaly converts normalized sensor readings into signed
// percentage deviations and aggregates them into a single composite
// score with a four-tier alert classification.
package anomaly

// Polarity describes how a sensor's deviation should be read when
// aggregating. Inverse indicators (e.g. bars emptying out while staff
// work late) move opposite to the phenomenon of interest.
type Polarity string

const (
	PolarityNormal  Polarity = "normal"
	PolarityInverse Polarity = "inverse"
)

// Label classifies a single sensor's deviation.
type Label string

const (
	LabelSpike    Label = "spike"
	LabelElevated Label = "elevated"
	LabelNormal   Label = "normal"
	LabelLow      Label = "low"
	LabelClosed   Label = "closed"
)

// Classification thresholds on the polarity-adjusted percentage.
const (
	spikeThreshold    = 50.0
	elevatedThreshold = 25.0
	lowThreshold      = -25.0
)

// Result is the scored deviation for one sensor. Pct is nil when the
// deviation is undefined (no current reading, or no usable baseline) —
// undefined must stay distinguishable from a true 0% deviation.
type Result struct {
	Sensor string   `json:"sensor"`
	Pct    *float64 `json:"anomaly_pct"`
	Label  Label    `json:"label"`
}

// Score computes the signed percentage deviation of current from
// baseline, negated for inverse-polarity sensors.
//
// A nil current means the venue is closed: label closed, pct undefined.
// A nil or zero baseline means deviation cannot be assessed: pct
// undefined but the label stays normal, since the sensor did report.
func Score(sensor string, current, baseline *int, polarity Polarity) Result {
	if current == nil {
		return Result{Sensor: sensor, Label: LabelClosed}
	}
	if baseline == nil || *baseline == 0 {
		return Result{Sensor: sensor, Label: LabelNormal}
	}

	pct := float64(*current-*baseline) / float64(*baseline) * 100.0
	if polarity == PolarityInverse {
		pct = -pct
	}

	return Result{Sensor: sensor, Pct: &pct, Label: classify(pct)}
}

func classify(pct float64) Label {
	switch {
	case pct > spikeThreshold:
		return LabelSpike
	case pct > elevatedThreshold:
		return LabelElevated
	case pct < lowThreshold:
		return LabelLow
	default:
		return LabelNormal
	}
}
