// Package normalize turns raw venue popularity readings into a usable
// "current" value. Venues report nothing when closed; the most recent
// known non-zero activity level is a better decision input than treating
// closure as zero, which would drag the composite score down every night.
package normalize

// Provenance describes how a current value was obtained.
type Provenance string

const (
	// ProvenanceLive means the provider reported a live reading.
	ProvenanceLive Provenance = "live"
	// ProvenanceImputed means the value was backfilled from history.
	ProvenanceImputed Provenance = "imputed"
	// ProvenanceUnavailable means no usable value could be found.
	ProvenanceUnavailable Provenance = "unavailable"
)

// eveningStart bounds the previous-day fallback window (hours 23..18).
const eveningStart = 18

// Result is the outcome of normalizing one sensor reading.
type Result struct {
	Value       *int       `json:"value"`
	Provenance  Provenance `json:"provenance"`
	ImputedHour *int       `json:"imputed_hour"`
}

// Normalize produces a best-effort current value for a sensor.
//
// If current is present it is returned unchanged. Otherwise the hourly
// series is scanned backward from currentHour down to 0 for the first
// strictly-positive entry; failing that, the previous day's evening
// window (hours 23 down to 18) is scanned. An all-zero history yields
// an unavailable result — 0 carries no discriminative signal and is
// never returned as an imputed fallback.
func Normalize(current *int, hourly []int, currentHour int, prevEvening []int) Result {
	if current != nil {
		return Result{Value: current, Provenance: ProvenanceLive}
	}

	// A currentHour past the end of the series means "search from the
	// last available index".
	start := currentHour
	if start > len(hourly)-1 {
		start = len(hourly) - 1
	}
	for h := start; h >= 0; h-- {
		if hourly[h] > 0 {
			v, hr := hourly[h], h
			return Result{Value: &v, Provenance: ProvenanceImputed, ImputedHour: &hr}
		}
	}

	for h := 23; h >= eveningStart; h-- {
		if h < len(prevEvening) && prevEvening[h] > 0 {
			v, hr := prevEvening[h], h
			return Result{Value: &v, Provenance: ProvenanceImputed, ImputedHour: &hr}
		}
	}

	return Result{Provenance: ProvenanceUnavailable}
}
