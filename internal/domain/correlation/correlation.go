// Package correlation measures how the composite signal relates to a
// volatility proxy that is expected to respond some number of steps
// later, and counts spike events in the signal.
package correlation

import "math"

// SpikeThreshold marks a signal element as a spike event. It sits in
// the same family as the composite elevated/critical boundaries.
const SpikeThreshold = 30.0

// DefaultWindow is the observation window length in time points.
const DefaultWindow = 30

// Summary holds the correlation analysis result. Coefficient is nil
// when undefined: either aligned sub-series has zero variance, or the
// series are too short for the requested lag.
type Summary struct {
	Coefficient *float64 `json:"coefficient"`
	SpikeCount  int      `json:"spike_count"`
	Window      int      `json:"window"`
}

// Analyze aligns signal[0:n-lag] against proxy[lag:n] and computes the
// Pearson correlation coefficient over the aligned pair. The proxy is
// assumed to respond lag steps after the signal. The spike count is
// taken over the full unlagged signal, so it stays computable even
// when the correlation is undefined.
func Analyze(signal, proxy []float64, lag int) Summary {
	s := Summary{
		SpikeCount: countSpikes(signal),
		Window:     len(signal),
	}

	n := len(signal)
	if len(proxy) < n {
		n = len(proxy)
	}
	if lag < 0 || n < lag+2 {
		return s
	}

	s.Coefficient = pearson(signal[:n-lag], proxy[lag:n])
	return s
}

func countSpikes(signal []float64) int {
	count := 0
	for _, v := range signal {
		if v > SpikeThreshold {
			count++
		}
	}
	return count
}

// pearson returns nil when either series has zero variance, which
// would otherwise divide by zero.
func pearson(a, b []float64) *float64 {
	if len(a) != len(b) || len(a) == 0 {
		return nil
	}

	n := float64(len(a))
	meanA, meanB := 0.0, 0.0
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	cov, varA, varB := 0.0, 0.0, 0.0
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return nil
	}

	r := cov / math.Sqrt(varA*varB)

	// Clamp to [-1, 1] against numerical precision drift.
	if r > 1.0 {
		r = 1.0
	} else if r < -1.0 {
		r = -1.0
	}
	return &r
}
