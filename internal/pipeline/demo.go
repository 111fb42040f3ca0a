package pipeline

import (
	"math"
	"math/rand"
	"time"
)

// demoSeed fixes the demo generator so repeated runs over the same day
// produce bit-identical output.
const demoSeed = 42

// demoDays on which the simulated series carries a crisis bump.
var demoCrisisDays = []int{5, 12, 22}

// DemoHistory generates a deterministic 30-day series triple with
// embedded crisis events: the index spikes on crisis days, the
// volatility proxy responds one day later, and gold drifts up with
// fear. Used for the correlation window until enough real snapshots
// have been stored.
func DemoHistory(now time.Time) *History {
	const days = 30
	rng := rand.New(rand.NewSource(demoSeed))

	h := &History{
		Dates: make([]string, days),
		Index: make([]float64, days),
		Vix:   make([]float64, days),
		Gold:  make([]float64, days),
	}
	for i := 0; i < days; i++ {
		h.Dates[i] = now.AddDate(0, 0, i-(days-1)).Format("2006-01-02")
	}

	idx := make([]float64, days)
	for i := range idx {
		idx[i] = rng.NormFloat64() * 15
	}
	for _, d := range demoCrisisDays {
		idx[d] += 30 + rng.Float64()*30
		if d+1 < days {
			idx[d+1] += 10 + rng.Float64()*15
		}
	}

	vix := make([]float64, days)
	for i := range vix {
		vix[i] = 18 + rng.NormFloat64()*2
	}
	// The proxy responds one day after an index spike.
	for i := 1; i < days; i++ {
		if idx[i-1] > 25 {
			vix[i] += (idx[i-1] - 25) * 0.15
		}
	}

	gold := make([]float64, days)
	level := 2650.0
	for i := range gold {
		level += 5 + rng.NormFloat64()*15
		gold[i] = level
	}
	for i := range gold {
		if vix[i] > 20 {
			gold[i] += (vix[i] - 20) * 8
		}
	}

	for i := 0; i < days; i++ {
		h.Index[i] = round1(clamp(idx[i], -50, 100))
		h.Vix[i] = round2(clamp(vix[i], 10, 40))
		h.Gold[i] = round2(gold[i])
	}
	return h
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
