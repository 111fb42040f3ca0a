package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeZeroVarianceUndefined(t *testing.T) {
	flat := []float64{5, 5, 5, 5, 5, 5}
	moving := []float64{1, 2, 3, 4, 5, 6}

	assert.Nil(t, Analyze(flat, flat, 1).Coefficient)
	assert.Nil(t, Analyze(flat, moving, 1).Coefficient, "constant signal side")
	assert.Nil(t, Analyze(moving, flat, 1).Coefficient, "constant proxy side")
}

func TestAnalyzePerfectAntiCorrelation(t *testing.T) {
	// Alternating signal; with lag 1 the proxy mirrors it inverted.
	n := 30
	signal := make([]float64, n)
	proxy := make([]float64, n)
	for i := range signal {
		if i%2 == 1 {
			signal[i] = 10
		}
		// proxy[i] tracks -signal[i-1]
		if i > 0 {
			proxy[i] = -signal[i-1]
		}
	}

	s := Analyze(signal, proxy, 1)
	require.NotNil(t, s.Coefficient)
	assert.InDelta(t, -1.0, *s.Coefficient, 1e-6)
}

func TestAnalyzePerfectCorrelation(t *testing.T) {
	signal := []float64{1, 4, 2, 8, 5, 7, 3, 9}
	proxy := make([]float64, len(signal))
	for i := 1; i < len(signal); i++ {
		proxy[i] = 2*signal[i-1] + 3
	}

	s := Analyze(signal, proxy, 1)
	require.NotNil(t, s.Coefficient)
	assert.InDelta(t, 1.0, *s.Coefficient, 1e-6)
}

func TestAnalyzeShortSeries(t *testing.T) {
	s := Analyze([]float64{40, 10}, []float64{20, 30}, 1)
	assert.Nil(t, s.Coefficient, "n < lag+2 leaves correlation undefined")
	assert.Equal(t, 1, s.SpikeCount, "spike count still computable")
	assert.Equal(t, 2, s.Window)

	s = Analyze(nil, nil, 0)
	assert.Nil(t, s.Coefficient)
	assert.Equal(t, 0, s.SpikeCount)
}

func TestAnalyzeNegativeLag(t *testing.T) {
	s := Analyze([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}, -1)
	assert.Nil(t, s.Coefficient)
}

func TestSpikeCountThreshold(t *testing.T) {
	signal := []float64{30, 30.1, 45, -60, 100, 29.9}
	s := Analyze(signal, signal, 0)
	assert.Equal(t, 3, s.SpikeCount, "strictly above 30 counts")
}

func TestAnalyzeZeroLag(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	s := Analyze(a, a, 0)
	require.NotNil(t, s.Coefficient)
	assert.InDelta(t, 1.0, *s.Coefficient, 1e-9)
}

func TestAnalyzeMismatchedLengths(t *testing.T) {
	// Proxy longer than signal: alignment uses the shorter length.
	signal := []float64{1, 5, 2, 8}
	proxy := []float64{0, 2, 10, 4, 16, 99, 99}

	s := Analyze(signal, proxy, 1)
	require.NotNil(t, s.Coefficient)
	assert.InDelta(t, 1.0, *s.Coefficient, 1e-6)
}
