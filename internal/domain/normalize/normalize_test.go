package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNormalizeLivePassthrough(t *testing.T) {
	cases := []int{0, 1, 55, 100}
	for _, v := range cases {
		res := Normalize(intPtr(v), []int{10, 20, 30}, 2, nil)
		require.NotNil(t, res.Value)
		assert.Equal(t, v, *res.Value)
		assert.Equal(t, ProvenanceLive, res.Provenance)
		assert.Nil(t, res.ImputedHour)
	}
}

func TestNormalizeBackwardScan(t *testing.T) {
	// Hour 5 is zero, hour 4 is zero, hour 3 holds the last activity.
	hourly := []int{0, 10, 25, 40, 0, 0}
	res := Normalize(nil, hourly, 5, nil)

	require.NotNil(t, res.Value)
	assert.Equal(t, 40, *res.Value)
	assert.Equal(t, ProvenanceImputed, res.Provenance)
	require.NotNil(t, res.ImputedHour)
	assert.Equal(t, 3, *res.ImputedHour)
}

func TestNormalizeCurrentHourBeyondSeries(t *testing.T) {
	// Series shorter than the current hour: search from the last index.
	hourly := []int{0, 15, 30}
	res := Normalize(nil, hourly, 20, nil)

	require.NotNil(t, res.Value)
	assert.Equal(t, 30, *res.Value)
	require.NotNil(t, res.ImputedHour)
	assert.Equal(t, 2, *res.ImputedHour)
}

func TestNormalizePreviousEveningFallback(t *testing.T) {
	prev := make([]int, 24)
	prev[19] = 35
	prev[22] = 60

	res := Normalize(nil, []int{0, 0, 0}, 2, prev)

	require.NotNil(t, res.Value)
	assert.Equal(t, 60, *res.Value, "scan runs 23 down to 18, hour 22 wins")
	assert.Equal(t, ProvenanceImputed, res.Provenance)
	require.NotNil(t, res.ImputedHour)
	assert.Equal(t, 22, *res.ImputedHour)
}

func TestNormalizeEveningWindowExcludesAfternoon(t *testing.T) {
	prev := make([]int, 24)
	prev[17] = 80 // outside the 18..23 window

	res := Normalize(nil, []int{0, 0}, 1, prev)

	assert.Nil(t, res.Value)
	assert.Equal(t, ProvenanceUnavailable, res.Provenance)
}

func TestNormalizeAllZeroUnavailable(t *testing.T) {
	res := Normalize(nil, make([]int, 24), 23, nil)

	assert.Nil(t, res.Value)
	assert.Equal(t, ProvenanceUnavailable, res.Provenance)
	assert.Nil(t, res.ImputedHour)
}

func TestNormalizeEmptySeries(t *testing.T) {
	res := Normalize(nil, nil, 12, nil)
	assert.Equal(t, ProvenanceUnavailable, res.Provenance)
}

func TestNormalizeShortPrevEvening(t *testing.T) {
	// Previous-day series shorter than 24 entries must not panic and
	// must only match indexes that exist.
	prev := []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 45}
	res := Normalize(nil, []int{0}, 0, prev)

	require.NotNil(t, res.Value)
	assert.Equal(t, 45, *res.Value)
	require.NotNil(t, res.ImputedHour)
	assert.Equal(t, 18, *res.ImputedHour)
}

func TestImputedValueAlwaysPositiveAndFromSeries(t *testing.T) {
	hourly := []int{0, 3, 0, 7, 0}
	for hour := 0; hour < 8; hour++ {
		res := Normalize(nil, hourly, hour, nil)
		if res.Provenance != ProvenanceImputed {
			continue
		}
		require.NotNil(t, res.Value)
		assert.Greater(t, *res.Value, 0)
		require.NotNil(t, res.ImputedHour)
		assert.Equal(t, hourly[*res.ImputedHour], *res.Value)
	}
}
