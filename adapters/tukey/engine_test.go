package tukey

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/groups"
)

// Upper 5% critical values of the studentized range distribution, standard
// tables: q_{0.05}(k, df).
func TestStudentizedRangeCDF_CriticalValues(t *testing.T) {
	cases := []struct {
		q  float64
		k  int
		df int
	}{
		{3.877, 3, 10},
		{2.772, 2, 1000}, // large df, near the infinite-df entry 2.77
		{4.232, 5, 20},
		{3.399, 3, 60},
	}
	for _, tc := range cases {
		got := StudentizedRangeCDF(tc.q, tc.k, tc.df)
		if math.Abs(got-0.95) > 0.005 {
			t.Errorf("CDF(%g, k=%d, df=%d) = %.4f, want 0.95 within 0.005",
				tc.q, tc.k, tc.df, got)
		}
	}
}

func TestStudentizedRangeCDF_Shape(t *testing.T) {
	if got := StudentizedRangeCDF(0, 3, 10); got != 0 {
		t.Errorf("CDF(0) = %g, want 0", got)
	}
	if got := StudentizedRangeCDF(-1, 3, 10); got != 0 {
		t.Errorf("CDF(-1) = %g, want 0", got)
	}

	prev := 0.0
	for q := 0.5; q <= 8; q += 0.5 {
		cur := StudentizedRangeCDF(q, 4, 30)
		if cur < prev-1e-9 {
			t.Fatalf("CDF not monotone at q=%g: %g < %g", q, cur, prev)
		}
		if cur < 0 || cur > 1 {
			t.Fatalf("CDF(%g) = %g outside [0,1]", q, cur)
		}
		prev = cur
	}
	if tail := StudentizedRangeCDF(20, 4, 30); tail < 0.9999 {
		t.Errorf("far tail CDF = %g, want ~1", tail)
	}
}

func TestEngineCompare_ThreeGroups(t *testing.T) {
	samples := groups.Samples{
		{1, 2, 3, 4, 5},
		{2, 3, 4, 5, 6},
		{8, 9, 10, 11, 12},
	}

	eng := NewEngine()
	got, err := eng.Compare(samples, 0.05)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// All groups share variance 2.5, so MSE = 2.5 and se = sqrt(2.5/5).
	se := math.Sqrt(2.5 / 5)

	ab := got[0]
	assert.Equal(t, groups.Pair{I: 0, J: 1}, ab.Pair)
	assert.InDelta(t, -1, ab.MeanDiff, 1e-12)
	assert.InDelta(t, 1/se, ab.QStat, 1e-9)
	assert.Greater(t, ab.PValue, 0.05)
	assert.False(t, ab.Reject)

	ac := got[1]
	assert.Equal(t, groups.Pair{I: 0, J: 2}, ac.Pair)
	assert.InDelta(t, -7, ac.MeanDiff, 1e-12)
	assert.InDelta(t, 7/se, ac.QStat, 1e-9)
	assert.Less(t, ac.PValue, 0.001)
	assert.True(t, ac.Reject)

	bc := got[2]
	assert.Equal(t, groups.Pair{I: 1, J: 2}, bc.Pair)
	assert.Less(t, bc.PValue, 0.001)
	assert.True(t, bc.Reject)
}

func TestEngineCompare_UnbalancedGroups(t *testing.T) {
	samples := groups.Samples{
		{1, 2, 3},
		{1.5, 2.5, 3.5, 4.5},
	}
	got, err := NewEngine().Compare(samples, 0.05)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Greater(t, got[0].QStat, 0.0)
	assert.InDelta(t, -1, got[0].MeanDiff, 1e-12)
}

func TestEngineCompare_PairCount(t *testing.T) {
	samples := groups.Samples{
		{1, 2, 3}, {2, 3, 4}, {3, 4, 5}, {4, 5, 6},
	}
	got, err := NewEngine().Compare(samples, 0.05)
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestEngineCompare_Errors(t *testing.T) {
	_, err := NewEngine().Compare(groups.Samples{{1, 2, 3}}, 0.05)
	assert.ErrorIs(t, err, core.ErrTooFewGroups)

	_, err = NewEngine().Compare(groups.Samples{{1, 1}, {1, 1}}, 0.05)
	assert.True(t, errors.Is(err, core.ErrZeroVariance))
}
