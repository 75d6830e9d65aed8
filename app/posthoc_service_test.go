package app

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/groups"
)

// fakeEngine returns canned p-values in enumeration order
type fakeEngine struct {
	pvalues []float64
	err     error
}

func (f *fakeEngine) Compare(samples groups.Samples, alpha float64) ([]groups.Comparison, error) {
	if f.err != nil {
		return nil, f.err
	}
	pairs := groups.Pairs(len(samples))
	out := make([]groups.Comparison, len(pairs))
	for i, p := range pairs {
		out[i] = groups.Comparison{Pair: p, PValue: f.pvalues[i], Reject: f.pvalues[i] < alpha}
	}
	return out, nil
}

// recordingAxes captures every drawing call
type recordingAxes struct {
	lo, hi  float64
	labels  []string
	labelYs []float64
	lines   [][3]float64
}

func (a *recordingAxes) YLim() (float64, float64) { return a.lo, a.hi }
func (a *recordingAxes) SetYLim(lo, hi float64)   { a.lo, a.hi = lo, hi }
func (a *recordingAxes) Text(x, y float64, label string) {
	a.labels = append(a.labels, label)
	a.labelYs = append(a.labelYs, y)
}
func (a *recordingAxes) HLine(x0, x1, y float64) {
	a.lines = append(a.lines, [3]float64{x0, x1, y})
}

func TestCohensD(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{6, 7, 8, 9, 10}

	d, err := CohensD(a, b)
	require.NoError(t, err)
	assert.InDelta(t, -3.1623, d, 1e-3)

	// Antisymmetric in its arguments.
	rev, err := CohensD(b, a)
	require.NoError(t, err)
	assert.InDelta(t, -d, rev, 1e-12)
}

func TestCohensD_SingletonGroup(t *testing.T) {
	// A single observation carries zero pooled weight but is still legal as
	// long as more than two observations exist in total.
	d, err := CohensD([]float64{5}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Greater(t, d, 0.0)
}

func TestCohensD_Errors(t *testing.T) {
	_, err := CohensD(nil, []float64{1, 2})
	assert.ErrorIs(t, err, core.ErrInsufficientSamples)

	_, err = CohensD([]float64{1}, []float64{2})
	assert.ErrorIs(t, err, core.ErrInsufficientSamples)

	_, err = CohensD([]float64{1, 1}, []float64{1, 1})
	assert.ErrorIs(t, err, core.ErrZeroVariance)
}

func TestCompareFillsEffectSizes(t *testing.T) {
	samples := groups.Samples{
		{1, 2, 3, 4, 5},
		{6, 7, 8, 9, 10},
	}
	svc := NewPosthocService(&fakeEngine{pvalues: []float64{0.003}})

	comps, err := svc.Compare(samples)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.InDelta(t, -3.1623, comps[0].EffectSize, 1e-3)
}

func TestCompareEnginePropagatesError(t *testing.T) {
	svc := NewPosthocService(&fakeEngine{err: core.ErrZeroVariance})
	_, err := svc.Compare(groups.Samples{{1, 2}, {3, 4}})
	assert.ErrorIs(t, err, core.ErrZeroVariance)
}

func TestAnnotateTopThree(t *testing.T) {
	// Four groups -> six comparisons; the three smallest p-values sit at
	// enumeration indices 3, 2 and 1.
	samples := groups.Samples{
		{1, 2, 3},
		{2, 3, 4},
		{3, 4, 5},
		{4, 5, 6},
	}
	pvalues := []float64{0.5, 0.02, 0.005, 0.0005, 0.9, 0.7}
	svc := NewPosthocService(&fakeEngine{pvalues: pvalues})

	ax := &recordingAxes{lo: 0, hi: 10}
	require.NoError(t, svc.Annotate(samples, ax))

	require.Len(t, ax.lines, 3)
	require.Len(t, ax.labels, 3)

	// Drawn in enumeration order with heights growing with the pair index.
	pairs := groups.Pairs(4)
	wantIdx := []int{1, 2, 3}
	for i, idx := range wantIdx {
		wantY := 10 + 0.2*float64(idx)*10
		assert.Equal(t, float64(pairs[idx].I), ax.lines[i][0], "line %d x0", i)
		assert.Equal(t, float64(pairs[idx].J), ax.lines[i][1], "line %d x1", i)
		assert.InDelta(t, wantY, ax.lines[i][2], 1e-9, "line %d y", i)
		assert.InDelta(t, wantY+0.1*10, ax.labelYs[i], 1e-9, "label %d y", i)
	}

	// Label banding by p-value.
	assert.True(t, strings.HasPrefix(ax.labels[0], "p = 0.02 d = "), ax.labels[0])
	assert.True(t, strings.HasPrefix(ax.labels[1], "p < 0.01 d = "), ax.labels[1])
	assert.True(t, strings.HasPrefix(ax.labels[2], "p < 0.001 d = "), ax.labels[2])

	// Rescaled to fit the highest annotation plus headroom:
	// 10 + 0.2*3*10 + 0.2*10 = 18.
	assert.Equal(t, 0.0, ax.lo)
	assert.InDelta(t, 18, ax.hi, 1e-9)
}

func TestAnnotateTiedPValues(t *testing.T) {
	// All six p-values tie; the stable ranking must keep enumeration order,
	// so the first three pairs (0,1), (0,2), (0,3) win deterministically.
	samples := groups.Samples{
		{1, 2, 3},
		{2, 3, 4},
		{3, 4, 5},
		{4, 5, 6},
	}
	pvalues := []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3}
	svc := NewPosthocService(&fakeEngine{pvalues: pvalues})

	ax := &recordingAxes{lo: 0, hi: 10}
	require.NoError(t, svc.Annotate(samples, ax))

	require.Len(t, ax.lines, 3)
	pairs := groups.Pairs(4)
	for i, idx := range []int{0, 1, 2} {
		assert.Equal(t, float64(pairs[idx].I), ax.lines[i][0], "line %d x0", i)
		assert.Equal(t, float64(pairs[idx].J), ax.lines[i][1], "line %d x1", i)
		assert.InDelta(t, 10+0.2*float64(idx)*10, ax.lines[i][2], 1e-9, "line %d y", i)
	}

	// Highest selected index is 2: rescale to 10 + 0.4*10 + 0.2*10.
	assert.InDelta(t, 16, ax.hi, 1e-9)
}

func TestAnnotatePartialTie(t *testing.T) {
	// Two pairs tie for the last slot; the earlier enumeration index wins.
	samples := groups.Samples{
		{1, 2, 3},
		{2, 3, 4},
		{3, 4, 5},
		{4, 5, 6},
	}
	pvalues := []float64{0.9, 0.001, 0.05, 0.002, 0.05, 0.8}
	svc := NewPosthocService(&fakeEngine{pvalues: pvalues})

	ax := &recordingAxes{lo: 0, hi: 10}
	require.NoError(t, svc.Annotate(samples, ax))

	require.Len(t, ax.lines, 3)
	pairs := groups.Pairs(4)
	// Selected: indices 1 and 3 on merit, then index 2 over index 4 on the
	// 0.05 tie. Drawn back in enumeration order 1, 2, 3.
	for i, idx := range []int{1, 2, 3} {
		assert.Equal(t, float64(pairs[idx].I), ax.lines[i][0], "line %d x0", i)
		assert.Equal(t, float64(pairs[idx].J), ax.lines[i][1], "line %d x1", i)
	}
}

func TestAnnotateFewerThanThreePairs(t *testing.T) {
	samples := groups.Samples{
		{1, 2, 3},
		{4, 5, 6},
	}
	svc := NewPosthocService(&fakeEngine{pvalues: []float64{0.04}})

	ax := &recordingAxes{lo: 0, hi: 5}
	require.NoError(t, svc.Annotate(samples, ax))
	assert.Len(t, ax.lines, 1)
	assert.Len(t, ax.labels, 1)
}

func TestComparisonLabelBands(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{0.73, "p = 0.73 d = 0.50"},
		{0.01, "p = 0.01 d = 0.50"},
		{0.009, "p < 0.01 d = 0.50"},
		{0.001, "p < 0.01 d = 0.50"},
		{0.0009, "p < 0.001 d = 0.50"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("p=%g", tc.p), func(t *testing.T) {
			assert.Equal(t, tc.want, comparisonLabel(tc.p, 0.5))
		})
	}
}

func TestAnnotatePropagatesEffectSizeError(t *testing.T) {
	// Engine succeeds but one group has zero variance everywhere, so the
	// effect size is undefined.
	samples := groups.Samples{{1, 1}, {1, 1}}
	svc := NewPosthocService(&fakeEngine{pvalues: []float64{0.01}})

	ax := &recordingAxes{lo: 0, hi: 1}
	err := svc.Annotate(samples, ax)
	assert.True(t, errors.Is(err, core.ErrZeroVariance))
	assert.Empty(t, ax.lines)
}
