package freesurfer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablomc88/megtools/domain/atlas"
	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/internal/testkit"
	"github.com/pablomc88/megtools/ports"
)

func TestSurfaceRoundTrip(t *testing.T) {
	want := testkit.SyntheticMesh(3, 4)

	var buf bytes.Buffer
	require.NoError(t, WriteSurface(&buf, want, "created by tests"))

	got, err := ReadSurface(&buf)
	require.NoError(t, err)
	assert.Equal(t, want.VertexCount(), got.VertexCount())
	assert.Equal(t, want.FaceCount(), got.FaceCount())
	assert.Equal(t, want.Faces, got.Faces)
	for i := range want.Coords {
		assert.InDelta(t, want.Coords[i], got.Coords[i], 1e-6)
	}
}

func TestCurvRoundTrip(t *testing.T) {
	want := []float64{-1.5, 0, 0.25, 3}

	var buf bytes.Buffer
	require.NoError(t, WriteCurv(&buf, want))

	got, err := ReadCurv(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
}

func TestReadSurfaceBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCurv(&buf, []float64{1, 2}))
	_, err := ReadSurface(&buf)
	assert.ErrorContains(t, err, "magic")
}

func TestReadCurvBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSurface(&buf, testkit.SyntheticMesh(2, 2), "x"))
	_, err := ReadCurv(&buf)
	assert.ErrorContains(t, err, "magic")
}

func TestDirLookup(t *testing.T) {
	dir := t.TempDir()
	m := testkit.SyntheticMesh(3, 3)
	sulc := testkit.Ramp(m.VertexCount())

	writeFile := func(name string, fn func(f *os.File) error) {
		t.Helper()
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, fn(f))
		require.NoError(t, f.Close())
	}
	writeFile("lh.pial", func(f *os.File) error { return WriteSurface(f, m, "lh pial") })
	writeFile("lh.inflated", func(f *os.File) error { return WriteSurface(f, m, "lh inflated") })
	writeFile("lh.sulc", func(f *os.File) error { return WriteCurv(f, sulc) })

	d := NewDir(dir)

	got, err := d.Mesh(atlas.HemiLeft, ports.MeshPial)
	require.NoError(t, err)
	assert.Equal(t, m.VertexCount(), got.VertexCount())

	_, err = d.Mesh(atlas.HemiLeft, ports.MeshInflated)
	require.NoError(t, err)

	gotSulc, err := d.Sulc(atlas.HemiLeft)
	require.NoError(t, err)
	assert.Len(t, gotSulc, m.VertexCount())

	// Right hemisphere was never written.
	_, err = d.Mesh(atlas.HemiRight, ports.MeshPial)
	assert.ErrorIs(t, err, core.ErrMeshNotFound)
	_, err = d.Sulc(atlas.HemiRight)
	assert.ErrorIs(t, err, core.ErrMeshNotFound)
}
