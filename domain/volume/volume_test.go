package volume

import (
	"math"
	"testing"
)

func identity() [16]float64 {
	return [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func TestGrid4Volume(t *testing.T) {
	g4 := &Grid4{Nx: 2, Ny: 2, Nz: 1, Nt: 2, Affine: identity()}
	g4.Data = []float64{
		1, 2, 3, 4, // t=0
		5, 6, 7, 8, // t=1
	}

	v1, err := g4.Volume(1)
	if err != nil {
		t.Fatal(err)
	}
	if got := v1.At(1, 1, 0); got != 8 {
		t.Errorf("At(1,1,0) = %g, want 8", got)
	}

	// The extracted volume is a copy.
	v1.Data[0] = -1
	if g4.Data[4] != 5 {
		t.Error("Volume() aliases the parent data")
	}

	if _, err := g4.Volume(2); err == nil {
		t.Error("out-of-range volume index accepted")
	}
	if _, err := g4.Volume(-1); err == nil {
		t.Error("negative volume index accepted")
	}
}

func TestGridMaxScaleAdd(t *testing.T) {
	a := &Grid{Nx: 2, Ny: 1, Nz: 1, Affine: identity(), Data: []float64{2, 6}}
	b := &Grid{Nx: 2, Ny: 1, Nz: 1, Affine: identity(), Data: []float64{1, 1}}

	if m := a.Max(); m != 6 {
		t.Errorf("Max = %g, want 6", m)
	}
	a.Scale(0.5)
	if a.Data[0] != 1 || a.Data[1] != 3 {
		t.Errorf("after Scale: %v, want [1 3]", a.Data)
	}
	if err := a.AddInPlace(b); err != nil {
		t.Fatal(err)
	}
	if a.Data[0] != 2 || a.Data[1] != 4 {
		t.Errorf("after Add: %v, want [2 4]", a.Data)
	}

	short := &Grid{Nx: 1, Ny: 1, Nz: 1, Data: []float64{0}}
	if err := a.AddInPlace(short); err == nil {
		t.Error("shape mismatch accepted")
	}
}

func TestWorldToVoxelTranslation(t *testing.T) {
	g := &Grid{Nx: 4, Ny: 4, Nz: 4}
	g.Affine = [16]float64{
		2, 0, 0, -10,
		0, 2, 0, -20,
		0, 0, 2, -30,
		0, 0, 0, 1,
	}
	vx, vy, vz, err := g.WorldToVoxel(-10, -20, -30)
	if err != nil {
		t.Fatal(err)
	}
	if vx != 0 || vy != 0 || vz != 0 {
		t.Errorf("origin maps to (%g,%g,%g), want (0,0,0)", vx, vy, vz)
	}
	vx, vy, vz, err = g.WorldToVoxel(-6, -16, -26)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(vx-2) > 1e-12 || math.Abs(vy-2) > 1e-12 || math.Abs(vz-2) > 1e-12 {
		t.Errorf("got (%g,%g,%g), want (2,2,2)", vx, vy, vz)
	}
}

func TestTrilinearInterpolation(t *testing.T) {
	g := &Grid{Nx: 2, Ny: 2, Nz: 2, Affine: identity()}
	g.Data = []float64{0, 1, 0, 1, 0, 1, 0, 1} // value equals x index

	if got := g.SampleVoxel(0.5, 0.5, 0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("center sample = %g, want 0.5", got)
	}
	if got := g.SampleVoxel(1, 0, 0); got != 1 {
		t.Errorf("grid-point sample = %g, want 1", got)
	}
	if got := g.SampleVoxel(-5, 0, 0); got != 0 {
		t.Errorf("outside sample = %g, want 0", got)
	}
}

func TestSampleWorld(t *testing.T) {
	g := &Grid{Nx: 2, Ny: 1, Nz: 1, Affine: identity(), Data: []float64{0, 4}}
	got, err := g.SampleWorld(0.25, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("SampleWorld = %g, want 1", got)
	}
}
