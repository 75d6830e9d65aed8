// Package testkit builds synthetic spectra, atlases, and meshes with known
// ground truth for tests and tooling.
package testkit

import (
	"math"
	"math/rand"

	"github.com/pablomc88/megtools/domain/mesh"
	"github.com/pablomc88/megtools/domain/spectra"
	"github.com/pablomc88/megtools/domain/volume"
)

// Freqs builds a linearly spaced frequency axis [lo, hi] with the given step
func Freqs(lo, hi, step float64) []float64 {
	var out []float64
	for f := lo; f <= hi+1e-9; f += step {
		out = append(out, f)
	}
	return out
}

// SyntheticSpectrum evaluates a known aperiodic+peak model over freqs, with
// optional multiplicative log-normal noise from a seeded source.
func SyntheticSpectrum(freqs []float64, ap spectra.AperiodicParams, peaks []spectra.PeakParams, noise float64, seed int64) []float64 {
	power := spectra.ModelSpectrum(freqs, ap, peaks)
	if noise > 0 {
		rng := rand.New(rand.NewSource(seed))
		for i := range power {
			power[i] *= math.Pow(10, rng.NormFloat64()*noise)
		}
	}
	return power
}

// SyntheticAtlas builds a 4D grid of nt disjoint rectangular regions laid
// out along the x axis, each with peak intensity rising with its index.
func SyntheticAtlas(nx, ny, nz, nt int) *volume.Grid4 {
	g := &volume.Grid4{Nx: nx, Ny: ny, Nz: nz, Nt: nt}
	g.Data = make([]float64, nx*ny*nz*nt)
	g.Affine = [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	vol := nx * ny * nz
	for t := 0; t < nt; t++ {
		x0 := t * nx / nt
		x1 := (t + 1) * nx / nt
		if x1 == x0 {
			x1 = x0 + 1
		}
		for z := 0; z < nz; z++ {
			for y := 0; y < ny; y++ {
				for x := x0; x < x1 && x < nx; x++ {
					g.Data[t*vol+x+nx*(y+ny*z)] = float64(t + 1)
				}
			}
		}
	}
	return g
}

// SyntheticMesh builds a flat rows x cols triangulated sheet in the z=0
// plane, spaced one unit apart and centered on the origin.
func SyntheticMesh(rows, cols int) *mesh.TriMesh {
	m := &mesh.TriMesh{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.Coords = append(m.Coords,
				float64(c)-float64(cols-1)/2,
				float64(r)-float64(rows-1)/2,
				0,
			)
		}
	}
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			a := int32(r*cols + c)
			b := a + 1
			d := a + int32(cols)
			e := d + 1
			m.Faces = append(m.Faces, a, b, d, b, e, d)
		}
	}
	return m
}

// Ramp returns n values rising linearly from 0 to 1
func Ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}
