// Package volume provides the minimal 3D/4D scalar grid arithmetic the
// surface pipeline needs: per-volume selection, scaling, elementwise
// accumulation, and world-coordinate sampling through the voxel affine.
package volume

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Grid is one 3D scalar volume with a voxel-to-world affine
type Grid struct {
	Nx, Ny, Nz int
	// Affine maps homogeneous voxel indices to world (mm) coordinates,
	// row-major 4x4.
	Affine [16]float64
	Data   []float64 // x-fastest, then y, then z
}

// Grid4 is a 4D image: a stack of 3D volumes sharing one affine
type Grid4 struct {
	Nx, Ny, Nz, Nt int
	Affine         [16]float64
	Data           []float64 // x-fastest, then y, z, t
}

// NumVolumes returns the length of the fourth dimension
func (g *Grid4) NumVolumes() int { return g.Nt }

// Volume extracts the t-th 3D volume as an independent copy
func (g *Grid4) Volume(t int) (*Grid, error) {
	if t < 0 || t >= g.Nt {
		return nil, fmt.Errorf("volume index %d out of range [0,%d)", t, g.Nt)
	}
	n := g.Nx * g.Ny * g.Nz
	out := &Grid{Nx: g.Nx, Ny: g.Ny, Nz: g.Nz, Affine: g.Affine}
	out.Data = make([]float64, n)
	copy(out.Data, g.Data[t*n:(t+1)*n])
	return out, nil
}

// At returns the voxel value at integer indices, zero outside the grid
func (g *Grid) At(x, y, z int) float64 {
	if x < 0 || y < 0 || z < 0 || x >= g.Nx || y >= g.Ny || z >= g.Nz {
		return 0
	}
	return g.Data[x+g.Nx*(y+g.Ny*z)]
}

// Max returns the largest voxel value
func (g *Grid) Max() float64 {
	if len(g.Data) == 0 {
		return 0
	}
	m := g.Data[0]
	for _, v := range g.Data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Scale multiplies every voxel in place
func (g *Grid) Scale(f float64) {
	for i := range g.Data {
		g.Data[i] *= f
	}
}

// AddInPlace accumulates another grid of identical shape into g
func (g *Grid) AddInPlace(o *Grid) error {
	if len(g.Data) != len(o.Data) {
		return fmt.Errorf("grid shape mismatch: %d vs %d voxels", len(g.Data), len(o.Data))
	}
	for i, v := range o.Data {
		g.Data[i] += v
	}
	return nil
}

// WorldToVoxel converts world (mm) coordinates to fractional voxel indices
// by inverting the affine.
func (g *Grid) WorldToVoxel(wx, wy, wz float64) (float64, float64, float64, error) {
	a := mat.NewDense(4, 4, g.Affine[:])
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return 0, 0, 0, fmt.Errorf("singular voxel affine: %w", err)
	}
	vx := inv.At(0, 0)*wx + inv.At(0, 1)*wy + inv.At(0, 2)*wz + inv.At(0, 3)
	vy := inv.At(1, 0)*wx + inv.At(1, 1)*wy + inv.At(1, 2)*wz + inv.At(1, 3)
	vz := inv.At(2, 0)*wx + inv.At(2, 1)*wy + inv.At(2, 2)*wz + inv.At(2, 3)
	return vx, vy, vz, nil
}

// SampleWorld samples the grid at a world coordinate with trilinear
// interpolation, zero outside the field of view.
func (g *Grid) SampleWorld(wx, wy, wz float64) (float64, error) {
	vx, vy, vz, err := g.WorldToVoxel(wx, wy, wz)
	if err != nil {
		return 0, err
	}
	return g.trilinear(vx, vy, vz), nil
}

// SampleVoxel samples at fractional voxel indices with trilinear
// interpolation, zero outside the grid.
func (g *Grid) SampleVoxel(x, y, z float64) float64 {
	return g.trilinear(x, y, z)
}

func (g *Grid) trilinear(x, y, z float64) float64 {
	fx0, fy0, fz0 := math.Floor(x), math.Floor(y), math.Floor(z)
	x0, y0, z0 := int(fx0), int(fy0), int(fz0)
	fx, fy, fz := x-fx0, y-fy0, z-fz0

	v := 0.0
	for dz := 0; dz <= 1; dz++ {
		wz := fz
		if dz == 0 {
			wz = 1 - fz
		}
		for dy := 0; dy <= 1; dy++ {
			wy := fy
			if dy == 0 {
				wy = 1 - fy
			}
			for dx := 0; dx <= 1; dx++ {
				wx := fx
				if dx == 0 {
					wx = 1 - fx
				}
				v += wx * wy * wz * g.At(x0+dx, y0+dy, z0+dz)
			}
		}
	}
	return v
}
