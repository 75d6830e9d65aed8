// Package surfplot projects volumetric statistics onto cortical surface
// meshes and rasterizes them as heat maps with sulcal-depth shading.
package surfplot

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/pablomc88/megtools/domain/mesh"
	"github.com/pablomc88/megtools/domain/volume"
	"github.com/pablomc88/megtools/ports"
)

// Sampler maps a 3D scalar field onto mesh vertices; it satisfies
// ports.SurfaceSampler.
type Sampler struct{}

var _ ports.SurfaceSampler = (*Sampler)(nil)

// NewSampler creates a vertex sampler
func NewSampler() *Sampler {
	return &Sampler{}
}

// VolToSurf samples g at every vertex position of m (world coordinates)
// with trilinear interpolation. The voxel affine is inverted once for the
// whole mesh.
func (s *Sampler) VolToSurf(g *volume.Grid, m *mesh.TriMesh) ([]float64, error) {
	a := mat.NewDense(4, 4, g.Affine[:])
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, fmt.Errorf("singular voxel affine: %w", err)
	}

	out := make([]float64, m.VertexCount())
	for i := range out {
		wx, wy, wz := m.Vertex(i)
		vx := inv.At(0, 0)*wx + inv.At(0, 1)*wy + inv.At(0, 2)*wz + inv.At(0, 3)
		vy := inv.At(1, 0)*wx + inv.At(1, 1)*wy + inv.At(1, 2)*wz + inv.At(1, 3)
		vz := inv.At(2, 0)*wx + inv.At(2, 1)*wy + inv.At(2, 2)*wz + inv.At(2, 3)
		out[i] = g.SampleVoxel(vx, vy, vz)
	}
	return out, nil
}
