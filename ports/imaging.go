package ports

import (
	"image"

	"github.com/pablomc88/megtools/domain/atlas"
	"github.com/pablomc88/megtools/domain/mesh"
	"github.com/pablomc88/megtools/domain/volume"
)

// AtlasSource loads the 4D parcellation volume
type AtlasSource interface {
	LoadAtlas(path string) (*volume.Grid4, error)
}

// MeshKind selects which registered surface of a hemisphere to load
type MeshKind string

const (
	MeshPial     MeshKind = "pial"
	MeshInflated MeshKind = "inflated"
)

// SurfaceMeshes provides the reference cortical meshes and their
// sulcal-depth maps, per hemisphere.
type SurfaceMeshes interface {
	Mesh(hemi atlas.Hemisphere, kind MeshKind) (*mesh.TriMesh, error)
	Sulc(hemi atlas.Hemisphere) ([]float64, error)
}

// SurfaceSampler projects a 3D volume onto a surface by sampling the field
// at each mesh vertex.
type SurfaceSampler interface {
	VolToSurf(g *volume.Grid, m *mesh.TriMesh) ([]float64, error)
}

// ViewAngle orients the rendered surface
type ViewAngle struct {
	Azimuth   float64 `json:"azimuth"`   // degrees around the z axis
	Elevation float64 `json:"elevation"` // degrees above the xy plane
}

// RenderOptions controls the surface heat-map rendering
type RenderOptions struct {
	View     ViewAngle
	VMax     float64 // symmetric color-scale cap
	Colorbar bool
	Darkness float64 // background shading strength, 0..1
	Width    int
	Height   int
}

// SurfaceRenderer rasterizes per-vertex statistics over a surface mesh with
// a sulcal-depth background.
type SurfaceRenderer interface {
	Render(m *mesh.TriMesh, stat []float64, sulc []float64, opt RenderOptions) (image.Image, error)
}
