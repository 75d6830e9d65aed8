package app

import (
	"fmt"
	"image"

	"github.com/pablomc88/megtools/domain/atlas"
	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/volume"
	"github.com/pablomc88/megtools/ports"
)

// Sulcal-depth shading strength of the rendered surface
const backgroundDarkness = 0.25

// RenderRequest carries everything one surface plot needs besides the
// region values themselves.
type RenderRequest struct {
	AtlasPath    string
	Hemisphere   atlas.Hemisphere
	VMax         float64
	View         ports.ViewAngle
	ShowColorbar bool
	Width        int
	Height       int
}

// SurfaceService maps per-region scalars onto the parcellation atlas and
// renders them as a cortical surface heat map.
type SurfaceService struct {
	atlasSource ports.AtlasSource
	meshes      ports.SurfaceMeshes
	sampler     ports.SurfaceSampler
	renderer    ports.SurfaceRenderer
}

// NewSurfaceService creates a surface service around the imaging capabilities
func NewSurfaceService(
	atlasSource ports.AtlasSource,
	meshes ports.SurfaceMeshes,
	sampler ports.SurfaceSampler,
	renderer ports.SurfaceRenderer,
) *SurfaceService {
	return &SurfaceService{
		atlasSource: atlasSource,
		meshes:      meshes,
		sampler:     sampler,
		renderer:    renderer,
	}
}

// Render builds the combined region volume, projects it onto the pial
// surface of the requested hemisphere, and rasterizes it over the inflated
// mesh. The colorbar only appears on right-hemisphere plots that ask for it.
func (s *SurfaceService) Render(values atlas.RegionValues, req RenderRequest) (image.Image, error) {
	img4, err := s.atlasSource.LoadAtlas(req.AtlasPath)
	if err != nil {
		return nil, fmt.Errorf("load atlas: %w", err)
	}
	if err := values.Validate(img4.NumVolumes()); err != nil {
		return nil, err
	}

	combined, err := combineRegions(values, img4)
	if err != nil {
		return nil, err
	}

	pial, err := s.meshes.Mesh(req.Hemisphere, ports.MeshPial)
	if err != nil {
		return nil, fmt.Errorf("load pial mesh: %w", err)
	}
	inflated, err := s.meshes.Mesh(req.Hemisphere, ports.MeshInflated)
	if err != nil {
		return nil, fmt.Errorf("load inflated mesh: %w", err)
	}
	sulc, err := s.meshes.Sulc(req.Hemisphere)
	if err != nil {
		return nil, fmt.Errorf("load sulcal map: %w", err)
	}

	texture, err := s.sampler.VolToSurf(combined, pial)
	if err != nil {
		return nil, fmt.Errorf("project volume to surface: %w", err)
	}

	return s.renderer.Render(inflated, texture, sulc, ports.RenderOptions{
		View:     req.View,
		VMax:     req.VMax,
		Colorbar: req.Hemisphere == atlas.HemiRight && req.ShowColorbar,
		Darkness: backgroundDarkness,
		Width:    req.Width,
		Height:   req.Height,
	})
}

// combineRegions scales every atlas volume by its region value, normalized
// against that volume's own peak intensity, and sums them elementwise.
func combineRegions(values atlas.RegionValues, img4 *volume.Grid4) (*volume.Grid, error) {
	var combined *volume.Grid
	for roi := 0; roi < img4.NumVolumes(); roi++ {
		vol, err := img4.Volume(roi)
		if err != nil {
			return nil, err
		}
		peak := vol.Max()
		if peak == 0 {
			return nil, fmt.Errorf("%w: region %d", core.ErrDegenerateVolume, roi)
		}
		vol.Scale(values[roi] / peak)

		if combined == nil {
			combined = vol
			continue
		}
		if err := combined.AddInPlace(vol); err != nil {
			return nil, err
		}
	}
	return combined, nil
}
