// Package freesurfer reads the binary surface geometry and curvature formats
// the fsaverage reference meshes ship in, and locates the per-hemisphere
// files inside a FreeSurfer surf directory.
package freesurfer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pablomc88/megtools/domain/atlas"
	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/mesh"
	"github.com/pablomc88/megtools/ports"
)

// 24-bit magic numbers, big-endian
const (
	triangleMagic = 0xFFFFFE
	curvMagic     = 0xFFFFFF
)

// ReadSurface parses a binary triangle surface file
func ReadSurface(r io.Reader) (*mesh.TriMesh, error) {
	br := bufio.NewReader(r)

	magic, err := readUint24(br)
	if err != nil {
		return nil, fmt.Errorf("read surface magic: %w", err)
	}
	if magic != triangleMagic {
		return nil, fmt.Errorf("not a triangle surface file: magic %#x", magic)
	}

	// The creator comment ends with two consecutive newlines.
	if err := skipComment(br); err != nil {
		return nil, fmt.Errorf("read surface comment: %w", err)
	}

	var nVert, nFace int32
	if err := binary.Read(br, binary.BigEndian, &nVert); err != nil {
		return nil, err
	}
	if err := binary.Read(br, binary.BigEndian, &nFace); err != nil {
		return nil, err
	}
	if nVert <= 0 || nFace <= 0 {
		return nil, fmt.Errorf("invalid surface counts: %d vertices, %d faces", nVert, nFace)
	}

	coords32 := make([]float32, 3*nVert)
	if err := binary.Read(br, binary.BigEndian, coords32); err != nil {
		return nil, fmt.Errorf("read vertex coordinates: %w", err)
	}
	faces := make([]int32, 3*nFace)
	if err := binary.Read(br, binary.BigEndian, faces); err != nil {
		return nil, fmt.Errorf("read face indices: %w", err)
	}

	coords := make([]float64, len(coords32))
	for i, v := range coords32 {
		coords[i] = float64(v)
	}
	m := &mesh.TriMesh{Coords: coords, Faces: faces}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadCurv parses a new-format curvature file (one float per vertex)
func ReadCurv(r io.Reader) ([]float64, error) {
	br := bufio.NewReader(r)

	magic, err := readUint24(br)
	if err != nil {
		return nil, fmt.Errorf("read curv magic: %w", err)
	}
	if magic != curvMagic {
		return nil, fmt.Errorf("not a new-format curv file: magic %#x", magic)
	}

	var nVert, nFace, valsPerVertex int32
	for _, p := range []*int32{&nVert, &nFace, &valsPerVertex} {
		if err := binary.Read(br, binary.BigEndian, p); err != nil {
			return nil, err
		}
	}
	if nVert <= 0 || valsPerVertex != 1 {
		return nil, fmt.Errorf("unsupported curv layout: %d vertices, %d values per vertex", nVert, valsPerVertex)
	}

	vals32 := make([]float32, nVert)
	if err := binary.Read(br, binary.BigEndian, vals32); err != nil {
		return nil, fmt.Errorf("read curv values: %w", err)
	}
	out := make([]float64, len(vals32))
	for i, v := range vals32 {
		out[i] = float64(v)
	}
	return out, nil
}

// Dir locates fsaverage meshes by the FreeSurfer naming convention
// (lh.pial, rh.inflated, lh.sulc, ...) under one directory.
type Dir struct {
	path string
}

var _ ports.SurfaceMeshes = (*Dir)(nil)

// NewDir creates a mesh provider rooted at a surf directory
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Mesh loads the requested surface of a hemisphere
func (d *Dir) Mesh(hemi atlas.Hemisphere, kind ports.MeshKind) (*mesh.TriMesh, error) {
	f, err := d.open(hemi, string(kind))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSurface(f)
}

// Sulc loads the sulcal-depth map of a hemisphere
func (d *Dir) Sulc(hemi atlas.Hemisphere) ([]float64, error) {
	f, err := d.open(hemi, "sulc")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCurv(f)
}

func (d *Dir) open(hemi atlas.Hemisphere, suffix string) (*os.File, error) {
	prefix := "lh"
	if hemi == atlas.HemiRight {
		prefix = "rh"
	}
	path := filepath.Join(d.path, prefix+"."+suffix)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrMeshNotFound, path)
		}
		return nil, err
	}
	return f, nil
}

func readUint24(r io.Reader) (uint32, error) {
	var b [3]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func skipComment(br *bufio.Reader) error {
	prev := byte(0)
	for {
		b, err := br.ReadByte()
		if err != nil {
			return err
		}
		if b == '\n' && prev == '\n' {
			return nil
		}
		prev = b
	}
}
