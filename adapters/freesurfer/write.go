package freesurfer

import (
	"encoding/binary"
	"io"

	"github.com/pablomc88/megtools/domain/mesh"
)

// WriteSurface emits a binary triangle surface file. Used to build synthetic
// meshes for tests and tooling.
func WriteSurface(w io.Writer, m *mesh.TriMesh, comment string) error {
	if err := writeUint24(w, triangleMagic); err != nil {
		return err
	}
	if _, err := io.WriteString(w, comment+"\n\n"); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(m.VertexCount())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(m.FaceCount())); err != nil {
		return err
	}
	coords := make([]float32, len(m.Coords))
	for i, v := range m.Coords {
		coords[i] = float32(v)
	}
	if err := binary.Write(w, binary.BigEndian, coords); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, m.Faces)
}

// WriteCurv emits a new-format curvature file
func WriteCurv(w io.Writer, values []float64) error {
	if err := writeUint24(w, curvMagic); err != nil {
		return err
	}
	for _, v := range []int32{int32(len(values)), 0, 1} {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	vals32 := make([]float32, len(values))
	for i, v := range values {
		vals32[i] = float32(v)
	}
	return binary.Write(w, binary.BigEndian, vals32)
}

func writeUint24(w io.Writer, v uint32) error {
	_, err := w.Write([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
	return err
}
