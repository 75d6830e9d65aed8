// Package mesh holds the triangle-mesh representation shared by the surface
// format readers and the renderer.
package mesh

import "fmt"

// TriMesh is a triangulated cortical surface
type TriMesh struct {
	// Coords holds vertex positions as x,y,z triples, 3*VertexCount long.
	Coords []float64
	// Faces holds vertex indices as triples, 3*FaceCount long.
	Faces []int32
}

// VertexCount returns the number of vertices
func (m *TriMesh) VertexCount() int { return len(m.Coords) / 3 }

// FaceCount returns the number of triangles
func (m *TriMesh) FaceCount() int { return len(m.Faces) / 3 }

// Vertex returns the position of vertex i
func (m *TriMesh) Vertex(i int) (x, y, z float64) {
	return m.Coords[3*i], m.Coords[3*i+1], m.Coords[3*i+2]
}

// Face returns the three vertex indices of triangle f
func (m *TriMesh) Face(f int) (a, b, c int) {
	return int(m.Faces[3*f]), int(m.Faces[3*f+1]), int(m.Faces[3*f+2])
}

// Validate checks that every face index is in range
func (m *TriMesh) Validate() error {
	n := int32(m.VertexCount())
	for i, idx := range m.Faces {
		if idx < 0 || idx >= n {
			return fmt.Errorf("face entry %d references vertex %d of %d", i, idx, n)
		}
	}
	return nil
}
