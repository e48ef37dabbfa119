package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"
)

// ErrMalformedMesh is returned by Validate when the buffers of a mesh do not
// describe a triangle mesh.
var ErrMalformedMesh = errors.New("kernel: malformed mesh")

// Group is a contiguous range of the index buffer sharing one material.
// Start and Count are index offsets, both multiples of 3.
type Group struct {
	Material int `json:"material"`
	Start    int `json:"start"`
	Count    int `json:"count"`
}

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, uvs has 2 floats per vertex,
// indices has 3 uint32s per triangle. Normals and UVs may be empty.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	UVs      []float32 `json:"uvs,omitempty"`
	Indices  []uint32  `json:"indices"` // [i0,i1,i2, ...] triangles
	Groups   []Group   `json:"groups,omitempty"`
	PartName string    `json:"partName"` // which design graph part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Indices) == 0
}

// Validate checks that the buffers are consistent: whole vertices and
// triangles, attribute buffers matching the vertex count, indices in range
// and groups lying inside the index buffer on triangle boundaries.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrMalformedMesh, len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrMalformedMesh, len(m.Indices))
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("%w: %d normal floats for %d vertices", ErrMalformedMesh, len(m.Normals), m.VertexCount())
	}
	if len(m.UVs) != 0 && len(m.UVs) != 2*m.VertexCount() {
		return fmt.Errorf("%w: %d uv floats for %d vertices", ErrMalformedMesh, len(m.UVs), m.VertexCount())
	}
	vc := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= vc {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrMalformedMesh, idx, i, vc)
		}
	}
	for _, g := range m.Groups {
		if g.Start < 0 || g.Count < 0 || g.Start%3 != 0 || g.Count%3 != 0 || g.Start+g.Count > len(m.Indices) {
			return fmt.Errorf("%w: group %+v does not fit %d indices", ErrMalformedMesh, g, len(m.Indices))
		}
	}
	return nil
}

// Position returns vertex i as float64 coordinates.
func (m *Mesh) Position(i int) [3]float64 {
	return [3]float64{
		float64(m.Vertices[3*i]),
		float64(m.Vertices[3*i+1]),
		float64(m.Vertices[3*i+2]),
	}
}

// Triangle returns the corner positions of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c [3]float64) {
	return m.Position(int(m.Indices[3*t])),
		m.Position(int(m.Indices[3*t+1])),
		m.Position(int(m.Indices[3*t+2]))
}

// MaterialOf returns the material of the group covering triangle t.
func (m *Mesh) MaterialOf(t int) (material int, ok bool) {
	g, ok := lo.Find(m.Groups, func(g Group) bool {
		return 3*t >= g.Start && 3*t < g.Start+g.Count
	})
	return g.Material, ok
}

// BoundingBox returns the axis-aligned bounds of the referenced vertices.
// An empty mesh returns zero bounds.
func (m *Mesh) BoundingBox() (min, max [3]float64) {
	if m.IsEmpty() {
		return min, max
	}
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, idx := range m.Indices {
		p := m.Position(int(idx))
		for k := 0; k < 3; k++ {
			min[k] = math.Min(min[k], p[k])
			max[k] = math.Max(max[k], p[k])
		}
	}
	return min, max
}

// Volume returns the signed volume enclosed by the mesh, positive when the
// triangles wind counter-clockwise seen from outside. The result is only
// meaningful for closed meshes.
func (m *Mesh) Volume() float64 {
	v := 0.0
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		v += dot(a, cross(b, c)) / 6
	}
	return v
}

// SurfaceArea returns the total triangle area.
func (m *Mesh) SurfaceArea() float64 {
	s := 0.0
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		s += length(cross(sub(b, a), sub(c, a))) / 2
	}
	return s
}

// rayDir is deliberately off-axis so rays from axis-aligned sample points
// do not graze edges of axis-aligned geometry.
var rayDir = [3]float64{1, 0.0001731, 0.0002917}

// Contains reports whether p lies inside the closed mesh, by counting
// crossings of a ray leaving p.
func (m *Mesh) Contains(p [3]float64) bool {
	hits := 0
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		if rayHits(p, rayDir, a, b, c) {
			hits++
		}
	}
	return hits%2 == 1
}

// rayHits is the Möller-Trumbore ray/triangle test.
func rayHits(o, d, a, b, c [3]float64) bool {
	const tiny = 1e-12
	e1, e2 := sub(b, a), sub(c, a)
	h := cross(d, e2)
	det := dot(e1, h)
	if math.Abs(det) < tiny {
		return false
	}
	inv := 1 / det
	s := sub(o, a)
	u := inv * dot(s, h)
	if u < 0 || u > 1 {
		return false
	}
	q := cross(s, e1)
	v := inv * dot(d, q)
	if v < 0 || u+v > 1 {
		return false
	}
	return inv*dot(e2, q) > tiny
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func length(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}
