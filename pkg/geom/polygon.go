package geom

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrDegenerate is returned when a polygon has fewer than three vertices or
// zero area.
var ErrDegenerate = errors.New("geom: degenerate polygon")

// Polygon is a convex, planar vertex ring wound counter-clockwise about
// Plane.Normal. Material tags the output group the polygon ends up in.
type Polygon struct {
	Vertices []Vertex
	Plane    Plane
	Material int
}

// NewPolygon builds a polygon from a convex ring and derives its plane.
// The vertex slice is retained.
func NewPolygon(vertices []Vertex, material int) (Polygon, error) {
	plane, ok := planeFromRing(vertices)
	if !ok {
		return Polygon{}, ErrDegenerate
	}
	return Polygon{Vertices: vertices, Plane: plane, Material: material}, nil
}

// Clone returns a copy that shares no memory with p.
func (p Polygon) Clone() Polygon {
	vs := make([]Vertex, len(p.Vertices))
	copy(vs, p.Vertices)
	p.Vertices = vs
	return p
}

// Flip returns a copy of p facing the other way: reversed winding, reversed
// vertex normals and flipped plane.
func (p Polygon) Flip() Polygon {
	n := len(p.Vertices)
	vs := make([]Vertex, n)
	for i, v := range p.Vertices {
		vs[n-1-i] = v.Flip()
	}
	return Polygon{Vertices: vs, Plane: p.Plane.Flip(), Material: p.Material}
}

// Area returns the area of the polygon.
func (p Polygon) Area() float64 {
	if len(p.Vertices) < 3 {
		return 0
	}
	var n mgl64.Vec3
	o := p.Vertices[0].Pos
	for i := 1; i+1 < len(p.Vertices); i++ {
		n = n.Add(p.Vertices[i].Pos.Sub(o).Cross(p.Vertices[i+1].Pos.Sub(o)))
	}
	return n.Len() / 2
}

// Bounds returns the axis-aligned bounding box of the polygon's vertices.
func (p Polygon) Bounds() (min, max mgl64.Vec3) {
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range p.Vertices {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], v.Pos[i])
			max[i] = math.Max(max[i], v.Pos[i])
		}
	}
	return min, max
}

// Transform returns p with positions mapped through m and normals through
// the inverse transpose of m. A mirroring m (negative determinant) also
// reverses the winding so the polygon keeps facing outward.
func (p Polygon) Transform(m mgl64.Mat4) (Polygon, error) {
	nm := mgl64.Mat4Normal(m)
	mirror := m.Mat3().Det() < 0
	vs := make([]Vertex, len(p.Vertices))
	for i, v := range p.Vertices {
		tv := Vertex{
			Pos:    mgl64.TransformCoordinate(v.Pos, m),
			Normal: nm.Mul3x1(v.Normal),
			UV:     v.UV,
		}
		if l := tv.Normal.Len(); l > 0 {
			tv.Normal = tv.Normal.Mul(1 / l)
		}
		if mirror {
			vs[len(vs)-1-i] = tv
		} else {
			vs[i] = tv
		}
	}
	return NewPolygon(vs, p.Material)
}
