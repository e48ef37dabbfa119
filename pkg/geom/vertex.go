package geom

import "github.com/go-gl/mathgl/mgl64"

// Vertex is a polygon corner carrying the attributes that survive a split.
type Vertex struct {
	Pos    mgl64.Vec3
	Normal mgl64.Vec3
	UV     mgl64.Vec2
}

// NewVertex returns a vertex with the given attributes.
func NewVertex(pos, normal mgl64.Vec3, uv mgl64.Vec2) Vertex {
	return Vertex{Pos: pos, Normal: normal, UV: uv}
}

// Lerp interpolates every attribute between v and o at parameter t.
// Normals are interpolated linearly and not renormalized; on a planar
// face both ends carry the same normal.
func (v Vertex) Lerp(o Vertex, t float64) Vertex {
	return Vertex{
		Pos:    v.Pos.Add(o.Pos.Sub(v.Pos).Mul(t)),
		Normal: v.Normal.Add(o.Normal.Sub(v.Normal).Mul(t)),
		UV:     v.UV.Add(o.UV.Sub(v.UV).Mul(t)),
	}
}

// Flip returns the vertex with its normal reversed.
func (v Vertex) Flip() Vertex {
	v.Normal = v.Normal.Mul(-1)
	return v
}
