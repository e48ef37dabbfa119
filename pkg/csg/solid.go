package csg

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/geom"
)

// Solid is a closed surface held as convex polygons. A nil or empty Solid
// is the empty set and is a valid operand everywhere. Solids are not
// modified by any operation in this package.
type Solid struct {
	polygons []geom.Polygon
}

// NewSolid returns a solid made of polys. The slice is retained.
func NewSolid(polys []geom.Polygon) *Solid {
	return &Solid{polygons: polys}
}

// Polygons returns the polygons of s. Callers must not modify them.
func (s *Solid) Polygons() []geom.Polygon {
	if s == nil {
		return nil
	}
	return s.polygons
}

// Len returns the number of polygons.
func (s *Solid) Len() int { return len(s.Polygons()) }

// IsEmpty reports whether s has no polygons.
func (s *Solid) IsEmpty() bool { return s.Len() == 0 }

// Bounds returns the axis-aligned bounding box of s. ok is false for an
// empty solid.
func (s *Solid) Bounds() (min, max mgl64.Vec3, ok bool) {
	if s.IsEmpty() {
		return min, max, false
	}
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range s.polygons {
		pmin, pmax := p.Bounds()
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], pmin[i])
			max[i] = math.Max(max[i], pmax[i])
		}
	}
	return min, max, true
}

// BoundingBox returns the bounds of s as arrays; empty solids report zero
// bounds.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	mn, mx, ok := s.Bounds()
	if !ok {
		return min, max
	}
	return [3]float64(mn), [3]float64(mx)
}

// Transform returns s mapped through m. Polygons that collapse under m are
// dropped.
func (s *Solid) Transform(m mgl64.Mat4) *Solid {
	out := make([]geom.Polygon, 0, s.Len())
	for _, p := range s.Polygons() {
		tp, err := p.Transform(m)
		if err != nil {
			continue
		}
		out = append(out, tp)
	}
	return NewSolid(out)
}

// WithMaterial returns a copy of s whose polygons all carry material.
func (s *Solid) WithMaterial(material int) *Solid {
	out := make([]geom.Polygon, s.Len())
	for i, p := range s.Polygons() {
		p.Material = material
		out[i] = p
	}
	return NewSolid(out)
}

// Concat returns a solid holding the polygons of both operands without any
// clipping. It is only a valid union when the operands do not overlap.
func Concat(a, b *Solid) *Solid {
	out := make([]geom.Polygon, 0, a.Len()+b.Len())
	out = append(out, a.Polygons()...)
	out = append(out, b.Polygons()...)
	return NewSolid(out)
}

// Area returns the total surface area of s.
func (s *Solid) Area() float64 {
	a := 0.0
	for _, p := range s.Polygons() {
		a += p.Area()
	}
	return a
}

// Volume returns the enclosed volume of s, summing the signed volumes of
// the tetrahedra formed by the origin and each fan triangle.
func (s *Solid) Volume() float64 {
	v := 0.0
	for _, p := range s.Polygons() {
		o := p.Vertices[0].Pos
		for i := 1; i+1 < len(p.Vertices); i++ {
			v += o.Dot(p.Vertices[i].Pos.Cross(p.Vertices[i+1].Pos)) / 6
		}
	}
	return v
}
