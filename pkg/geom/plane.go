package geom

import "github.com/go-gl/mathgl/mgl64"

// Side is the classification of a point, or the union of classifications
// of a polygon's points, against a plane.
type Side int

const (
	Coplanar Side = 0
	Front    Side = 1
	Back     Side = 2
	Spanning Side = Front | Back
)

func (s Side) String() string {
	switch s {
	case Coplanar:
		return "coplanar"
	case Front:
		return "front"
	case Back:
		return "back"
	case Spanning:
		return "spanning"
	default:
		return "unknown"
	}
}

// Plane is the set of points p with Normal·p == W. Normal is unit length.
type Plane struct {
	Normal mgl64.Vec3
	W      float64
}

// minNormalLen is the length below which a computed normal is treated as
// coming from a degenerate (zero-area) polygon.
const minNormalLen = 1e-12

// PlaneFromPoints returns the plane through a, b and c, oriented so that
// a, b, c are counter-clockwise when seen from the front. ok is false when
// the points are collinear.
func PlaneFromPoints(a, b, c mgl64.Vec3) (p Plane, ok bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < minNormalLen {
		return Plane{}, false
	}
	n = n.Mul(1 / l)
	return Plane{Normal: n, W: n.Dot(a)}, true
}

// planeFromRing fits a plane to a convex vertex ring by summing the fan
// cross products, which tolerates collinear leading vertices.
func planeFromRing(vs []Vertex) (Plane, bool) {
	if len(vs) < 3 {
		return Plane{}, false
	}
	var n mgl64.Vec3
	o := vs[0].Pos
	for i := 1; i+1 < len(vs); i++ {
		n = n.Add(vs[i].Pos.Sub(o).Cross(vs[i+1].Pos.Sub(o)))
	}
	l := n.Len()
	if l < minNormalLen {
		return Plane{}, false
	}
	n = n.Mul(1 / l)
	return Plane{Normal: n, W: n.Dot(o)}, true
}

// Distance returns the signed distance from pt to the plane.
func (p Plane) Distance(pt mgl64.Vec3) float64 {
	return p.Normal.Dot(pt) - p.W
}

// Classify places pt in front of, behind, or on the plane. Points within
// eps of the plane are Coplanar.
func (p Plane) Classify(pt mgl64.Vec3, eps float64) Side {
	d := p.Distance(pt)
	switch {
	case d < -eps:
		return Back
	case d > eps:
		return Front
	default:
		return Coplanar
	}
}

// Flip returns the plane with the opposite orientation.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Mul(-1), W: -p.W}
}
