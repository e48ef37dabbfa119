package geom

// Class is the result of splitting a polygon by a plane.
type Class int

const (
	ClassCoplanarFront Class = iota
	ClassCoplanarBack
	ClassFront
	ClassBack
	ClassSpanning
)

func (c Class) String() string {
	switch c {
	case ClassCoplanarFront:
		return "coplanar-front"
	case ClassCoplanarBack:
		return "coplanar-back"
	case ClassFront:
		return "front"
	case ClassBack:
		return "back"
	case ClassSpanning:
		return "spanning"
	default:
		return "unknown"
	}
}

// Buckets receives the output of SplitInto. The same slice may be passed
// for several buckets; the BSP tree does this when coplanar polygons follow
// their orientation.
type Buckets struct {
	CoplanarFront *[]Polygon
	CoplanarBack  *[]Polygon
	Front         *[]Polygon
	Back          *[]Polygon
}

// SplitInto classifies poly against plane and appends it, or its fragments,
// to the matching bucket. Spanning polygons are cut along the plane; a
// fragment with fewer than three vertices is dropped. Vertices within eps
// of the plane land in both fragments.
func (pl Plane) SplitInto(poly Polygon, eps float64, b Buckets) Class {
	var polyType Side
	sides := make([]Side, len(poly.Vertices))
	for i, v := range poly.Vertices {
		s := pl.Classify(v.Pos, eps)
		polyType |= s
		sides[i] = s
	}

	switch polyType {
	case Coplanar:
		if pl.Normal.Dot(poly.Plane.Normal) > 0 {
			*b.CoplanarFront = append(*b.CoplanarFront, poly)
			return ClassCoplanarFront
		}
		*b.CoplanarBack = append(*b.CoplanarBack, poly)
		return ClassCoplanarBack
	case Front:
		*b.Front = append(*b.Front, poly)
		return ClassFront
	case Back:
		*b.Back = append(*b.Back, poly)
		return ClassBack
	}

	n := len(poly.Vertices)
	f := make([]Vertex, 0, n+1)
	k := make([]Vertex, 0, n+1)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		si, sj := sides[i], sides[j]
		vi, vj := poly.Vertices[i], poly.Vertices[j]
		if si != Back {
			f = append(f, vi)
		}
		if si != Front {
			k = append(k, vi)
		}
		if si|sj == Spanning {
			t := (pl.W - pl.Normal.Dot(vi.Pos)) / pl.Normal.Dot(vj.Pos.Sub(vi.Pos))
			v := vi.Lerp(vj, t)
			f = append(f, v)
			k = append(k, v)
		}
	}
	if len(f) >= 3 {
		*b.Front = append(*b.Front, Polygon{Vertices: f, Plane: poly.Plane, Material: poly.Material})
	}
	if len(k) >= 3 {
		*b.Back = append(*b.Back, Polygon{Vertices: k, Plane: poly.Plane, Material: poly.Material})
	}
	return ClassSpanning
}

// SplitResult is the outcome of Split.
type SplitResult struct {
	Class Class
	// Front and Back hold poly itself for the non-spanning classes, or its
	// fragments when Class is ClassSpanning.
	Front []Polygon
	Back  []Polygon
}

// Split classifies poly against plane. Coplanar polygons are reported in
// Front or Back according to their orientation relative to plane.
func Split(poly Polygon, plane Plane, eps float64) SplitResult {
	var front, back []Polygon
	c := plane.SplitInto(poly, eps, Buckets{
		CoplanarFront: &front,
		CoplanarBack:  &back,
		Front:         &front,
		Back:          &back,
	})
	return SplitResult{Class: c, Front: front, Back: back}
}
