// Package sdfx is a signed-distance backend for kernel.Kernel built on
// github.com/deadsy/sdfx. Meshes come from marching cubes, so results
// approximate the exact brep kernel and serve as a cross-check for it.
//
// A solid remembers the material-tagged primitives it was built from. When
// meshing, each triangle takes the material of the primitive whose surface
// it lies on, so cut faces carry the cutter's material as they do in brep.
package sdfx

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/logging"
)

var (
	_ kernel.Kernel       = (*Kernel)(nil)
	_ kernel.Materializer = (*Kernel)(nil)
)

// DefaultMeshCells is the marching cubes resolution along the longest
// bounding box axis.
const DefaultMeshCells = 200

// part is one primitive of a solid, already moved into the solid's frame.
type part struct {
	field    sdf.SDF3
	material int
}

// solid is a distance field plus the primitives that shaped it.
type solid struct {
	field sdf.SDF3
	parts []part
}

func (s *solid) BoundingBox() (min, max [3]float64) {
	bb := s.field.BoundingBox()
	return [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}, [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
}

// materialAt returns the material of the part whose surface is closest to p.
func (s *solid) materialAt(p v3.Vec) int {
	best := lo.MinBy(s.parts, func(a, b part) bool {
		return math.Abs(a.field.Evaluate(p)) < math.Abs(b.field.Evaluate(p))
	})
	return best.material
}

func (s *solid) transform(m sdf.M44) *solid {
	return &solid{
		field: sdf.Transform3D(s.field, m),
		parts: lo.Map(s.parts, func(p part, _ int) part {
			return part{field: sdf.Transform3D(p.field, m), material: p.material}
		}),
	}
}

func combine(field sdf.SDF3, a, b *solid) *solid {
	return &solid{field: field, parts: slices.Concat(a.parts, b.parts)}
}

func primitive(field sdf.SDF3, err error) *solid {
	if err != nil {
		// sizes are validated by the scene graph before they reach a kernel
		panic(fmt.Sprintf("sdfx: %v", err))
	}
	return &solid{field: field, parts: []part{{field: field}}}
}

func unwrap(s kernel.Solid) *solid {
	return s.(*solid)
}

// Kernel implements kernel.Kernel on sdfx distance fields.
type Kernel struct {
	cells int
	log   *logrus.Entry
}

// New returns a kernel meshing at DefaultMeshCells.
func New() *Kernel {
	return NewWithCells(DefaultMeshCells)
}

// NewWithCells returns a kernel meshing at the given resolution. Values
// below 8 are raised to 8.
func NewWithCells(cells int) *Kernel {
	return &Kernel{cells: max(cells, 8), log: logging.NamedLogger("sdfx")}
}

// Cells returns the marching cubes resolution.
func (k *Kernel) Cells() int { return k.cells }

// Box creates a box centered on the origin, as the brep kernel does.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	return primitive(sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0))
}

// Cylinder creates a cylinder along Z. segments is ignored; the field is
// exactly round.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return primitive(sdf.Cylinder3D(height, radius, 0))
}

func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	return combine(sdf.Union3D(sa.field, sb.field), sa, sb)
}

func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	return combine(sdf.Difference3D(sa.field, sb.field), sa, sb)
}

func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	return combine(sdf.Intersect3D(sa.field, sb.field), sa, sb)
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return unwrap(s).transform(sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate applies Euler angles in degrees, X then Y then Z.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.RotateZ(sdf.DtoR(z)).Mul(sdf.RotateY(sdf.DtoR(y))).Mul(sdf.RotateX(sdf.DtoR(x)))
	return unwrap(s).transform(m)
}

// WithMaterial tags every primitive of s with material.
func (k *Kernel) WithMaterial(s kernel.Solid, material int) kernel.Solid {
	src := unwrap(s)
	return &solid{
		field: src.field,
		parts: lo.Map(src.parts, func(p part, _ int) part {
			return part{field: p.field, material: material}
		}),
	}
}

// ToMesh runs marching cubes over s and groups the triangles by material,
// in ascending material order. Normals are per face; UVs are not produced.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	start := time.Now()
	src := unwrap(s)
	triangles := render.ToTriangles(src.field, render.NewMarchingCubesUniform(k.cells))

	byMaterial := lo.GroupBy(triangles, func(t *sdf.Triangle3) int {
		return src.materialAt(t[0].Add(t[1]).Add(t[2]).DivScalar(3))
	})
	materials := lo.Keys(byMaterial)
	slices.Sort(materials)

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, 9*len(triangles)),
		Normals:  make([]float32, 0, 9*len(triangles)),
		Indices:  make([]uint32, 0, 3*len(triangles)),
	}
	for _, mat := range materials {
		first := len(m.Indices)
		for _, t := range byMaterial[mat] {
			appendTriangle(m, t)
		}
		m.Groups = append(m.Groups, kernel.Group{Material: mat, Start: first, Count: len(m.Indices) - first})
	}

	k.log.WithFields(logrus.Fields{
		"cells":     k.cells,
		"triangles": len(triangles),
		"materials": len(materials),
		"elapsed":   time.Since(start),
	}).Debug("marching cubes")
	return m, nil
}

func appendTriangle(m *kernel.Mesh, t *sdf.Triangle3) {
	n := t.Normal()
	base := uint32(m.VertexCount())
	for j, p := range t {
		m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
		m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		m.Indices = append(m.Indices, base+uint32(j))
	}
}
