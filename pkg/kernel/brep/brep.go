// Package brep implements kernel.Kernel on the polygon BSP engine in
// pkg/csg. Solids stay in polygon form between operations and are only
// triangulated by ToMesh, so chained booleans do not accumulate fan
// triangles.
package brep

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/logging"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel       = (*Kernel)(nil)
	_ kernel.Materializer = (*Kernel)(nil)
)

// DefaultSegments is the cylinder resolution used when a caller asks for
// fewer than three segments.
const DefaultSegments = 32

type brepSolid struct {
	s *csg.Solid
}

// BoundingBox returns the axis-aligned bounding box.
func (s *brepSolid) BoundingBox() (min, max [3]float64) {
	return s.s.BoundingBox()
}

// Kernel implements kernel.Kernel with exact polygon booleans.
type Kernel struct {
	eval *csg.Evaluator
	log  *logrus.Entry
}

// New returns a kernel evaluating with cfg.
func New(cfg csg.Config) (*Kernel, error) {
	e, err := csg.NewEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	return &Kernel{eval: e, log: logging.NamedLogger("brep")}, nil
}

// Unwrap returns the polygon solid behind s. s must come from a brep
// Kernel.
func Unwrap(s kernel.Solid) *csg.Solid {
	return s.(*brepSolid).s
}

func wrap(s *csg.Solid) kernel.Solid {
	return &brepSolid{s: s}
}

// Box creates a box with the given dimensions centered on the origin.
// Non-positive dimensions yield an empty solid.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	s, err := csg.Box(mgl64.Vec3{}, mgl64.Vec3{x, y, z}, 0)
	if err != nil {
		k.log.WithError(err).Debug("box")
		return wrap(nil)
	}
	return wrap(s)
}

// Cylinder creates a cylinder along Z centered on the origin.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if segments < 3 {
		segments = DefaultSegments
	}
	s, err := csg.Cylinder(mgl64.Vec3{}, height, radius, segments, 0)
	if err != nil {
		k.log.WithError(err).Debug("cylinder")
		return wrap(nil)
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(k.eval.UnionSolids(Unwrap(a), Unwrap(b)))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(k.eval.SubtractSolids(Unwrap(a), Unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(k.eval.IntersectSolids(Unwrap(a), Unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(Unwrap(s).Transform(mgl64.Translate3D(x, y, z)))
}

// Rotate rotates a solid by Euler angles (degrees) around X, then Y, then Z.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(Unwrap(s).Transform(RotationMatrix(x, y, z)))
}

// RotationMatrix returns the rotation applying x, then y, then z degrees
// about the respective axes.
func RotationMatrix(x, y, z float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(mgl64.DegToRad(z)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(y))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(x)))
}

// WithMaterial returns s with every polygon tagged with material.
func (k *Kernel) WithMaterial(s kernel.Solid, material int) kernel.Solid {
	return wrap(Unwrap(s).WithMaterial(material))
}

// ToMesh triangulates a solid.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return csg.BuildMesh(Unwrap(s)), nil
}
