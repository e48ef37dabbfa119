// Package kernel defines the abstract geometry kernel interface and the
// triangle mesh every backend produces. Backends (brep, sdfx) provide
// solid modeling and boolean operations behind this interface, so scene
// code can switch between the exact polygon engine and the SDF reference
// without changes.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
// Primitives are centered on the origin; cylinders run along Z.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, X then Y then Z

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Materializer is implemented by kernels that carry a material index on
// their solids. Kernels without materials ignore material assignments.
type Materializer interface {
	WithMaterial(s Solid, material int) Solid
}

// ApplyMaterial tags s with material when k supports materials and returns
// s unchanged otherwise.
func ApplyMaterial(k Kernel, s Solid, material int) Solid {
	if m, ok := k.(Materializer); ok {
		return m.WithMaterial(s, material)
	}
	return s
}
