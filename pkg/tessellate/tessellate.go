// Package tessellate walks a scene graph and produces triangle meshes
// using a geometry kernel. One mesh is produced per root.
package tessellate

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/graph"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/logging"
)

var log = logging.NamedLogger("tessellate")

// walker evaluates nodes to kernel solids. A nil solid is the empty set.
// Nodes shared between several parents are evaluated once.
type walker struct {
	g     *graph.SceneGraph
	k     kernel.Kernel
	cache map[graph.NodeID]kernel.Solid
}

// Tessellate evaluates every root of the scene graph and returns one
// triangle mesh per root, in root order. Roots that evaluate to nothing
// yield an empty mesh. The graph must pass structural validation; it is
// never mutated.
func Tessellate(g *graph.SceneGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}
	if err := structuralErrors(g); err != nil {
		return nil, fmt.Errorf("tessellate: invalid graph: %w", err)
	}

	w := &walker{g: g, k: k, cache: make(map[graph.NodeID]kernel.Solid)}
	meshes := make([]*kernel.Mesh, 0, len(g.Roots))

	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		start := time.Now()

		solid, err := w.solid(root)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}

		mesh := &kernel.Mesh{Vertices: []float32{}, Normals: []float32{}, Indices: []uint32{}}
		if solid != nil {
			mesh, err = k.ToMesh(solid)
			if err != nil {
				return nil, fmt.Errorf("tessellate: ToMesh failed for root %s: %w", rootID.Short(), err)
			}
		}
		mesh.PartName = partName(g, root)

		log.WithFields(logrus.Fields{
			"root":      mesh.PartName,
			"triangles": mesh.TriangleCount(),
			"elapsed":   time.Since(start),
		}).Debug("root tessellated")

		meshes = append(meshes, mesh)
	}

	return meshes, nil
}

func structuralErrors(g *graph.SceneGraph) error {
	var errs []error
	for _, e := range graph.Validate(g) {
		if e.Severity == graph.SeverityError {
			errs = append(errs, e)
		}
	}
	return errors.Join(errs...)
}

// partName prefers the node's own name and looks through unnamed
// placements for a named child before falling back to the short ID.
func partName(g *graph.SceneGraph, n *graph.Node) string {
	for cur := n; cur != nil; {
		if cur.Name != "" {
			return cur.Name
		}
		if cur.Kind != graph.NodeTransform || len(cur.Children) != 1 {
			break
		}
		cur = g.Get(cur.Children[0])
	}
	return n.ID.Short()
}

func (w *walker) solid(n *graph.Node) (kernel.Solid, error) {
	if s, ok := w.cache[n.ID]; ok {
		return s, nil
	}

	var (
		s   kernel.Solid
		err error
	)
	switch n.Kind {
	case graph.NodePrimitive:
		s, err = w.primitive(n)
	case graph.NodeTransform:
		s, err = w.transform(n)
	case graph.NodeGroup:
		s, err = w.combine(n, csg.OpUnion)
	case graph.NodeOperation:
		od, ok := n.Data.(graph.OperationData)
		if !ok {
			return nil, fmt.Errorf("operation node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		s, err = w.combine(n, od.Op)
	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
	if err != nil {
		return nil, err
	}

	w.cache[n.ID] = s
	return s, nil
}

// primitive creates geometry for a primitive node.
func (w *walker) primitive(n *graph.Node) (kernel.Solid, error) {
	var (
		solid    kernel.Solid
		material int
	)

	switch data := n.Data.(type) {
	case graph.BoxData:
		solid = w.k.Box(data.Size.X, data.Size.Y, data.Size.Z)
		material = data.Material
	case graph.CylinderData:
		segments := data.Segments
		if segments == 0 {
			segments = w.g.Defaults.Segments
		}
		if segments == 0 {
			segments = graph.DefaultSegments
		}
		solid = w.k.Cylinder(data.Height, data.Radius, segments)
		material = data.Material
	default:
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}

	if material == graph.MaterialDefault {
		material = w.g.Defaults.Material
	}
	return kernel.ApplyMaterial(w.k, solid, material), nil
}

// transform rotates, then translates, the single child.
func (w *walker) transform(n *graph.Node) (kernel.Solid, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	if len(n.Children) == 0 {
		return nil, nil
	}

	solid, err := w.solid(w.g.Get(n.Children[0]))
	if err != nil || solid == nil {
		return nil, err
	}

	if r := td.Rotation; r != nil && (r.X != 0 || r.Y != 0 || r.Z != 0) {
		solid = w.k.Rotate(solid, r.X, r.Y, r.Z)
	}
	if t := td.Translation; t != nil && (t.X != 0 || t.Y != 0 || t.Z != 0) {
		solid = w.k.Translate(solid, t.X, t.Y, t.Z)
	}
	return solid, nil
}

// combine folds the children of n left to right with op. The first child
// is the base.
func (w *walker) combine(n *graph.Node, op csg.Op) (kernel.Solid, error) {
	var acc kernel.Solid
	for i, child := range w.g.Children(n) {
		s, err := w.solid(child)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			acc = s
			continue
		}
		acc = w.apply(op, acc, s)
	}
	return acc, nil
}

func (w *walker) apply(op csg.Op, a, b kernel.Solid) kernel.Solid {
	switch op {
	case csg.OpUnion:
		switch {
		case a == nil:
			return b
		case b == nil:
			return a
		}
		return w.k.Union(a, b)
	case csg.OpSubtract:
		if a == nil || b == nil {
			return a
		}
		return w.k.Difference(a, b)
	case csg.OpIntersect:
		if a == nil || b == nil {
			return nil
		}
		return w.k.Intersection(a, b)
	}
	return nil
}
