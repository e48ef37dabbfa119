package graph

import (
	"fmt"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
)

// Builder assembles a SceneGraph node by node. Node IDs are derived from
// the node kind and name; unnamed nodes get a per-builder sequence number,
// so the same sequence of calls always yields the same IDs.
type Builder struct {
	g    *SceneGraph
	anon int
}

// NewBuilder returns a builder over an empty graph.
func NewBuilder() *Builder {
	return &Builder{g: New()}
}

// Graph returns the graph built so far.
func (b *Builder) Graph() *SceneGraph {
	return b.g
}

func (b *Builder) path(kind, name string) string {
	if name != "" {
		return kind + "/" + name
	}
	b.anon++
	return fmt.Sprintf("%s/_anon_%d", kind, b.anon)
}

func (b *Builder) add(kind NodeKind, prefix, name string, data NodeData, children []NodeID) NodeID {
	id := NewNodeID(b.path(prefix, name))
	b.g.AddNode(&Node{
		ID:       id,
		Kind:     kind,
		Name:     name,
		Children: children,
		Data:     data,
	})
	return id
}

// Box adds a box primitive.
func (b *Builder) Box(name string, size Vec3, material int) NodeID {
	return b.add(NodePrimitive, "box", name, BoxData{Size: size, Material: material}, nil)
}

// Cylinder adds a cylinder primitive.
func (b *Builder) Cylinder(name string, d CylinderData) NodeID {
	return b.add(NodePrimitive, "cylinder", name, d, nil)
}

// Place adds a transform over child. Either vector may be nil.
func (b *Builder) Place(child NodeID, at, rotate *Vec3) NodeID {
	return b.add(NodeTransform, "place", "", TransformData{Translation: at, Rotation: rotate}, []NodeID{child})
}

// Group adds an implicit union of children.
func (b *Builder) Group(name string, children ...NodeID) NodeID {
	return b.add(NodeGroup, "group", name, GroupData{}, children)
}

// Operation adds a boolean operation over children.
func (b *Builder) Operation(name string, op csg.Op, children ...NodeID) NodeID {
	return b.add(NodeOperation, op.String(), name, OperationData{Op: op}, children)
}

// Root registers id as a root of the graph.
func (b *Builder) Root(id NodeID) {
	b.g.AddRoot(id)
}
