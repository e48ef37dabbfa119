package graph

import (
	"testing"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
)

func TestNewSceneGraph(t *testing.T) {
	g := New()
	if g.Nodes == nil {
		t.Fatal("Nodes map should be initialized")
	}
	if g.NameIndex == nil {
		t.Fatal("NameIndex map should be initialized")
	}
	if g.Defaults.Segments != DefaultSegments {
		t.Errorf("default segments = %d, want %d", g.Defaults.Segments, DefaultSegments)
	}
	if g.NodeCount() != 0 {
		t.Errorf("empty graph should have 0 nodes, got %d", g.NodeCount())
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	g := New()

	id := NewNodeID("box/base")
	node := &Node{
		ID:   id,
		Kind: NodePrimitive,
		Name: "base",
		Data: BoxData{Size: Vec3{2, 2, 2}, Material: 1},
	}
	g.AddNode(node)
	g.AddRoot(id)
	g.AddRoot(id)

	if g.NodeCount() != 1 {
		t.Errorf("node count = %d, want 1", g.NodeCount())
	}

	found := g.Lookup("base")
	if found == nil {
		t.Fatal("Lookup('base') returned nil")
	}
	if found.ID != id {
		t.Errorf("lookup returned wrong node")
	}

	if must := g.MustLookup("base"); must.ID != id {
		t.Errorf("MustLookup returned wrong node")
	}

	if g.Lookup("nonexistent") != nil {
		t.Error("Lookup should return nil for missing name")
	}

	if got := g.Get(id); got == nil || got.Name != "base" {
		t.Errorf("Get by ID failed")
	}

	if len(g.Roots) != 1 || g.Roots[0] != id {
		t.Errorf("roots = %v, want [%s]", g.Roots, id.Short())
	}
}

func TestMustLookupPanics(t *testing.T) {
	g := New()
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup should panic on missing name")
		}
	}()
	g.MustLookup("missing")
}

func TestPrimitivesAndOperations(t *testing.T) {
	b := NewBuilder()
	a := b.Box("a", Vec3{1, 1, 1}, 0)
	c := b.Cylinder("c", CylinderData{Height: 2, Radius: 0.5})
	op := b.Operation("cut", csg.OpSubtract, a, c)
	b.Root(op)
	g := b.Graph()

	if n := len(g.Primitives()); n != 2 {
		t.Errorf("Primitives() count = %d, want 2", n)
	}
	ops := g.Operations()
	if len(ops) != 1 {
		t.Fatalf("Operations() count = %d, want 1", len(ops))
	}
	if ops[0].Data.(OperationData).Op != csg.OpSubtract {
		t.Errorf("operation op = %v, want subtract", ops[0].Data)
	}
}

func TestChildren(t *testing.T) {
	b := NewBuilder()
	child := b.Box("shelf", Vec3{6, 3, 0.2}, 0)
	parent := b.Group("case", child)
	g := b.Graph()

	children := g.Children(g.Get(parent))
	if len(children) != 1 {
		t.Fatalf("Children count = %d, want 1", len(children))
	}
	if children[0].Name != "shelf" {
		t.Errorf("child name = %q, want %q", children[0].Name, "shelf")
	}
}

func TestBuilderDeterministic(t *testing.T) {
	build := func() *SceneGraph {
		b := NewBuilder()
		x := b.Box("", Vec3{1, 1, 1}, 0)
		p1 := b.Place(x, &Vec3{1, 0, 0}, nil)
		p2 := b.Place(x, &Vec3{2, 0, 0}, nil)
		b.Root(b.Operation("u", csg.OpUnion, p1, p2))
		return b.Graph()
	}
	g1, g2 := build(), build()
	if g1.NodeCount() != 4 {
		t.Fatalf("node count = %d, want 4", g1.NodeCount())
	}
	for id := range g1.Nodes {
		if g2.Get(id) == nil {
			t.Errorf("node %s missing from second build", id.Short())
		}
	}
	if errs := Validate(g1); len(errs) != 0 {
		t.Errorf("Validate() = %v, want none", errs)
	}
}

func TestNodeIDDeterministic(t *testing.T) {
	a := NewNodeID("box/front")
	b := NewNodeID("box/front")
	if a != b {
		t.Error("same path should produce same NodeID")
	}

	c := NewNodeID("box/back")
	if a == c {
		t.Error("different paths should produce different NodeIDs")
	}
}

func TestNodeIDZero(t *testing.T) {
	var id NodeID
	if !id.IsZero() {
		t.Error("zero-value NodeID should be zero")
	}
	id = NewNodeID("something")
	if id.IsZero() {
		t.Error("non-zero NodeID should not be zero")
	}
	if len(id.String()) != 64 {
		t.Errorf("String() len = %d, want 64", len(id.String()))
	}
}

func TestVec3(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if sum := a.Add(b); sum != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v, want (5, 7, 9)", sum)
	}
	if scaled := a.Scale(2); scaled != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v, want (2, 4, 6)", scaled)
	}
}

func TestNodeDataInterface(t *testing.T) {
	// Verify all concrete types implement NodeData at compile time.
	var _ NodeData = BoxData{}
	var _ NodeData = CylinderData{}
	var _ NodeData = TransformData{}
	var _ NodeData = GroupData{}
	var _ NodeData = OperationData{}
}

func TestStringers(t *testing.T) {
	if NodePrimitive.String() != "primitive" {
		t.Errorf("NodePrimitive.String() = %q", NodePrimitive.String())
	}
	if NodeOperation.String() != "operation" {
		t.Errorf("NodeOperation.String() = %q", NodeOperation.String())
	}
	if NodeKind(99).String() != "unknown" {
		t.Errorf("NodeKind(99).String() = %q", NodeKind(99).String())
	}

	id := NewNodeID("test")
	if len(id.Short()) != 12 { // 6 bytes = 12 hex chars
		t.Errorf("Short() len = %d, want 12", len(id.Short()))
	}

	v := Vec3{1.5, 2.5, 3.5}
	if v.String() != "(1.5, 2.5, 3.5)" {
		t.Errorf("Vec3.String() = %q", v.String())
	}
}

func TestRemoveRoot(t *testing.T) {
	g := New()
	a, b := NewNodeID("a"), NewNodeID("b")
	g.AddRoot(a)
	g.AddRoot(b)
	g.RemoveRoot(a)
	g.RemoveRoot(NewNodeID("never"))
	if len(g.Roots) != 1 || g.Roots[0] != b {
		t.Errorf("roots = %v, want [b]", g.Roots)
	}
}
