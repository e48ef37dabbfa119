package engine

import (
	"strings"
	"testing"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/graph"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(box :size s)`,
			expect: `(box "__kw_size" s)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cylinder :height 2 :radius 1)`,
			expect: `(cylinder "__kw_height" 2 "__kw_radius" 1)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def base-plate ref)`,
			expect: `(def base_plate ref)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vec3 -1 0 -2.5)`,
			expect: `(vec3 -1 0 -2.5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:wall-thickness`,
			expect: `"__kw_wall-thickness"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// mustEvaluate evaluates source and fails on any error.
func mustEvaluate(t *testing.T, source string) *graph.SceneGraph {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if g == nil {
		t.Fatal("expected non-nil graph")
	}
	return g
}

// evalErrorContaining evaluates source and expects an eval error whose
// message contains want.
func evalErrorContaining(t *testing.T, source, want string) {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil graph on eval error")
	}
	for _, e := range evalErrs {
		if strings.Contains(e.Message, want) {
			return
		}
	}
	t.Errorf("eval errors %v, want one containing %q", evalErrs, want)
}

// ---------------------------------------------------------------------------
// Primitive tests
// ---------------------------------------------------------------------------

func TestBoxPrimitive(t *testing.T) {
	g := mustEvaluate(t, `(defsolid "base" (box :size (vec3 2 3 4) :material 1))`)

	if g.NodeCount() != 1 {
		t.Fatalf("expected 1 node, got %d", g.NodeCount())
	}
	base := g.Lookup("base")
	if base == nil {
		t.Fatal("expected node named 'base'")
	}
	if base.Kind != graph.NodePrimitive {
		t.Errorf("expected NodePrimitive, got %s", base.Kind)
	}
	bd, ok := base.Data.(graph.BoxData)
	if !ok {
		t.Fatalf("expected BoxData, got %T", base.Data)
	}
	if bd.Size != (graph.Vec3{X: 2, Y: 3, Z: 4}) {
		t.Errorf("size = %v, want (2, 3, 4)", bd.Size)
	}
	if bd.Material != 1 {
		t.Errorf("material = %d, want 1", bd.Material)
	}
	if len(g.Roots) != 0 {
		t.Errorf("defsolid should not register a root, got %d", len(g.Roots))
	}
}

func TestCylinderPrimitive(t *testing.T) {
	g := mustEvaluate(t, `
; a peg
(defsolid "peg" (cylinder :height 2 :radius 0.25 :segments 12 :material 3))
`)
	peg := g.Lookup("peg")
	if peg == nil {
		t.Fatal("expected node named 'peg'")
	}
	cd, ok := peg.Data.(graph.CylinderData)
	if !ok {
		t.Fatalf("expected CylinderData, got %T", peg.Data)
	}
	want := graph.CylinderData{Height: 2, Radius: 0.25, Segments: 12, Material: 3}
	if cd != want {
		t.Errorf("cylinder = %+v, want %+v", cd, want)
	}
}

func TestVariableReference(t *testing.T) {
	g := mustEvaluate(t, `
(def s 2)
(def wall-size (vec3 s 1 s))
(defsolid "wall" (box :size wall-size))
`)
	wall := g.Lookup("wall")
	if wall == nil {
		t.Fatal("expected node named 'wall'")
	}
	if bd := wall.Data.(graph.BoxData); bd.Size != (graph.Vec3{X: 2, Y: 1, Z: 2}) {
		t.Errorf("size = %v, want (2, 1, 2)", bd.Size)
	}
}

func TestMaterialUnsetVersusZero(t *testing.T) {
	g := mustEvaluate(t, `
(defsolid "plain" (box :size (vec3 1 1 1)))
(defsolid "zero" (box :size (vec3 1 1 1) :material 0))
(defsolid "rod" (cylinder :height 1 :radius 0.5))
`)
	tests := []struct {
		name string
		want int
	}{
		{"plain", graph.MaterialDefault},
		{"zero", 0},
		{"rod", graph.MaterialDefault},
	}
	for _, tt := range tests {
		n := g.Lookup(tt.name)
		if n == nil {
			t.Fatalf("no node named %q", tt.name)
		}
		var got int
		switch d := n.Data.(type) {
		case graph.BoxData:
			got = d.Material
		case graph.CylinderData:
			got = d.Material
		}
		if got != tt.want {
			t.Errorf("%s: material = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPrimitiveArgumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"box without size", `(defsolid "b" (box :material 1))`, "box requires :size"},
		{"box size not vec3", `(defsolid "b" (box :size 3))`, "expected vec3"},
		{"fractional material", `(defsolid "b" (box :size (vec3 1 1 1) :material 1.5))`, "expected integer"},
		{"negative material", `(defsolid "b" (box :size (vec3 1 1 1) :material -2))`, "must not be negative"},
		{"negative cylinder material", `(defsolid "c" (cylinder :height 1 :radius 1 :material -1))`, "must not be negative"},
		{"cylinder without radius", `(defsolid "c" (cylinder :height 1))`, "cylinder requires :radius"},
		{"cylinder height string", `(defsolid "c" (cylinder :height "tall" :radius 1))`, "expected number"},
		{"vec3 arity", `(vec3 1 2)`, "exactly 3 arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalErrorContaining(t, tt.source, tt.want)
		})
	}
}

// ---------------------------------------------------------------------------
// Naming tests
// ---------------------------------------------------------------------------

func TestSolidLookup(t *testing.T) {
	g := mustEvaluate(t, `
(defsolid "a" (box :size (vec3 1 1 1)))
(defsolid "b" (box :size (vec3 1 1 1)))
(union "both" (solid "a") (place (solid "b") :at (vec3 0.5 0 0)))
`)
	both := g.Lookup("both")
	if both == nil {
		t.Fatal("expected node named 'both'")
	}
	if both.Children[0] != g.Lookup("a").ID {
		t.Error("first operand should be solid a")
	}
}

func TestSolidLookupError(t *testing.T) {
	evalErrorContaining(t, `(union (solid "missing") (box :size (vec3 1 1 1)))`, `no solid named "missing"`)
}

func TestDuplicateNames(t *testing.T) {
	evalErrorContaining(t, `
(defsolid "x" (box :size (vec3 1 1 1)))
(defsolid "x" (box :size (vec3 2 2 2)))
`, `solid "x" already defined`)

	evalErrorContaining(t, `
(defsolid "x" (box :size (vec3 1 1 1)))
(union "x" (solid "x") (box :size (vec3 2 2 2)))
`, `solid "x" already defined`)
}

func TestDefsolidWrapsExpression(t *testing.T) {
	g := mustEvaluate(t, `
(defsolid "shifted" (place (box :size (vec3 1 1 1)) :at (vec3 3 0 0)))
(union "out" (solid "shifted") (box :size (vec3 1 1 1)))
`)
	shifted := g.Lookup("shifted")
	if shifted == nil || shifted.Kind != graph.NodeGroup {
		t.Fatalf("shifted = %+v, want a group", shifted)
	}
	if len(g.Roots) != 1 || g.Roots[0] != g.Lookup("out").ID {
		t.Errorf("roots = %v, want only 'out'", g.Roots)
	}
}

// ---------------------------------------------------------------------------
// Placement and boolean tests
// ---------------------------------------------------------------------------

func TestPlace(t *testing.T) {
	g := mustEvaluate(t, `
(union "u"
  (place (box :size (vec3 1 1 1)) :at (vec3 1 2 3) :rotate (vec3 0 0 45))
  (place (box :size (vec3 1 1 1))))
`)
	var withBoth, bare int
	for _, n := range g.Nodes {
		if n.Kind != graph.NodeTransform {
			continue
		}
		td := n.Data.(graph.TransformData)
		switch {
		case td.Translation != nil && td.Rotation != nil:
			withBoth++
			if *td.Translation != (graph.Vec3{X: 1, Y: 2, Z: 3}) || td.Rotation.Z != 45 {
				t.Errorf("transform = %v / %v", *td.Translation, *td.Rotation)
			}
		case td.Translation == nil && td.Rotation == nil:
			bare++
		}
	}
	if withBoth != 1 || bare != 1 {
		t.Errorf("transforms: %d with both vectors, %d bare; want 1 and 1", withBoth, bare)
	}
}

func TestBooleanRegistersRoot(t *testing.T) {
	tests := []struct {
		form string
		op   csg.Op
	}{
		{"union", csg.OpUnion},
		{"subtract", csg.OpSubtract},
		{"intersect", csg.OpIntersect},
	}
	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			g := mustEvaluate(t, `(`+tt.form+` "result" (box :size (vec3 2 2 2)) (cylinder :height 3 :radius 0.5))`)
			if g.NodeCount() != 3 {
				t.Fatalf("expected 3 nodes, got %d", g.NodeCount())
			}
			if len(g.Roots) != 1 {
				t.Fatalf("expected 1 root, got %d", len(g.Roots))
			}
			root := g.Get(g.Roots[0])
			if root.Name != "result" || root.Kind != graph.NodeOperation {
				t.Fatalf("root = %+v", root)
			}
			if root.Data.(graph.OperationData).Op != tt.op {
				t.Errorf("op = %v, want %v", root.Data, tt.op)
			}
			if len(root.Children) != 2 {
				t.Errorf("expected 2 children, got %d", len(root.Children))
			}
		})
	}
}

func TestNestedOperationsSingleRoot(t *testing.T) {
	g := mustEvaluate(t, `
(subtract "drilled"
  (union
    (box :size (vec3 2 2 2))
    (place (box :size (vec3 2 2 2)) :at (vec3 1 0 0)))
  (cylinder :height 3 :radius 0.5))
(intersect (box :size (vec3 1 1 1)) (box :size (vec3 2 2 2)))
`)
	// 2 boxes + place + union + cylinder + subtract + 2 boxes + intersect
	if g.NodeCount() != 9 {
		t.Fatalf("expected 9 nodes, got %d", g.NodeCount())
	}
	if len(g.Roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(g.Roots))
	}
	if g.Roots[0] != g.Lookup("drilled").ID {
		t.Error("first root should be 'drilled'")
	}
	if errs := graph.Validate(g); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestSharedPrimitive(t *testing.T) {
	g := mustEvaluate(t, `
(def peg (box :size (vec3 1 1 1)))
(union "pegs" (place peg :at (vec3 2 0 0)) (place peg :at (vec3 -2 0 0)))
`)
	// one shared box + 2 transforms + union
	if g.NodeCount() != 4 {
		t.Fatalf("expected 4 nodes, got %d", g.NodeCount())
	}
	if n := len(g.Primitives()); n != 1 {
		t.Errorf("expected 1 primitive, got %d", n)
	}
}

func TestOperationArity(t *testing.T) {
	evalErrorContaining(t, `(union "lonely" (box :size (vec3 1 1 1)))`, "union requires at least 2 solids, got 1")
	evalErrorContaining(t, `(subtract (box :size (vec3 1 1 1)) 7)`, "subtract: operand 2: expected solid")
}

func TestDeterministicIDs(t *testing.T) {
	source := `
(subtract "r" (union (box :size (vec3 1 1 1)) (place (box :size (vec3 1 1 1)) :at (vec3 1 0 0)))
  (cylinder :height 2 :radius 0.2))
`
	g1 := mustEvaluate(t, source)
	g2 := mustEvaluate(t, source)
	if g1.NodeCount() != g2.NodeCount() {
		t.Fatalf("node counts differ: %d vs %d", g1.NodeCount(), g2.NodeCount())
	}
	for id := range g1.Nodes {
		if g2.Get(id) == nil {
			t.Errorf("node %s missing from second evaluation", id.Short())
		}
	}
}

// ---------------------------------------------------------------------------
// Regressions
// ---------------------------------------------------------------------------

func TestEmptySourceStillWorks(t *testing.T) {
	g := mustEvaluate(t, "")
	if g.NodeCount() != 0 {
		t.Errorf("expected empty graph, got %d nodes", g.NodeCount())
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	g := mustEvaluate(t, "(+ 1 2)")
	if g.NodeCount() != 0 {
		t.Errorf("expected empty graph, got %d nodes", g.NodeCount())
	}
}
