package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/graph"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: def-solid -> def_solid
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPrimitive wraps primitive node data returned from `box` and
// `cylinder`. It becomes a graph node the first time another form consumes
// it, so a primitive bound with def and used twice is one shared node.
type sexpPrimitive struct {
	data graph.NodeData
	id   graph.NodeID
}

func (p *sexpPrimitive) SexpString(ps *zygo.PrintState) string {
	switch d := p.data.(type) {
	case graph.BoxData:
		return fmt.Sprintf("(box %gx%gx%g)", d.Size.X, d.Size.Y, d.Size.Z)
	case graph.CylinderData:
		return fmt.Sprintf("(cylinder h=%g r=%g)", d.Height, d.Radius)
	}
	return "(primitive)"
}
func (p *sexpPrimitive) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected integer, got %g", f)
	}
	return int(f), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return graph.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a NodeID from a node reference, adding pending
// primitives to the graph as anonymous nodes. A consumed reference is no
// longer a root: only top-level results are rendered.
func toNodeRef(b *graph.Builder, s zygo.Sexp) (graph.NodeID, error) {
	switch v := s.(type) {
	case *sexpNodeRef:
		b.Graph().RemoveRoot(v.id)
		return v.id, nil
	case *sexpPrimitive:
		return materialize(b, v, ""), nil
	}
	return graph.ZeroID, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// materialize adds p to the graph under name unless it is already there.
func materialize(b *graph.Builder, p *sexpPrimitive, name string) graph.NodeID {
	if !p.id.IsZero() {
		return p.id
	}
	switch d := p.data.(type) {
	case graph.BoxData:
		p.id = b.Box(name, d.Size, d.Material)
	case graph.CylinderData:
		p.id = b.Cylinder(name, d)
	}
	return p.id
}

// optFloat reads an optional numeric keyword into dst.
func optFloat(pa kwArgs, form, key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", form, key, err)
	}
	*dst = f
	return nil
}

// optInt reads an optional integer keyword into dst.
func optInt(pa kwArgs, form, key string, dst *int) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", form, key, err)
	}
	*dst = n
	return nil
}

// optMaterial reads :material, leaving dst untouched when absent.
func optMaterial(pa kwArgs, form string, dst *int) error {
	if _, ok := pa.kw["material"]; !ok {
		return nil
	}
	var n int
	if err := optInt(pa, form, "material", &n); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%s: material must not be negative, got %d", form, n)
	}
	*dst = n
	return nil
}

// optVec3 reads an optional vec3 keyword; nil when absent.
func optVec3(pa kwArgs, form, key string) (*graph.Vec3, error) {
	v, ok := pa.kw[key]
	if !ok {
		return nil, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", form, key, err)
	}
	return &vec, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into a zygomys environment.
// The builtins add nodes through b during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *graph.Builder) {
	g := b.Graph()

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var vec [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			vec[i] = f
		}

		return &sexpVec3{vec: graph.Vec3{X: vec[0], Y: vec[1], Z: vec[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (box :size (vec3 2 1 1) :material 1)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		bd := graph.BoxData{Material: graph.MaterialDefault}

		size, err := optVec3(pa, "box", "size")
		if err != nil {
			return zygo.SexpNull, err
		}
		if size == nil {
			return zygo.SexpNull, fmt.Errorf("box requires :size")
		}
		bd.Size = *size
		if err := optMaterial(pa, "box", &bd.Material); err != nil {
			return zygo.SexpNull, err
		}

		return &sexpPrimitive{data: bd}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 2 :radius 0.5 :segments 24 :material 2)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		cd := graph.CylinderData{Material: graph.MaterialDefault}

		if _, ok := pa.kw["height"]; !ok {
			return zygo.SexpNull, fmt.Errorf("cylinder requires :height")
		}
		if _, ok := pa.kw["radius"]; !ok {
			return zygo.SexpNull, fmt.Errorf("cylinder requires :radius")
		}
		if err := optFloat(pa, "cylinder", "height", &cd.Height); err != nil {
			return zygo.SexpNull, err
		}
		if err := optFloat(pa, "cylinder", "radius", &cd.Radius); err != nil {
			return zygo.SexpNull, err
		}
		if err := optInt(pa, "cylinder", "segments", &cd.Segments); err != nil {
			return zygo.SexpNull, err
		}
		if err := optMaterial(pa, "cylinder", &cd.Material); err != nil {
			return zygo.SexpNull, err
		}

		return &sexpPrimitive{data: cd}, nil
	})

	// -----------------------------------------------------------------------
	// (defsolid "name" expr)
	// -----------------------------------------------------------------------
	env.AddFunction("defsolid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defsolid requires a name and a body expression")
		}

		solidName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsolid: name: %w", err)
		}
		if g.Lookup(solidName) != nil {
			return zygo.SexpNull, fmt.Errorf("defsolid: solid %q already defined", solidName)
		}

		var id graph.NodeID
		switch body := args[1].(type) {
		case *sexpPrimitive:
			if body.id.IsZero() {
				id = materialize(b, body, solidName)
				break
			}
			id = b.Group(solidName, body.id)
		case *sexpNodeRef:
			g.RemoveRoot(body.id)
			id = b.Group(solidName, body.id)
		default:
			return zygo.SexpNull, fmt.Errorf("defsolid: expected solid expression, got %T", args[1])
		}

		return &sexpNodeRef{id: id, name: solidName}, nil
	})

	// -----------------------------------------------------------------------
	// (solid "name")
	// -----------------------------------------------------------------------
	env.AddFunction("solid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("solid requires a name argument")
		}

		solidName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid: name: %w", err)
		}

		n := g.Lookup(solidName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("solid: no solid named %q", solidName)
		}

		return &sexpNodeRef{id: n.ID, name: solidName}, nil
	})

	// -----------------------------------------------------------------------
	// (place (solid "peg") :at (vec3 0 0 1) :rotate (vec3 0 0 45))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a solid as first argument")
		}

		childID, err := toNodeRef(b, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}

		at, err := optVec3(pa, "place", "at")
		if err != nil {
			return zygo.SexpNull, err
		}
		rotate, err := optVec3(pa, "place", "rotate")
		if err != nil {
			return zygo.SexpNull, err
		}

		return &sexpNodeRef{id: b.Place(childID, at, rotate)}, nil
	})

	// -----------------------------------------------------------------------
	// (union "name" a b ...), (subtract "name" base tool ...),
	// (intersect "name" a b ...). The name is optional.
	// -----------------------------------------------------------------------
	for _, op := range []csg.Op{csg.OpUnion, csg.OpSubtract, csg.OpIntersect} {
		env.AddFunction(op.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			var opName string
			if len(args) > 0 {
				if s, ok := args[0].(*zygo.SexpStr); ok {
					if _, kw := isKW(s); !kw {
						opName = s.S
						args = args[1:]
					}
				}
			}
			if opName != "" && g.Lookup(opName) != nil {
				return zygo.SexpNull, fmt.Errorf("%s: solid %q already defined", op, opName)
			}
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least 2 solids, got %d", op, len(args))
			}

			children := make([]graph.NodeID, 0, len(args))
			for i, a := range args {
				id, err := toNodeRef(b, a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", op, i+1, err)
				}
				children = append(children, id)
			}

			id := b.Operation(opName, op, children...)
			b.Root(id)

			return &sexpNodeRef{id: id, name: opName}, nil
		})
	}
}
