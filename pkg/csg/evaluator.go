package csg

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/bsp"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/logging"
)

// Evaluator runs boolean operations with a fixed Config. An Evaluator holds
// no per-operation state and may be used from several goroutines.
type Evaluator struct {
	cfg Config
	log *logrus.Entry
}

// NewEvaluator returns an evaluator using cfg.
func NewEvaluator(cfg Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{cfg: cfg, log: logging.NamedLogger("csg")}, nil
}

var defaultEvaluator = &Evaluator{cfg: DefaultConfig(), log: logging.NamedLogger("csg")}

// Union returns the union of two closed meshes using the default config.
func Union(a, b *kernel.Mesh) (*kernel.Mesh, error) { return defaultEvaluator.Union(a, b) }

// Subtract returns a minus b using the default config.
func Subtract(a, b *kernel.Mesh) (*kernel.Mesh, error) { return defaultEvaluator.Subtract(a, b) }

// Intersect returns the intersection of two closed meshes using the default
// config.
func Intersect(a, b *kernel.Mesh) (*kernel.Mesh, error) { return defaultEvaluator.Intersect(a, b) }

// Config returns the evaluator settings.
func (e *Evaluator) Config() Config { return e.cfg }

// Union returns the union of a and b.
func (e *Evaluator) Union(a, b *kernel.Mesh) (*kernel.Mesh, error) { return e.Apply(OpUnion, a, b) }

// Subtract returns a minus b.
func (e *Evaluator) Subtract(a, b *kernel.Mesh) (*kernel.Mesh, error) {
	return e.Apply(OpSubtract, a, b)
}

// Intersect returns the intersection of a and b.
func (e *Evaluator) Intersect(a, b *kernel.Mesh) (*kernel.Mesh, error) {
	return e.Apply(OpIntersect, a, b)
}

// Apply evaluates op on two meshes. Both meshes must be non-nil, non-empty
// and well formed; otherwise the returned error wraps ErrInvalidArgument.
// The inputs are not modified.
func (e *Evaluator) Apply(op Op, a, b *kernel.Mesh) (*kernel.Mesh, error) {
	if _, ok := opNames[op]; !ok {
		return nil, fmt.Errorf("%w: unknown operation %d", ErrInvalidArgument, int(op))
	}
	sa, err := operand("a", a)
	if err != nil {
		return nil, fmt.Errorf("csg: %s: %w", op, err)
	}
	sb, err := operand("b", b)
	if err != nil {
		return nil, fmt.Errorf("csg: %s: %w", op, err)
	}
	return BuildMesh(e.ApplySolids(op, sa, sb)), nil
}

func operand(name string, m *kernel.Mesh) (*Solid, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: mesh %s is nil", ErrInvalidArgument, name)
	}
	if m.IsEmpty() {
		return nil, fmt.Errorf("%w: mesh %s is empty", ErrInvalidArgument, name)
	}
	s, err := FromMesh(m, 0)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", name, err)
	}
	return s, nil
}

// UnionSolids returns the union of two solids.
func (e *Evaluator) UnionSolids(a, b *Solid) *Solid { return e.ApplySolids(OpUnion, a, b) }

// SubtractSolids returns a minus b.
func (e *Evaluator) SubtractSolids(a, b *Solid) *Solid { return e.ApplySolids(OpSubtract, a, b) }

// IntersectSolids returns the intersection of two solids.
func (e *Evaluator) IntersectSolids(a, b *Solid) *Solid { return e.ApplySolids(OpIntersect, a, b) }

// ApplySolids evaluates op on two solids. Empty operands are allowed. An
// unknown op yields an empty solid.
func (e *Evaluator) ApplySolids(op Op, a, b *Solid) *Solid {
	start := time.Now()
	out, shortcut := e.apply(op, a, b)
	e.log.WithFields(logrus.Fields{
		"op":       op.String(),
		"a":        a.Len(),
		"b":        b.Len(),
		"result":   out.Len(),
		"shortcut": shortcut,
		"elapsed":  time.Since(start),
	}).Debug("boolean evaluated")
	return out
}

func (e *Evaluator) apply(op Op, a, b *Solid) (out *Solid, shortcut bool) {
	if r, ok := e.disjoint(op, a, b); ok {
		return r, true
	}

	ta := bsp.Build(a.Polygons(), e.cfg.Epsilon)
	tb := bsp.Build(b.Polygons(), e.cfg.Epsilon)
	switch op {
	case OpUnion:
		union(ta, tb)
	case OpSubtract:
		ta.Invert()
		union(ta, tb)
		ta.Invert()
	case OpIntersect:
		ta.Invert()
		tb.ClipTo(ta)
		tb.Invert()
		ta.ClipTo(tb)
		tb.ClipTo(ta)
		ta.Add(tb.AllPolygons())
		ta.Invert()
	default:
		return NewSolid(nil), false
	}
	return NewSolid(ta.Polygons()), false
}

// union merges tb into ta, leaving ta holding the boundary of A ∪ B.
func union(ta, tb *bsp.Tree) {
	ta.ClipTo(tb)
	tb.ClipTo(ta)
	tb.Invert()
	tb.ClipTo(ta)
	tb.Invert()
	ta.Add(tb.AllPolygons())
}

// disjoint answers op without building trees when an operand is empty or
// the operand bounds are separated by more than epsilon.
func (e *Evaluator) disjoint(op Op, a, b *Solid) (*Solid, bool) {
	amin, amax, aok := a.Bounds()
	bmin, bmax, bok := b.Bounds()
	if aok && bok && overlaps(amin, amax, bmin, bmax, e.cfg.Epsilon) {
		return nil, false
	}
	switch op {
	case OpUnion:
		return Concat(a, b), true
	case OpSubtract:
		return Concat(a, nil), true
	case OpIntersect:
		return NewSolid(nil), true
	}
	return nil, false
}

func overlaps(amin, amax, bmin, bmax mgl64.Vec3, eps float64) bool {
	for i := 0; i < 3; i++ {
		if amax[i] < bmin[i]-eps || bmax[i] < amin[i]-eps {
			return false
		}
	}
	return true
}
