// Package bsp implements the solid BSP tree used by the boolean evaluator.
//
// Nodes live in an arena owned by the tree and refer to their children by
// index. Polygons stored in a tree are treated as immutable values: every
// operation that changes a polygon replaces it, so vertex slices may be
// shared between trees.
package bsp

import (
	"iter"
	"slices"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/geom"
)

const none = -1

type node struct {
	plane    geom.Plane
	polygons []geom.Polygon
	front    int
	back     int
}

// Tree is a BSP tree over convex polygons. The zero value is not usable;
// create trees with New or Build.
type Tree struct {
	nodes []node
	root  int
	eps   float64
}

// New returns an empty tree that classifies with tolerance eps.
func New(eps float64) *Tree {
	return &Tree{root: none, eps: eps}
}

// Build returns a tree containing polys. The first polygon of each list
// supplies the splitting plane of the node it lands in.
func Build(polys []geom.Polygon, eps float64) *Tree {
	t := New(eps)
	t.insert(polys)
	return t
}

// Add inserts more polygons into the tree. The sequence is drained before
// the tree changes, so it may come from t itself.
func (t *Tree) Add(seq iter.Seq[geom.Polygon]) {
	t.insert(slices.Collect(seq))
}

// Epsilon returns the classification tolerance.
func (t *Tree) Epsilon() float64 { return t.eps }

// Len returns the number of polygons stored in the tree.
func (t *Tree) Len() int {
	n := 0
	for i := range t.nodes {
		n += len(t.nodes[i].polygons)
	}
	return n
}

// NodeCount returns the number of nodes, including nodes whose polygon
// list has been emptied by clipping.
func (t *Tree) NodeCount() int { return len(t.nodes) }

func (t *Tree) newNode(plane geom.Plane) int {
	t.nodes = append(t.nodes, node{plane: plane, front: none, back: none})
	return len(t.nodes) - 1
}

type work struct {
	n     int
	polys []geom.Polygon
}

func (t *Tree) insert(polys []geom.Polygon) {
	if len(polys) == 0 {
		return
	}
	if t.root == none {
		t.root = t.newNode(polys[0].Plane)
	}
	stack := []work{{t.root, polys}}
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var front, back []geom.Polygon
		nd := &t.nodes[w.n]
		for _, p := range w.polys {
			nd.plane.SplitInto(p, t.eps, geom.Buckets{
				CoplanarFront: &nd.polygons,
				CoplanarBack:  &nd.polygons,
				Front:         &front,
				Back:          &back,
			})
		}
		if len(front) > 0 {
			if t.nodes[w.n].front == none {
				c := t.newNode(front[0].Plane)
				t.nodes[w.n].front = c
			}
			stack = append(stack, work{t.nodes[w.n].front, front})
		}
		if len(back) > 0 {
			if t.nodes[w.n].back == none {
				c := t.newNode(back[0].Plane)
				t.nodes[w.n].back = c
			}
			stack = append(stack, work{t.nodes[w.n].back, back})
		}
	}
}

// AllPolygons yields every stored polygon in pre-order: a node's own
// polygons, then its front subtree, then its back subtree. The sequence
// can be ranged over any number of times; it must not be ranged over while
// the tree is being modified.
func (t *Tree) AllPolygons() iter.Seq[geom.Polygon] {
	return func(yield func(geom.Polygon) bool) {
		if t.root == none {
			return
		}
		stack := []int{t.root}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			nd := &t.nodes[i]
			for _, p := range nd.polygons {
				if !yield(p) {
					return
				}
			}
			if nd.back != none {
				stack = append(stack, nd.back)
			}
			if nd.front != none {
				stack = append(stack, nd.front)
			}
		}
	}
}

// Polygons returns AllPolygons collected into a slice.
func (t *Tree) Polygons() []geom.Polygon {
	return slices.Collect(t.AllPolygons())
}

// ClipPolygons removes the parts of polys that lie inside the solid the tree
// describes. Polygons coplanar with a node plane follow their orientation:
// same-facing ones go down the front side, opposed ones the back side.
// Whatever reaches a missing front child is outside and kept; whatever
// reaches a missing back child is inside and removed. An empty tree keeps
// everything.
func (t *Tree) ClipPolygons(polys []geom.Polygon) []geom.Polygon {
	if t.root == none {
		return slices.Clone(polys)
	}
	var out []geom.Polygon
	stack := []work{{t.root, polys}}
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nd := &t.nodes[w.n]
		var front, back []geom.Polygon
		for _, p := range w.polys {
			nd.plane.SplitInto(p, t.eps, geom.Buckets{
				CoplanarFront: &front,
				CoplanarBack:  &back,
				Front:         &front,
				Back:          &back,
			})
		}
		if len(back) > 0 && nd.back != none {
			stack = append(stack, work{nd.back, back})
		}
		if len(front) > 0 {
			if nd.front != none {
				stack = append(stack, work{nd.front, front})
			} else {
				out = append(out, front...)
			}
		}
	}
	return out
}

// ClipTo removes from t every polygon part that lies inside other. Nodes
// keep their planes even when their polygon list empties.
func (t *Tree) ClipTo(other *Tree) {
	for i := range t.nodes {
		nd := &t.nodes[i]
		if len(nd.polygons) == 0 {
			continue
		}
		clipped := other.ClipPolygons(nd.polygons)
		if len(clipped) == 0 {
			clipped = nil
		}
		nd.polygons = clipped
	}
}

// Invert turns the solid inside out: every polygon and plane is flipped and
// every node's children are swapped.
func (t *Tree) Invert() {
	for i := range t.nodes {
		nd := &t.nodes[i]
		for j, p := range nd.polygons {
			nd.polygons[j] = p.Flip()
		}
		nd.plane = nd.plane.Flip()
		nd.front, nd.back = nd.back, nd.front
	}
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	c := &Tree{root: t.root, eps: t.eps, nodes: make([]node, len(t.nodes))}
	for i, nd := range t.nodes {
		ps := make([]geom.Polygon, len(nd.polygons))
		for j, p := range nd.polygons {
			ps[j] = p.Clone()
		}
		if len(ps) == 0 {
			ps = nil
		}
		nd.polygons = ps
		c.nodes[i] = nd
	}
	return c
}
