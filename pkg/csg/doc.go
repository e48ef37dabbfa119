// Package csg evaluates boolean operations on closed triangle meshes.
//
// Each operand is converted to convex polygons, partitioned into a BSP
// tree, and the two trees are clipped against each other. All three
// operators are built from the same two tree primitives, ClipTo and Invert:
//
//	Union:     A.ClipTo(B); B.ClipTo(A); B.Invert(); B.ClipTo(A); B.Invert(); A += B
//	Subtract:  A.Invert(); Union steps; Invert()
//	Intersect: A.Invert(); B.ClipTo(A); B.Invert(); A.ClipTo(B); B.ClipTo(A); A += B; Invert()
//
// Faces are never merged back into larger polygons; the output is the fan
// triangulation of the surviving convex fragments.
//
// Config.Epsilon is the single tolerance for coplanarity. It should be a
// small fraction of the smallest feature in the scene: too small and
// coplanar faces crack into slivers, too large and thin walls collapse.
package csg
