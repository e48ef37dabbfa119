// Package graph defines the CSG scene graph.
// The scene graph is an immutable DAG of primitives, transforms, groups
// and boolean operations. Each evaluation of a script produces a new graph;
// pkg/tessellate turns its roots into meshes through a kernel.
package graph
