// Package geom holds the polygon-level geometry shared by the BSP tree and
// the boolean evaluator: interpolable vertices, oriented planes, convex
// polygons and the plane splitter.
package geom
