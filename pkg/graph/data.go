package graph

import (
	"fmt"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
)

// Vec3 is a plain 3-vector used in node payloads.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v * k.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{v.X * k, v.Y * k, v.Z * k}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// PrimitiveKind distinguishes between primitive shapes.
type PrimitiveKind int

const (
	PrimBox      PrimitiveKind = iota // axis-aligned box
	PrimCylinder                      // cylinder along Z
)

// MaterialDefault as a primitive's Material selects the graph-wide default
// material. Material 0 is an ordinary material.
const MaterialDefault = -1

// BoxData is an axis-aligned box centered on its local origin.
type BoxData struct {
	Size     Vec3 `json:"size"`
	Material int  `json:"material"`
}

func (BoxData) nodeData() {}

// CylinderData is a cylinder along Z centered on its local origin.
// Segments 0 means the graph default.
type CylinderData struct {
	Height   float64 `json:"height"`
	Radius   float64 `json:"radius"`
	Segments int     `json:"segments,omitempty"`
	Material int     `json:"material"`
}

func (CylinderData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData places its single child. Rotation is applied first (Euler
// degrees, X then Y then Z), then Translation.
// Created by the (place ...) form.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData marks an implicit union of the node's children.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}

// ---------------------------------------------------------------------------
// Operation
// ---------------------------------------------------------------------------

// OperationData combines the node's children with a boolean operator. The
// first child is the base; the remaining children are applied to it in
// order.
type OperationData struct {
	Op csg.Op `json:"op"`
}

func (OperationData) nodeData() {}
