package graph

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Geometric validation: errors and warnings
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *SceneGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateBoxDimensions(g)...)
	errs = append(errs, validateCylinders(g)...)
	errs = append(errs, validateMaterials(g)...)
	errs = append(errs, validateTransformValues(g)...)

	warnings = append(warnings, validateEmptyContainers(g)...)

	return errs, warnings
}

// validateBoxDimensions checks that every BoxData has positive X, Y, Z.
func validateBoxDimensions(g *SceneGraph) []ValidationError {
	var errs []ValidationError

	for _, id := range sortedIDs(g) {
		bd, ok := g.Nodes[id].Data.(BoxData)
		if !ok {
			continue
		}
		for _, axis := range []struct {
			name string
			v    float64
		}{{"X", bd.Size.X}, {"Y", bd.Size.Y}, {"Z", bd.Size.Z}} {
			if !(axis.v > 0) {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  fmt.Sprintf("box size %s is %.4f, must be positive", axis.name, axis.v),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateMaterials rejects negative materials other than MaterialDefault.
func validateMaterials(g *SceneGraph) []ValidationError {
	var errs []ValidationError

	for _, id := range sortedIDs(g) {
		var material int
		switch d := g.Nodes[id].Data.(type) {
		case BoxData:
			material = d.Material
		case CylinderData:
			material = d.Material
		default:
			continue
		}
		if material < MaterialDefault {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("material %d is negative", material),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateCylinders checks cylinder height, radius and segment count.
// Segments 0 selects the graph default and is accepted.
func validateCylinders(g *SceneGraph) []ValidationError {
	var errs []ValidationError

	for _, id := range sortedIDs(g) {
		cd, ok := g.Nodes[id].Data.(CylinderData)
		if !ok {
			continue
		}
		if !(cd.Height > 0) {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cylinder height is %.4f, must be positive", cd.Height),
				Severity: SeverityError,
			})
		}
		if !(cd.Radius > 0) {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cylinder radius is %.4f, must be positive", cd.Radius),
				Severity: SeverityError,
			})
		}
		if cd.Segments != 0 && cd.Segments < 3 {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cylinder has %d segments, need at least 3", cd.Segments),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

func finite(v *Vec3) bool {
	if v == nil {
		return true
	}
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// validateTransformValues rejects NaN or infinite placements.
func validateTransformValues(g *SceneGraph) []ValidationError {
	var errs []ValidationError

	for _, id := range sortedIDs(g) {
		td, ok := g.Nodes[id].Data.(TransformData)
		if !ok {
			continue
		}
		if !finite(td.Translation) || !finite(td.Rotation) {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "transform has a non-finite component",
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateEmptyContainers warns about transforms and groups without
// children; they evaluate to nothing.
func validateEmptyContainers(g *SceneGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, id := range sortedIDs(g) {
		n := g.Nodes[id]
		if len(n.Children) > 0 {
			continue
		}
		switch n.Kind {
		case NodeTransform:
			warnings = append(warnings, ValidationWarning{
				NodeID:  id,
				Message: "transform has no child and produces no geometry",
			})
		case NodeGroup:
			warnings = append(warnings, ValidationWarning{
				NodeID:  id,
				Message: "group has no children and produces no geometry",
			})
		}
	}

	return warnings
}
