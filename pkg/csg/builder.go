package csg

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/geom"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel"
)

// minTriangleArea2 is twice the area below which a fan triangle is skipped.
// Fans over vertices inserted on an edge produce such triangles.
const minTriangleArea2 = 1e-14

// BuildMesh triangulates s into a render mesh. Each polygon is fanned from
// its first vertex; vertices are emitted per polygon with their stored
// normals and UVs. Triangles are grouped by material in ascending material
// order. An empty solid yields an empty mesh.
func BuildMesh(s *Solid) *kernel.Mesh {
	m := &kernel.Mesh{
		Vertices: []float32{},
		Normals:  []float32{},
		UVs:      []float32{},
		Indices:  []uint32{},
	}
	byMaterial := lo.GroupBy(s.Polygons(), func(p geom.Polygon) int { return p.Material })
	materials := lo.Keys(byMaterial)
	slices.Sort(materials)

	for _, mat := range materials {
		start := len(m.Indices)
		for _, p := range byMaterial[mat] {
			appendPolygon(m, p)
		}
		if n := len(m.Indices) - start; n > 0 {
			m.Groups = append(m.Groups, kernel.Group{Material: mat, Start: start, Count: n})
		}
	}
	return m
}

func appendPolygon(m *kernel.Mesh, p geom.Polygon) {
	base := uint32(m.VertexCount())
	for _, v := range p.Vertices {
		m.Vertices = append(m.Vertices, float32(v.Pos.X()), float32(v.Pos.Y()), float32(v.Pos.Z()))
		m.Normals = append(m.Normals, float32(v.Normal.X()), float32(v.Normal.Y()), float32(v.Normal.Z()))
		m.UVs = append(m.UVs, float32(v.UV.X()), float32(v.UV.Y()))
	}
	o := p.Vertices[0].Pos
	for i := 1; i+1 < len(p.Vertices); i++ {
		a, b := p.Vertices[i].Pos, p.Vertices[i+1].Pos
		if a.Sub(o).Cross(b.Sub(o)).Len() < minTriangleArea2 {
			continue
		}
		m.Indices = append(m.Indices, base, base+uint32(i), base+uint32(i+1))
	}
}

// FromMesh converts a triangle mesh into a solid with one polygon per
// triangle. A triangle takes the material of the group covering it, or
// material when no group does. Missing normals are replaced by the face
// normal; missing UVs are zero. Zero-area triangles are skipped.
func FromMesh(m *kernel.Mesh, material int) (*Solid, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: mesh is nil", ErrInvalidArgument)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	hasNormals := len(m.Normals) == len(m.Vertices)
	hasUVs := len(m.UVs) == 2*m.VertexCount()

	polys := make([]geom.Polygon, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		vs := make([]geom.Vertex, 3)
		for k := 0; k < 3; k++ {
			i := int(m.Indices[3*t+k])
			vs[k].Pos = mgl64.Vec3(m.Position(i))
			if hasNormals {
				vs[k].Normal = mgl64.Vec3{float64(m.Normals[3*i]), float64(m.Normals[3*i+1]), float64(m.Normals[3*i+2])}
			}
			if hasUVs {
				vs[k].UV = mgl64.Vec2{float64(m.UVs[2*i]), float64(m.UVs[2*i+1])}
			}
		}
		mat := material
		if gm, ok := m.MaterialOf(t); ok {
			mat = gm
		}
		p, err := geom.NewPolygon(vs, mat)
		if err != nil {
			continue
		}
		if !hasNormals {
			for k := range p.Vertices {
				p.Vertices[k].Normal = p.Plane.Normal
			}
		}
		polys = append(polys, p)
	}
	return NewSolid(polys), nil
}
