package csg

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/geom"
)

// Corner c of a box has x = c&1, y = c&2, z = c&4 set to the max side.
var boxFaces = []struct {
	corners [4]int
	normal  mgl64.Vec3
}{
	{[4]int{0, 4, 6, 2}, mgl64.Vec3{-1, 0, 0}},
	{[4]int{1, 3, 7, 5}, mgl64.Vec3{1, 0, 0}},
	{[4]int{0, 1, 5, 4}, mgl64.Vec3{0, -1, 0}},
	{[4]int{2, 6, 7, 3}, mgl64.Vec3{0, 1, 0}},
	{[4]int{0, 2, 3, 1}, mgl64.Vec3{0, 0, -1}},
	{[4]int{4, 5, 7, 6}, mgl64.Vec3{0, 0, 1}},
}

var quadUVs = [4]mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Box returns an axis-aligned box centered on center with edge lengths
// size. Each face is one quad with a flat normal and a unit UV square.
func Box(center, size mgl64.Vec3, material int) (*Solid, error) {
	if !(size.X() > 0 && size.Y() > 0 && size.Z() > 0) {
		return nil, fmt.Errorf("%w: box size must be positive, got %v", ErrInvalidArgument, size)
	}
	half := size.Mul(0.5)
	polys := make([]geom.Polygon, 0, len(boxFaces))
	for _, f := range boxFaces {
		vs := make([]geom.Vertex, 4)
		for k, c := range f.corners {
			pos := center.Sub(half)
			if c&1 != 0 {
				pos[0] += size.X()
			}
			if c&2 != 0 {
				pos[1] += size.Y()
			}
			if c&4 != 0 {
				pos[2] += size.Z()
			}
			vs[k] = geom.NewVertex(pos, f.normal, quadUVs[k])
		}
		p, err := geom.NewPolygon(vs, material)
		if err != nil {
			return nil, fmt.Errorf("csg: box face: %w", err)
		}
		polys = append(polys, p)
	}
	return NewSolid(polys), nil
}

// Cylinder returns a cylinder centered on center running along Z, with
// segments side quads and two polygonal caps. Side normals are radial.
func Cylinder(center mgl64.Vec3, height, radius float64, segments, material int) (*Solid, error) {
	if !(height > 0 && radius > 0) {
		return nil, fmt.Errorf("%w: cylinder height and radius must be positive, got %g, %g", ErrInvalidArgument, height, radius)
	}
	if segments < 3 {
		return nil, fmt.Errorf("%w: cylinder needs at least 3 segments, got %d", ErrInvalidArgument, segments)
	}
	h := height / 2
	ring := func(i int) (mgl64.Vec3, float64) {
		a := 2 * math.Pi * float64(i%segments) / float64(segments)
		return mgl64.Vec3{math.Cos(a), math.Sin(a), 0}, float64(i) / float64(segments)
	}
	at := func(dir mgl64.Vec3, z float64) mgl64.Vec3 {
		return center.Add(dir.Mul(radius)).Add(mgl64.Vec3{0, 0, z})
	}

	polys := make([]geom.Polygon, 0, segments+2)
	top := make([]geom.Vertex, segments)
	bottom := make([]geom.Vertex, segments)
	up, down := mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, -1}
	for i := 0; i < segments; i++ {
		d0, u0 := ring(i)
		d1, u1 := ring(i + 1)
		side := []geom.Vertex{
			geom.NewVertex(at(d0, -h), d0, mgl64.Vec2{u0, 0}),
			geom.NewVertex(at(d1, -h), d1, mgl64.Vec2{u1, 0}),
			geom.NewVertex(at(d1, h), d1, mgl64.Vec2{u1, 1}),
			geom.NewVertex(at(d0, h), d0, mgl64.Vec2{u0, 1}),
		}
		p, err := geom.NewPolygon(side, material)
		if err != nil {
			return nil, fmt.Errorf("csg: cylinder side: %w", err)
		}
		polys = append(polys, p)

		uv := mgl64.Vec2{0.5 + 0.5*d0.X(), 0.5 + 0.5*d0.Y()}
		top[i] = geom.NewVertex(at(d0, h), up, uv)
		bottom[segments-1-i] = geom.NewVertex(at(d0, -h), down, uv)
	}
	for _, rim := range [][]geom.Vertex{top, bottom} {
		p, err := geom.NewPolygon(rim, material)
		if err != nil {
			return nil, fmt.Errorf("csg: cylinder cap: %w", err)
		}
		polys = append(polys, p)
	}
	return NewSolid(polys), nil
}
