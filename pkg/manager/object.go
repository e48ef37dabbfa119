package manager

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel/brep"
)

var (
	// ErrInvalidObject is returned by Add for objects that cannot be built.
	ErrInvalidObject = errors.New("manager: invalid object")
	// ErrNotFound is returned when an object ID is not in the scene.
	ErrNotFound = errors.New("manager: object not found")
	// ErrSuperseded is returned by Rebuild when a newer rebuild was requested
	// while it ran; its mesh is discarded.
	ErrSuperseded = errors.New("manager: rebuild superseded by a newer request")
)

// Role says how an object takes part in the result.
type Role int

const (
	RoleSource Role = iota // added to the result
	RoleHole               // cut from the sources
)

func (r Role) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleHole:
		return "hole"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Object is a box in the scene. Size is the full extent along each local
// axis; the box is rotated about its center (Euler degrees, X then Y then Z)
// and then moved to Position.
type Object struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Role     Role       `json:"role"`
	Size     mgl64.Vec3 `json:"size"`
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Vec3 `json:"rotation"`
	Material int        `json:"material"`
}

func (o Object) validate() error {
	for i := 0; i < 3; i++ {
		if !(o.Size[i] > 0) {
			return fmt.Errorf("%w: %q has size %v", ErrInvalidObject, o.Name, o.Size)
		}
	}
	if o.Role != RoleSource && o.Role != RoleHole {
		return fmt.Errorf("%w: %q has unknown role %v", ErrInvalidObject, o.Name, o.Role)
	}
	return nil
}

// Matrix returns the object-to-world transform.
func (o Object) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(o.Position[0], o.Position[1], o.Position[2]).
		Mul4(brep.RotationMatrix(o.Rotation[0], o.Rotation[1], o.Rotation[2]))
}

// Solid builds the object in world space.
func (o Object) Solid() (*csg.Solid, error) {
	s, err := csg.Box(mgl64.Vec3{}, o.Size, o.Material)
	if err != nil {
		return nil, err
	}
	return s.Transform(o.Matrix()), nil
}
