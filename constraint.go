package uvplane

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type ConstraintKind int

const (
	ConstrainOmni ConstraintKind = iota
	ConstrainVector
	ConstrainPlane
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstrainOmni:
		return "omni"
	case ConstrainVector:
		return "vector"
	case ConstrainPlane:
		return "plane"
	}
	return fmt.Sprintf("ConstraintKind(%d)", int(k))
}

// Constraint restricts a drag to a line, a plane or leaves it free. It is a
// plain value: layout replaces a handle's constraint rather than editing it,
// so a copy taken at drag start never changes under the drag.
type Constraint struct {
	Kind      ConstraintKind
	Direction mgl64.Vec3
	Origin    mgl64.Vec3
	Normal    mgl64.Vec3
}

func OmniConstraint() Constraint {
	return Constraint{Kind: ConstrainOmni}
}

func VectorConstraint(dir mgl64.Vec3) Constraint {
	return Constraint{Kind: ConstrainVector, Direction: dir}
}

func PlaneConstraint(origin, normal mgl64.Vec3) Constraint {
	return Constraint{Kind: ConstrainPlane, Origin: origin, Normal: normal}
}

// Constrain maps the free drag vector offset onto the constraint. viewDir is
// the direction of the pick ray that produced it.
func (c Constraint) Constrain(offset, viewDir mgl64.Vec3) mgl64.Vec3 {
	switch c.Kind {
	case ConstrainVector:
		s, ok := ClosestPointToLine(vecZero, c.Direction, offset, viewDir)
		if !ok {
			// Axis seen end on.
			return Project(offset, c.Direction)
		}
		return c.Direction.Mul(s)

	case ConstrainPlane:
		if c.Normal.LenSqr() == 0 {
			return offset
		}
		s, ok := IsectLinePlane(offset, viewDir, c.Origin, c.Normal)
		if !ok {
			// Plane seen edge on.
			return ProjectPointOntoPlane(offset, c.Origin, c.Normal)
		}
		return offset.Add(viewDir.Mul(s))
	}
	return offset
}

func (c Constraint) String() string {
	switch c.Kind {
	case ConstrainVector:
		return fmt.Sprintf("vector%v", c.Direction)
	case ConstrainPlane:
		return fmt.Sprintf("plane%v%v", c.Origin, c.Normal)
	}
	return c.Kind.String()
}
