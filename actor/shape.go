package actor

import (
	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape carried by a body
type ShapeType int

const (
	// ShapeTypeSphere is a ball: a sphere of Radius around Position.
	ShapeTypeSphere ShapeType = iota
	// ShapeTypeCapsule is an upright player: a capsule whose bone runs
	// HalfHeight below and above Position.
	ShapeTypeCapsule
)

// Shape describes the collision volume of a body relative to its position
type Shape struct {
	Type       ShapeType
	Radius     float64
	HalfHeight float64
}

// ComputeInertia returns the scalar moment of inertia. A ball is treated as
// a thin hollow shell, a player as a solid cylinder spinning about z.
func (s Shape) ComputeInertia(mass float64) float64 {
	switch s.Type {
	case ShapeTypeSphere:
		return 2.0 / 3.0 * mass * s.Radius * s.Radius
	case ShapeTypeCapsule:
		return 0.5 * mass * s.Radius * s.Radius
	}
	return 0
}

// Capsule returns the world capsule of the shape at position.
func (s Shape) Capsule(position mgl64.Vec3) geom.Capsule3 {
	offset := geom.AxisZ.Mul(s.HalfHeight)
	return geom.NewCapsule3(position.Sub(offset), position.Add(offset), s.Radius)
}

// ZCylinder returns the upright cylinder enclosing the shape at position.
func (s Shape) ZCylinder(position mgl64.Vec3) (mgl64.Vec2, geom.FloatRange, float64) {
	reach := s.HalfHeight + s.Radius
	return geom.XY(position), geom.FloatRange{Min: position.Z() - reach, Max: position.Z() + reach}, s.Radius
}
