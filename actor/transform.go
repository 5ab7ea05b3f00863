package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and an orientation in 3D space.
//
// Spinning bodies are oriented by Rotation. Everything else is oriented by
// EulerAngles, stored as (yaw, pitch, roll) in radians.
type Transform struct {
	Position    mgl64.Vec3
	Rotation    mgl64.Quat
	EulerAngles mgl64.Vec3
}

// NewTransform creates an identity transform at position
func NewTransform(position mgl64.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: mgl64.QuatIdent(),
	}
}

// EulerRotation converts EulerAngles to a quaternion: yaw about z, then
// pitch about y, then roll about x.
func (t Transform) EulerRotation() mgl64.Quat {
	return mgl64.AnglesToQuat(t.EulerAngles.X(), t.EulerAngles.Y(), t.EulerAngles.Z(), mgl64.ZYX)
}
