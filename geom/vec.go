// Package geom holds the primitive shapes used by the collision code and the
// pure containment, nearest-point and overlap queries built on them.
//
// All shapes are plain values. Spheres, discs and z-aligned cylinders have no
// owning type: they are always passed as a center, a radius and (for
// cylinders) a z range.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// AxisX is the fallback separation direction for degenerate 3D cases.
	AxisX = mgl64.Vec3{1, 0, 0}
	// AxisZ is the world up-axis.
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// FloatRange is a closed interval of scalars. Min must not exceed Max.
type FloatRange struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the range, boundaries included.
func (r FloatRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Overlaps reports whether two ranges share interior. Touching ranges do
// not overlap.
func (r FloatRange) Overlaps(other FloatRange) bool {
	return r.Max > other.Min && r.Min < other.Max
}

// Translate returns the range shifted by d.
func (r FloatRange) Translate(d float64) FloatRange {
	return FloatRange{Min: r.Min + d, Max: r.Max + d}
}

// Clamp returns v clamped to the range.
func (r FloatRange) Clamp(v float64) float64 {
	return mgl64.Clamp(v, r.Min, r.Max)
}

// SafeNormalize3 returns v scaled to unit length, or the zero vector when v
// has no usable length.
func SafeNormalize3(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsInf(l, 0) || math.IsNaN(l) {
		return mgl64.Vec3{}
	}
	return v.Mul(1.0 / l)
}

// SafeNormalize2 is the 2D counterpart of SafeNormalize3.
func SafeNormalize2(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l == 0 || math.IsInf(l, 0) || math.IsNaN(l) {
		return mgl64.Vec2{}
	}
	return v.Mul(1.0 / l)
}

// DirectionOr3 normalizes v, returning fallback when v is degenerate.
func DirectionOr3(v, fallback mgl64.Vec3) mgl64.Vec3 {
	n := SafeNormalize3(v)
	if n == (mgl64.Vec3{}) {
		return fallback
	}
	return n
}

// DirectionOr2 normalizes v, returning fallback when v is degenerate.
func DirectionOr2(v, fallback mgl64.Vec2) mgl64.Vec2 {
	n := SafeNormalize2(v)
	if n == (mgl64.Vec2{}) {
		return fallback
	}
	return n
}

// Perp2 rotates v by +90 degrees.
func Perp2(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// XY drops the z component.
func XY(v mgl64.Vec3) mgl64.Vec2 {
	return mgl64.Vec2{v.X(), v.Y()}
}

func clamp01(t float64) float64 {
	return mgl64.Clamp(t, 0, 1)
}
