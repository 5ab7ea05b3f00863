// Package raycast intersects rays with the geom primitives.
//
// Every function is a single-shot query. A ray whose origin is already
// inside the shape reports an impact at distance 0 with the normal facing
// back along the ray. Impacts beyond the ray's maximum length are misses.
package raycast

import (
	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Ray3 is a bounded 3D ray. Direction is normalized by the functions that
// take it; a zero direction can only hit from inside a shape.
type Ray3 struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	MaxLength float64
}

// Ray2 is the 2D counterpart of Ray3.
type Ray2 struct {
	Origin    mgl64.Vec2
	Direction mgl64.Vec2
	MaxLength float64
}

// Result3 describes a raycast. Fields other than DidImpact and the echoed
// ray are only meaningful when DidImpact is true.
type Result3 struct {
	DidImpact bool
	Distance  float64
	Position  mgl64.Vec3
	Normal    mgl64.Vec3

	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	MaxLength float64
}

// Result2 is the 2D counterpart of Result3.
type Result2 struct {
	DidImpact bool
	Distance  float64
	Position  mgl64.Vec2
	Normal    mgl64.Vec2

	Origin    mgl64.Vec2
	Direction mgl64.Vec2
	MaxLength float64
}

func (r Ray3) normalized() Ray3 {
	r.Direction = geom.SafeNormalize3(r.Direction)
	return r
}

func (r Ray2) normalized() Ray2 {
	r.Direction = geom.SafeNormalize2(r.Direction)
	return r
}

func (r Ray3) at(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

func (r Ray2) at(t float64) mgl64.Vec2 {
	return r.Origin.Add(r.Direction.Mul(t))
}

func miss3(r Ray3) Result3 {
	return Result3{Origin: r.Origin, Direction: r.Direction, MaxLength: r.MaxLength}
}

func miss2(r Ray2) Result2 {
	return Result2{Origin: r.Origin, Direction: r.Direction, MaxLength: r.MaxLength}
}

func hit3(r Ray3, t float64, normal mgl64.Vec3) Result3 {
	res := miss3(r)
	res.DidImpact = true
	res.Distance = t
	res.Position = r.at(t)
	res.Normal = normal
	return res
}

func hit2(r Ray2, t float64, normal mgl64.Vec2) Result2 {
	res := miss2(r)
	res.DidImpact = true
	res.Distance = t
	res.Position = r.at(t)
	res.Normal = normal
	return res
}

func inside3(r Ray3) Result3 {
	return hit3(r, 0, r.Direction.Mul(-1))
}

func inside2(r Ray2) Result2 {
	return hit2(r, 0, r.Direction.Mul(-1))
}

func inReach(t, maxLength float64) bool {
	return t >= 0 && t <= maxLength
}
