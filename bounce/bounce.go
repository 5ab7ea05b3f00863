// Package bounce turns contacts into velocity changes.
//
// Each function first pushes the moving body out of the other shape with
// the matching pushout function. Nothing else happens when that push does
// not apply, so resolution and response cannot drift apart. On a contact the
// velocity component along the contact normal is reflected and scaled by
// the product of both restitutions, while the tangential component is
// scaled by (1 - friction). A body already moving away from the contact
// keeps its velocity.
package bounce

import (
	"math"

	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Body3 is the view of a moving sphere needed for a bounce.
type Body3 struct {
	Center      mgl64.Vec3
	Velocity    mgl64.Vec3
	Radius      float64
	Mass        float64
	Restitution float64
}

// Body2 is the 2D counterpart of Body3.
type Body2 struct {
	Center      mgl64.Vec2
	Velocity    mgl64.Vec2
	Radius      float64
	Mass        float64
	Restitution float64
}

// Surface holds the response properties of the shape being hit.
type Surface struct {
	Restitution float64
	Friction    float64
}

// Contact reports a resolved contact. Speed is the approach speed along
// Normal before the bounce, zero when the body was already separating.
type Contact struct {
	Normal mgl64.Vec3
	Speed  float64
}

// reflect3 applies the bounce to v along the unit normal n.
func reflect3(v, n mgl64.Vec3, restitution, friction float64) (mgl64.Vec3, float64) {
	vn := v.Dot(n)
	if vn >= 0 {
		return v, 0
	}
	normal := n.Mul(vn)
	tangent := v.Sub(normal)
	return tangent.Mul(1 - friction).Sub(normal.Mul(restitution)), -vn
}

func reflect2(v, n mgl64.Vec2, restitution, friction float64) (mgl64.Vec2, float64) {
	vn := v.Dot(n)
	if vn >= 0 {
		return v, 0
	}
	normal := n.Mul(vn)
	tangent := v.Sub(normal)
	return tangent.Mul(1 - friction).Sub(normal.Mul(restitution)), -vn
}

// offFixed runs push on the body center and bounces it along the direction
// it was pushed.
func offFixed(body *Body3, surface Surface, push func(center *mgl64.Vec3) bool) (Contact, bool) {
	before := body.Center
	if !push(&body.Center) {
		return Contact{}, false
	}
	n := geom.DirectionOr3(body.Center.Sub(before), geom.AxisX)

	var speed float64
	body.Velocity, speed = reflect3(body.Velocity, n, body.Restitution*surface.Restitution, surface.Friction)
	return Contact{Normal: n, Speed: speed}, true
}

// inverseMasses returns the inverse masses used for a body pair. A static B
// never moves and A takes the whole response, whatever its mass. Otherwise a
// mass that is not positive is treated as equal to the other one, and an
// infinite mass does not move unless both are infinite.
func inverseMasses(massA, massB float64, bStatic bool) (float64, float64) {
	if bStatic {
		return 1, 0
	}
	usable := func(m float64) bool { return m > 0 && !math.IsNaN(m) }
	if !usable(massA) || !usable(massB) {
		massA, massB = 1, 1
	}
	if math.IsInf(massA, 1) && math.IsInf(massB, 1) {
		return 1, 1
	}
	return 1 / massA, 1 / massB
}

// elastic resolves the 1-D collision of the normal speeds ua and ub with
// restitution e. It returns the normal speed changes for both bodies.
func elastic(ua, ub, invA, invB, e float64) (float64, float64) {
	impulse := -(1 + e) * (ua - ub) / (invA + invB)
	return impulse * invA, -impulse * invB
}
