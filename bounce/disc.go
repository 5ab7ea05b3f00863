package bounce

import (
	"github.com/akmonengine/courtside/geom"
	"github.com/akmonengine/courtside/pushout"
	"github.com/go-gl/mathgl/mgl64"
)

var axisX2 = mgl64.Vec2{1, 0}

// DiscOffPoint2 bounces a disc off a fixed point.
func DiscOffPoint2(body *Body2, p mgl64.Vec2, surface Surface) (Contact, bool) {
	before := body.Center
	if !pushout.DiscOutOfPoint2(&body.Center, body.Radius, p) {
		return Contact{}, false
	}
	n := geom.DirectionOr2(body.Center.Sub(before), axisX2)

	var speed float64
	body.Velocity, speed = reflect2(body.Velocity, n, body.Restitution*surface.Restitution, surface.Friction)
	return Contact{Normal: mgl64.Vec3{n.X(), n.Y(), 0}, Speed: speed}, true
}

// DiscsOffEachOther2 bounces two discs off each other.
func DiscsOffEachOther2(a, b *Body2, bStatic bool) (Contact, bool) {
	before := a.Center
	if !pushout.DiscsOutOfEachOther2(&a.Center, a.Radius, &b.Center, b.Radius, bStatic) {
		return Contact{}, false
	}
	n := geom.DirectionOr2(a.Center.Sub(before), axisX2)

	ua, ub := a.Velocity.Dot(n), b.Velocity.Dot(n)
	contact := Contact{Normal: mgl64.Vec3{n.X(), n.Y(), 0}}
	if ua-ub >= 0 {
		return contact, true
	}
	contact.Speed = ub - ua

	invA, invB := inverseMasses(a.Mass, b.Mass, bStatic)
	da, db := elastic(ua, ub, invA, invB, a.Restitution*b.Restitution)
	a.Velocity = a.Velocity.Add(n.Mul(da))
	b.Velocity = b.Velocity.Add(n.Mul(db))
	return contact, true
}
