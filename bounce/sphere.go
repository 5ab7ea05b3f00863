package bounce

import (
	"github.com/akmonengine/courtside/geom"
	"github.com/akmonengine/courtside/pushout"
	"github.com/go-gl/mathgl/mgl64"
)

func SphereOffPoint3(body *Body3, p mgl64.Vec3, surface Surface) (Contact, bool) {
	return offFixed(body, surface, func(center *mgl64.Vec3) bool {
		return pushout.SphereOutOfPoint3(center, body.Radius, p)
	})
}

func SphereOffSphere3(body *Body3, center mgl64.Vec3, radius float64, surface Surface) (Contact, bool) {
	return offFixed(body, surface, func(c *mgl64.Vec3) bool {
		return pushout.SphereOutOfSphere3(c, body.Radius, center, radius)
	})
}

func SphereOffBox3(body *Body3, box geom.Box3, surface Surface) (Contact, bool) {
	return offFixed(body, surface, func(center *mgl64.Vec3) bool {
		return pushout.SphereOutOfBox3(center, body.Radius, box)
	})
}

func SphereOffOrientedBox3(body *Body3, box geom.OrientedBox3, surface Surface) (Contact, bool) {
	return offFixed(body, surface, func(center *mgl64.Vec3) bool {
		return pushout.SphereOutOfOrientedBox3(center, body.Radius, box)
	})
}

func SphereOffCapsule3(body *Body3, capsule geom.Capsule3, surface Surface) (Contact, bool) {
	return offFixed(body, surface, func(center *mgl64.Vec3) bool {
		return pushout.SphereOutOfCapsule3(center, body.Radius, capsule)
	})
}

// SphereOffPlane3 bounces along the plane normal.
func SphereOffPlane3(body *Body3, plane geom.Plane3, surface Surface) (Contact, bool) {
	return offFixed(body, surface, func(center *mgl64.Vec3) bool {
		return pushout.SphereOutOfPlane3(center, body.Radius, plane)
	})
}

func SphereOffZCylinder(body *Body3, centerXY mgl64.Vec2, zRange geom.FloatRange, radius float64, surface Surface) (Contact, bool) {
	return offFixed(body, surface, func(center *mgl64.Vec3) bool {
		return pushout.SphereOutOfZCylinder(center, body.Radius, centerXY, zRange, radius)
	})
}

// SpheresOffEachOther3 pushes two spheres apart and exchanges momentum along
// the line between them. The tangential velocities are kept as they are.
func SpheresOffEachOther3(a, b *Body3, bStatic bool) (Contact, bool) {
	before := a.Center
	if !pushout.SpheresOutOfEachOther3(&a.Center, a.Radius, &b.Center, b.Radius, bStatic) {
		return Contact{}, false
	}
	n := geom.DirectionOr3(a.Center.Sub(before), geom.AxisX)

	ua, ub := a.Velocity.Dot(n), b.Velocity.Dot(n)
	contact := Contact{Normal: n}
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
