package pushout

import (
	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

func SphereOutOfPoint3(center *mgl64.Vec3, radius float64, p mgl64.Vec3) bool {
	c, ok := separation3(center.Sub(p), radius)
	if !ok {
		return false
	}
	*center = center.Add(c)
	return true
}

func SphereOutOfSphere3(center *mgl64.Vec3, radius float64, other mgl64.Vec3, otherRadius float64) bool {
	return SphereOutOfPoint3(center, radius+otherRadius, other)
}

// SpheresOutOfEachOther3 separates two spheres. Coincident centers separate
// along +X.
func SpheresOutOfEachOther3(a *mgl64.Vec3, radiusA float64, b *mgl64.Vec3, radiusB float64, bStatic bool) bool {
	c, ok := separation3(a.Sub(*b), radiusA+radiusB)
	if !ok {
		return false
	}
	ca, cb := split3(c, bStatic)
	*a = a.Add(ca)
	*b = b.Add(cb)
	return true
}

func SphereOutOfBox3(center *mgl64.Vec3, radius float64, box geom.Box3) bool {
	c, ok := sphereBoxCorrection(*center, radius, box)
	if !ok {
		return false
	}
	*center = center.Add(c)
	return true
}

// SphereOutOfOrientedBox3 resolves in the frame of the box.
func SphereOutOfOrientedBox3(center *mgl64.Vec3, radius float64, box geom.OrientedBox3) bool {
	c, ok := sphereBoxCorrection(box.ToLocal(*center), radius, box.LocalBox())
	if !ok {
		return false
	}
	*center = center.Add(box.ToWorldDirection(c))
	return true
}

func SphereOutOfCapsule3(center *mgl64.Vec3, radius float64, capsule geom.Capsule3) bool {
	q := geom.NearestPointOnLineSegment3(*center, capsule.Bone())
	return SphereOutOfPoint3(center, radius+capsule.Radius, q)
}

// SphereOutOfPlane3 pushes the sphere along the plane normal until it rests
// on the front side. A center behind the plane is pushed through it.
func SphereOutOfPlane3(center *mgl64.Vec3, radius float64, plane geom.Plane3) bool {
	depth := radius - plane.SignedDistance(*center)
	if depth <= 0 {
		return false
	}
	*center = center.Add(plane.Normal.Mul(depth))
	return true
}

func SphereOutOfZCylinder(center *mgl64.Vec3, radius float64, centerXY mgl64.Vec2, zRange geom.FloatRange, cylinderRadius float64) bool {
	c, ok := sphereZCylinderCorrection(*center, radius, centerXY, zRange, cylinderRadius)
	if !ok {
		return false
	}
	*center = center.Add(c)
	return true
}
