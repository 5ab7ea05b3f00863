package pushout

import (
	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// sphereZCylinderCorrection is the push for a sphere against an upright
// solid cylinder. A center inside the cylinder leaves through whichever of
// the side, the top or the bottom is closest.
func sphereZCylinderCorrection(center mgl64.Vec3, radius float64, centerXY mgl64.Vec2, zRange geom.FloatRange, cylinderRadius float64) (mgl64.Vec3, bool) {
	q := geom.NearestPointOnZCylinder(center, centerXY, zRange, cylinderRadius)
	if q != center {
		return separation3(center.Sub(q), radius)
	}

	radial := geom.XY(center).Sub(centerXY)
	side := cylinderRadius - radial.Len()
	up := zRange.Max - center.Z()
	down := center.Z() - zRange.Min
	if min(side, up, down)+radius <= 0 {
		return mgl64.Vec3{}, false
	}

	switch {
	case side <= up && side <= down:
		dir := geom.DirectionOr2(radial, axisX2)
		return mgl64.Vec3{dir.X(), dir.Y(), 0}.Mul(side + radius), true
	case up <= down:
		return mgl64.Vec3{0, 0, up + radius}, true
	default:
		return mgl64.Vec3{0, 0, -(down + radius)}, true
	}
}

func moveZCylinder(center *mgl64.Vec2, zRange *geom.FloatRange, c mgl64.Vec3) {
	*center = center.Add(geom.XY(c))
	*zRange = zRange.Translate(c.Z())
}

// ZCylinderOutOfPoint3 moves the cylinder so that p is no longer inside it.
func ZCylinderOutOfPoint3(center *mgl64.Vec2, zRange *geom.FloatRange, radius float64, p mgl64.Vec3) bool {
	return ZCylinderOutOfSphere3(center, zRange, radius, p, 0)
}

func ZCylinderOutOfSphere3(center *mgl64.Vec2, zRange *geom.FloatRange, radius float64, sphereCenter mgl64.Vec3, sphereRadius float64) bool {
	c, ok := sphereZCylinderCorrection(sphereCenter, sphereRadius, *center, *zRange, radius)
	if !ok {
		return false
	}
	moveZCylinder(center, zRange, c.Mul(-1))
	return true
}

// ZCylinderOutOfBox3 picks the cheapest of lifting the cylinder over the
// box, dropping it below, or sliding it out horizontally.
func ZCylinderOutOfBox3(center *mgl64.Vec2, zRange *geom.FloatRange, radius float64, box geom.Box3) bool {
	boxZ := geom.FloatRange{Min: box.Min.Z(), Max: box.Max.Z()}
	if !zRange.Overlaps(boxZ) {
		return false
	}
	footprint := geom.Box2{Min: geom.XY(box.Min), Max: geom.XY(box.Max)}
	horizontal, ok := discBoxCorrection(*center, radius, footprint)
	if !ok {
		return false
	}

	c := mgl64.Vec3{horizontal.X(), horizontal.Y(), 0}
	if up := boxZ.Max - zRange.Min; up < c.Len() {
		c = mgl64.Vec3{0, 0, up}
	}
	if down := zRange.Max - boxZ.Min; down < c.Len() {
		c = mgl64.Vec3{0, 0, -down}
	}
	moveZCylinder(center, zRange, c)
	return true
}

// ZCylindersOutOfEachOther separates two upright cylinders, either sideways
// or vertically, whichever is shorter.
func ZCylindersOutOfEachOther(centerA *mgl64.Vec2, zA *geom.FloatRange, radiusA float64, centerB *mgl64.Vec2, zB *geom.FloatRange, radiusB float64, bStatic bool) bool {
	if !zA.Overlaps(*zB) {
		return false
	}
	horizontal, ok := separation2(centerA.Sub(*centerB), radiusA+radiusB)
	if !ok {
		return false
	}

	c := mgl64.Vec3{horizontal.X(), horizontal.Y(), 0}
	if up := zB.Max - zA.Min; up < c.Len() {
		c = mgl64.Vec3{0, 0, up}
	}
	if down := zA.Max - zB.Min; down < c.Len() {
		c = mgl64.Vec3{0, 0, -down}
	}

	ca, cb := split3(c, bStatic)
	moveZCylinder(centerA, zA, ca)
	moveZCylinder(centerB, zB, cb)
	return true
}
