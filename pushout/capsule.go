package pushout

import (
	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// liftCapsule pushes each endpoint of the capsule along normal until it sits
// at least reach in front of the plane through point. The endpoint nearer
// the contact is the deeper one and moves the most; the bone length is then
// restored around it.
func liftCapsule(capsule *geom.Capsule3, normal, point mgl64.Vec3, reach float64) bool {
	startDepth := reach - normal.Dot(capsule.Start.Sub(point))
	endDepth := reach - normal.Dot(capsule.End.Sub(point))
	if startDepth <= 0 && endDepth <= 0 {
		return false
	}

	if startDepth > 0 {
		capsule.Start = capsule.Start.Add(normal.Mul(startDepth))
	}
	if endDepth > 0 {
		capsule.End = capsule.End.Add(normal.Mul(endDepth))
	}

	if startDepth >= endDepth {
		capsule.FixLength()
	} else {
		capsule.FixLengthFromEnd()
	}
	return true
}

// CapsuleOutOfPoint3 pushes the capsule off p, away from the nearest point
// on its bone.
func CapsuleOutOfPoint3(capsule *geom.Capsule3, p mgl64.Vec3) bool {
	return CapsuleOutOfSphere3(capsule, p, 0)
}

func CapsuleOutOfSphere3(capsule *geom.Capsule3, center mgl64.Vec3, radius float64) bool {
	onBone := geom.NearestPointOnLineSegment3(center, capsule.Bone())
	d := onBone.Sub(center)
	if d.Len() >= capsule.Radius+radius {
		return false
	}
	normal := geom.DirectionOr3(d, geom.AxisX)
	return liftCapsule(capsule, normal, center, capsule.Radius+radius)
}

func CapsuleOutOfPlane3(capsule *geom.Capsule3, plane geom.Plane3) bool {
	return liftCapsule(capsule, plane.Normal, plane.Normal.Mul(plane.Distance), capsule.Radius)
}

// capsuleBoxContact returns the separating plane between a capsule bone and
// a solid box, as a normal facing the capsule and a point on the box. A bone
// that pierces the box uses the box face nearest to the contact.
func capsuleBoxContact(capsule geom.Capsule3, box geom.Box3) (normal, point mgl64.Vec3, ok bool) {
	_, onSegment, onBox := geom.ClosestPointsSegmentBox3(capsule.Bone(), box)
	d := onSegment.Sub(onBox)
	if d.LenSqr() > 0 {
		if d.Len() >= capsule.Radius {
			return mgl64.Vec3{}, mgl64.Vec3{}, false
		}
		return d.Normalize(), onBox, true
	}
	normal, depth := boxExit3(onSegment, box)
	return normal, onSegment.Add(normal.Mul(depth)), true
}

func CapsuleOutOfBox3(capsule *geom.Capsule3, box geom.Box3) bool {
	normal, point, ok := capsuleBoxContact(*capsule, box)
	if !ok {
		return false
	}
	return liftCapsule(capsule, normal, point, capsule.Radius)
}

// CapsuleOutOfOrientedBox3 finds the contact in the frame of the box and
// lifts the capsule in world space.
func CapsuleOutOfOrientedBox3(capsule *geom.Capsule3, box geom.OrientedBox3) bool {
	local := geom.NewCapsule3(box.ToLocal(capsule.Start), box.ToLocal(capsule.End), capsule.Radius)
	normal, point, ok := capsuleBoxContact(local, box.LocalBox())
	if !ok {
		return false
	}
	return liftCapsule(capsule, box.ToWorldDirection(normal), box.ToWorld(point), capsule.Radius)
}

// CapsulesOutOfEachOther3 separates two capsules across the plane between
// their closest bone points. A static b stays put and a takes the full
// correction.
func CapsulesOutOfEachOther3(a, b *geom.Capsule3, bStatic bool) bool {
	_, _, onA, onB := geom.ClosestPointsOnSegments3(a.Bone(), b.Bone())
	d := onA.Sub(onB)
	reach := a.Radius + b.Radius
	if d.Len() >= reach {
		return false
	}
	normal := geom.DirectionOr3(d, geom.AxisX)

	if bStatic {
		return liftCapsule(a, normal, onB, reach)
	}

	// Each capsule clears the plane halfway through the overlap.
	mid := onB.Add(normal.Mul((d.Dot(normal) + b.Radius - a.Radius) * 0.5))
	movedA := liftCapsule(a, normal, mid, a.Radius)
	movedB := liftCapsule(b, normal.Mul(-1), mid, b.Radius)
	return movedA || movedB
}
