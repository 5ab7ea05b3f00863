package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// Containment
// =============================================================================

func IsPointInsideSphere3(p, center mgl64.Vec3, radius float64) bool {
	return p.Sub(center).LenSqr() <= radius*radius
}

func IsPointInsideBox3(p mgl64.Vec3, box Box3) bool {
	return p.X() >= box.Min.X() && p.X() <= box.Max.X() &&
		p.Y() >= box.Min.Y() && p.Y() <= box.Max.Y() &&
		p.Z() >= box.Min.Z() && p.Z() <= box.Max.Z()
}

func IsPointInsideOrientedBox3(p mgl64.Vec3, box OrientedBox3) bool {
	return IsPointInsideBox3(box.ToLocal(p), box.LocalBox())
}

func IsPointInsideCapsule3(p mgl64.Vec3, capsule Capsule3) bool {
	q := NearestPointOnLineSegment3(p, capsule.Bone())
	return p.Sub(q).LenSqr() <= capsule.Radius*capsule.Radius
}

// IsPointInsideZCylinder tests against the upright cylinder described by a
// center in the xy plane, a z range and a radius.
func IsPointInsideZCylinder(p mgl64.Vec3, centerXY mgl64.Vec2, zRange FloatRange, radius float64) bool {
	return zRange.Contains(p.Z()) && IsPointInsideDisc2(XY(p), centerXY, radius)
}

// IsPointBehindPlane3 treats the plane as the solid half-space behind its
// normal. Points on the plane count as behind.
func IsPointBehindPlane3(p mgl64.Vec3, plane Plane3) bool {
	return plane.SignedDistance(p) <= 0
}

// =============================================================================
// Nearest points
// =============================================================================

// SegmentParameter3 returns the clamped parameter of the point on seg
// nearest to p.
func SegmentParameter3(p mgl64.Vec3, seg LineSegment3) float64 {
	d := seg.End.Sub(seg.Start)
	lenSq := d.LenSqr()
	if lenSq == 0 {
		return 0
	}
	return clamp01(p.Sub(seg.Start).Dot(d) / lenSq)
}

func PointOnSegment3(seg LineSegment3, t float64) mgl64.Vec3 {
	return seg.Start.Add(seg.End.Sub(seg.Start).Mul(t))
}

func NearestPointOnLineSegment3(p mgl64.Vec3, seg LineSegment3) mgl64.Vec3 {
	return PointOnSegment3(seg, SegmentParameter3(p, seg))
}

func NearestPointOnSphere3(p, center mgl64.Vec3, radius float64) mgl64.Vec3 {
	d := p.Sub(center)
	if d.LenSqr() <= radius*radius {
		return p
	}
	return center.Add(SafeNormalize3(d).Mul(radius))
}

func NearestPointOnBox3(p mgl64.Vec3, box Box3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(p.X(), box.Min.X(), box.Max.X()),
		mgl64.Clamp(p.Y(), box.Min.Y(), box.Max.Y()),
		mgl64.Clamp(p.Z(), box.Min.Z(), box.Max.Z()),
	}
}

func NearestPointOnOrientedBox3(p mgl64.Vec3, box OrientedBox3) mgl64.Vec3 {
	local := NearestPointOnBox3(box.ToLocal(p), box.LocalBox())
	return box.ToWorld(local)
}

func NearestPointOnCapsule3(p mgl64.Vec3, capsule Capsule3) mgl64.Vec3 {
	q := NearestPointOnLineSegment3(p, capsule.Bone())
	return NearestPointOnSphere3(p, q, capsule.Radius)
}

func NearestPointOnZCylinder(p mgl64.Vec3, centerXY mgl64.Vec2, zRange FloatRange, radius float64) mgl64.Vec3 {
	xy := NearestPointOnDisc2(XY(p), centerXY, radius)
	return mgl64.Vec3{xy.X(), xy.Y(), zRange.Clamp(p.Z())}
}

// NearestPointOnPlane3 projects p onto the plane surface.
func NearestPointOnPlane3(p mgl64.Vec3, plane Plane3) mgl64.Vec3 {
	return p.Sub(plane.Normal.Mul(plane.SignedDistance(p)))
}

// ClosestPointsOnSegments3 returns the parameters and points of the closest
// pair between two segments.
func ClosestPointsOnSegments3(a, b LineSegment3) (s, t float64, onA, onB mgl64.Vec3) {
	const epsilon = 1e-12

	d1 := a.End.Sub(a.Start)
	d2 := b.End.Sub(b.Start)
	r := a.Start.Sub(b.Start)
	lenA := d1.LenSqr()
	lenB := d2.LenSqr()
	f := d2.Dot(r)

	switch {
	case lenA <= epsilon && lenB <= epsilon:
		s, t = 0, 0
	case lenA <= epsilon:
		s = 0
		t = clamp01(f / lenB)
	default:
		c := d1.Dot(r)
		if lenB <= epsilon {
			t = 0
			s = clamp01(-c / lenA)
			break
		}
		bb := d1.Dot(d2)
		denom := lenA*lenB - bb*bb
		if denom != 0 {
			s = clamp01((bb*f - c*lenB) / denom)
		}
		t = (bb*s + f) / lenB
		if t < 0 {
			t = 0
			s = clamp01(-c / lenA)
		} else if t > 1 {
			t = 1
			s = clamp01((bb - c) / lenA)
		}
	}

	return s, t, a.Start.Add(d1.Mul(s)), b.Start.Add(d2.Mul(t))
}

// ClosestPointsSegmentBox3 returns the parameter on seg, the point on seg
// and the point on box of the closest pair. When the segment passes through
// the box both points are equal. The squared distance along a segment to a
// convex set is convex, so a golden-section search converges to the minimum.
func ClosestPointsSegmentBox3(seg LineSegment3, box Box3) (t float64, onSegment, onBox mgl64.Vec3) {
	distSq := func(t float64) float64 {
		p := PointOnSegment3(seg, t)
		return p.Sub(NearestPointOnBox3(p, box)).LenSqr()
	}

	const iterations = 48
	invPhi := (math.Sqrt(5) - 1) / 2
	lo, hi := 0.0, 1.0
	x1 := hi - invPhi*(hi-lo)
	x2 := lo + invPhi*(hi-lo)
	f1, f2 := distSq(x1), distSq(x2)
	for i := 0; i < iterations; i++ {
		if f1 <= f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = distSq(x1)
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = distSq(x2)
		}
	}
	t = (lo + hi) / 2

	// The endpoints are outside the search bracket's interior.
	for _, end := range [2]float64{0, 1} {
		if distSq(end) < distSq(t) {
			t = end
		}
	}

	onSegment = PointOnSegment3(seg, t)
	return t, onSegment, NearestPointOnBox3(onSegment, box)
}

// ClosestPointsSegmentOrientedBox3 is ClosestPointsSegmentBox3 in the frame
// of an oriented box. Returned points are in world space.
func ClosestPointsSegmentOrientedBox3(seg LineSegment3, box OrientedBox3) (t float64, onSegment, onBox mgl64.Vec3) {
	local := LineSegment3{Start: box.ToLocal(seg.Start), End: box.ToLocal(seg.End)}
	t, onSegment, onBox = ClosestPointsSegmentBox3(local, box.LocalBox())
	return t, box.ToWorld(onSegment), box.ToWorld(onBox)
}

// =============================================================================
// Overlaps
// =============================================================================

// DoSpheresOverlap3 treats touching spheres as overlapping.
func DoSpheresOverlap3(centerA mgl64.Vec3, radiusA float64, centerB mgl64.Vec3, radiusB float64) bool {
	sum := radiusA + radiusB
	return centerA.Sub(centerB).LenSqr() <= sum*sum
}

// DoBoxesOverlap3 is strict: boxes sharing only a face do not overlap.
func DoBoxesOverlap3(a, b Box3) bool {
	return a.Max.X() > b.Min.X() && a.Min.X() < b.Max.X() &&
		a.Max.Y() > b.Min.Y() && a.Min.Y() < b.Max.Y() &&
		a.Max.Z() > b.Min.Z() && a.Min.Z() < b.Max.Z()
}

func DoSphereOverlapBox3(center mgl64.Vec3, radius float64, box Box3) bool {
	return IsPointInsideSphere3(NearestPointOnBox3(center, box), center, radius)
}

func DoSphereOverlapOrientedBox3(center mgl64.Vec3, radius float64, box OrientedBox3) bool {
	return IsPointInsideSphere3(NearestPointOnOrientedBox3(center, box), center, radius)
}

func DoSphereOverlapCapsule3(center mgl64.Vec3, radius float64, capsule Capsule3) bool {
	q := NearestPointOnLineSegment3(center, capsule.Bone())
	return DoSpheresOverlap3(center, radius, q, capsule.Radius)
}

func DoSphereOverlapZCylinder(center mgl64.Vec3, radius float64, centerXY mgl64.Vec2, zRange FloatRange, cylinderRadius float64) bool {
	q := NearestPointOnZCylinder(center, centerXY, zRange, cylinderRadius)
	return IsPointInsideSphere3(q, center, radius)
}

// DoSphereOverlapPlane3 treats the plane as a solid half-space.
func DoSphereOverlapPlane3(center mgl64.Vec3, radius float64, plane Plane3) bool {
	return plane.SignedDistance(center) <= radius
}

// DoZCylindersOverlap is strict on the z ranges and inclusive radially.
func DoZCylindersOverlap(centerA mgl64.Vec2, zA FloatRange, radiusA float64, centerB mgl64.Vec2, zB FloatRange, radiusB float64) bool {
	return zA.Overlaps(zB) && DoDiscsOverlap2(centerA, radiusA, centerB, radiusB)
}

// DoZCylinderOverlapBox3 is strict on z and inclusive on the xy footprint.
func DoZCylinderOverlapBox3(centerXY mgl64.Vec2, zRange FloatRange, radius float64, box Box3) bool {
	boxZ := FloatRange{Min: box.Min.Z(), Max: box.Max.Z()}
	footprint := Box2{Min: XY(box.Min), Max: XY(box.Max)}
	return zRange.Overlaps(boxZ) && DoDiscOverlapBox2(centerXY, radius, footprint)
}

func DoZCylinderOverlapOrientedBox3(centerXY mgl64.Vec2, zRange FloatRange, radius float64, box OrientedBox3) bool {
	return Intersects(ZCylinderSupport{CenterXY: centerXY, ZRange: zRange, Radius: radius}, box)
}

func DoCapsulesOverlap3(a, b Capsule3) bool {
	_, _, onA, onB := ClosestPointsOnSegments3(a.Bone(), b.Bone())
	return DoSpheresOverlap3(onA, a.Radius, onB, b.Radius)
}

func DoCapsuleOverlapBox3(capsule Capsule3, box Box3) bool {
	return Intersects(capsule, box)
}

func DoCapsuleOverlapOrientedBox3(capsule Capsule3, box OrientedBox3) bool {
	return Intersects(capsule, box)
}

// DoCapsuleOverlapPlane3 treats the plane as a solid half-space.
func DoCapsuleOverlapPlane3(capsule Capsule3, plane Plane3) bool {
	lowest := math.Min(plane.SignedDistance(capsule.Start), plane.SignedDistance(capsule.End))
	return lowest <= capsule.Radius
}

// DoOrientedBoxesOverlap3 runs the 15-axis separating axis test. Boxes that
// only touch do not overlap.
func DoOrientedBoxesOverlap3(a, b OrientedBox3) bool {
	t := b.Center.Sub(a.Center)
	axesA := a.Axes()
	axesB := b.Axes()

	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, axesA[i], t) || !overlapOnAxis(a, b, axesB[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := axesA[i].Cross(axesB[j])
			// Parallel edges produce no new axis.
			if axis.LenSqr() < 1e-12 {
				continue
			}
			if !overlapOnAxis(a, b, axis.Normalize(), t) {
				return false
			}
		}
	}
	return true
}

func overlapOnAxis(a, b OrientedBox3, axis, t mgl64.Vec3) bool {
	return projectedRadius(a, axis)+projectedRadius(b, axis) > mgl64.Abs(t.Dot(axis))
}

func projectedRadius(box OrientedBox3, axis mgl64.Vec3) float64 {
	axes := box.Axes()
	return box.HalfExtents.X()*mgl64.Abs(axes[0].Dot(axis)) +
		box.HalfExtents.Y()*mgl64.Abs(axes[1].Dot(axis)) +
		box.HalfExtents.Z()*mgl64.Abs(axes[2].Dot(axis))
}
