package geom

import "github.com/go-gl/mathgl/mgl64"

// IsPointInsideDisc2 reports whether p lies within radius of center.
func IsPointInsideDisc2(p, center mgl64.Vec2, radius float64) bool {
	return p.Sub(center).LenSqr() <= radius*radius
}

func IsPointInsideBox2(p mgl64.Vec2, box Box2) bool {
	return p.X() >= box.Min.X() && p.X() <= box.Max.X() &&
		p.Y() >= box.Min.Y() && p.Y() <= box.Max.Y()
}

func IsPointInsideOrientedBox2(p mgl64.Vec2, box OrientedBox2) bool {
	local := box.ToLocal(p)
	return mgl64.Abs(local.X()) <= box.HalfExtents.X() && mgl64.Abs(local.Y()) <= box.HalfExtents.Y()
}

func IsPointInsideCapsule2(p mgl64.Vec2, capsule Capsule2) bool {
	q := NearestPointOnLineSegment2(p, capsule.Bone())
	return p.Sub(q).LenSqr() <= capsule.Radius*capsule.Radius
}

// SegmentParameter2 returns the clamped parameter of the point on seg
// nearest to p.
func SegmentParameter2(p mgl64.Vec2, seg LineSegment2) float64 {
	d := seg.End.Sub(seg.Start)
	lenSq := d.LenSqr()
	if lenSq == 0 {
		return 0
	}
	return clamp01(p.Sub(seg.Start).Dot(d) / lenSq)
}

func NearestPointOnLineSegment2(p mgl64.Vec2, seg LineSegment2) mgl64.Vec2 {
	t := SegmentParameter2(p, seg)
	return seg.Start.Add(seg.End.Sub(seg.Start).Mul(t))
}

func NearestPointOnDisc2(p, center mgl64.Vec2, radius float64) mgl64.Vec2 {
	d := p.Sub(center)
	if d.LenSqr() <= radius*radius {
		return p
	}
	return center.Add(SafeNormalize2(d).Mul(radius))
}

func NearestPointOnBox2(p mgl64.Vec2, box Box2) mgl64.Vec2 {
	return mgl64.Vec2{
		mgl64.Clamp(p.X(), box.Min.X(), box.Max.X()),
		mgl64.Clamp(p.Y(), box.Min.Y(), box.Max.Y()),
	}
}

func NearestPointOnOrientedBox2(p mgl64.Vec2, box OrientedBox2) mgl64.Vec2 {
	local := box.ToLocal(p)
	clamped := mgl64.Vec2{
		mgl64.Clamp(local.X(), -box.HalfExtents.X(), box.HalfExtents.X()),
		mgl64.Clamp(local.Y(), -box.HalfExtents.Y(), box.HalfExtents.Y()),
	}
	return box.ToWorld(clamped)
}

func NearestPointOnCapsule2(p mgl64.Vec2, capsule Capsule2) mgl64.Vec2 {
	q := NearestPointOnLineSegment2(p, capsule.Bone())
	return NearestPointOnDisc2(p, q, capsule.Radius)
}

// DoDiscsOverlap2 treats touching discs as overlapping.
func DoDiscsOverlap2(centerA mgl64.Vec2, radiusA float64, centerB mgl64.Vec2, radiusB float64) bool {
	sum := radiusA + radiusB
	return centerA.Sub(centerB).LenSqr() <= sum*sum
}

// DoBoxesOverlap2 is strict: boxes sharing only an edge do not overlap.
func DoBoxesOverlap2(a, b Box2) bool {
	return a.Max.X() > b.Min.X() && a.Min.X() < b.Max.X() &&
		a.Max.Y() > b.Min.Y() && a.Min.Y() < b.Max.Y()
}

func DoDiscOverlapBox2(center mgl64.Vec2, radius float64, box Box2) bool {
	return IsPointInsideDisc2(NearestPointOnBox2(center, box), center, radius)
}
