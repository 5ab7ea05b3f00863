package geom

import "github.com/go-gl/mathgl/mgl64"

// Box2 is an axis-aligned rectangle.
type Box2 struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

func (b Box2) Center() mgl64.Vec2 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box2) HalfExtents() mgl64.Vec2 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Box3 is an axis-aligned box.
type Box3 struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewBox3 builds a box from its center and half extents.
func NewBox3(center, halfExtents mgl64.Vec3) Box3 {
	return Box3{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

func (b Box3) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box3) HalfExtents() mgl64.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Translate returns the box moved by d.
func (b Box3) Translate(d mgl64.Vec3) Box3 {
	return Box3{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// OrientedBox2 is a rectangle with an arbitrary orientation. IBasis must be
// unit length; the j axis is IBasis rotated by +90 degrees.
type OrientedBox2 struct {
	Center      mgl64.Vec2
	IBasis      mgl64.Vec2
	HalfExtents mgl64.Vec2
}

func (b OrientedBox2) JBasis() mgl64.Vec2 {
	return Perp2(b.IBasis)
}

// ToLocal expresses a world point in the box frame, relative to its center.
func (b OrientedBox2) ToLocal(p mgl64.Vec2) mgl64.Vec2 {
	d := p.Sub(b.Center)
	return mgl64.Vec2{d.Dot(b.IBasis), d.Dot(b.JBasis())}
}

// ToWorld is the inverse of ToLocal.
func (b OrientedBox2) ToWorld(local mgl64.Vec2) mgl64.Vec2 {
	return b.Center.Add(b.IBasis.Mul(local.X())).Add(b.JBasis().Mul(local.Y()))
}

// OrientedBox3 is a box with an arbitrary orientation. IBasis and JBasis
// must be orthonormal; the k axis is derived from them.
type OrientedBox3 struct {
	Center      mgl64.Vec3
	IBasis      mgl64.Vec3
	JBasis      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// NewOrientedBox3 builds an oriented box from a rotation.
func NewOrientedBox3(center, halfExtents mgl64.Vec3, rotation mgl64.Quat) OrientedBox3 {
	return OrientedBox3{
		Center:      center,
		IBasis:      rotation.Rotate(mgl64.Vec3{1, 0, 0}),
		JBasis:      rotation.Rotate(mgl64.Vec3{0, 1, 0}),
		HalfExtents: halfExtents,
	}
}

func (b OrientedBox3) KBasis() mgl64.Vec3 {
	return b.IBasis.Cross(b.JBasis)
}

// Axes returns the three basis vectors in i, j, k order.
func (b OrientedBox3) Axes() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{b.IBasis, b.JBasis, b.KBasis()}
}

// ToLocal expresses a world point in the box frame, relative to its center.
func (b OrientedBox3) ToLocal(p mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(b.Center)
	return mgl64.Vec3{d.Dot(b.IBasis), d.Dot(b.JBasis), d.Dot(b.KBasis())}
}

// ToLocalDirection rotates a world direction into the box frame.
func (b OrientedBox3) ToLocalDirection(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.Dot(b.IBasis), v.Dot(b.JBasis), v.Dot(b.KBasis())}
}

// ToWorld is the inverse of ToLocal.
func (b OrientedBox3) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return b.Center.Add(b.ToWorldDirection(local))
}

// ToWorldDirection is the inverse of ToLocalDirection.
func (b OrientedBox3) ToWorldDirection(local mgl64.Vec3) mgl64.Vec3 {
	return b.IBasis.Mul(local.X()).Add(b.JBasis.Mul(local.Y())).Add(b.KBasis().Mul(local.Z()))
}

// LocalBox is the box in its own frame.
func (b OrientedBox3) LocalBox() Box3 {
	return Box3{Min: b.HalfExtents.Mul(-1), Max: b.HalfExtents}
}

// LineSegment2 is a 2D segment.
type LineSegment2 struct {
	Start mgl64.Vec2
	End   mgl64.Vec2
}

// LineSegment3 is a 3D segment.
type LineSegment3 struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
}

// Capsule2 is a 2D stadium: every point within Radius of the bone segment.
type Capsule2 struct {
	Start  mgl64.Vec2
	End    mgl64.Vec2
	Radius float64
}

func (c Capsule2) Bone() LineSegment2 {
	return LineSegment2{Start: c.Start, End: c.End}
}

// Capsule3 is every point within Radius of the bone segment Start-End.
//
// The bone length is cached so that positional corrections, which move the
// endpoints independently, cannot shrink the capsule over time. Build
// capsules with NewCapsule3; a literal capsule caches its length the first
// time FixLength runs.
type Capsule3 struct {
	Start  mgl64.Vec3
	End    mgl64.Vec3
	Radius float64

	length    float64
	hasLength bool
}

// NewCapsule3 creates a capsule and caches its bone length.
func NewCapsule3(start, end mgl64.Vec3, radius float64) Capsule3 {
	return Capsule3{
		Start:     start,
		End:       end,
		Radius:    radius,
		length:    end.Sub(start).Len(),
		hasLength: true,
	}
}

func (c Capsule3) Bone() LineSegment3 {
	return LineSegment3{Start: c.Start, End: c.End}
}

// Length returns the cached bone length, or the current one if none has
// been cached yet.
func (c Capsule3) Length() float64 {
	if c.hasLength {
		return c.length
	}
	return c.End.Sub(c.Start).Len()
}

// Center is the midpoint of the bone.
func (c Capsule3) Center() mgl64.Vec3 {
	return c.Start.Add(c.End).Mul(0.5)
}

// Translate moves the whole capsule by d.
func (c *Capsule3) Translate(d mgl64.Vec3) {
	c.Start = c.Start.Add(d)
	c.End = c.End.Add(d)
}

// FixLength restores the cached bone length, keeping Start in place and
// moving End along the current bone direction.
func (c *Capsule3) FixLength() {
	if !c.hasLength {
		c.length = c.End.Sub(c.Start).Len()
		c.hasLength = true
		return
	}
	dir := c.boneDirection()
	c.End = c.Start.Add(dir.Mul(c.length))
}

// FixLengthFromEnd restores the cached bone length keeping End in place.
func (c *Capsule3) FixLengthFromEnd() {
	if !c.hasLength {
		c.length = c.End.Sub(c.Start).Len()
		c.hasLength = true
		return
	}
	dir := c.boneDirection()
	c.Start = c.End.Sub(dir.Mul(c.length))
}

// boneDirection falls back to the world up-axis for a collapsed bone, which
// is how upright player capsules are built.
func (c Capsule3) boneDirection() mgl64.Vec3 {
	return DirectionOr3(c.End.Sub(c.Start), AxisZ)
}

// Plane3 is the infinite plane Normal·p = Distance. Normal must be unit
// length; it is not checked.
type Plane3 struct {
	Normal   mgl64.Vec3
	Distance float64
}

// NewPlane3 builds the plane through point with the given normal.
func NewPlane3(normal, point mgl64.Vec3) Plane3 {
	return Plane3{Normal: normal, Distance: normal.Dot(point)}
}

// SignedDistance is positive in front of the plane.
func (p Plane3) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) - p.Distance
}
