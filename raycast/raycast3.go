package raycast

import (
	"math"

	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// slab returns the parametric range where a ray is between two parallel
// planes on one axis. flip is set when the ray travels toward -axis, in
// which case it enters through the max face. A parallel ray gets an
// unbounded range if it runs between the planes and fails otherwise.
func slab(origin, delta, min, max float64) (entry, exit float64, flip, ok bool) {
	if delta == 0 {
		if origin < min || origin > max {
			return 0, 0, false, false
		}
		return math.Inf(-1), math.Inf(1), false, true
	}

	entry = (min - origin) / delta
	exit = (max - origin) / delta
	if entry > exit {
		entry, exit = exit, entry
		flip = true
	}
	return entry, exit, flip, true
}

func entryNormalSign(flip bool) float64 {
	if flip {
		return 1
	}
	return -1
}

// VsBox3 intersects a ray with an axis-aligned box using the slab method.
func VsBox3(ray Ray3, box geom.Box3) Result3 {
	ray = ray.normalized()
	if geom.IsPointInsideBox3(ray.Origin, box) {
		return inside3(ray)
	}

	entry, exit := math.Inf(-1), math.Inf(1)
	entryAxis := -1
	var entryFlip bool
	for axis := 0; axis < 3; axis++ {
		lo, hi, flip, ok := slab(ray.Origin[axis], ray.Direction[axis], box.Min[axis], box.Max[axis])
		if !ok {
			return miss3(ray)
		}
		if lo > entry {
			entry, entryAxis, entryFlip = lo, axis, flip
		}
		exit = math.Min(exit, hi)
	}

	if entryAxis < 0 || entry > exit || !inReach(entry, ray.MaxLength) {
		return miss3(ray)
	}

	var normal mgl64.Vec3
	normal[entryAxis] = entryNormalSign(entryFlip)
	return hit3(ray, entry, normal)
}

// VsOrientedBox3 runs VsBox3 in the frame of the box.
func VsOrientedBox3(ray Ray3, box geom.OrientedBox3) Result3 {
	ray = ray.normalized()
	local := Ray3{
		Origin:    box.ToLocal(ray.Origin),
		Direction: box.ToLocalDirection(ray.Direction),
		MaxLength: ray.MaxLength,
	}

	res := VsBox3(local, box.LocalBox())
	if !res.DidImpact {
		return miss3(ray)
	}
	return hit3(ray, res.Distance, box.ToWorldDirection(res.Normal))
}

// VsPlane3 intersects a ray with the solid half-space behind the plane. A ray
// starting on or behind the plane hits at distance 0.
func VsPlane3(ray Ray3, plane geom.Plane3) Result3 {
	ray = ray.normalized()
	if geom.IsPointBehindPlane3(ray.Origin, plane) {
		return inside3(ray)
	}

	denom := plane.Normal.Dot(ray.Direction)
	if denom >= 0 {
		return miss3(ray)
	}

	t := -plane.SignedDistance(ray.Origin) / denom
	if !inReach(t, ray.MaxLength) {
		return miss3(ray)
	}
	return hit3(ray, t, plane.Normal)
}

// VsSphere3 intersects a ray with a solid sphere.
func VsSphere3(ray Ray3, center mgl64.Vec3, radius float64) Result3 {
	ray = ray.normalized()
	if geom.IsPointInsideSphere3(ray.Origin, center, radius) {
		return inside3(ray)
	}

	t, ok := sphereEntry(ray, center, radius)
	if !ok || !inReach(t, ray.MaxLength) {
		return miss3(ray)
	}
	return hit3(ray, t, geom.SafeNormalize3(ray.at(t).Sub(center)))
}

// sphereEntry solves |o + t·d - c|² = r² for the first root, d unit length.
func sphereEntry(ray Ray3, center mgl64.Vec3, radius float64) (float64, bool) {
	oc := ray.Origin.Sub(center)
	b := oc.Dot(ray.Direction)
	c := oc.LenSqr() - radius*radius
	disc := b*b - c
	if disc < 0 || ray.Direction == (mgl64.Vec3{}) {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		return 0, false
	}
	return t, true
}

// VsCapsule3 intersects a ray with a capsule: the cylinder swept around the
// bone, clipped to the segment, and the two end spheres.
func VsCapsule3(ray Ray3, capsule geom.Capsule3) Result3 {
	ray = ray.normalized()
	if geom.IsPointInsideCapsule3(ray.Origin, capsule) {
		return inside3(ray)
	}

	best := math.Inf(1)
	var normal mgl64.Vec3

	if t, n, ok := boneCylinderEntry(ray, capsule); ok && t < best {
		best, normal = t, n
	}
	for _, end := range [2]mgl64.Vec3{capsule.Start, capsule.End} {
		if t, ok := sphereEntry(ray, end, capsule.Radius); ok && t < best {
			best = t
			normal = geom.SafeNormalize3(ray.at(t).Sub(end))
		}
	}

	if math.IsInf(best, 1) || !inReach(best, ray.MaxLength) {
		return miss3(ray)
	}
	return hit3(ray, best, normal)
}

// boneCylinderEntry intersects the ray with the infinite cylinder around the
// bone and keeps the hit only if it projects inside the segment.
func boneCylinderEntry(ray Ray3, capsule geom.Capsule3) (float64, mgl64.Vec3, bool) {
	bone := capsule.End.Sub(capsule.Start)
	boneLen := bone.Len()
	if boneLen == 0 {
		return 0, mgl64.Vec3{}, false
	}
	axis := bone.Mul(1 / boneLen)

	oc := ray.Origin.Sub(capsule.Start)
	dPerp := ray.Direction.Sub(axis.Mul(ray.Direction.Dot(axis)))
	oPerp := oc.Sub(axis.Mul(oc.Dot(axis)))

	a := dPerp.LenSqr()
	if a == 0 {
		return 0, mgl64.Vec3{}, false
	}
	b := oPerp.Dot(dPerp)
	c := oPerp.LenSqr() - capsule.Radius*capsule.Radius
	disc := b*b - a*c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}

	t := (-b - math.Sqrt(disc)) / a
	if t < 0 {
		return 0, mgl64.Vec3{}, false
	}
	along := ray.at(t).Sub(capsule.Start).Dot(axis)
	if along < 0 || along > boneLen {
		return 0, mgl64.Vec3{}, false
	}

	onBone := capsule.Start.Add(axis.Mul(along))
	return t, geom.SafeNormalize3(ray.at(t).Sub(onBone)), true
}

// VsZCylinder intersects a ray with an upright cylinder. The side is solved
// as a 2D disc interval and combined with the z slab for the caps.
func VsZCylinder(ray Ray3, centerXY mgl64.Vec2, zRange geom.FloatRange, radius float64) Result3 {
	ray = ray.normalized()
	if geom.IsPointInsideZCylinder(ray.Origin, centerXY, zRange, radius) {
		return inside3(ray)
	}

	discEntry, discExit, ok := discInterval(ray, centerXY, radius)
	if !ok {
		return miss3(ray)
	}
	zEntry, zExit, zFlip, ok := slab(ray.Origin.Z(), ray.Direction.Z(), zRange.Min, zRange.Max)
	if !ok {
		return miss3(ray)
	}

	entry := math.Max(discEntry, zEntry)
	exit := math.Min(discExit, zExit)
	if entry > exit || !inReach(entry, ray.MaxLength) {
		return miss3(ray)
	}

	if zEntry >= discEntry {
		return hit3(ray, entry, mgl64.Vec3{0, 0, entryNormalSign(zFlip)})
	}
	p := ray.at(entry)
	radial := geom.SafeNormalize2(geom.XY(p).Sub(centerXY))
	return hit3(ray, entry, mgl64.Vec3{radial.X(), radial.Y(), 0})
}

// discInterval returns the parametric range where the ray's xy projection is
// inside the disc. A vertical ray above the disc gets an unbounded range.
func discInterval(ray Ray3, centerXY mgl64.Vec2, radius float64) (float64, float64, bool) {
	d := geom.XY(ray.Direction)
	o := geom.XY(ray.Origin).Sub(centerXY)

	a := d.LenSqr()
	if a == 0 {
		if o.LenSqr() > radius*radius {
			return 0, 0, false
		}
		return math.Inf(-1), math.Inf(1), true
	}
	b := o.Dot(d)
	c := o.LenSqr() - radius*radius
	disc := b*b - a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	return (-b - sq) / a, (-b + sq) / a, true
}
