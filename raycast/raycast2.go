package raycast

import (
	"math"

	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// VsDisc2 intersects a ray with a solid disc.
func VsDisc2(ray Ray2, center mgl64.Vec2, radius float64) Result2 {
	ray = ray.normalized()
	if geom.IsPointInsideDisc2(ray.Origin, center, radius) {
		return inside2(ray)
	}

	toCenter := center.Sub(ray.Origin)
	along := toCenter.Dot(ray.Direction)
	if along <= 0 {
		return miss2(ray)
	}
	perpSq := toCenter.LenSqr() - along*along
	if perpSq >= radius*radius {
		return miss2(ray)
	}

	t := along - math.Sqrt(radius*radius-perpSq)
	if !inReach(t, ray.MaxLength) {
		return miss2(ray)
	}
	p := ray.at(t)
	return hit2(ray, t, geom.SafeNormalize2(p.Sub(center)))
}

// VsLineSegment2 intersects a ray with a segment. The normal faces the side
// the ray came from.
func VsLineSegment2(ray Ray2, seg geom.LineSegment2) Result2 {
	ray = ray.normalized()

	edge := seg.End.Sub(seg.Start)
	normal := geom.SafeNormalize2(geom.Perp2(edge))
	denom := ray.Direction.Dot(normal)
	if denom == 0 || normal == (mgl64.Vec2{}) {
		return miss2(ray)
	}

	t := seg.Start.Sub(ray.Origin).Dot(normal) / denom
	if !inReach(t, ray.MaxLength) {
		return miss2(ray)
	}

	p := ray.at(t)
	along := p.Sub(seg.Start).Dot(edge) / edge.LenSqr()
	if along < 0 || along > 1 {
		return miss2(ray)
	}

	if denom > 0 {
		normal = normal.Mul(-1)
	}
	return hit2(ray, t, normal)
}

// VsBox2 is the 2D slab test.
func VsBox2(ray Ray2, box geom.Box2) Result2 {
	ray = ray.normalized()
	if geom.IsPointInsideBox2(ray.Origin, box) {
		return inside2(ray)
	}

	entry, exit := math.Inf(-1), math.Inf(1)
	entryAxis := -1
	var entryFlip bool
	for axis := 0; axis < 2; axis++ {
		lo, hi, flip, ok := slab(ray.Origin[axis], ray.Direction[axis], box.Min[axis], box.Max[axis])
		if !ok {
			return miss2(ray)
		}
		if lo > entry {
			entry, entryAxis, entryFlip = lo, axis, flip
		}
		exit = math.Min(exit, hi)
	}

	if entryAxis < 0 || entry > exit || !inReach(entry, ray.MaxLength) {
		return miss2(ray)
	}

	var normal mgl64.Vec2
	normal[entryAxis] = entryNormalSign(entryFlip)
	return hit2(ray, entry, normal)
}
