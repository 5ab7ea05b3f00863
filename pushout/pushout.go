// Package pushout separates overlapping shapes by the minimum translation.
//
// Every function moves only the shapes passed by pointer and reports whether
// a correction was applied. Shapes that merely touch are left alone. The
// two-body variants split the correction evenly unless the second body is
// static, in which case the first body takes all of it.
package pushout

import (
	"math"

	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

var axisX2 = mgl64.Vec2{1, 0}

// separation3 returns the correction that moves a body at distance |d| from
// its contact point out to reach. d points from the contact to the body.
func separation3(d mgl64.Vec3, reach float64) (mgl64.Vec3, bool) {
	dist := d.Len()
	depth := reach - dist
	if depth <= 0 {
		return mgl64.Vec3{}, false
	}
	return geom.DirectionOr3(d, geom.AxisX).Mul(depth), true
}

func separation2(d mgl64.Vec2, reach float64) (mgl64.Vec2, bool) {
	dist := d.Len()
	depth := reach - dist
	if depth <= 0 {
		return mgl64.Vec2{}, false
	}
	return geom.DirectionOr2(d, axisX2).Mul(depth), true
}

// boxExit3 returns the outward normal of the face of box nearest to p, and
// the distance p has to travel to reach it. p is expected inside the box.
func boxExit3(p mgl64.Vec3, box geom.Box3) (mgl64.Vec3, float64) {
	best := math.Inf(1)
	var normal mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		if d := p[axis] - box.Min[axis]; d < best {
			best = d
			normal = mgl64.Vec3{}
			normal[axis] = -1
		}
		if d := box.Max[axis] - p[axis]; d < best {
			best = d
			normal = mgl64.Vec3{}
			normal[axis] = 1
		}
	}
	return normal, best
}

func boxExit2(p mgl64.Vec2, box geom.Box2) (mgl64.Vec2, float64) {
	best := math.Inf(1)
	var normal mgl64.Vec2
	for axis := 0; axis < 2; axis++ {
		if d := p[axis] - box.Min[axis]; d < best {
			best = d
			normal = mgl64.Vec2{}
			normal[axis] = -1
		}
		if d := box.Max[axis] - p[axis]; d < best {
			best = d
			normal = mgl64.Vec2{}
			normal[axis] = 1
		}
	}
	return normal, best
}

// sphereBoxCorrection is the push for a sphere against a solid box. A
// center inside the box leaves through the nearest face.
func sphereBoxCorrection(center mgl64.Vec3, radius float64, box geom.Box3) (mgl64.Vec3, bool) {
	q := geom.NearestPointOnBox3(center, box)
	if q != center {
		return separation3(center.Sub(q), radius)
	}
	normal, depth := boxExit3(center, box)
	if depth+radius <= 0 {
		return mgl64.Vec3{}, false
	}
	return normal.Mul(depth + radius), true
}

func discBoxCorrection(center mgl64.Vec2, radius float64, box geom.Box2) (mgl64.Vec2, bool) {
	q := geom.NearestPointOnBox2(center, box)
	if q != center {
		return separation2(center.Sub(q), radius)
	}
	normal, depth := boxExit2(center, box)
	if depth+radius <= 0 {
		return mgl64.Vec2{}, false
	}
	return normal.Mul(depth + radius), true
}

// split returns the shares of a correction applied to A and B.
func split3(correction mgl64.Vec3, bStatic bool) (mgl64.Vec3, mgl64.Vec3) {
	if bStatic {
		return correction, mgl64.Vec3{}
	}
	half := correction.Mul(0.5)
	return half, half.Mul(-1)
}

func split2(correction mgl64.Vec2, bStatic bool) (mgl64.Vec2, mgl64.Vec2) {
	if bStatic {
		return correction, mgl64.Vec2{}
	}
	half := correction.Mul(0.5)
	return half, half.Mul(-1)
}
