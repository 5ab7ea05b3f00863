package geom

import "github.com/go-gl/mathgl/mgl64"

// Convex is any convex shape that can report its furthest point along a
// direction. It is all the Gilbert-Johnson-Keerthi overlap test needs.
type Convex interface {
	Support(direction mgl64.Vec3) mgl64.Vec3
}

// SphereSupport adapts an implicit sphere to Convex.
type SphereSupport struct {
	Center mgl64.Vec3
	Radius float64
}

func (s SphereSupport) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return s.Center.Add(SafeNormalize3(direction).Mul(s.Radius))
}

// ZCylinderSupport adapts an implicit z-aligned cylinder to Convex.
type ZCylinderSupport struct {
	CenterXY mgl64.Vec2
	ZRange   FloatRange
	Radius   float64
}

func (c ZCylinderSupport) Support(direction mgl64.Vec3) mgl64.Vec3 {
	xy := c.CenterXY.Add(SafeNormalize2(XY(direction)).Mul(c.Radius))
	z := c.ZRange.Min
	if direction.Z() > 0 {
		z = c.ZRange.Max
	}
	return mgl64.Vec3{xy.X(), xy.Y(), z}
}

func (b Box3) Support(direction mgl64.Vec3) mgl64.Vec3 {
	p := b.Min
	if direction.X() > 0 {
		p[0] = b.Max.X()
	}
	if direction.Y() > 0 {
		p[1] = b.Max.Y()
	}
	if direction.Z() > 0 {
		p[2] = b.Max.Z()
	}
	return p
}

func (b OrientedBox3) Support(direction mgl64.Vec3) mgl64.Vec3 {
	local := b.ToLocalDirection(direction)
	return b.ToWorld(b.LocalBox().Support(local))
}

func (c Capsule3) Support(direction mgl64.Vec3) mgl64.Vec3 {
	end := c.Start
	if direction.Dot(c.End.Sub(c.Start)) > 0 {
		end = c.End
	}
	return end.Add(SafeNormalize3(direction).Mul(c.Radius))
}

// simplex holds 1-4 points of the Minkowski difference. Points[Count-1] is
// always the most recent support point.
type simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

// minkowskiSupport is the support point of the Minkowski difference A - B:
// the furthest point of A along direction minus the furthest point of B
// along -direction.
func minkowskiSupport(a, b Convex, direction mgl64.Vec3) mgl64.Vec3 {
	return a.Support(direction).Sub(b.Support(direction.Mul(-1)))
}

// Intersects reports whether two convex shapes overlap. Shapes that touch
// at a single point may report either way.
func Intersects(a, b Convex) bool {
	var s simplex

	direction := AxisX
	s.Points[0] = minkowskiSupport(a, b, direction)
	s.Count = 1

	direction = s.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return true
	}

	const maxIterations = 32
	for i := 0; i < maxIterations; i++ {
		newPoint := minkowskiSupport(a, b, direction)

		// The new point does not pass the origin: the origin cannot be
		// enclosed, the shapes are separated.
		if newPoint.Dot(direction) <= 0 {
			return false
		}

		s.Points[s.Count] = newPoint
		s.Count++

		if s.containsOrigin(&direction) {
			return true
		}
	}

	return false
}

// containsOrigin reduces the simplex to the feature closest to the origin
// and updates the search direction.
func (s *simplex) containsOrigin(direction *mgl64.Vec3) bool {
	switch s.Count {
	case 2:
		return s.line(direction)
	case 3:
		return s.triangle(direction)
	case 4:
		return s.tetrahedron(direction)
	}
	return false
}

// line handles the 2-point simplex. The origin is closest either to A alone
// or to the segment AB; a segment never encloses it.
func (s *simplex) line(direction *mgl64.Vec3) bool {
	a := s.Points[1]
	b := s.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		s.Points[0] = a
		s.Count = 1
		*direction = ao
		return false
	}

	// Region A: the origin lies behind A, away from B.
	if ab.Dot(ao) <= 0 {
		s.Points[0] = a
		s.Count = 1
		*direction = ao
		return false
	}

	// Region AB: search perpendicular to the edge, toward the origin.
	abPerp := ab.Cross(ao).Cross(ab)
	if abPerp.LenSqr() < 1e-8 {
		// origin on the segment
		return true
	}

	*direction = abPerp
	return false
}

// triangle handles the 3-point simplex. The origin is closest to edge AB,
// edge AC, or lies above or below the face ABC; the winding is flipped so the
// next support point is searched on the origin's side.
func (s *simplex) triangle(direction *mgl64.Vec3) bool {
	a := s.Points[2]
	b := s.Points[1]
	c := s.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	abc := ab.Cross(ac)

	// Collinear points, fall back to the edge through the newest point.
	if abc.LenSqr() < 1e-10 {
		s.Points[0] = b
		s.Points[1] = a
		s.Count = 2
		return s.line(direction)
	}

	// Region AB
	if ab.Cross(abc).Dot(ao) > 0 {
		s.Points[0] = b
		s.Points[1] = a
		s.Count = 2
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}

	// Region AC
	if abc.Cross(ac).Dot(ao) > 0 {
		s.Points[0] = c
		s.Points[1] = a
		s.Count = 2
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	// Above the face, or below it with the order reversed.
	if abc.Dot(ao) > 0 {
		*direction = abc
	} else {
		s.Points[0] = a
		s.Points[1] = c
		s.Points[2] = b
		s.Count = 3
		*direction = abc.Mul(-1)
	}

	return false
}

// tetrahedron handles the 4-point simplex, the only one that can enclose the
// origin. When the origin is outside one of the faces through A, the simplex
// drops the opposite vertex and continues as that triangle.
func (s *simplex) tetrahedron(direction *mgl64.Vec3) bool {
	a := s.Points[3]
	b := s.Points[2]
	c := s.Points[1]
	d := s.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	// Face normals must point away from the opposite vertex.
	abc := ab.Cross(ac)
	if abc.Dot(ad) > 0 {
		abc = abc.Mul(-1)
	}
	acd := ac.Cross(ad)
	if acd.Dot(ab) > 0 {
		acd = acd.Mul(-1)
	}
	adb := ad.Cross(ab)
	if adb.Dot(ac) > 0 {
		adb = adb.Mul(-1)
	}

	// Flat tetrahedron, continue with the newest face.
	if abc.LenSqr() < 1e-10 || acd.LenSqr() < 1e-10 || adb.LenSqr() < 1e-10 {
		s.Points[0] = c
		s.Points[1] = b
		s.Points[2] = a
		s.Count = 3
		return s.triangle(direction)
	}

	// Outside face ABC
	if abc.Dot(ao) > 0 {
		s.Points[0] = c
		s.Points[1] = b
		s.Points[2] = a
		s.Count = 3
		return s.triangle(direction)
	}

	// Outside face ACD
	if acd.Dot(ao) > 0 {
		s.Points[0] = d
		s.Points[1] = c
		s.Points[2] = a
		s.Count = 3
		return s.triangle(direction)
	}

	// Outside face ADB
	if adb.Dot(ao) > 0 {
		s.Points[0] = b
		s.Points[1] = d
		s.Points[2] = a
		s.Count = 3
		return s.triangle(direction)
	}

	// Inside all three faces
	return true
}
