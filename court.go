package courtside

import (
	"math"

	"github.com/akmonengine/courtside/bounce"
	"github.com/akmonengine/courtside/geom"
	"github.com/akmonengine/courtside/pushout"
	"github.com/go-gl/mathgl/mgl64"
)

// Surface names what a ball hit.
type Surface uint8

const (
	SurfaceFloor Surface = iota
	SurfaceWall
	SurfaceRim
	SurfaceBackboard
	SurfaceArm
	SurfacePole
	SurfaceBall
	SurfaceProp
	SurfaceBlocker
	// SurfaceHoop is the scoring zone under the rim.
	SurfaceHoop
)

func (s Surface) String() string {
	switch s {
	case SurfaceFloor:
		return "floor"
	case SurfaceWall:
		return "wall"
	case SurfaceRim:
		return "rim"
	case SurfaceBackboard:
		return "backboard"
	case SurfaceArm:
		return "arm"
	case SurfacePole:
		return "pole"
	case SurfaceBall:
		return "ball"
	case SurfaceProp:
		return "prop"
	case SurfaceBlocker:
		return "blocker"
	case SurfaceHoop:
		return "hoop"
	}
	return "unknown"
}

// ZCylinder is an upright cylinder owned by the court.
type ZCylinder struct {
	Center mgl64.Vec2
	Z      geom.FloatRange
	Radius float64
}

// Rim is a horizontal ring: every point within TubeRadius of the circle of
// Radius around Center.
type Rim struct {
	Center     mgl64.Vec3
	Radius     float64
	TubeRadius float64
}

// NearestPoint returns the point of the rim circle nearest to p. Points on
// the rim axis resolve toward +x.
func (r Rim) NearestPoint(p mgl64.Vec3) mgl64.Vec3 {
	dir := geom.DirectionOr2(geom.XY(p.Sub(r.Center)), mgl64.Vec2{1, 0})
	return r.Center.Add(mgl64.Vec3{dir.X(), dir.Y(), 0}.Mul(r.Radius))
}

// Court is the fixed geometry of the scene.
type Court struct {
	Floor      geom.Plane3
	Walls      [4]geom.Plane3
	WallHeight float64
	Bounds     geom.Box2
	// DespawnMargin extends Bounds and the floor for OutOfBounds.
	DespawnMargin float64

	Rim       Rim
	Backboard geom.Box3
	Arm       geom.Capsule3
	Pole      ZCylinder
	// Net is the scoring zone hanging under the rim.
	Net ZCylinder

	FloorSurface bounce.Surface
	WallSurface  bounce.Surface
	HoopSurface  bounce.Surface
}

func surface(s SurfaceConfig) bounce.Surface {
	return bounce.Surface{Restitution: s.Restitution, Friction: s.Friction}
}

// NewCourt builds the court geometry from cfg. cfg is expected to be valid.
func NewCourt(cfg Config) Court {
	hw, hl := cfg.Court.HalfWidth, cfg.Court.HalfLength
	hoop := cfg.Hoop

	return Court{
		Floor: geom.NewPlane3(geom.AxisZ, mgl64.Vec3{}),
		Walls: [4]geom.Plane3{
			geom.NewPlane3(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-hw, 0, 0}),
			geom.NewPlane3(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{hw, 0, 0}),
			geom.NewPlane3(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -hl, 0}),
			geom.NewPlane3(mgl64.Vec3{0, -1, 0}, mgl64.Vec3{0, hl, 0}),
		},
		WallHeight:    cfg.Court.WallHeight,
		Bounds:        geom.Box2{Min: mgl64.Vec2{-hw, -hl}, Max: mgl64.Vec2{hw, hl}},
		DespawnMargin: cfg.Court.DespawnMargin,

		Rim:       Rim{Center: hoop.RimCenter, Radius: hoop.RimRadius, TubeRadius: hoop.TubeRadius},
		Backboard: geom.NewBox3(hoop.BackboardCenter, hoop.BackboardHalfExtents),
		Arm:       geom.NewCapsule3(hoop.ArmStart, hoop.ArmEnd, hoop.ArmRadius),
		Pole: ZCylinder{
			Center: hoop.PoleCenter,
			Z:      geom.FloatRange{Min: 0, Max: hoop.PoleHeight},
			Radius: hoop.PoleRadius,
		},
		Net: ZCylinder{
			Center: geom.XY(hoop.RimCenter),
			Z:      geom.FloatRange{Min: hoop.RimCenter.Z() - hoop.NetDepth, Max: hoop.RimCenter.Z()},
			Radius: hoop.RimRadius,
		},

		FloorSurface: surface(cfg.Court.Floor),
		WallSurface:  surface(cfg.Court.Walls),
		HoopSurface:  surface(hoop.Surface),
	}
}

// BounceBall bounces a ball off the floor, the walls and then the hoop, in
// that order. hit is called for every contact.
func (c *Court) BounceBall(ball *bounce.Body3, hit func(Surface, bounce.Contact)) {
	if contact, ok := bounce.SphereOffPlane3(ball, c.Floor, c.FloorSurface); ok {
		hit(SurfaceFloor, contact)
	}
	// Balls lobbed over the walls are let through.
	if ball.Center.Z()-ball.Radius < c.WallHeight {
		for _, wall := range c.Walls {
			if contact, ok := bounce.SphereOffPlane3(ball, wall, c.WallSurface); ok {
				hit(SurfaceWall, contact)
			}
		}
	}

	if contact, ok := bounce.SphereOffSphere3(ball, c.Rim.NearestPoint(ball.Center), c.Rim.TubeRadius, c.HoopSurface); ok {
		hit(SurfaceRim, contact)
	}
	if contact, ok := bounce.SphereOffBox3(ball, c.Backboard, c.HoopSurface); ok {
		hit(SurfaceBackboard, contact)
	}
	if contact, ok := bounce.SphereOffCapsule3(ball, c.Arm, c.HoopSurface); ok {
		hit(SurfaceArm, contact)
	}
	if contact, ok := bounce.SphereOffZCylinder(ball, c.Pole.Center, c.Pole.Z, c.Pole.Radius, c.HoopSurface); ok {
		hit(SurfacePole, contact)
	}
}

// ResolvePlayer pushes a player capsule out of the floor, the walls, the
// backboard and the pole. It returns the total displacement.
func (c *Court) ResolvePlayer(capsule *geom.Capsule3) mgl64.Vec3 {
	before := capsule.Center()

	pushout.CapsuleOutOfPlane3(capsule, c.Floor)
	for _, wall := range c.Walls {
		pushout.CapsuleOutOfPlane3(capsule, wall)
	}
	pushout.CapsuleOutOfBox3(capsule, c.Backboard)

	// The pole is resolved on the cylinder enclosing the capsule.
	center := geom.XY(capsule.Center())
	z := geom.FloatRange{
		Min: math.Min(capsule.Start.Z(), capsule.End.Z()) - capsule.Radius,
		Max: math.Max(capsule.Start.Z(), capsule.End.Z()) + capsule.Radius,
	}
	pole, poleZ := c.Pole.Center, c.Pole.Z
	if pushout.ZCylindersOutOfEachOther(&center, &z, capsule.Radius, &pole, &poleZ, c.Pole.Radius, true) {
		shift := center.Sub(geom.XY(capsule.Center()))
		dz := z.Min - (math.Min(capsule.Start.Z(), capsule.End.Z()) - capsule.Radius)
		capsule.Translate(mgl64.Vec3{shift.X(), shift.Y(), dz})
	}

	return capsule.Center().Sub(before)
}

// InHoop reports whether a ball is dropping into the hoop: it overlaps the
// net while its center is above the rim plane, inside the rim and moving
// down.
func (c *Court) InHoop(center mgl64.Vec3, radius float64, velocity mgl64.Vec3) bool {
	if center.Z() < c.Rim.Center.Z() || velocity.Z() >= 0 {
		return false
	}
	if geom.XY(center.Sub(c.Rim.Center)).Len() >= c.Rim.Radius {
		return false
	}
	return geom.DoSphereOverlapZCylinder(center, radius, c.Net.Center, c.Net.Z, c.Net.Radius)
}

// OutOfBounds reports whether a point has left the court for good.
func (c *Court) OutOfBounds(p mgl64.Vec3) bool {
	m := c.DespawnMargin
	return p.Z() < -m ||
		p.X() < c.Bounds.Min.X()-m || p.X() > c.Bounds.Max.X()+m ||
		p.Y() < c.Bounds.Min.Y()-m || p.Y() > c.Bounds.Max.Y()+m
}
