package bounce

import (
	"math"
	"testing"

	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

func vec3Equal(a, b mgl64.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-6)
}

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

var floor = geom.NewPlane3(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{})

func TestSphereOffPlane3_FallingBall(t *testing.T) {
	const dt = 0.005
	gravity := mgl64.Vec3{0, 0, -24.5}
	ball := Body3{Center: mgl64.Vec3{0, 0, 1}, Radius: 0.5, Mass: 1, Restitution: 0.9}

	for i := 0; i < 1000; i++ {
		ball.Velocity = ball.Velocity.Add(gravity.Mul(dt))
		ball.Center = ball.Center.Add(ball.Velocity.Mul(dt))

		incoming := ball.Velocity.Z()
		contact, ok := SphereOffPlane3(&ball, floor, Surface{Restitution: 1})
		if !ok {
			continue
		}

		if incoming >= 0 {
			t.Fatalf("bounced while moving up at %v", incoming)
		}
		if ball.Velocity.Z() <= 0 {
			t.Fatalf("vertical velocity did not flip: %v", ball.Velocity.Z())
		}
		if !floatEqual(ball.Velocity.Z(), -0.9*incoming) {
			t.Errorf("outgoing = %v, want %v", ball.Velocity.Z(), -0.9*incoming)
		}
		if !floatEqual(contact.Speed, -incoming) {
			t.Errorf("contact speed = %v, want %v", contact.Speed, -incoming)
		}
		if !vec3Equal(contact.Normal, floor.Normal) {
			t.Errorf("contact normal = %v, want %v", contact.Normal, floor.Normal)
		}
		if !floatEqual(ball.Center.Z(), 0.5) {
			t.Errorf("ball not resting on the floor: z = %v", ball.Center.Z())
		}
		return
	}
	t.Fatal("ball never reached the floor")
}

func TestSphereOffPlane3_EnergyNonIncrease(t *testing.T) {
	tests := []struct {
		name        string
		restitution float64
	}{
		{"inelastic", 0},
		{"half", 0.5},
		{"elastic", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ball := Body3{
				Center:      mgl64.Vec3{0, 0, 0.4},
				Velocity:    mgl64.Vec3{1, 0, -3},
				Radius:      0.5,
				Restitution: tt.restitution,
			}
			if _, ok := SphereOffPlane3(&ball, floor, Surface{Restitution: 1}); !ok {
				t.Fatal("expected a contact")
			}
			after := ball.Velocity.Z()
			if after > 3+1e-9 {
				t.Errorf("normal speed grew to %v", after)
			}
			if !floatEqual(after, 3*tt.restitution) {
				t.Errorf("normal speed = %v, want %v", after, 3*tt.restitution)
			}
		})
	}
}

func TestSphereOffPlane3_Friction(t *testing.T) {
	ball := Body3{Center: mgl64.Vec3{0, 0, 0.4}, Velocity: mgl64.Vec3{2, 0, -1}, Radius: 0.5, Restitution: 1}
	SphereOffPlane3(&ball, floor, Surface{Restitution: 1, Friction: 0.25})

	if !vec3Equal(ball.Velocity, mgl64.Vec3{1.5, 0, 1}) {
		t.Errorf("velocity = %v, want (1.5,0,1)", ball.Velocity)
	}
}

func TestSphereOffPlane3_Separating(t *testing.T) {
	ball := Body3{Center: mgl64.Vec3{0, 0, 0.4}, Velocity: mgl64.Vec3{0, 0, 2}, Radius: 0.5, Restitution: 0.5}

	contact, ok := SphereOffPlane3(&ball, floor, Surface{Restitution: 1, Friction: 0.5})
	if !ok {
		t.Fatal("overlap must still be resolved")
	}
	if ball.Velocity != (mgl64.Vec3{0, 0, 2}) {
		t.Errorf("separating ball was slowed: %v", ball.Velocity)
	}
	if contact.Speed != 0 {
		t.Errorf("contact speed = %v, want 0", contact.Speed)
	}
}

func TestSphereOff_NoOverlap(t *testing.T) {
	ball := Body3{Center: mgl64.Vec3{0, 0, 5}, Velocity: mgl64.Vec3{1, 2, 3}, Radius: 0.5, Restitution: 1}
	before := ball

	surface := Surface{Restitution: 1}
	checks := []struct {
		name string
		ok   bool
	}{
		{"point", second(SphereOffPoint3(&ball, mgl64.Vec3{}, surface))},
		{"sphere", second(SphereOffSphere3(&ball, mgl64.Vec3{}, 1, surface))},
		{"box", second(SphereOffBox3(&ball, geom.Box3{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}, surface))},
		{"oriented box", second(SphereOffOrientedBox3(&ball, geom.NewOrientedBox3(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()), surface))},
		{"capsule", second(SphereOffCapsule3(&ball, geom.NewCapsule3(mgl64.Vec3{}, mgl64.Vec3{0, 0, 2}, 0.5), surface))},
		{"plane", second(SphereOffPlane3(&ball, floor, surface))},
		{"z-cylinder", second(SphereOffZCylinder(&ball, mgl64.Vec2{}, geom.FloatRange{Max: 3}, 1, surface))},
	}

	for _, c := range checks {
		if c.ok {
			t.Errorf("%s: unexpected contact", c.name)
		}
	}
	if ball != before {
		t.Errorf("ball changed without contact: %+v", ball)
	}
}

func second(_ Contact, ok bool) bool {
	return ok
}

func TestSphereOffBox3(t *testing.T) {
	box := geom.Box3{Min: mgl64.Vec3{1, -1, -1}, Max: mgl64.Vec3{2, 1, 1}}
	ball := Body3{Center: mgl64.Vec3{0.7, 0, 0}, Velocity: mgl64.Vec3{3, 1, 0}, Radius: 0.5, Restitution: 1}

	contact, ok := SphereOffBox3(&ball, box, Surface{Restitution: 0.5})
	if !ok {
		t.Fatal("expected a contact")
	}
	if !vec3Equal(contact.Normal, mgl64.Vec3{-1, 0, 0}) {
		t.Errorf("normal = %v", contact.Normal)
	}
	if !vec3Equal(ball.Velocity, mgl64.Vec3{-1.5, 1, 0}) {
		t.Errorf("velocity = %v, want (-1.5,1,0)", ball.Velocity)
	}
}

func TestSphereOffZCylinder(t *testing.T) {
	ball := Body3{Center: mgl64.Vec3{1.3, 0, 1}, Velocity: mgl64.Vec3{-2, 0, 0}, Radius: 0.5, Restitution: 1}

	if _, ok := SphereOffZCylinder(&ball, mgl64.Vec2{}, geom.FloatRange{Min: 0, Max: 3}, 1, Surface{Restitution: 1}); !ok {
		t.Fatal("expected a contact")
	}
	if !vec3Equal(ball.Velocity, mgl64.Vec3{2, 0, 0}) {
		t.Errorf("velocity = %v, want (2,0,0)", ball.Velocity)
	}
}

func TestSphereOffCapsule3(t *testing.T) {
	capsule := geom.NewCapsule3(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 2}, 0.3)
	ball := Body3{Center: mgl64.Vec3{0, 0.7, 1}, Velocity: mgl64.Vec3{0, -1, 0.5}, Radius: 0.5, Restitution: 0.8}

	if _, ok := SphereOffCapsule3(&ball, capsule, Surface{Restitution: 1}); !ok {
		t.Fatal("expected a contact")
	}
	if !vec3Equal(ball.Velocity, mgl64.Vec3{0, 0.8, 0.5}) {
		t.Errorf("velocity = %v, want (0,0.8,0.5)", ball.Velocity)
	}
}

// =============================================================================
// Body pairs
// =============================================================================

func TestSpheresOffEachOther3_EqualMassesSwap(t *testing.T) {
	a := Body3{Center: mgl64.Vec3{-0.4, 0, 0}, Velocity: mgl64.Vec3{1, 0, 0}, Radius: 0.5, Mass: 1, Restitution: 1}
	b := Body3{Center: mgl64.Vec3{0.4, 0, 0}, Velocity: mgl64.Vec3{-1, 0, 0}, Radius: 0.5, Mass: 1, Restitution: 1}

	contact, ok := SpheresOffEachOther3(&a, &b, false)
	if !ok {
		t.Fatal("expected a contact")
	}
	if !floatEqual(b.Center.Sub(a.Center).Len(), 1) {
		t.Errorf("centers %v apart, want 1", b.Center.Sub(a.Center).Len())
	}
	if !vec3Equal(a.Velocity, mgl64.Vec3{-1, 0, 0}) || !vec3Equal(b.Velocity, mgl64.Vec3{1, 0, 0}) {
		t.Errorf("velocities = %v, %v", a.Velocity, b.Velocity)
	}
	if !floatEqual(contact.Speed, 2) {
		t.Errorf("approach speed = %v, want 2", contact.Speed)
	}
}

func TestSpheresOffEachOther3_TooFarApart(t *testing.T) {
	a := Body3{Center: mgl64.Vec3{-0.6, 0, 0}, Velocity: mgl64.Vec3{1, 0, 0}, Radius: 0.5, Mass: 1, Restitution: 1}
	b := Body3{Center: mgl64.Vec3{0.6, 0, 0}, Velocity: mgl64.Vec3{-1, 0, 0}, Radius: 0.5, Mass: 1, Restitution: 1}

	if _, ok := SpheresOffEachOther3(&a, &b, false); ok {
		t.Error("spheres 1.2 apart must not bounce")
	}
}

func TestSpheresOffEachOther3_KeepsTangent(t *testing.T) {
	a := Body3{Center: mgl64.Vec3{-0.4, 0, 0}, Velocity: mgl64.Vec3{1, 3, 0}, Radius: 0.5, Mass: 1, Restitution: 1}
	b := Body3{Center: mgl64.Vec3{0.4, 0, 0}, Velocity: mgl64.Vec3{0, 0, -2}, Radius: 0.5, Mass: 3, Restitution: 1}

	pa := a.Velocity.Mul(a.Mass).Add(b.Velocity.Mul(b.Mass))
	SpheresOffEachOther3(&a, &b, false)
	pb := a.Velocity.Mul(a.Mass).Add(b.Velocity.Mul(b.Mass))

	if !vec3Equal(pa, pb) {
		t.Errorf("momentum %v -> %v", pa, pb)
	}
	if a.Velocity.Y() != 3 || b.Velocity.Z() != -2 {
		t.Errorf("tangential velocity changed: a=%v b=%v", a.Velocity, b.Velocity)
	}
}

func TestSpheresOffEachOther3_Masses(t *testing.T) {
	tests := []struct {
		name    string
		massA   float64
		massB   float64
		bStatic bool
		wantA   mgl64.Vec3
		wantB   mgl64.Vec3
	}{
		{"static b", 1, 1, true, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{}},
		{"infinite a against static b", math.Inf(1), 1, true, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{}},
		{"zero mass a against static b", 0, 1, true, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{}},
		{"infinite b", 1, math.Inf(1), false, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{}},
		{"zero mass treated as equal", 0, 5, false, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}},
		{"negative mass treated as equal", -1, 1, false, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Body3{Center: mgl64.Vec3{-0.4, 0, 0}, Velocity: mgl64.Vec3{1, 0, 0}, Radius: 0.5, Mass: tt.massA, Restitution: 1}
			b := Body3{Center: mgl64.Vec3{0.4, 0, 0}, Radius: 0.5, Mass: tt.massB, Restitution: 1}

			if _, ok := SpheresOffEachOther3(&a, &b, tt.bStatic); !ok {
				t.Fatal("expected a contact")
			}
			if !vec3Equal(a.Velocity, tt.wantA) || !vec3Equal(b.Velocity, tt.wantB) {
				t.Errorf("velocities = %v, %v; want %v, %v", a.Velocity, b.Velocity, tt.wantA, tt.wantB)
			}
			for _, v := range []mgl64.Vec3{a.Velocity, b.Velocity} {
				if math.IsNaN(v.X()) {
					t.Fatal("NaN velocity")
				}
			}
		})
	}
}

func TestDiscs(t *testing.T) {
	a := Body2{Center: mgl64.Vec2{-0.4, 0}, Velocity: mgl64.Vec2{1, 0}, Radius: 0.5, Mass: 1, Restitution: 1}
	b := Body2{Center: mgl64.Vec2{0.4, 0}, Velocity: mgl64.Vec2{-1, 0}, Radius: 0.5, Mass: 1, Restitution: 1}

	if _, ok := DiscsOffEachOther2(&a, &b, false); !ok {
		t.Fatal("expected a contact")
	}
	if !a.Velocity.ApproxEqual(mgl64.Vec2{-1, 0}) || !b.Velocity.ApproxEqual(mgl64.Vec2{1, 0}) {
		t.Errorf("velocities = %v, %v", a.Velocity, b.Velocity)
	}

	disc := Body2{Center: mgl64.Vec2{0, 0.3}, Velocity: mgl64.Vec2{0, -2}, Radius: 0.5, Restitution: 0.5}
	contact, ok := DiscOffPoint2(&disc, mgl64.Vec2{}, Surface{Restitution: 1})
	if !ok {
		t.Fatal("expected a contact")
	}
	if !disc.Velocity.ApproxEqual(mgl64.Vec2{0, 1}) || !floatEqual(contact.Speed, 2) {
		t.Errorf("velocity = %v, contact = %+v", disc.Velocity, contact)
	}
}
