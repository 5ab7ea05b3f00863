package courtside

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	scene, err := NewScene(DefaultConfig())
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	return scene
}

func mustBall(t *testing.T, scene *Scene, position mgl64.Vec3) Handle {
	t.Helper()
	h, err := scene.AddBall(position)
	if err != nil {
		t.Fatalf("AddBall failed: %v", err)
	}
	return h
}

func mustPlayer(t *testing.T, scene *Scene, position mgl64.Vec3) Handle {
	t.Helper()
	h, err := scene.AddPlayer(position)
	if err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}
	return h
}

func mustEntity(t *testing.T, scene *Scene, h Handle) *Entity {
	t.Helper()
	e, ok := scene.Entity(h)
	if !ok {
		t.Fatalf("Entity %v not found", h)
	}
	return e
}

func steps(scene *Scene, n int) {
	for range n {
		scene.Step(WorldContext{})
	}
}

// =============================================================================
// Construction
// =============================================================================

func TestNewScene_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ball.Radius = 0

	if _, err := NewScene(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewScene_Workers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0
	scene, err := NewScene(cfg)
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	if scene.Workers != DEFAULT_WORKERS {
		t.Errorf("Expected %d workers, got %d", DEFAULT_WORKERS, scene.Workers)
	}
}

func TestScene_SpawnEvents(t *testing.T) {
	scene := newTestScene(t)
	capture := &eventCapture{}
	scene.Events.Subscribe(SPAWN, capture.capture)

	mustBall(t, scene, mgl64.Vec3{0, 0, 3})
	mustPlayer(t, scene, mgl64.Vec3{2, 0, 1.8})
	scene.AddProp(geom.NewOrientedBox3(mgl64.Vec3{5, 5, 1}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()))

	if capture.count() != 0 {
		t.Error("Events should wait for the next step")
	}
	scene.Step(WorldContext{})
	if capture.count() != 3 {
		t.Errorf("Expected 3 SPAWN events, got %d", capture.count())
	}
}

// =============================================================================
// Balls
// =============================================================================

func TestScene_BallBouncesOnFloor(t *testing.T) {
	scene := newTestScene(t)
	capture := &eventCapture{}
	scene.Events.Subscribe(BOUNCE, capture.capture)
	h := mustBall(t, scene, mgl64.Vec3{0, 0, 3})

	lowest := math.Inf(1)
	for range 400 {
		scene.Step(WorldContext{})
		lowest = math.Min(lowest, mustEntity(t, scene, h).Body.Transform.Position.Z())
	}

	if capture.count() == 0 {
		t.Fatal("Expected the ball to bounce on the floor")
	}
	if e := capture.events[0].(BounceEvent); e.Ball != h || e.Surface != SurfaceFloor || e.Speed <= 0 {
		t.Errorf("Unexpected first bounce %+v", e)
	}
	// Integration may sink the ball by one step of travel before the floor
	// pushes it back out.
	if lowest < 0.4 {
		t.Errorf("Ball sank into the floor down to z=%v", lowest)
	}
}

func TestScene_BallsBounceOffEachOther(t *testing.T) {
	scene := newTestScene(t)
	capture := &eventCapture{}
	scene.Events.Subscribe(BOUNCE, capture.capture)

	a := mustBall(t, scene, mgl64.Vec3{-0.4, 0, 5})
	b := mustBall(t, scene, mgl64.Vec3{0.4, 0, 5})
	mustEntity(t, scene, a).Body.Velocity = mgl64.Vec3{1, 0, 0}
	mustEntity(t, scene, b).Body.Velocity = mgl64.Vec3{-1, 0, 0}

	scene.Step(WorldContext{})

	// Equal masses swap their normal speeds, scaled by the product of both
	// restitutions.
	restitution := scene.Config.Ball.Restitution * scene.Config.Ball.Restitution
	va := mustEntity(t, scene, a).Body.Velocity
	vb := mustEntity(t, scene, b).Body.Velocity
	if !almostEqual(va.X(), -restitution, 1e-3) || !almostEqual(vb.X(), restitution, 1e-3) {
		t.Errorf("Expected swapped velocities of %v, got %v and %v", restitution, va, vb)
	}

	gap := mustEntity(t, scene, b).Body.Transform.Position.Sub(mustEntity(t, scene, a).Body.Transform.Position).Len()
	if gap < 1-1e-3 {
		t.Errorf("Balls still overlap, centers %v apart", gap)
	}

	if capture.count() != 1 {
		t.Fatalf("Expected 1 BOUNCE, got %d", capture.count())
	}
	if e := capture.events[0].(BounceEvent); e.Surface != SurfaceBall || e.Ball != a || e.Other != b {
		t.Errorf("Unexpected bounce %+v", e)
	}
}

func TestScene_BallBouncesOffProp(t *testing.T) {
	scene := newTestScene(t)
	capture := &eventCapture{}
	scene.Events.Subscribe(BOUNCE, capture.capture)

	prop := scene.AddProp(geom.NewOrientedBox3(mgl64.Vec3{2, 0, 2}, mgl64.Vec3{1, 1, 2}, mgl64.QuatIdent()))
	h := mustBall(t, scene, mgl64.Vec3{0.6, 0, 2})
	mustEntity(t, scene, h).Body.Velocity = mgl64.Vec3{3, 0, 0}

	scene.Step(WorldContext{})

	if v := mustEntity(t, scene, h).Body.Velocity; v.X() >= 0 {
		t.Errorf("Expected the ball to bounce back, velocity %v", v)
	}
	if capture.count() != 1 || capture.events[0].(BounceEvent).Other != prop {
		t.Errorf("Expected one prop bounce, got %+v", capture.events)
	}
}

func TestScene_BallPushedOutOfPlayer(t *testing.T) {
	scene := newTestScene(t)
	mustPlayer(t, scene, mgl64.Vec3{0, 0, 1.8})
	h := mustBall(t, scene, mgl64.Vec3{0.8, 0, 2})

	scene.Step(WorldContext{})

	// Player radius 0.6 plus ball radius 0.5
	if x := mustEntity(t, scene, h).Body.Transform.Position.X(); x < 1.1-1e-3 {
		t.Errorf("Expected the ball pushed to x>=1.1, got %v", x)
	}
}

// =============================================================================
// Scoring
// =============================================================================

func TestScene_ScoreOnce(t *testing.T) {
	scene := newTestScene(t)
	capture := &eventCapture{}
	scene.Events.Subscribe(SCORE, capture.capture)

	var logs bytes.Buffer
	ctx := WorldContext{Logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	h := mustBall(t, scene, mgl64.Vec3{0, 24, 6.8})
	mustEntity(t, scene, h).Body.Velocity = mgl64.Vec3{0, 0, -1}

	for range 400 {
		scene.Step(ctx)
	}

	if scene.Score() != 1 {
		t.Errorf("Expected score 1, got %d", scene.Score())
	}
	if capture.count() != 1 {
		t.Fatalf("Expected 1 SCORE event, got %d", capture.count())
	}
	if e := capture.events[0].(ScoreEvent); e.Ball != h {
		t.Errorf("Expected ball %v, got %v", h, e.Ball)
	}
	if !strings.Contains(logs.String(), "msg=score") {
		t.Errorf("Expected a score log record, got %q", logs.String())
	}
}

func TestScene_NoScoreFromBelow(t *testing.T) {
	scene := newTestScene(t)
	h := mustBall(t, scene, mgl64.Vec3{0, 24, 5})
	mustEntity(t, scene, h).Body.Velocity = mgl64.Vec3{0, 0, 6}

	// Rises into the net, peaks below the rim plane and falls back out.
	steps(scene, 200)

	if scene.Score() != 0 {
		t.Errorf("A ball coming up through the net should not score, got %d", scene.Score())
	}
}

// =============================================================================
// Despawn
// =============================================================================

func TestScene_DespawnOutOfBounds(t *testing.T) {
	scene := newTestScene(t)
	capture := &eventCapture{}
	scene.Events.Subscribe(DESPAWN, capture.capture)

	// Above the walls and past the despawn margin
	h := mustBall(t, scene, mgl64.Vec3{30, 0, 12})
	scene.Step(WorldContext{})

	if _, ok := scene.Entity(h); ok {
		t.Error("Ball should have been despawned")
	}
	if capture.count() != 1 {
		t.Fatalf("Expected 1 DESPAWN, got %d", capture.count())
	}
	if e := capture.events[0].(DespawnEvent); e.Handle != h || e.Kind != KindBall {
		t.Errorf("Unexpected despawn %+v", e)
	}

	// The slot is reused under a new generation
	reused := mustBall(t, scene, mgl64.Vec3{0, 0, 3})
	if reused.Index != h.Index || reused.Generation == h.Generation {
		t.Errorf("Expected slot %d reused with a new generation, got %v", h.Index, reused)
	}
}

func TestScene_DespawnDead(t *testing.T) {
	scene := newTestScene(t)
	h := mustPlayer(t, scene, mgl64.Vec3{0, 0, 1.8})
	mustEntity(t, scene, h).Body.Dead = true

	scene.Step(WorldContext{})

	if _, ok := scene.Entity(h); ok {
		t.Error("Dead player should have been removed")
	}
}

func TestScene_Remove(t *testing.T) {
	scene := newTestScene(t)
	h := mustBall(t, scene, mgl64.Vec3{0, 0, 3})

	if !scene.Remove(h) {
		t.Fatal("Remove should succeed on a live handle")
	}
	if scene.Remove(h) {
		t.Error("Remove should fail on a stale handle")
	}
}

// =============================================================================
// Players
// =============================================================================

func TestScene_PlayerStandsOnFloor(t *testing.T) {
	scene := newTestScene(t)
	h := mustPlayer(t, scene, mgl64.Vec3{0, 0, 3})

	steps(scene, 400)

	body := mustEntity(t, scene, h).Body
	// Center is half height plus radius above the floor, give or take one
	// step of gravity.
	if !almostEqual(body.Transform.Position.Z(), 1.8, 1e-2) {
		t.Errorf("Expected the player standing at z=1.8, got %v", body.Transform.Position.Z())
	}
}

func TestScene_PlayersPushEachOther(t *testing.T) {
	scene := newTestScene(t)
	a := mustPlayer(t, scene, mgl64.Vec3{-0.3, 0, 1.8})
	b := mustPlayer(t, scene, mgl64.Vec3{0.3, 0, 1.8})

	scene.Step(WorldContext{})

	pa := mustEntity(t, scene, a).Body.Transform.Position
	pb := mustEntity(t, scene, b).Body.Transform.Position
	if gap := geom.XY(pb.Sub(pa)).Len(); gap < 1.2-1e-3 {
		t.Errorf("Players still overlap, %v apart", gap)
	}
	if pa.X() >= pb.X() {
		t.Errorf("Players swapped sides: %v and %v", pa, pb)
	}
}

func TestScene_PlayerBlockedByProp(t *testing.T) {
	scene := newTestScene(t)
	scene.AddProp(geom.NewOrientedBox3(mgl64.Vec3{2, 0, 1}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()))
	h := mustPlayer(t, scene, mgl64.Vec3{0.9, 0, 1.8})
	scene.MovePlayer(h, mgl64.Vec2{2, 0})

	scene.Step(WorldContext{})

	body := mustEntity(t, scene, h).Body
	// Pushed to x=0.4, then moved by one step of the remaining velocity
	if x := body.Transform.Position.X(); x > 0.4+1e-6 {
		t.Errorf("Expected the player kept out of the prop, got x=%v", x)
	}
	if vx := body.Velocity.X(); vx > 1e-9 {
		t.Errorf("Expected the velocity into the prop removed, got %v", vx)
	}
}

func TestScene_MovePlayer(t *testing.T) {
	scene := newTestScene(t)
	h := mustPlayer(t, scene, mgl64.Vec3{0, 0, 1.8})

	if !scene.MovePlayer(h, mgl64.Vec2{0, 2}) {
		t.Fatal("MovePlayer should succeed")
	}

	body := mustEntity(t, scene, h).Body
	if body.Velocity != (mgl64.Vec3{0, 2, 0}) {
		t.Errorf("Expected velocity (0, 2, 0), got %v", body.Velocity)
	}
	if forward := body.Basis()[0]; !vec3AlmostEqual(forward, mgl64.Vec3{0, 1, 0}, tolerance) {
		t.Errorf("Expected the player facing +y, got %v", forward)
	}

	ball := mustBall(t, scene, mgl64.Vec3{0, 0, 5})
	if scene.MovePlayer(ball, mgl64.Vec2{1, 0}) {
		t.Error("MovePlayer should refuse a ball")
	}
}

func TestScene_PickupAndThrow(t *testing.T) {
	scene := newTestScene(t)
	p := mustPlayer(t, scene, mgl64.Vec3{0, 0, 1.8})
	b := mustBall(t, scene, mgl64.Vec3{1.5, 0, 0.5})

	got, ok := scene.Pickup(p)
	if !ok || got != b {
		t.Fatalf("Expected to pick up %v, got %v (ok=%v)", b, got, ok)
	}
	if _, ok := scene.Pickup(p); ok {
		t.Error("A player cannot carry two balls")
	}

	scene.Step(WorldContext{})

	ball := mustEntity(t, scene, b)
	player := mustEntity(t, scene, p)
	if ball.Body.Simulated || ball.HeldBy != p || player.Holding != b {
		t.Fatal("Ball should be carried")
	}
	// In front of the player: player radius, ball radius and a small gap
	expected := player.Body.Transform.Position.Add(mgl64.Vec3{1.15, 0, 0})
	if !vec3AlmostEqual(ball.Body.Transform.Position, expected, 1e-9) {
		t.Errorf("Expected the ball at %v, got %v", expected, ball.Body.Transform.Position)
	}

	if !scene.Throw(p, mgl64.Vec3{0, 0, 10}, mgl64.Vec3{0, 1, 0}) {
		t.Fatal("Throw should succeed")
	}
	if !ball.Body.Simulated || ball.HeldBy.Valid() || player.Holding.Valid() {
		t.Error("Ball should be released")
	}
	if vz := ball.Body.Velocity.Z(); vz < 9 {
		t.Errorf("Expected the throw to send the ball up, vz=%v", vz)
	}
	if ball.Body.AngularVelocity.Y() <= 0 {
		t.Errorf("Expected backspin, got %v", ball.Body.AngularVelocity)
	}
	if scene.Throw(p, mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}) {
		t.Error("Throw should fail with empty hands")
	}
}

func TestScene_PickupMisses(t *testing.T) {
	tests := []struct {
		name    string
		ball    mgl64.Vec3
		heading mgl64.Vec2
	}{
		{"out of reach", mgl64.Vec3{5, 0, 0.5}, mgl64.Vec2{1, 0}},
		{"behind", mgl64.Vec3{1.5, 0, 0.5}, mgl64.Vec2{-1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := newTestScene(t)
			p := mustPlayer(t, scene, mgl64.Vec3{0, 0, 1.8})
			mustBall(t, scene, tt.ball)
			scene.MovePlayer(p, tt.heading)

			if _, ok := scene.Pickup(p); ok {
				t.Error("Pickup should miss")
			}
		})
	}
}

func TestScene_RemoveHolderDropsBall(t *testing.T) {
	scene := newTestScene(t)
	p := mustPlayer(t, scene, mgl64.Vec3{0, 0, 1.8})
	b := mustBall(t, scene, mgl64.Vec3{1.5, 0, 0.5})
	if _, ok := scene.Pickup(p); !ok {
		t.Fatal("Pickup failed")
	}

	scene.Remove(p)

	ball := mustEntity(t, scene, b)
	if !ball.Body.Simulated || ball.HeldBy.Valid() {
		t.Error("Ball should be dropped when its player is removed")
	}
}

// =============================================================================
// Blockers
// =============================================================================

func TestScene_SpawnBlockers(t *testing.T) {
	scene := newTestScene(t)
	capture := &eventCapture{}
	scene.Events.Subscribe(DESPAWN, capture.capture)

	first := scene.SpawnBlockers(WorldContext{}, 3)
	if len(first) != 3 {
		t.Fatalf("Expected 3 blockers, got %d", len(first))
	}

	cfg := DefaultConfig()
	for _, h := range first {
		box := mustEntity(t, scene, h).Collider
		if box.Center.Z() != box.HalfExtents.Z() {
			t.Errorf("Blocker should stand on the floor, center z=%v half z=%v", box.Center.Z(), box.HalfExtents.Z())
		}
		for i := 0; i < 3; i++ {
			if box.HalfExtents[i] < cfg.Blocker.MinHalfExtents[i] || box.HalfExtents[i] > cfg.Blocker.MaxHalfExtents[i] {
				t.Errorf("Half extents %v out of range", box.HalfExtents)
			}
		}
		if !geom.IsPointInsideBox2(geom.XY(box.Center), scene.Court.Bounds) {
			t.Errorf("Blocker center %v outside the court", box.Center)
		}
	}

	second := scene.SpawnBlockers(WorldContext{}, 3)
	scene.Step(WorldContext{})

	if n := len(scene.handles(KindBlocker)); n != 3 {
		t.Errorf("Expected 3 blockers after respawn, got %d", n)
	}
	for _, h := range first {
		if _, ok := scene.Entity(h); ok {
			t.Errorf("Old blocker %v should have been removed", h)
		}
	}
	if capture.count() != 3 {
		t.Errorf("Expected 3 DESPAWN, got %d", capture.count())
	}
	if len(second) != 3 {
		t.Errorf("Expected 3 new blockers, got %d", len(second))
	}
}

func TestScene_BallBouncesOffBlocker(t *testing.T) {
	scene := newTestScene(t)
	capture := &eventCapture{}
	scene.Events.Subscribe(BOUNCE, capture.capture)

	blocker := scene.insert(Entity{
		Kind:     KindBlocker,
		Collider: geom.NewOrientedBox3(mgl64.Vec3{0, 5, 2}, mgl64.Vec3{1, 1, 2}, mgl64.QuatIdent()),
	})
	h := mustBall(t, scene, mgl64.Vec3{0, 3.55, 2})
	mustEntity(t, scene, h).Body.Velocity = mgl64.Vec3{0, 4, 0}

	steps(scene, 2)

	if v := mustEntity(t, scene, h).Body.Velocity; v.Y() >= 0 {
		t.Errorf("Expected the ball to bounce back, velocity %v", v)
	}
	if capture.count() != 1 || capture.events[0].(BounceEvent).Other != blocker {
		t.Errorf("Expected one blocker bounce, got %+v", capture.events)
	}
}

// =============================================================================
// Update
// =============================================================================

func TestScene_Update(t *testing.T) {
	scene := newTestScene(t)

	if n := scene.Update(WorldContext{}, 12*time.Millisecond, false, 1); n != 2 {
		t.Errorf("Expected 2 steps, got %d", n)
	}
	if scene.Tick() != 2 {
		t.Errorf("Expected tick 2, got %d", scene.Tick())
	}
	if !almostEqual(scene.Alpha(), 0.4, 1e-9) {
		t.Errorf("Expected alpha 0.4, got %v", scene.Alpha())
	}
	if n := scene.Update(WorldContext{}, time.Second, true, 1); n != 0 {
		t.Errorf("Expected no steps while paused, got %d", n)
	}
}

func TestScene_Deterministic(t *testing.T) {
	run := func() mgl64.Vec3 {
		scene := newTestScene(t)
		scene.SpawnBlockers(WorldContext{}, 4)
		for i := range 5 {
			h := mustBall(t, scene, mgl64.Vec3{float64(i) - 2, 0, 4 + float64(i)})
			mustEntity(t, scene, h).Body.Velocity = mgl64.Vec3{3, float64(i), 0}
		}
		steps(scene, 300)

		var sum mgl64.Vec3
		for _, body := range scene.Snapshot().Bodies {
			sum = sum.Add(body.Position)
		}
		return sum
	}

	if a, b := run(), run(); a != b {
		t.Errorf("Two identical runs diverged: %v and %v", a, b)
	}
}
