package courtside

import (
	"reflect"
	"testing"
	"time"

	"github.com/akmonengine/courtside/geom"
	"github.com/go-gl/mathgl/mgl64"
)

func TestScene_Snapshot(t *testing.T) {
	scene := newTestScene(t)
	p := mustPlayer(t, scene, mgl64.Vec3{0, 0, 1.8})
	b := mustBall(t, scene, mgl64.Vec3{1.5, 0, 0.5})
	free := mustBall(t, scene, mgl64.Vec3{-3, 2, 4})
	prop := scene.AddProp(geom.NewOrientedBox3(mgl64.Vec3{5, 5, 1}, mgl64.Vec3{1, 2, 1}, mgl64.QuatIdent()))
	if _, ok := scene.Pickup(p); !ok {
		t.Fatal("Pickup failed")
	}
	steps(scene, 3)

	snapshot := scene.Snapshot()

	if snapshot.Tick != 3 {
		t.Errorf("Expected tick 3, got %d", snapshot.Tick)
	}
	if len(snapshot.Bodies) != 3 || len(snapshot.Colliders) != 1 {
		t.Fatalf("Expected 3 bodies and 1 collider, got %d and %d", len(snapshot.Bodies), len(snapshot.Colliders))
	}

	// Slot order
	for i, h := range []Handle{p, b, free} {
		if snapshot.Bodies[i].Handle != h {
			t.Errorf("Body %d: expected %v, got %v", i, h, snapshot.Bodies[i].Handle)
		}
	}
	if !snapshot.Bodies[1].Held || snapshot.Bodies[2].Held {
		t.Error("Only the carried ball should be marked held")
	}

	falling := snapshot.Bodies[2]
	if falling.Position.Z() >= falling.PreviousPosition.Z() {
		t.Errorf("Free ball should be falling: %v then %v", falling.PreviousPosition, falling.Position)
	}
	if falling.Kind != KindBall {
		t.Errorf("Expected a ball, got %v", falling.Kind)
	}

	collider := snapshot.Colliders[0]
	if collider.Handle != prop || collider.HalfExtents != (mgl64.Vec3{1, 2, 1}) {
		t.Errorf("Unexpected collider %+v", collider)
	}
}

func TestSnapshot_Roundtrip(t *testing.T) {
	scene := newTestScene(t)
	mustPlayer(t, scene, mgl64.Vec3{0, 0, 1.8})
	h := mustBall(t, scene, mgl64.Vec3{2, 0, 4})
	mustEntity(t, scene, h).Body.AngularVelocity = mgl64.Vec3{0, 3, 0}
	scene.SpawnBlockers(WorldContext{}, 2)
	scene.Update(WorldContext{}, 17*time.Millisecond, false, 1)

	snapshot := scene.Snapshot()
	data, err := snapshot.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	decoded, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot failed: %v", err)
	}
	if !reflect.DeepEqual(snapshot, decoded) {
		t.Errorf("Snapshot changed through msgpack:\nbefore %+v\nafter  %+v", snapshot, decoded)
	}
}

func TestUnmarshalSnapshot_Invalid(t *testing.T) {
	if _, err := UnmarshalSnapshot([]byte{0xc1}); err == nil {
		t.Error("Expected an error for garbage input")
	}
}
