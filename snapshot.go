package courtside

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"
)

// BodyState is the render state of a ball or a player.
type BodyState struct {
	Handle Handle `msgpack:"handle"`
	Kind   Kind   `msgpack:"kind"`

	Position         mgl64.Vec3 `msgpack:"position"`
	PreviousPosition mgl64.Vec3 `msgpack:"previous_position"`
	Rotation         mgl64.Quat `msgpack:"rotation"`
	// Basis holds the local x, y and z axes in world space.
	Basis [3]mgl64.Vec3 `msgpack:"basis"`

	Velocity        mgl64.Vec3 `msgpack:"velocity"`
	AngularVelocity mgl64.Vec3 `msgpack:"angular_velocity"`
	Held            bool       `msgpack:"held"`
}

// ColliderState is a prop or a blocker.
type ColliderState struct {
	Handle      Handle     `msgpack:"handle"`
	Kind        Kind       `msgpack:"kind"`
	Center      mgl64.Vec3 `msgpack:"center"`
	HalfExtents mgl64.Vec3 `msgpack:"half_extents"`
	IBasis      mgl64.Vec3 `msgpack:"i_basis"`
	JBasis      mgl64.Vec3 `msgpack:"j_basis"`
}

// Snapshot is everything a renderer needs to draw one frame. Renderers
// interpolate between PreviousPosition and Position by Alpha.
type Snapshot struct {
	Tick      uint64          `msgpack:"tick"`
	Alpha     float64         `msgpack:"alpha"`
	Score     int             `msgpack:"score"`
	Bodies    []BodyState     `msgpack:"bodies"`
	Colliders []ColliderState `msgpack:"colliders"`
}

// snapshotWire has the fields of Snapshot without its methods, so msgpack
// encodes it field by field.
type snapshotWire Snapshot

// Snapshot captures the scene in slot order.
func (s *Scene) Snapshot() Snapshot {
	snapshot := Snapshot{Tick: s.tick, Alpha: s.clock.Alpha(), Score: s.score}

	s.Entities.Each(func(h Handle, e *Entity) {
		if e.Dynamic() {
			body := e.Body
			snapshot.Bodies = append(snapshot.Bodies, BodyState{
				Handle:           h,
				Kind:             e.Kind,
				Position:         body.Transform.Position,
				PreviousPosition: body.PreviousTransform.Position,
				Rotation:         body.Orientation(),
				Basis:            body.Basis(),
				Velocity:         body.Velocity,
				AngularVelocity:  body.AngularVelocity,
				Held:             e.HeldBy.Valid(),
			})
			return
		}
		snapshot.Colliders = append(snapshot.Colliders, ColliderState{
			Handle:      h,
			Kind:        e.Kind,
			Center:      e.Collider.Center,
			HalfExtents: e.Collider.HalfExtents,
			IBasis:      e.Collider.IBasis,
			JBasis:      e.Collider.JBasis,
		})
	})
	return snapshot
}

// MarshalBinary encodes the snapshot with msgpack.
func (snapshot Snapshot) MarshalBinary() ([]byte, error) {
	data, err := msgpack.Marshal(snapshotWire(snapshot))
	if err != nil {
		return nil, fmt.Errorf("courtside: encode snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a snapshot written by MarshalBinary.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var wire snapshotWire
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return Snapshot{}, fmt.Errorf("courtside: decode snapshot: %w", err)
	}
	return Snapshot(wire), nil
}
