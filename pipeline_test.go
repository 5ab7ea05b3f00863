package courtside

import (
	"sync/atomic"
	"testing"

	"github.com/akmonengine/courtside/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestTask_VisitsEachOnce(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		size    int
	}{
		{"serial", 1, 10},
		{"no workers", 0, 3},
		{"more workers than data", 8, 3},
		{"uneven chunks", 3, 10},
		{"empty", 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := make([]atomic.Int32, tt.size)
			data := make([]int, tt.size)
			for i := range data {
				data[i] = i
			}

			task(tt.workers, data, func(i int) {
				counts[i].Add(1)
			})

			for i := range counts {
				if n := counts[i].Load(); n != 1 {
					t.Errorf("element %d visited %d times", i, n)
				}
			}
		})
	}
}

func TestTask_ParallelIntegrationMatchesSerial(t *testing.T) {
	bodies := func() []*actor.RigidBody {
		var bodies []*actor.RigidBody
		for i := range 16 {
			rb, err := actor.NewRigidBody(actor.BodyConfig{
				Transform:  actor.NewTransform(mgl64.Vec3{float64(i), 0, 5}),
				Shape:      actor.Shape{Type: actor.ShapeTypeSphere, Radius: 0.5},
				Mass:       1,
				Material:   actor.Material{Drag: 0.02, AngularDrag: 0.5},
				UseGravity: true,
				Spinning:   true,
			})
			if err != nil {
				t.Fatalf("NewRigidBody failed: %v", err)
			}
			rb.Velocity = mgl64.Vec3{1, float64(i), 0}
			rb.AngularVelocity = mgl64.Vec3{0, 0, float64(i)}
			bodies = append(bodies, rb)
		}
		return bodies
	}

	serial, parallel := bodies(), bodies()
	gravity := mgl64.Vec3{0, 0, -24.5}
	for range 100 {
		task(1, serial, func(rb *actor.RigidBody) { rb.Integrate(0.005, gravity) })
		task(4, parallel, func(rb *actor.RigidBody) { rb.Integrate(0.005, gravity) })
	}

	for i := range serial {
		if serial[i].Transform != parallel[i].Transform || serial[i].Velocity != parallel[i].Velocity {
			t.Errorf("body %d diverged: %v vs %v", i, serial[i].Transform.Position, parallel[i].Transform.Position)
		}
	}
}
