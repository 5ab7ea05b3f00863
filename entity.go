package courtside

import (
	"github.com/akmonengine/courtside/actor"
	"github.com/akmonengine/courtside/geom"
)

// Kind tags the variant stored in an Entity.
type Kind uint8

const (
	KindBall Kind = iota
	KindPlayer
	KindProp
	KindBlocker
)

func (k Kind) String() string {
	switch k {
	case KindBall:
		return "ball"
	case KindPlayer:
		return "player"
	case KindProp:
		return "prop"
	case KindBlocker:
		return "blocker"
	}
	return "unknown"
}

// Entity is a tagged union. Balls and players carry a Body; props and
// blockers are static colliders and carry a Collider.
type Entity struct {
	Kind Kind

	Body     *actor.RigidBody
	Collider geom.OrientedBox3

	// Holding is the ball a player carries, or the zero Handle.
	Holding Handle
	// HeldBy is the player carrying a ball, or the zero Handle.
	HeldBy Handle
}

// Dynamic reports whether the entity takes part in collision response.
func (e *Entity) Dynamic() bool {
	return e.Kind == KindBall || e.Kind == KindPlayer
}
