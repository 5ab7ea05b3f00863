package courtside

import (
	"fmt"
	"math"
	"time"

	"github.com/akmonengine/courtside/actor"
	"github.com/akmonengine/courtside/bounce"
	"github.com/akmonengine/courtside/geom"
	"github.com/akmonengine/courtside/pushout"
	"github.com/akmonengine/courtside/raycast"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// holdGap is the space left between a player and the ball it carries.
const holdGap = 0.05

// Scene owns every entity on a court and advances them in fixed steps.
type Scene struct {
	Config Config
	Court  Court

	Entities Arena[Entity]
	Events   Events
	// Workers is the number of goroutines used to integrate bodies
	Workers int

	clock Clock
	tick  uint64
	score int
}

// NewScene validates cfg and builds an empty scene on its court.
func NewScene(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scene{
		Config:  cfg,
		Court:   NewCourt(cfg),
		Events:  NewEvents(),
		Workers: max(DEFAULT_WORKERS, cfg.Workers),
		clock:   Clock{Step: cfg.Step, MaxFrame: cfg.MaxFrameTime},
	}, nil
}

// Tick is the number of steps run so far.
func (s *Scene) Tick() uint64 {
	return s.tick
}

// Score is the number of balls that dropped into the hoop.
func (s *Scene) Score() int {
	return s.score
}

func (s *Scene) Entity(h Handle) (*Entity, bool) {
	return s.Entities.Get(h)
}

// =============================================================================
// Spawning
// =============================================================================

// AddBall spawns a ball at rest.
func (s *Scene) AddBall(position mgl64.Vec3) (Handle, error) {
	ball := s.Config.Ball
	body, err := actor.NewRigidBody(actor.BodyConfig{
		Transform: actor.NewTransform(position),
		Shape:     actor.Shape{Type: actor.ShapeTypeSphere, Radius: ball.Radius},
		Mass:      ball.Mass,
		Material: actor.Material{
			Restitution: ball.Restitution,
			Drag:        ball.Drag,
			AngularDrag: ball.AngularDrag,
		},
		UseGravity: true,
		Spinning:   true,
	})
	if err != nil {
		return Handle{}, fmt.Errorf("courtside: add ball: %w", err)
	}
	return s.insert(Entity{Kind: KindBall, Body: body}), nil
}

// AddPlayer spawns an upright player centered on position.
func (s *Scene) AddPlayer(position mgl64.Vec3) (Handle, error) {
	player := s.Config.Player
	body, err := actor.NewRigidBody(actor.BodyConfig{
		Transform: actor.NewTransform(position),
		Shape:     actor.Shape{Type: actor.ShapeTypeCapsule, Radius: player.Radius, HalfHeight: player.HalfHeight},
		Mass:      player.Mass,
		Material:  actor.Material{Restitution: player.Restitution},
		UseGravity: true,
	})
	if err != nil {
		return Handle{}, fmt.Errorf("courtside: add player: %w", err)
	}
	return s.insert(Entity{Kind: KindPlayer, Body: body}), nil
}

// AddProp places a static box on the court.
func (s *Scene) AddProp(box geom.OrientedBox3) Handle {
	return s.insert(Entity{Kind: KindProp, Collider: box})
}

func (s *Scene) insert(e Entity) Handle {
	h := s.Entities.Insert(e)
	s.Events.emitSpawn(h, e.Kind)
	return h
}

// SpawnBlockers replaces every blocker with n new ones of random size and
// heading, standing on the floor inside the court.
func (s *Scene) SpawnBlockers(ctx WorldContext, n int) []Handle {
	for _, h := range s.handles(KindBlocker) {
		s.Remove(h)
	}

	rng := ctx.rand()
	cfg := s.Config.Blocker
	between := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	handles := make([]Handle, 0, n)
	for range n {
		half := mgl64.Vec3{
			between(cfg.MinHalfExtents.X(), cfg.MaxHalfExtents.X()),
			between(cfg.MinHalfExtents.Y(), cfg.MaxHalfExtents.Y()),
			between(cfg.MinHalfExtents.Z(), cfg.MaxHalfExtents.Z()),
		}
		// Keep the whole footprint inside the walls whatever the heading.
		margin := math.Hypot(half.X(), half.Y())
		bounds := s.Court.Bounds
		center := mgl64.Vec3{
			between(bounds.Min.X()+margin, math.Max(bounds.Min.X()+margin, bounds.Max.X()-margin)),
			between(bounds.Min.Y()+margin, math.Max(bounds.Min.Y()+margin, bounds.Max.Y()-margin)),
			half.Z(),
		}
		yaw := mgl64.QuatRotate(between(0, 2*math.Pi), geom.AxisZ)

		handles = append(handles, s.insert(Entity{
			Kind:     KindBlocker,
			Collider: geom.NewOrientedBox3(center, half, yaw),
		}))
	}

	ctx.logger().Debug("blockers respawned", "count", n, "tick", s.tick)
	return handles
}

// Remove despawns the entity behind h. A carried ball is dropped first.
func (s *Scene) Remove(h Handle) bool {
	e, ok := s.Entities.Get(h)
	if !ok {
		return false
	}
	if e.Holding.Valid() {
		s.release(h)
	}
	if e.HeldBy.Valid() {
		s.release(e.HeldBy)
	}

	kind := e.Kind
	s.Entities.Remove(h)
	s.Events.emitDespawn(h, kind)
	return true
}

// =============================================================================
// Player actions
// =============================================================================

// MovePlayer sets the horizontal velocity of a player and turns it to face
// where it goes.
func (s *Scene) MovePlayer(h Handle, velocity mgl64.Vec2) bool {
	player, ok := s.player(h)
	if !ok {
		return false
	}
	body := player.Body
	body.Velocity = mgl64.Vec3{velocity.X(), velocity.Y(), body.Velocity.Z()}
	if velocity.LenSqr() > 0 {
		body.Transform.EulerAngles[0] = math.Atan2(velocity.Y(), velocity.X())
	}
	return true
}

// Pickup casts a ray from the bottom of the player's bone along its heading
// and grabs the nearest free ball it hits within reach.
func (s *Scene) Pickup(h Handle) (Handle, bool) {
	player, ok := s.player(h)
	if !ok || player.Holding.Valid() {
		return Handle{}, false
	}

	forward := player.Body.Basis()[0]
	ray := raycast.Ray3{
		Origin:    player.Body.Shape.Capsule(player.Body.Transform.Position).Start,
		Direction: mgl64.Vec3{forward.X(), forward.Y(), 0},
		MaxLength: s.Config.Player.Reach,
	}

	var nearest Handle
	best := math.Inf(1)
	s.Entities.Each(func(bh Handle, e *Entity) {
		if e.Kind != KindBall || e.HeldBy.Valid() || e.Body.Dead {
			return
		}
		res := raycast.VsSphere3(ray, e.Body.Transform.Position, e.Body.Shape.Radius)
		if res.DidImpact && res.Distance < best {
			best, nearest = res.Distance, bh
		}
	})
	if !nearest.Valid() {
		return Handle{}, false
	}

	ball, _ := s.Entities.Get(nearest)
	ball.HeldBy = h
	ball.Body.Simulated = false
	ball.Body.Velocity = mgl64.Vec3{}
	ball.Body.AngularVelocity = mgl64.Vec3{}
	player.Holding = nearest
	s.carry(player, ball)
	return nearest, true
}

// Throw releases the carried ball with an impulse and a spin impulse on top
// of the player's own velocity.
func (s *Scene) Throw(h Handle, impulse, spin mgl64.Vec3) bool {
	player, ok := s.player(h)
	if !ok || !player.Holding.Valid() {
		return false
	}
	ball, ok := s.release(h)
	if !ok {
		return false
	}
	ball.Body.Velocity = player.Body.Velocity
	ball.Body.AddImpulse(impulse)
	ball.Body.AddAngularImpulse(spin)
	return true
}

func (s *Scene) player(h Handle) (*Entity, bool) {
	e, ok := s.Entities.Get(h)
	if !ok || e.Kind != KindPlayer {
		return nil, false
	}
	return e, true
}

// release drops the ball carried by the player h.
func (s *Scene) release(h Handle) (*Entity, bool) {
	player, ok := s.Entities.Get(h)
	if !ok {
		return nil, false
	}
	ball, ok := s.Entities.Get(player.Holding)
	player.Holding = Handle{}
	if !ok {
		return nil, false
	}
	ball.HeldBy = Handle{}
	ball.Body.Simulated = true
	return ball, true
}

// carry puts a held ball in front of its player.
func (s *Scene) carry(player, ball *Entity) {
	forward := player.Body.Basis()[0]
	reach := player.Body.Shape.Radius + ball.Body.Shape.Radius + holdGap
	ball.Body.PreviousTransform.Position = ball.Body.Transform.Position
	ball.Body.Transform.Position = player.Body.Transform.Position.Add(forward.Mul(reach))
	ball.Body.Velocity = player.Body.Velocity
}

// =============================================================================
// Simulation
// =============================================================================

// Update advances the scene by one rendered frame and returns the number of
// steps run.
func (s *Scene) Update(ctx WorldContext, frame time.Duration, paused bool, timeScale float64) int {
	steps := s.clock.Advance(frame, paused, timeScale)
	for range steps {
		s.Step(ctx)
	}
	return steps
}

// Alpha is the fraction of a step left over after the last Update.
func (s *Scene) Alpha() float64 {
	return s.clock.Alpha()
}

// Step runs one fixed step.
func (s *Scene) Step(ctx WorldContext) {
	dt := s.Config.Step.Seconds()

	players := s.handles(KindPlayer)
	balls := s.freeBalls()

	s.resolvePlayers(players)
	s.bounceBallsOffCourt(balls)
	s.pushBallsOutOfPlayers(balls, players)
	s.bounceBallsOffEachOther(balls)
	s.integrate(dt)
	s.scoreBalls(ctx, balls)
	s.bounceBallsOffBlockers(balls)
	s.despawn(ctx)

	s.tick++
	s.Events.flush()
}

func (s *Scene) handles(kind Kind) []Handle {
	var handles []Handle
	s.Entities.Each(func(h Handle, e *Entity) {
		if e.Kind == kind {
			handles = append(handles, h)
		}
	})
	return handles
}

// freeBalls lists the balls under simulation, in slot order.
func (s *Scene) freeBalls() []Handle {
	var handles []Handle
	s.Entities.Each(func(h Handle, e *Entity) {
		if e.Kind == KindBall && e.Body.Active() {
			handles = append(handles, h)
		}
	})
	return handles
}

func ballView(body *actor.RigidBody) bounce.Body3 {
	return bounce.Body3{
		Center:      body.Transform.Position,
		Velocity:    body.Velocity,
		Radius:      body.Shape.Radius,
		Mass:        body.Material.GetMass(),
		Restitution: body.Material.Restitution,
	}
}

func applyView(body *actor.RigidBody, view bounce.Body3) {
	body.Transform.Position = view.Center
	body.Velocity = view.Velocity
}

// slide removes the velocity component driving a body into whatever pushed
// it by displacement.
func slide(body *actor.RigidBody, displacement mgl64.Vec3) {
	n := geom.SafeNormalize3(displacement)
	if vn := body.Velocity.Dot(n); vn < 0 {
		body.Velocity = body.Velocity.Sub(n.Mul(vn))
	}
}

func (s *Scene) resolvePlayers(players []Handle) {
	bodies := make([]*actor.RigidBody, len(players))
	capsules := make([]geom.Capsule3, len(players))
	for i, h := range players {
		e, _ := s.Entities.Get(h)
		bodies[i] = e.Body
		capsules[i] = e.Body.Shape.Capsule(e.Body.Transform.Position)
	}

	colliders := s.colliders()
	for i := range capsules {
		if bodies[i].Dead {
			continue
		}
		s.Court.ResolvePlayer(&capsules[i])
		for _, c := range colliders {
			pushout.CapsuleOutOfOrientedBox3(&capsules[i], c.box)
		}
	}

	for i := range capsules {
		for j := i + 1; j < len(capsules); j++ {
			if bodies[i].Dead || bodies[j].Dead {
				continue
			}
			pushout.CapsulesOutOfEachOther3(&capsules[i], &capsules[j], false)
		}
	}

	for i, body := range bodies {
		displacement := capsules[i].Center().Sub(body.Transform.Position)
		if displacement.LenSqr() == 0 {
			continue
		}
		body.Transform.Position = capsules[i].Center()
		slide(body, displacement)
	}
}

type collider struct {
	handle  Handle
	surface Surface
	box     geom.OrientedBox3
}

func (s *Scene) colliders() []collider {
	var colliders []collider
	s.Entities.Each(func(h Handle, e *Entity) {
		switch e.Kind {
		case KindProp:
			colliders = append(colliders, collider{handle: h, surface: SurfaceProp, box: e.Collider})
		case KindBlocker:
			colliders = append(colliders, collider{handle: h, surface: SurfaceBlocker, box: e.Collider})
		}
	})
	return colliders
}

func (s *Scene) bounceBallsOffCourt(balls []Handle) {
	propSurface := surface(s.Config.Blocker.Surface)

	for _, h := range balls {
		e, _ := s.Entities.Get(h)
		view := ballView(e.Body)

		s.Court.BounceBall(&view, func(surface Surface, contact bounce.Contact) {
			s.Events.recordContact(h, surface, Handle{}, contact.Speed)
		})
		s.Entities.Each(func(ph Handle, prop *Entity) {
			if prop.Kind != KindProp {
				return
			}
			if contact, ok := bounce.SphereOffOrientedBox3(&view, prop.Collider, propSurface); ok {
				s.Events.recordContact(h, SurfaceProp, ph, contact.Speed)
			}
		})

		applyView(e.Body, view)
	}
}

func (s *Scene) pushBallsOutOfPlayers(balls, players []Handle) {
	for _, bh := range balls {
		ball, _ := s.Entities.Get(bh)
		for _, ph := range players {
			player, _ := s.Entities.Get(ph)
			if player.Holding == bh || player.Body.Dead {
				continue
			}
			capsule := player.Body.Shape.Capsule(player.Body.Transform.Position)
			pushout.SphereOutOfCapsule3(&ball.Body.Transform.Position, ball.Body.Shape.Radius, capsule)
		}
	}
}

// bounceBallsOffEachOther resolves each unordered pair once, in slot order.
func (s *Scene) bounceBallsOffEachOther(balls []Handle) {
	bodies := make([]*actor.RigidBody, len(balls))
	views := make([]bounce.Body3, len(balls))
	for i, h := range balls {
		e, _ := s.Entities.Get(h)
		bodies[i] = e.Body
		views[i] = ballView(e.Body)
	}

	for i := range views {
		for j := i + 1; j < len(views); j++ {
			if contact, ok := bounce.SpheresOffEachOther3(&views[i], &views[j], false); ok {
				s.Events.recordContact(balls[i], SurfaceBall, balls[j], contact.Speed)
			}
		}
	}

	for i, body := range bodies {
		applyView(body, views[i])
	}
}

func (s *Scene) integrate(dt float64) {
	var bodies []*actor.RigidBody
	s.Entities.Each(func(_ Handle, e *Entity) {
		if e.Dynamic() {
			bodies = append(bodies, e.Body)
		}
	})

	gravity := s.Config.Gravity
	task(s.Workers, bodies, func(body *actor.RigidBody) {
		body.Integrate(dt, gravity)
	})

	s.Entities.Each(func(_ Handle, e *Entity) {
		if e.Kind != KindPlayer || !e.Holding.Valid() {
			return
		}
		if ball, ok := s.Entities.Get(e.Holding); ok {
			s.carry(e, ball)
		}
	})
}

// scoreBalls counts a ball once per drop into the hoop.
func (s *Scene) scoreBalls(ctx WorldContext, balls []Handle) {
	for _, h := range balls {
		e, _ := s.Entities.Get(h)
		body := e.Body
		if !s.Court.InHoop(body.Transform.Position, body.Shape.Radius, body.Velocity) {
			continue
		}

		if !s.Events.active(h, SurfaceHoop, Handle{}) {
			s.score++
			ctx.logger().Debug("score", "ball", h, "speed", body.Speed(), "tick", s.tick, "total", s.score)
		}
		s.Events.recordContact(h, SurfaceHoop, Handle{}, body.Speed())
	}
}

func (s *Scene) bounceBallsOffBlockers(balls []Handle) {
	blockers := s.handles(KindBlocker)
	if len(blockers) == 0 {
		return
	}
	blockerSurface := surface(s.Config.Blocker.Surface)

	for _, h := range balls {
		ball, _ := s.Entities.Get(h)
		view := ballView(ball.Body)
		for _, bh := range blockers {
			blocker, _ := s.Entities.Get(bh)
			if contact, ok := bounce.SphereOffOrientedBox3(&view, blocker.Collider, blockerSurface); ok {
				s.Events.recordContact(h, SurfaceBlocker, bh, contact.Speed)
			}
		}
		applyView(ball.Body, view)
	}
}

// despawn removes dead entities and balls that left the court.
func (s *Scene) despawn(ctx WorldContext) {
	var gone []Handle
	s.Entities.Each(func(h Handle, e *Entity) {
		if !e.Dynamic() {
			return
		}
		if e.Body.Dead || (e.Kind == KindBall && s.Court.OutOfBounds(e.Body.Transform.Position)) {
			gone = append(gone, h)
		}
	})

	for _, h := range gone {
		e, _ := s.Entities.Get(h)
		ctx.logger().Debug("despawn", "kind", e.Kind, "handle", h, "position", e.Body.Transform.Position, "tick", s.tick)
		s.Remove(h)
	}
}
