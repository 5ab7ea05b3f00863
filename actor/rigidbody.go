package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MagnusCoefficient scales the lift a spinning body gets from ω × v.
const MagnusCoefficient = 0.47

var (
	ErrNonPositiveMass = errors.New("actor: mass must be positive")
	ErrNegativeRadius  = errors.New("actor: radius must not be negative")
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	BodyTypeStatic
)

type Material struct {
	mass        float64
	Restitution float64 // 0= no rebound, 1= perfect restitution
	Friction    float64

	Drag        float64 // linear drag, force = -velocity * Drag
	AngularDrag float64 // torque = -angularVelocity * inertia * AngularDrag
}

func (material Material) GetMass() float64 {
	return material.mass
}

// BodyConfig holds everything needed to build a RigidBody.
type BodyConfig struct {
	Transform Transform
	Shape     Shape
	BodyType  BodyType
	Mass      float64 // ignored for static bodies
	Material  Material

	UseGravity bool
	Spinning   bool
}

// RigidBody represents a ball or a player in the simulation
type RigidBody struct {
	// Spatial properties
	PreviousTransform Transform
	Transform         Transform

	// Linear motion
	Velocity mgl64.Vec3

	// Angular motion, only integrated for spinning bodies
	AngularVelocity mgl64.Vec3
	inertia         float64

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	Material Material
	BodyType BodyType
	Shape    Shape

	// Dead bodies wait to be removed from the scene
	Dead bool
	// Simulated is false while the body is driven from outside, e.g. a
	// ball held by a player
	Simulated  bool
	Spinning   bool
	UseGravity bool
}

// NewRigidBody creates a new rigid body from cfg. Dynamic bodies need a
// positive mass.
func NewRigidBody(cfg BodyConfig) (*RigidBody, error) {
	if cfg.Shape.Radius < 0 || cfg.Shape.HalfHeight < 0 {
		return nil, fmt.Errorf("radius %v, half height %v: %w", cfg.Shape.Radius, cfg.Shape.HalfHeight, ErrNegativeRadius)
	}

	material := cfg.Material
	if cfg.BodyType == BodyTypeStatic {
		// Static bodies have infinite mass
		material.mass = math.Inf(1)
	} else {
		if !(cfg.Mass > 0) || math.IsInf(cfg.Mass, 1) {
			return nil, fmt.Errorf("mass %v: %w", cfg.Mass, ErrNonPositiveMass)
		}
		material.mass = cfg.Mass
	}

	transform := cfg.Transform
	if transform.Rotation == (mgl64.Quat{}) {
		transform.Rotation = mgl64.QuatIdent()
	}

	rb := &RigidBody{
		PreviousTransform: transform,
		Transform:         transform,
		Material:          material,
		BodyType:          cfg.BodyType,
		Shape:             cfg.Shape,
		Simulated:         true,
		Spinning:          cfg.Spinning,
		UseGravity:        cfg.UseGravity,
	}
	if cfg.BodyType != BodyTypeStatic {
		rb.inertia = cfg.Shape.ComputeInertia(material.mass)
	}

	return rb, nil
}

// Active reports whether Integrate moves the body.
func (rb *RigidBody) Active() bool {
	return rb.BodyType != BodyTypeStatic && !rb.Dead && rb.Simulated
}

func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if !rb.Active() {
		rb.ClearForces()
		return
	}

	rb.PreviousTransform = rb.Transform
	mass := rb.Material.GetMass()

	// ========== FORCES ==========
	force := rb.accumulatedForce
	if rb.UseGravity {
		force = force.Add(gravity.Mul(mass))
	}
	force = force.Sub(rb.Velocity.Mul(rb.Material.Drag))

	// ========== SPIN ==========
	if rb.Spinning {
		torque := rb.accumulatedTorque.Sub(rb.AngularVelocity.Mul(rb.inertia * rb.Material.AngularDrag))
		force = force.Add(rb.AngularVelocity.Cross(rb.Velocity).Mul(MagnusCoefficient))

		if rb.inertia > 0 {
			angularAccel := torque.Mul(1.0 / rb.inertia)
			rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))
		}

		omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
		qDot := rb.Transform.Rotation.Mul(omegaQuat).Scale(0.5)
		rb.Transform.Rotation = rb.Transform.Rotation.Add(qDot.Scale(dt)).Normalize()
	}

	// ========== LINEAR INTEGRATION ==========
	rb.Velocity = rb.Velocity.Add(force.Mul(dt / mass))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	rb.ClearForces()
}

// AddForce accumulates a force (N) for the next Integrate.
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddTorque accumulates a torque (N⋅m) for the next Integrate.
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
	}
}

// AddImpulse changes the velocity immediately, e.g. for a throw.
func (rb *RigidBody) AddImpulse(impulse mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.Velocity = rb.Velocity.Add(impulse.Mul(1.0 / rb.Material.GetMass()))
	}
}

// AddAngularImpulse changes the angular velocity immediately. Bodies without
// inertia ignore it.
func (rb *RigidBody) AddAngularImpulse(impulse mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic && rb.inertia > 0 {
		rb.AngularVelocity = rb.AngularVelocity.Add(impulse.Mul(1.0 / rb.inertia))
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// Inertia is the scalar moment of inertia, zero for static bodies.
func (rb *RigidBody) Inertia() float64 {
	return rb.inertia
}

// Orientation returns the rotation used for rendering: the integrated
// quaternion for spinning bodies, the Euler angles otherwise.
func (rb *RigidBody) Orientation() mgl64.Quat {
	if rb.Spinning {
		return rb.Transform.Rotation
	}
	return rb.Transform.EulerRotation()
}

// Basis returns the body's local x, y and z axes in world space.
func (rb *RigidBody) Basis() [3]mgl64.Vec3 {
	q := rb.Orientation()
	return [3]mgl64.Vec3{
		q.Rotate(mgl64.Vec3{1, 0, 0}),
		q.Rotate(mgl64.Vec3{0, 1, 0}),
		q.Rotate(mgl64.Vec3{0, 0, 1}),
	}
}

func (rb *RigidBody) Speed() float64 {
	return rb.Velocity.Len()
}
