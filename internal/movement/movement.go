// Package movement integrates input, gravity and jumping into a per-frame
// displacement handed to an external locomotor.
package movement

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/stride/internal/clock"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/lifecycle"
)

// Locomotor moves the character through the world and answers ground queries.
// MoveBy performs collision resolution and returns the displacement applied.
type Locomotor interface {
	Position() mgl64.Vec3
	IsGrounded() bool
	MoveBy(delta mgl64.Vec3) mgl64.Vec3
}

type Config struct {
	MoveSpeed         float64
	JumpPower         float64
	Gravity           float64
	FallingMultiplier float64
	JumpTimeLeniency  time.Duration
	// GroundPinVelocity replaces downward velocity while grounded, keeping the
	// body pressed onto slopes and ground queries.
	GroundPinVelocity float64
}

// State is owned by the Integrator and only mutated by it.
type State struct {
	Velocity            mgl64.Vec3
	Grounded            bool
	LeniencyDeadline    time.Duration
	DoubleJumpAvailable bool
	PreviousHeight      float64
}

type JumpKind int

const (
	JumpNone JumpKind = iota
	JumpGround
	JumpLeniency
	JumpDouble
)

func (k JumpKind) String() string {
	switch k {
	case JumpGround:
		return "ground"
	case JumpLeniency:
		return "leniency"
	case JumpDouble:
		return "double"
	default:
		return "none"
	}
}

// Step describes what one Tick did.
type Step struct {
	Grounded bool
	Falling  bool
	Jump     JumpKind
	// Launch is the velocity after input and jump resolution, before gravity.
	Launch mgl64.Vec3
	// Gravity is the vertical speed removed by gravity this frame.
	Gravity   float64
	Velocity  mgl64.Vec3
	Requested mgl64.Vec3
	Moved     mgl64.Vec3
}

type Integrator struct {
	cfg      Config
	loco     Locomotor
	state    State
	jumpHeld bool
	running  bool
}

var _ lifecycle.Controller = (*Integrator)(nil)

func New(cfg Config, loco Locomotor) *Integrator {
	return &Integrator{cfg: cfg, loco: loco}
}

func (m *Integrator) Start() error {
	if m.loco == nil {
		return &lifecycle.ConfigurationError{Component: "movement", Missing: "locomotor"}
	}
	m.state.PreviousHeight = m.loco.Position().Y()
	m.running = true
	return nil
}

func (m *Integrator) Stop() {
	m.running = false
}

func (m *Integrator) Running() bool {
	return m.running
}

func (m *Integrator) State() State {
	return m.state
}

func (m *Integrator) Config() Config {
	return m.cfg
}

func (m *Integrator) SetConfig(cfg Config) {
	m.cfg = cfg
}

// Tick advances one frame. yawDegrees is the current body yaw; movement input
// is rotated into that facing before being scaled by MoveSpeed.
func (m *Integrator) Tick(frame clock.Frame, in input.Sample, yawDegrees float64) Step {
	if !m.running {
		return Step{}
	}
	m.jumpHeld = in.JumpHeld

	dt := frame.DT()
	grounded := m.loco.IsGrounded()
	m.state.Grounded = grounded
	facing := mgl64.Rotate3DY(mgl64.DegToRad(yawDegrees))
	horizontal := facing.Mul3x1(mgl64.Vec3{in.Move.X(), 0, in.Move.Y()}).Mul(m.cfg.MoveSpeed)
	// Horizontal velocity is re-derived from input every frame; only the
	// vertical component carries over.
	v := mgl64.Vec3{horizontal.X(), m.state.Velocity.Y(), horizontal.Z()}
	jump := JumpNone

	if grounded && v.Y() <= 0 {
		m.state.DoubleJumpAvailable = true
		m.state.LeniencyDeadline = frame.Now + m.cfg.JumpTimeLeniency
		if in.JumpPressed {
			v[1] = m.cfg.JumpPower
			jump = JumpGround
		}
	} else {
		switch {
		case in.JumpPressed && frame.Now < m.state.LeniencyDeadline:
			v[1] = m.cfg.JumpPower
			jump = JumpLeniency
		case in.JumpPressed && m.state.DoubleJumpAvailable:
			v[1] = m.cfg.JumpPower
			m.state.DoubleJumpAvailable = false
			jump = JumpDouble
		}
	}

	if grounded && v.Y() < 0 {
		v[1] = m.cfg.GroundPinVelocity
	}
	launch := v

	height := m.loco.Position().Y()
	falling := height < m.state.PreviousHeight
	g := m.cfg.Gravity * dt
	if falling {
		g *= m.cfg.FallingMultiplier
	}
	v[1] -= g
	m.state.PreviousHeight = height
	m.state.Velocity = v

	requested := v.Mul(dt)
	moved := m.loco.MoveBy(requested)

	return Step{
		Grounded:  grounded,
		Falling:   falling,
		Jump:      jump,
		Launch:    launch,
		Gravity:   g,
		Velocity:  v,
		Requested: requested,
		Moved:     moved,
	}
}

// Bounce launches the character upward, e.g. from a bounce pad. Holding jump
// uses heldMultiplier instead of forceMultiplier. Horizontal velocity and the
// jump bookkeeping are left alone.
func (m *Integrator) Bounce(forceMultiplier, heldMultiplier float64) {
	if m.jumpHeld {
		m.state.Velocity[1] = m.cfg.JumpPower * heldMultiplier
		return
	}
	m.state.Velocity[1] = m.cfg.JumpPower * forceMultiplier
}

// ResetJumps makes the double jump available again.
func (m *Integrator) ResetJumps() {
	m.state.DoubleJumpAvailable = true
}

// JumpHeld reports whether jump was held in the most recent sample.
func (m *Integrator) JumpHeld() bool {
	return m.jumpHeld
}

// Resync drops vertical velocity and re-reads the locomotor height, for use
// after the character is placed somewhere new.
func (m *Integrator) Resync() {
	m.state.Velocity = mgl64.Vec3{}
	if m.loco != nil {
		m.state.PreviousHeight = m.loco.Position().Y()
	}
}
