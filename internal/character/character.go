// Package character drives the movement, yaw and pitch controllers as one
// per-frame unit and wires them to their collaborators.
package character

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/stride/internal/clock"
	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/look"
	"github.com/Versifine/stride/internal/movement"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/settings"
)

// TriggerSensor is implemented by locomotors that can report trigger overlap.
type TriggerSensor interface {
	Overlapping(volumes []physics.TriggerVolume) []physics.TriggerVolume
}

// Placer is implemented by locomotors that support teleporting.
type Placer interface {
	SetPosition(pos mgl64.Vec3)
}

type Options struct {
	Movement     movement.Config
	LookSpeed    float64
	Pitch        look.PitchConfig
	InitialYaw   float64
	InitialPitch float64
	Triggers     []physics.TriggerVolume
}

type Snapshot struct {
	Frame               clock.Frame
	Position            mgl64.Vec3
	Velocity            mgl64.Vec3
	Grounded            bool
	Jump                movement.JumpKind
	DoubleJumpAvailable bool
	Yaw                 float64
	Pitch               float64
	Sensitivity         settings.Snapshot
}

type Character struct {
	mu       sync.Mutex
	loco     movement.Locomotor
	movement *movement.Integrator
	yaw      *look.Yaw
	pitch    *look.Pitch
	settings settings.Store
	bus      *event.Bus
	triggers []physics.TriggerVolume
	inside   map[string]bool
	last     Snapshot
	started  bool
}

func New(opts Options, loco movement.Locomotor, camera look.Camera, store settings.Store) *Character {
	c := &Character{
		loco:     loco,
		movement: movement.New(opts.Movement, loco),
		yaw:      look.NewYaw(opts.LookSpeed, opts.InitialYaw),
		pitch:    look.NewPitch(opts.Pitch, camera, opts.InitialPitch),
		settings: store,
		bus:      event.NewBus(),
		triggers: opts.Triggers,
		inside:   make(map[string]bool),
	}
	c.bus.Subscribe(event.EventBounce, c.onBounce)
	c.bus.Subscribe(event.EventResetJumps, c.onResetJumps)
	c.bus.Subscribe(event.EventTeleport, c.onTeleport)
	return c
}

// Start starts every controller. A missing collaborator is logged once and
// returned; the character must not be ticked afterwards.
func (c *Character) Start() error {
	if c == nil {
		return fmt.Errorf("character is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.movement.Start(); err != nil {
		slog.Error("Character misconfigured", "error", err)
		return fmt.Errorf("start character: %w", err)
	}
	if err := c.yaw.Start(); err != nil {
		c.movement.Stop()
		slog.Error("Character misconfigured", "error", err)
		return fmt.Errorf("start character: %w", err)
	}
	if err := c.pitch.Start(); err != nil {
		c.movement.Stop()
		c.yaw.Stop()
		slog.Error("Character misconfigured", "error", err)
		return fmt.Errorf("start character: %w", err)
	}
	c.started = true
	c.last = c.snapshotLocked(clock.Frame{}, movement.Step{})

	slog.Info("Character started",
		"pos", formatVec(c.last.Position),
		"yaw", c.last.Yaw,
		"pitch", c.last.Pitch,
		"grounded", c.loco.IsGrounded(),
	)
	return nil
}

func (c *Character) Stop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	c.movement.Stop()
	c.yaw.Stop()
	c.pitch.Stop()
	c.started = false
	slog.Info("Character stopped", "pos", formatVec(c.loco.Position()))
}

// Tick runs one frame: queued trigger events, then movement, yaw and pitch.
// Everything the frame changes is applied before Tick returns.
func (c *Character) Tick(frame clock.Frame, in input.Sample) Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return c.last
	}

	c.bus.Dispatch()
	sens := settings.Read(c.settings)
	dt := frame.DT()

	step := c.movement.Tick(frame, in, c.yaw.Degrees())
	c.yaw.Tick(dt, in, sens)
	c.pitch.Tick(dt, in, sens)
	c.detectTriggers()

	if step.Jump != movement.JumpNone {
		slog.Debug("Jump",
			"kind", step.Jump.String(),
			"frame", frame.Index,
			"vy", step.Launch.Y(),
			"double_jump_left", c.movement.State().DoubleJumpAvailable,
		)
	}

	c.last = c.snapshotLocked(frame, step)
	c.last.Sensitivity = sens
	return c.last
}

// Bounce queues a bounce for the start of the next frame. Safe to call from
// any goroutine.
func (c *Character) Bounce(forceMultiplier, heldMultiplier float64) {
	c.bus.Publish(event.EventBounce, event.Bounce{Source: "api", Force: forceMultiplier, Held: heldMultiplier})
}

// ResetJumps queues a double-jump reset for the start of the next frame.
func (c *Character) ResetJumps() {
	c.bus.Publish(event.EventResetJumps, event.ResetJumps{Source: "api"})
}

// Teleport queues a move to pos for the start of the next frame.
func (c *Character) Teleport(pos mgl64.Vec3) {
	c.bus.Publish(event.EventTeleport, event.Teleport{Position: pos})
}

func (c *Character) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Character) Bus() *event.Bus {
	return c.bus
}

func (c *Character) detectTriggers() {
	sensor, ok := c.loco.(TriggerSensor)
	if !ok || len(c.triggers) == 0 {
		return
	}
	now := make(map[string]bool)
	for _, v := range sensor.Overlapping(c.triggers) {
		now[v.Name] = true
		if c.inside[v.Name] {
			continue
		}
		switch v.Kind {
		case physics.TriggerBounce:
			c.bus.Publish(event.EventBounce, event.Bounce{Source: v.Name, Force: v.Force, Held: v.Held})
		case physics.TriggerCheckpoint:
			c.bus.Publish(event.EventResetJumps, event.ResetJumps{Source: v.Name})
		}
	}
	c.inside = now
}

// Handlers run inside Dispatch, which Tick calls with c.mu held.

func (c *Character) onBounce(raw any) {
	evt, ok := raw.(event.Bounce)
	if !ok {
		return
	}
	c.movement.Bounce(evt.Force, evt.Held)
	slog.Debug("Bounce", "source", evt.Source, "vy", c.movement.State().Velocity.Y(), "held", c.movement.JumpHeld())
}

func (c *Character) onResetJumps(raw any) {
	evt, ok := raw.(event.ResetJumps)
	if !ok {
		return
	}
	c.movement.ResetJumps()
	slog.Debug("Jumps reset", "source", evt.Source)
}

func (c *Character) onTeleport(raw any) {
	evt, ok := raw.(event.Teleport)
	if !ok {
		return
	}
	placer, ok := c.loco.(Placer)
	if !ok {
		slog.Warn("Teleport ignored, locomotor cannot be placed")
		return
	}
	pos := mgl64.Vec3(evt.Position)
	placer.SetPosition(pos)
	c.movement.Resync()
	slog.Info("Teleported", "pos", formatVec(pos))
}

func (c *Character) snapshotLocked(frame clock.Frame, step movement.Step) Snapshot {
	state := c.movement.State()
	return Snapshot{
		Frame:               frame,
		Position:            c.loco.Position(),
		Velocity:            state.Velocity,
		Grounded:            state.Grounded,
		Jump:                step.Jump,
		DoubleJumpAvailable: state.DoubleJumpAvailable,
		Yaw:                 c.yaw.Degrees(),
		Pitch:               c.pitch.Degrees(),
		Sensitivity:         c.last.Sensitivity,
	}
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.3f,%.3f,%.3f)", v.X(), v.Y(), v.Z())
}
