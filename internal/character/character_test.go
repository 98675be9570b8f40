package character

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/stride/internal/clock"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/lifecycle"
	"github.com/Versifine/stride/internal/look"
	"github.com/Versifine/stride/internal/movement"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/settings"
)

const frameDelta = 16 * time.Millisecond

func testOptions() Options {
	return Options{
		Movement: movement.Config{
			MoveSpeed:         20,
			JumpPower:         8,
			Gravity:           9.81,
			FallingMultiplier: 1.75,
			JumpTimeLeniency:  250 * time.Millisecond,
			GroundPinVelocity: -0.3,
		},
		LookSpeed: 60,
		Pitch: look.PitchConfig{
			RotationSpeed: 60,
			WaitForFrames: 3,
		},
	}
}

type harness struct {
	t     *testing.T
	body  *physics.Body
	rig   *look.Rig
	c     *Character
	clock clock.Clock
}

func newHarness(t *testing.T, opts Options, spawn mgl64.Vec3, floor bool, store settings.Store) *harness {
	t.Helper()
	blocks := physics.NewMapBlockStore()
	if floor {
		blocks.AddFloor(-5, 5, -5, 5, 0)
	}
	body := physics.NewBody(blocks, spawn)
	rig := &look.Rig{}
	c := New(opts, body, rig, store)
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return &harness{t: t, body: body, rig: rig, c: c}
}

func (h *harness) tick(in input.Sample) Snapshot {
	return h.c.Tick(h.clock.Step(frameDelta), in)
}

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.6f, want %.6f (tol=%.6f)", field, got, want, tol)
	}
}

var spawnOnFloor = mgl64.Vec3{0.5, 1, 0.5}

func TestStartWithoutCameraFails(t *testing.T) {
	body := physics.NewBody(physics.NewMapBlockStore(), spawnOnFloor)
	c := New(testOptions(), body, nil, nil)

	err := c.Start()
	if err == nil {
		t.Fatalf("Start() error = nil, want configuration error")
	}
	if !errors.Is(err, lifecycle.ErrMissingCollaborator) {
		t.Fatalf("errors.Is(err, ErrMissingCollaborator) = false, err=%v", err)
	}
	var cfgErr *lifecycle.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Component != "pitch" {
		t.Fatalf("configuration error = %+v, want component pitch", cfgErr)
	}

	var clk clock.Clock
	snap := c.Tick(clk.Step(frameDelta), input.Sample{Move: mgl64.Vec2{0, 1}})
	if snap.Position != (mgl64.Vec3{}) {
		t.Fatalf("tick after failed start returned %v, want zero snapshot", snap.Position)
	}
	if body.Position() != spawnOnFloor {
		t.Fatalf("body moved after failed start: %v", body.Position())
	}
}

func TestStartWithoutLocomotorFails(t *testing.T) {
	c := New(testOptions(), nil, &look.Rig{}, nil)
	var cfgErr *lifecycle.ConfigurationError
	if err := c.Start(); !errors.As(err, &cfgErr) || cfgErr.Missing != "locomotor" {
		t.Fatalf("Start() = %v, want missing locomotor", err)
	}
}

func TestGroundJumpOnFloor(t *testing.T) {
	h := newHarness(t, testOptions(), spawnOnFloor, true, nil)
	h.tick(input.Sample{})
	snap := h.tick(input.Sample{JumpPressed: true, JumpHeld: true})

	if snap.Jump != movement.JumpGround {
		t.Fatalf("jump=%v want %v", snap.Jump, movement.JumpGround)
	}
	approxEqual(t, snap.Velocity.Y(), 8-9.81*frameDelta.Seconds(), 1e-9, "velocity.y")
	if snap.Position.Y() <= 1 {
		t.Fatalf("position.y=%v want above floor", snap.Position.Y())
	}
}

func TestMovementUsesYawFromBeforeThisFrame(t *testing.T) {
	opts := testOptions()
	opts.InitialYaw = 90
	h := newHarness(t, opts, spawnOnFloor, true, nil)

	snap := h.tick(input.Sample{Move: mgl64.Vec2{0, 1}, Look: mgl64.Vec2{1, 0}})

	approxEqual(t, snap.Position.X(), 0.5+20*frameDelta.Seconds(), 1e-9, "position.x")
	approxEqual(t, snap.Position.Z(), 0.5, 1e-9, "position.z")
	approxEqual(t, snap.Position.Y(), 1, 1e-9, "position.y")
	approxEqual(t, snap.Yaw, 90+60*frameDelta.Seconds(), 1e-9, "yaw")
}

func TestSensitivityFromSettingsStore(t *testing.T) {
	store := settings.Map{
		settings.HorizontalMouseSensitivity: 2,
		settings.VerticalMouseSensitivity:   0.5,
	}
	h := newHarness(t, testOptions(), spawnOnFloor, true, store)

	var snap Snapshot
	for i := 0; i < 4; i++ {
		snap = h.tick(input.Sample{Look: mgl64.Vec2{1, 1}})
	}
	approxEqual(t, snap.Yaw, 4*2*60*frameDelta.Seconds(), 1e-9, "yaw")
	// Pitch ignores the first three ticks.
	approxEqual(t, snap.Pitch, 0.5*60*frameDelta.Seconds(), 1e-9, "pitch")
	approxEqual(t, h.rig.Pitch(), snap.Pitch, 0, "camera pitch")
	if snap.Sensitivity.Horizontal != 2 || snap.Sensitivity.Vertical != 0.5 {
		t.Fatalf("sensitivity=%+v want {2 0.5}", snap.Sensitivity)
	}
}

func TestBouncePadFiresOnEntryOnly(t *testing.T) {
	opts := testOptions()
	opts.Triggers = []physics.TriggerVolume{{
		Name:  "pad",
		Kind:  physics.TriggerBounce,
		Box:   physics.AABB{Min: mgl64.Vec3{-1, 1, -1}, Max: mgl64.Vec3{2, 4, 2}},
		Force: 2,
		Held:  3,
	}}
	h := newHarness(t, opts, spawnOnFloor, true, nil)

	h.tick(input.Sample{})
	if got := h.c.Bus().Pending(); got != 1 {
		t.Fatalf("pending after entering pad=%d want 1", got)
	}

	snap := h.tick(input.Sample{})
	approxEqual(t, snap.Velocity.Y(), 16-9.81*frameDelta.Seconds(), 1e-9, "velocity.y")
	if snap.Jump != movement.JumpNone {
		t.Fatalf("jump=%v want none", snap.Jump)
	}
	if got := h.c.Bus().Pending(); got != 0 {
		t.Fatalf("pending while still inside pad=%d want 0", got)
	}
}

func TestBounceWhileHoldingJump(t *testing.T) {
	h := newHarness(t, testOptions(), mgl64.Vec3{0, 10, 0}, false, nil)
	h.tick(input.Sample{JumpHeld: true})

	h.c.Bounce(2, 3)
	snap := h.tick(input.Sample{JumpHeld: true})

	// The body already dropped during the first frame, so gravity is scaled.
	approxEqual(t, snap.Velocity.Y(), 24-9.81*1.75*frameDelta.Seconds(), 1e-9, "velocity.y")
}

func TestResetJumpsRestoresDoubleJump(t *testing.T) {
	h := newHarness(t, testOptions(), mgl64.Vec3{0, 10, 0}, false, nil)
	press := input.Sample{JumpPressed: true, JumpHeld: true}

	snap := h.tick(press)
	if snap.Jump != movement.JumpNone {
		t.Fatalf("first airborne press jump=%v want none", snap.Jump)
	}

	h.c.ResetJumps()
	snap = h.tick(press)
	if snap.Jump != movement.JumpDouble {
		t.Fatalf("press after reset jump=%v want %v", snap.Jump, movement.JumpDouble)
	}
	if snap.DoubleJumpAvailable {
		t.Fatalf("double jump still available after use")
	}
}

func TestCheckpointTriggerResetsJumps(t *testing.T) {
	opts := testOptions()
	opts.Triggers = []physics.TriggerVolume{{
		Name: "checkpoint",
		Kind: physics.TriggerCheckpoint,
		Box:  physics.AABB{Min: mgl64.Vec3{-1, 8, -1}, Max: mgl64.Vec3{1, 12, 1}},
	}}
	h := newHarness(t, opts, mgl64.Vec3{0, 10, 0}, false, nil)

	h.tick(input.Sample{})
	snap := h.tick(input.Sample{JumpPressed: true, JumpHeld: true})
	if snap.Jump != movement.JumpDouble {
		t.Fatalf("jump=%v want %v", snap.Jump, movement.JumpDouble)
	}
}

func TestTeleportResetsVelocity(t *testing.T) {
	h := newHarness(t, testOptions(), mgl64.Vec3{0, 10, 0}, true, nil)
	for i := 0; i < 10; i++ {
		h.tick(input.Sample{})
	}
	if h.c.Snapshot().Velocity.Y() >= 0 {
		t.Fatalf("expected to be falling before teleport")
	}

	h.c.Teleport(mgl64.Vec3{3.5, 1, 3.5})
	snap := h.tick(input.Sample{})

	approxEqual(t, snap.Position.X(), 3.5, 1e-9, "position.x")
	approxEqual(t, snap.Position.Z(), 3.5, 1e-9, "position.z")
	approxEqual(t, snap.Position.Y(), 1, 1e-9, "position.y")
	approxEqual(t, snap.Velocity.Y(), -9.81*frameDelta.Seconds(), 1e-9, "velocity.y")
}

func TestStopFreezesCharacter(t *testing.T) {
	h := newHarness(t, testOptions(), spawnOnFloor, true, nil)
	before := h.tick(input.Sample{})
	h.c.Stop()

	after := h.tick(input.Sample{Move: mgl64.Vec2{1, 0}, Look: mgl64.Vec2{1, 1}})
	if after.Position != before.Position || after.Yaw != before.Yaw {
		t.Fatalf("stopped character changed: before=%+v after=%+v", before, after)
	}
	if h.body.Position() != before.Position {
		t.Fatalf("body moved after stop: %v", h.body.Position())
	}
}
