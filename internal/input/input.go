// Package input describes the per-frame input a character consumes.
package input

import "github.com/go-gl/mathgl/mgl64"

// Sample is the input captured for one frame. Move is (strafe, forward) and
// Look is (yaw, pitch) in axis units, typically within [-1,1].
type Sample struct {
	Move        mgl64.Vec2
	Look        mgl64.Vec2
	JumpPressed bool
	JumpHeld    bool
}

// Button turns a continuous held signal into press edges.
type Button struct {
	held bool
}

// Update records the held state for this frame and reports whether the button
// went down this frame.
func (b *Button) Update(held bool) (pressed bool) {
	pressed = held && !b.held
	b.held = held
	return pressed
}

func (b *Button) Held() bool {
	return b.held
}
