package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

type GroundCheck int

const (
	// GroundProbe tests for a solid block just below the feet.
	GroundProbe GroundCheck = iota
	// GroundRay casts a ray straight down from the body centre.
	GroundRay
)

var down = mgl64.Vec3{0, -1, 0}

// Body is a box-shaped locomotor living in a block world. Its position is the
// centre of its feet.
type Body struct {
	store       BlockStore
	position    mgl64.Vec3
	width       float64
	height      float64
	groundCheck GroundCheck
	rayLength   float64
}

type BodyOption func(*Body)

func WithSize(width, height float64) BodyOption {
	return func(b *Body) {
		if width > 0 {
			b.width = width
		}
		if height > 0 {
			b.height = height
		}
	}
}

func WithGroundRay(length float64) BodyOption {
	return func(b *Body) {
		b.groundCheck = GroundRay
		if length > 0 {
			b.rayLength = length
		}
	}
}

func NewBody(store BlockStore, spawn mgl64.Vec3, opts ...BodyOption) *Body {
	b := &Body{
		store:     store,
		position:  spawn,
		width:     DefaultBodyWidth,
		height:    DefaultBodyHeight,
		rayLength: DefaultGroundRayLength,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Body) Position() mgl64.Vec3 {
	return b.position
}

func (b *Body) SetPosition(pos mgl64.Vec3) {
	b.position = pos
}

func (b *Body) Box() AABB {
	return BoxAt(b.position, b.width, b.height)
}

func (b *Body) IsGrounded() bool {
	if b.store == nil {
		return false
	}
	if b.groundCheck == GroundRay {
		origin := b.position.Add(mgl64.Vec3{0, b.height / 2, 0})
		_, ok := Raycast(origin, down, b.rayLength, b.store)
		return ok
	}
	probe := b.Box().Offset(mgl64.Vec3{0, -GroundProbeDistance, 0})
	return CollidesWithBlock(probe, b.store)
}

// MoveBy moves the body by delta, stopping at solid blocks, and returns the
// displacement actually applied.
func (b *Body) MoveBy(delta mgl64.Vec3) mgl64.Vec3 {
	moved := ResolveMovement(b.Box(), delta, b.store)
	b.position = b.position.Add(moved)
	return moved
}
