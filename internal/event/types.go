package event

const (
	EventBounce     = "bounce"
	EventResetJumps = "reset_jumps"
	EventTeleport   = "teleport"
)

// Bounce asks the character to launch upward; see movement.Integrator.Bounce.
type Bounce struct {
	Source string
	Force  float64
	Held   float64
}

type ResetJumps struct {
	Source string
}

// Teleport places the character at Position and clears its velocity.
type Teleport struct {
	Position [3]float64
}
