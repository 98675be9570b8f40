package look

import (
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/lifecycle"
	"github.com/Versifine/stride/internal/settings"
)

// Yaw turns the body about the vertical axis. It is not clamped.
type Yaw struct {
	LookSpeed float64

	degrees float64
	running bool
}

var _ lifecycle.Controller = (*Yaw)(nil)

func NewYaw(lookSpeed, initial float64) *Yaw {
	return &Yaw{LookSpeed: lookSpeed, degrees: Wrap360(initial)}
}

func (y *Yaw) Start() error {
	y.running = true
	return nil
}

func (y *Yaw) Stop() {
	y.running = false
}

func (y *Yaw) Running() bool {
	return y.running
}

func (y *Yaw) Degrees() float64 {
	return y.degrees
}

func (y *Yaw) Set(deg float64) {
	y.degrees = Wrap360(deg)
}

func (y *Yaw) Tick(dt float64, in input.Sample, sens settings.Snapshot) {
	if !y.running {
		return
	}
	y.degrees = Wrap360(y.degrees + in.Look.X()*sens.Horizontal*y.LookSpeed*dt)
}
