package look

import (
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/lifecycle"
	"github.com/Versifine/stride/internal/settings"
)

const DefaultWaitForFrames = 3

// Camera receives the clamped pitch. Its yaw and roll are not touched.
type Camera interface {
	SetPitch(degrees float64)
}

type PitchConfig struct {
	RotationSpeed float64
	Invert        bool
	// WaitForFrames is how many ticks after Start ignore input. Freshly
	// enabled input devices can report a spurious delta on their first frames.
	WaitForFrames int
}

type Pitch struct {
	cfg     PitchConfig
	camera  Camera
	degrees float64
	waited  int
	running bool
}

var _ lifecycle.Controller = (*Pitch)(nil)

func NewPitch(cfg PitchConfig, camera Camera, initial float64) *Pitch {
	return &Pitch{cfg: cfg, camera: camera, degrees: ClampPitch(initial)}
}

func (p *Pitch) Start() error {
	if p.camera == nil {
		return &lifecycle.ConfigurationError{Component: "pitch", Missing: "camera"}
	}
	p.waited = 0
	p.running = true
	p.camera.SetPitch(p.degrees)
	return nil
}

func (p *Pitch) Stop() {
	p.running = false
}

func (p *Pitch) Running() bool {
	return p.running
}

func (p *Pitch) Degrees() float64 {
	return p.degrees
}

// Suppressing reports whether the startup window is still swallowing input.
func (p *Pitch) Suppressing() bool {
	return p.running && p.waited < p.cfg.WaitForFrames
}

func (p *Pitch) Tick(dt float64, in input.Sample, sens settings.Snapshot) {
	if !p.running {
		return
	}
	if p.waited < p.cfg.WaitForFrames {
		p.waited++
		return
	}

	delta := in.Look.Y() * sens.Vertical * p.cfg.RotationSpeed * dt
	if p.cfg.Invert {
		delta = -delta
	}
	p.degrees = ClampPitch(p.degrees + delta)
	p.camera.SetPitch(p.degrees)
}
