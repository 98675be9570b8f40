// Package look integrates look input into body yaw and camera pitch.
//
// Angles are degrees. Pitch follows the camera convention where 0 is level,
// 90 is straight down and 270 is straight up; the band (90,270) would look
// behind the character and is never produced.
package look

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	PitchDown = 90.0
	PitchUp   = 270.0
)

// Wrap360 maps any angle into [0,360).
func Wrap360(deg float64) float64 {
	w := math.Mod(deg, 360)
	if w < 0 {
		w += 360
	}
	if w >= 360 {
		w = 0
	}
	return w
}

// ClampPitch wraps pitch into [0,360) and keeps it out of the rear band.
// Results in (90,180) snap to straight down (90) and results in [180,270)
// snap to straight up (270). Everything else is returned as is.
func ClampPitch(pitch float64) float64 {
	p := Wrap360(pitch)
	switch {
	case p > PitchDown && p < 180:
		return PitchDown
	case p >= 180 && p < PitchUp:
		return PitchUp
	default:
		return p
	}
}

// ValidPitch reports whether deg lies in [0,90] ∪ [270,360).
func ValidPitch(deg float64) bool {
	return deg >= 0 && deg < 360 && !inRearBand(deg)
}

func inRearBand(deg float64) bool {
	return deg > PitchDown && deg < PitchUp
}

// Direction returns the unit view vector for yaw and pitch, with yaw 0 facing
// +Z and yaw 90 facing +X.
func Direction(yaw, pitch float64) mgl64.Vec3 {
	yawRad := mgl64.DegToRad(yaw)
	pitchRad := mgl64.DegToRad(pitch)
	return mgl64.Vec3{
		math.Sin(yawRad) * math.Cos(pitchRad),
		-math.Sin(pitchRad),
		math.Cos(yawRad) * math.Cos(pitchRad),
	}
}

// Rig is a minimal camera that only remembers its pitch.
type Rig struct {
	pitch float64
}

func (r *Rig) SetPitch(deg float64) {
	r.pitch = deg
}

func (r *Rig) Pitch() float64 {
	return r.pitch
}
