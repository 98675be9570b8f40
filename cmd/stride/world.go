package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/stride/internal/character"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/look"
	"github.com/Versifine/stride/internal/movement"
	"github.com/Versifine/stride/internal/physics"
)

func buildWorld(cfg config.WorldConfig) (*physics.MapBlockStore, []physics.TriggerVolume) {
	store := physics.NewMapBlockStore()
	f := cfg.Floor
	if f.Min != f.Max {
		store.AddFloor(f.Min[0], f.Max[0], f.Min[1], f.Max[1], f.Y)
	}
	for _, b := range cfg.Blocks {
		store.SetSolid(b[0], b[1], b[2])
	}

	triggers := make([]physics.TriggerVolume, 0, len(cfg.Triggers))
	for i, t := range cfg.Triggers {
		triggers = append(triggers, physics.TriggerVolume{
			Name:  fmt.Sprintf("%s-%d", t.Kind, i),
			Kind:  physics.TriggerKind(t.Kind),
			Box:   physics.AABB{Min: mgl64.Vec3(t.Min), Max: mgl64.Vec3(t.Max)},
			Force: t.Force,
			Held:  t.Held,
		})
	}
	return store, triggers
}

func buildBody(cfg config.BodyConfig, store physics.BlockStore) *physics.Body {
	opts := []physics.BodyOption{physics.WithSize(cfg.Width, cfg.Height)}
	if cfg.GroundCheck == config.GroundCheckRay {
		opts = append(opts, physics.WithGroundRay(cfg.RayLength))
	}
	return physics.NewBody(store, mgl64.Vec3(cfg.Spawn), opts...)
}

func characterOptions(cfg *config.Config, triggers []physics.TriggerVolume) character.Options {
	m := cfg.Movement
	return character.Options{
		Movement: movement.Config{
			MoveSpeed:         m.MoveSpeed,
			JumpPower:         m.JumpPower,
			Gravity:           m.Gravity,
			FallingMultiplier: m.FallingMultiplier,
			JumpTimeLeniency:  m.JumpTimeLeniency,
			GroundPinVelocity: m.GroundPinVelocity,
		},
		LookSpeed: cfg.Look.LookSpeed,
		Pitch: look.PitchConfig{
			RotationSpeed: cfg.Look.RotationSpeed,
			Invert:        *cfg.Look.InvertPitch,
			WaitForFrames: *cfg.Look.WaitForFrames,
		},
		Triggers: triggers,
	}
}
