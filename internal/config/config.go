package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	GroundCheckProbe = "probe"
	GroundCheckRay   = "ray"

	DriverScript  = "script"
	DriverConsole = "console"
)

type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Movement MovementConfig `yaml:"movement"`
	Look     LookConfig     `yaml:"look"`
	Body     BodyConfig     `yaml:"body"`
	World    WorldConfig    `yaml:"world"`
	Settings SettingsConfig `yaml:"settings"`
	Driver   DriverConfig   `yaml:"driver"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type MovementConfig struct {
	MoveSpeed         float64       `yaml:"move_speed"`
	JumpPower         float64       `yaml:"jump_power"`
	Gravity           float64       `yaml:"gravity"`
	FallingMultiplier float64       `yaml:"falling_multiplier"`
	JumpTimeLeniency  time.Duration `yaml:"jump_time_leniency"`
	GroundPinVelocity float64       `yaml:"ground_pin_velocity"`
}

type LookConfig struct {
	LookSpeed     float64 `yaml:"look_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	InvertPitch   *bool   `yaml:"invert_pitch"`
	WaitForFrames *int    `yaml:"wait_for_frames"`
}

type BodyConfig struct {
	Width       float64    `yaml:"width"`
	Height      float64    `yaml:"height"`
	Spawn       [3]float64 `yaml:"spawn"`
	GroundCheck string     `yaml:"ground_check"`
	RayLength   float64    `yaml:"ray_length"`
}

type WorldConfig struct {
	Floor    FloorConfig     `yaml:"floor"`
	Blocks   [][3]int        `yaml:"blocks"`
	Triggers []TriggerConfig `yaml:"triggers"`
}

type FloorConfig struct {
	Min [2]int `yaml:"min"`
	Max [2]int `yaml:"max"`
	Y   int    `yaml:"y"`
}

type TriggerConfig struct {
	Kind  string     `yaml:"kind"`
	Min   [3]float64 `yaml:"min"`
	Max   [3]float64 `yaml:"max"`
	Force float64    `yaml:"force"`
	Held  float64    `yaml:"held"`
}

type SettingsConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

type DriverConfig struct {
	Mode   string        `yaml:"mode"`
	Tick   time.Duration `yaml:"tick"`
	Script string        `yaml:"script"`
}

// Default returns the tuning the controller ships with.
func Default() *Config {
	invert := true
	wait := 3
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Movement: MovementConfig{
			MoveSpeed:         20,
			JumpPower:         8,
			Gravity:           9.81,
			FallingMultiplier: 1.75,
			JumpTimeLeniency:  250 * time.Millisecond,
			GroundPinVelocity: -0.3,
		},
		Look: LookConfig{
			LookSpeed:     60,
			RotationSpeed: 60,
			InvertPitch:   &invert,
			WaitForFrames: &wait,
		},
		Body: BodyConfig{
			Width:       0.6,
			Height:      1.8,
			GroundCheck: GroundCheckProbe,
			RayLength:   1.1,
		},
		Driver: DriverConfig{
			Mode: DriverScript,
			Tick: 16 * time.Millisecond,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default, so omitted keys keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Look.InvertPitch == nil {
		c.Look.InvertPitch = d.Look.InvertPitch
	}
	if c.Look.WaitForFrames == nil {
		c.Look.WaitForFrames = d.Look.WaitForFrames
	}
	if c.Body.GroundCheck == "" {
		c.Body.GroundCheck = d.Body.GroundCheck
	}
	if c.Body.RayLength == 0 {
		c.Body.RayLength = d.Body.RayLength
	}
	if c.Driver.Mode == "" {
		c.Driver.Mode = d.Driver.Mode
	}
	if c.Driver.Tick == 0 {
		c.Driver.Tick = d.Driver.Tick
	}
}

func (c *Config) Validate() error {
	m := c.Movement
	switch {
	case m.MoveSpeed < 0:
		return fmt.Errorf("%w: movement.move_speed=%v must be >= 0", ErrInvalidConfig, m.MoveSpeed)
	case m.JumpPower < 0:
		return fmt.Errorf("%w: movement.jump_power=%v must be >= 0", ErrInvalidConfig, m.JumpPower)
	case m.Gravity < 0:
		return fmt.Errorf("%w: movement.gravity=%v must be >= 0", ErrInvalidConfig, m.Gravity)
	case m.FallingMultiplier < 0:
		return fmt.Errorf("%w: movement.falling_multiplier=%v must be >= 0", ErrInvalidConfig, m.FallingMultiplier)
	case m.JumpTimeLeniency < 0:
		return fmt.Errorf("%w: movement.jump_time_leniency=%v must be >= 0", ErrInvalidConfig, m.JumpTimeLeniency)
	case m.GroundPinVelocity > 0:
		return fmt.Errorf("%w: movement.ground_pin_velocity=%v must be <= 0", ErrInvalidConfig, m.GroundPinVelocity)
	}
	if c.Look.WaitForFrames != nil && *c.Look.WaitForFrames < 0 {
		return fmt.Errorf("%w: look.wait_for_frames=%d must be >= 0", ErrInvalidConfig, *c.Look.WaitForFrames)
	}
	if c.Body.Width <= 0 || c.Body.Height <= 0 {
		return fmt.Errorf("%w: body size %vx%v must be positive", ErrInvalidConfig, c.Body.Width, c.Body.Height)
	}
	switch c.Body.GroundCheck {
	case GroundCheckProbe, GroundCheckRay:
	default:
		return fmt.Errorf("%w: unknown body.ground_check %q", ErrInvalidConfig, c.Body.GroundCheck)
	}
	for i, t := range c.World.Triggers {
		if t.Kind != "bounce" && t.Kind != "checkpoint" {
			return fmt.Errorf("%w: world.triggers[%d] unknown kind %q", ErrInvalidConfig, i, t.Kind)
		}
	}
	switch c.Driver.Mode {
	case DriverScript, DriverConsole:
	default:
		return fmt.Errorf("%w: unknown driver.mode %q", ErrInvalidConfig, c.Driver.Mode)
	}
	if c.Driver.Tick <= 0 {
		return fmt.Errorf("%w: driver.tick=%v must be positive", ErrInvalidConfig, c.Driver.Tick)
	}
	return nil
}
