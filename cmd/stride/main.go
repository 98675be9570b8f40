package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Versifine/stride/internal/character"
	"github.com/Versifine/stride/internal/clock"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/debug"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/logger"
	"github.com/Versifine/stride/internal/look"
	"github.com/Versifine/stride/internal/movement"
	"github.com/Versifine/stride/internal/settings"
)

func main() {
	if err := run("configs/config.yaml"); err != nil {
		os.Exit(1)
	}
}

// run logs its own failures so deferred cleanup still runs before exit.
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return err
	}

	logCfg := logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		RawTerminal: cfg.Driver.Mode == config.DriverConsole,
	}
	if cfg.Logging.File != "" {
		f, err := logger.OpenFile(cfg.Logging.File)
		if err != nil {
			slog.Error("Failed to open log file", "error", err)
			return err
		}
		defer f.Close()
		logCfg.Output = f
		logCfg.RawTerminal = false
	}
	logger.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store settings.Store
	if cfg.Settings.Path != "" {
		fs, err := settings.OpenFile(cfg.Settings.Path)
		if err != nil {
			slog.Error("Failed to open settings", "error", err)
			return err
		}
		if cfg.Settings.Watch {
			if err := fs.Watch(ctx, nil); err != nil {
				slog.Warn("Settings hot reload disabled", "error", err)
			}
		}
		store = fs
	}

	blocks, triggers := buildWorld(cfg.World)
	body := buildBody(cfg.Body, blocks)
	char := character.New(characterOptions(cfg, triggers), body, &look.Rig{}, store)
	// Start logs a configuration error itself.
	if err := char.Start(); err != nil {
		return err
	}
	defer char.Stop()

	slog.Info("World ready", "blocks", blocks.Len(), "triggers", len(triggers), "mode", cfg.Driver.Mode)

	switch cfg.Driver.Mode {
	case config.DriverConsole:
		err = debug.NewConsole(char, cfg.Driver.Tick).Start(ctx)
	default:
		err = runScript(ctx, char, cfg.Driver)
	}
	if err != nil {
		slog.Error("Driver failed", "error", err)
		return err
	}
	return nil
}

func runScript(ctx context.Context, char *character.Character, cfg config.DriverConfig) error {
	if cfg.Script == "" {
		return fmt.Errorf("driver.script is required in %s mode", config.DriverScript)
	}
	script, err := input.LoadScript(cfg.Script)
	if err != nil {
		return fmt.Errorf("load script %s: %w", cfg.Script, err)
	}

	summary := playScript(ctx, char, input.NewPlayback(script), cfg.Tick)
	s := char.Snapshot()
	slog.Info("Script finished",
		"frames", summary.frames,
		"ground_jumps", summary.jumps[movement.JumpGround],
		"leniency_jumps", summary.jumps[movement.JumpLeniency],
		"double_jumps", summary.jumps[movement.JumpDouble],
		"pos", fmt.Sprintf("(%.3f,%.3f,%.3f)", s.Position.X(), s.Position.Y(), s.Position.Z()),
		"yaw", s.Yaw,
		"pitch", s.Pitch,
		"grounded", s.Grounded,
	)
	return nil
}

type scriptSummary struct {
	frames int
	jumps  map[movement.JumpKind]int
}

// Ticker is the part of character.Character scripted playback needs.
type Ticker interface {
	Tick(frame clock.Frame, in input.Sample) character.Snapshot
}

func playScript(ctx context.Context, char Ticker, playback *input.Playback, dt time.Duration) scriptSummary {
	summary := scriptSummary{jumps: make(map[movement.JumpKind]int)}
	var clk clock.Clock
	for ctx.Err() == nil {
		sample, ok := playback.Next()
		if !ok {
			break
		}
		snap := char.Tick(clk.Step(dt), sample)
		summary.frames++
		if snap.Jump != movement.JumpNone {
			summary.jumps[snap.Jump]++
		}
		slog.Debug("Frame",
			"frame", snap.Frame.Index,
			"x", snap.Position.X(),
			"y", snap.Position.Y(),
			"z", snap.Position.Z(),
			"vy", snap.Velocity.Y(),
			"grounded", snap.Grounded,
			"jump", snap.Jump.String(),
			"yaw", snap.Yaw,
			"pitch", snap.Pitch,
		)
	}
	return summary
}
