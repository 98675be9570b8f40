package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/term"

	"github.com/Versifine/stride/internal/character"
	"github.com/Versifine/stride/internal/clock"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/look"
)

const (
	defaultTickInterval = 16 * time.Millisecond
	defaultMovePulse    = 180 * time.Millisecond
	defaultLookPulse    = 120 * time.Millisecond
	defaultJumpPulse    = 120 * time.Millisecond
)

// Character is the part of character.Character the console drives.
type Character interface {
	Tick(frame clock.Frame, in input.Sample) character.Snapshot
	Snapshot() character.Snapshot
	Bounce(forceMultiplier, heldMultiplier float64)
	ResetJumps()
	Teleport(pos mgl64.Vec3)
}

// pulse is one input axis direction that stays active until a deadline.
type pulse struct {
	until time.Time
}

func (p *pulse) trigger(now time.Time, d time.Duration) {
	p.until = now.Add(d)
}

func (p *pulse) active(now time.Time) bool {
	return !p.until.IsZero() && now.Before(p.until)
}

func (p *pulse) clear() {
	p.until = time.Time{}
}

type Console struct {
	char         Character
	tickInterval time.Duration
	movePulse    time.Duration
	lookPulse    time.Duration
	jumpPulse    time.Duration
	out          io.Writer

	mu                             sync.Mutex
	clock                          clock.Clock
	jump                           input.Button
	forward, backward, left, right pulse
	lookLeft, lookRight            pulse
	lookUp, lookDown               pulse
	jumpHold                       pulse
	commandMode                    bool
	commandBuf                     []rune
	statusWidth                    int
}

func NewConsole(char Character, tickInterval time.Duration) *Console {
	if tickInterval <= 0 {
		tickInterval = defaultTickInterval
	}
	return &Console{
		char:         char,
		tickInterval: tickInterval,
		movePulse:    defaultMovePulse,
		lookPulse:    defaultLookPulse,
		jumpPulse:    defaultJumpPulse,
		out:          os.Stdout,
	}
}

// Start puts the terminal in raw mode and runs until ctx is done or stdin
// closes. The character is ticked from a single goroutine.
func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.char == nil {
		return fmt.Errorf("console character is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D move, arrows look, Space jump, X clear, : command)\r\n")
	c.renderStatusLine(c.char.Snapshot())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.tickLoop(ctx)

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil || err == io.EOF {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if quit := c.handleKey(reader, b); quit {
			return nil
		}
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			frame, sample := c.nextFrame(now)
			snap := c.char.Tick(frame, sample)
			c.renderStatusLine(snap)
		}
	}
}

// nextFrame samples the active pulses at now and advances the frame clock.
func (c *Console) nextFrame(now time.Time) (clock.Frame, input.Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	held := c.jumpHold.active(now)
	sample := input.Sample{
		Move: mgl64.Vec2{
			axis(c.right.active(now), c.left.active(now)),
			axis(c.forward.active(now), c.backward.active(now)),
		},
		Look: mgl64.Vec2{
			axis(c.lookRight.active(now), c.lookLeft.active(now)),
			axis(c.lookUp.active(now), c.lookDown.active(now)),
		},
		JumpPressed: c.jump.Update(held),
		JumpHeld:    held,
	}
	return c.clock.Since(now), sample
}

func axis(positive, negative bool) float64 {
	switch {
	case positive && !negative:
		return 1
	case negative && !positive:
		return -1
	default:
		return 0
	}
}

// handleKey reports true when the console should exit.
func (c *Console) handleKey(reader *bufio.Reader, b byte) bool {
	if c.isCommandMode() {
		return c.handleCommandByte(b)
	}

	now := time.Now()
	switch b {
	case 3: // Ctrl+C, raw mode swallows SIGINT
		return true
	case ':':
		c.enterCommandMode()
		return false
	case 'w', 'W':
		c.press(now, &c.forward, &c.backward, c.movePulse)
	case 's', 'S':
		c.press(now, &c.backward, &c.forward, c.movePulse)
	case 'a', 'A':
		c.press(now, &c.left, &c.right, c.movePulse)
	case 'd', 'D':
		c.press(now, &c.right, &c.left, c.movePulse)
	case ' ':
		c.press(now, &c.jumpHold, nil, c.jumpPulse)
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return false
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return false
		}
		switch arrow {
		case 'D':
			c.press(now, &c.lookLeft, &c.lookRight, c.lookPulse)
		case 'C':
			c.press(now, &c.lookRight, &c.lookLeft, c.lookPulse)
		case 'A':
			c.press(now, &c.lookUp, &c.lookDown, c.lookPulse)
		case 'B':
			c.press(now, &c.lookDown, &c.lookUp, c.lookPulse)
		}
	}
	return false
}

// press activates on and cancels its opposite direction.
func (c *Console) press(now time.Time, on, opposite *pulse, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	on.trigger(now, d)
	if opposite != nil {
		opposite.clear()
	}
}

func (c *Console) clearInput() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range []*pulse{
		&c.forward, &c.backward, &c.left, &c.right,
		&c.lookLeft, &c.lookRight, &c.lookUp, &c.lookDown,
		&c.jumpHold,
	} {
		p.clear()
	}
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) bool {
	switch b {
	case 3:
		return true
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
	case 27:
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s \r:%s", buf, buf)
	default:
		if b < 32 || b > 126 {
			return false
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
	return false
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(strings.TrimPrefix(cmd, ":"))
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		s := c.char.Snapshot()
		fmt.Fprintf(c.out, "[debug] frame=%d pos=%s vel=%s ground=%t double_jump=%t yaw=%.1f pitch=%.1f\r\n",
			s.Frame.Index, formatVec(s.Position), formatVec(s.Velocity),
			s.Grounded, s.DoubleJumpAvailable, s.Yaw, s.Pitch,
		)
	case "tp":
		v, err := parseFloats(parts[1:], 3)
		if err != nil {
			fmt.Fprintf(c.out, "[debug] usage: :tp <x> <y> <z> (%v)\r\n", err)
			return
		}
		pos := mgl64.Vec3{v[0], v[1], v[2]}
		c.char.Teleport(pos)
		fmt.Fprintf(c.out, "[debug] teleport queued to %s\r\n", formatVec(pos))
	case "bounce":
		v, err := parseFloats(parts[1:], 2)
		if err != nil {
			fmt.Fprintf(c.out, "[debug] usage: :bounce <force> <held> (%v)\r\n", err)
			return
		}
		c.char.Bounce(v[0], v[1])
		fmt.Fprintf(c.out, "[debug] bounce queued force=%.2f held=%.2f\r\n", v[0], v[1])
	case "reset":
		c.char.ResetJumps()
		fmt.Fprint(c.out, "[debug] jumps reset queued\r\n")
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
		slog.Debug("debug unknown command", "command", cmd)
	}
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Arrows: pulse look\r\n")
	fmt.Fprint(c.out, "  Space: jump (hold by repeating)\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  Ctrl+C: quit\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :bounce <force> <held>\r\n")
	fmt.Fprint(c.out, "  :reset\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine(s character.Snapshot) {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	width := c.statusWidth
	c.mu.Unlock()

	line := statusLine(s)
	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func statusLine(s character.Snapshot) string {
	dir := look.Direction(s.Yaw, s.Pitch)
	return fmt.Sprintf(
		"[YAW:%.1f PIT:%.1f DIR:(%.2f,%.2f,%.2f) | X:%.2f Y:%.2f Z:%.2f VY:%.2f ground:%s dj:%s]",
		s.Yaw, s.Pitch,
		dir.X(), dir.Y(), dir.Z(),
		s.Position.X(), s.Position.Y(), s.Position.Z(),
		s.Velocity.Y(),
		boolLabel(s.Grounded),
		boolLabel(s.DoubleJumpAvailable),
	)
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.3f,%.3f,%.3f)", v.X(), v.Y(), v.Z())
}
