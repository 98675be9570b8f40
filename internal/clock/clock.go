// Package clock produces the per-frame timing the integrators consume.
package clock

import "time"

type Frame struct {
	Index uint64
	// Now is the time elapsed since the clock started, including this frame.
	Now   time.Duration
	Delta time.Duration
}

// DT returns the frame delta in seconds.
func (f Frame) DT() float64 {
	return f.Delta.Seconds()
}

// Clock advances frame time either by a fixed step or by measured wall time.
type Clock struct {
	frame Frame
	last  time.Time
}

// Step advances by dt.
func (c *Clock) Step(dt time.Duration) Frame {
	if dt < 0 {
		dt = 0
	}
	c.frame.Index++
	c.frame.Delta = dt
	c.frame.Now += dt
	return c.frame
}

// Since advances by the wall time elapsed since the previous call. The first
// call yields a zero delta.
func (c *Clock) Since(now time.Time) Frame {
	var dt time.Duration
	if !c.last.IsZero() {
		dt = now.Sub(c.last)
	}
	c.last = now
	return c.Step(dt)
}

func (c *Clock) Frame() Frame {
	return c.frame
}
