package input

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScript = errors.New("input script has no frames")

// Segment holds one input for a run of frames.
type Segment struct {
	Frames int        `yaml:"frames"`
	Move   [2]float64 `yaml:"move"`
	Look   [2]float64 `yaml:"look"`
	// Jump is "", "press" (pressed on the first frame, held after) or "hold".
	Jump    string `yaml:"jump"`
	Comment string `yaml:"comment"`
}

type Script struct {
	Segments []Segment `yaml:"segments"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if s.Len() == 0 {
		return nil, ErrEmptyScript
	}
	for i, seg := range s.Segments {
		if seg.Frames < 0 {
			return nil, fmt.Errorf("segment %d: frames=%d must be >= 0", i, seg.Frames)
		}
		switch seg.Jump {
		case "", "press", "hold":
		default:
			return nil, fmt.Errorf("segment %d: unknown jump %q", i, seg.Jump)
		}
	}
	return s, nil
}

// Len is the total number of frames in the script.
func (s *Script) Len() int {
	n := 0
	for _, seg := range s.Segments {
		n += seg.Frames
	}
	return n
}

// Playback yields the script one Sample per frame. Jump edges are derived
// through a Button, so a "hold" segment following a "press" segment does not
// press again.
type Playback struct {
	script  *Script
	segment int
	frame   int
	jump    Button
}

func NewPlayback(s *Script) *Playback {
	return &Playback{script: s}
}

// Next returns the next Sample, or false once the script is exhausted.
func (p *Playback) Next() (Sample, bool) {
	for p.segment < len(p.script.Segments) && p.frame >= p.script.Segments[p.segment].Frames {
		p.segment++
		p.frame = 0
	}
	if p.segment >= len(p.script.Segments) {
		return Sample{}, false
	}
	seg := p.script.Segments[p.segment]

	held := seg.Jump == "hold" || seg.Jump == "press"
	if seg.Jump == "press" && p.frame == 0 {
		// Force a fresh edge even when the previous segment also held jump.
		p.jump.Update(false)
	}
	pressed := p.jump.Update(held)
	p.frame++

	return Sample{
		Move:        mgl64.Vec2{seg.Move[0], seg.Move[1]},
		Look:        mgl64.Vec2{seg.Look[0], seg.Look[1]},
		JumpPressed: pressed,
		JumpHeld:    held,
	}, true
}
