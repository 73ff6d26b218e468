package theme

import (
	"errors"
	"fmt"
	"sync"
)

var ErrNoThemes = errors.New("theme: cycle needs at least one theme")

// RGB is a linear colour with components in [0,1].
type RGB struct {
	R float32 `yaml:"r" json:"r"`
	G float32 `yaml:"g" json:"g"`
	B float32 `yaml:"b" json:"b"`
}

// Lerp returns c*t + o*(1-t).
func (c RGB) Lerp(o RGB, t float32) RGB {
	return RGB{
		R: c.R*t + o.R*(1-t),
		G: c.G*t + o.G*(1-t),
		B: c.B*t + o.B*(1-t),
	}
}

func (c RGB) Valid() bool {
	in := func(v float32) bool { return v >= 0 && v <= 1 }
	return in(c.R) && in(c.G) && in(c.B)
}

// Theme is the palette a court is drawn with.
type Theme struct {
	Name       string `yaml:"name" json:"name"`
	Background RGB    `yaml:"background" json:"background"`
	Paddle     RGB    `yaml:"paddle" json:"paddle"`
	Ball       RGB    `yaml:"ball" json:"ball"`
	Particle1  RGB    `yaml:"particle1" json:"particle1"`
	Particle2  RGB    `yaml:"particle2" json:"particle2"`
}

func (t Theme) Validate() error {
	if t.Name == "" {
		return errors.New("theme: name is required")
	}
	for name, c := range map[string]RGB{
		"background": t.Background,
		"paddle":     t.Paddle,
		"ball":       t.Ball,
		"particle1":  t.Particle1,
		"particle2":  t.Particle2,
	} {
		if !c.Valid() {
			return fmt.Errorf("theme %q: %s colour out of range", t.Name, name)
		}
	}
	return nil
}

// Defaults returns the built-in palettes in rotation order.
func Defaults() []Theme {
	return []Theme{
		{
			Name:       "ember",
			Background: RGB{0.1, 0.1, 0.2},
			Paddle:     RGB{0.8, 0.2, 0.2},
			Ball:       RGB{0.9, 0.9, 0.2},
			Particle1:  RGB{0.9, 0.5, 0.1},
			Particle2:  RGB{0.9, 0.9, 0.1},
		},
		{
			Name:       "reef",
			Background: RGB{0.2, 0.1, 0.1},
			Paddle:     RGB{0.2, 0.8, 0.2},
			Ball:       RGB{0.2, 0.9, 0.9},
			Particle1:  RGB{0.1, 0.9, 0.5},
			Particle2:  RGB{0.1, 0.9, 0.9},
		},
		{
			Name:       "orchid",
			Background: RGB{0.1, 0.2, 0.1},
			Paddle:     RGB{0.2, 0.2, 0.8},
			Ball:       RGB{0.9, 0.2, 0.9},
			Particle1:  RGB{0.5, 0.1, 0.9},
			Particle2:  RGB{0.9, 0.1, 0.9},
		},
	}
}

// Cycle rotates through a fixed list of themes. Safe for concurrent use.
type Cycle struct {
	mu     sync.RWMutex
	themes []Theme
	index  int
}

func NewCycle(themes []Theme) (*Cycle, error) {
	if len(themes) == 0 {
		return nil, ErrNoThemes
	}
	for _, t := range themes {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return &Cycle{themes: append([]Theme(nil), themes...)}, nil
}

func (c *Cycle) Current() Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.themes[c.index]
}

// Next advances to the following theme, wrapping around, and returns it.
func (c *Cycle) Next() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = (c.index + 1) % len(c.themes)
	return c.themes[c.index]
}

func (c *Cycle) Index() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

func (c *Cycle) Len() int { return len(c.themes) }
