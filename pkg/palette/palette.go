// Package palette assigns stable colors to category keys.
package palette

import (
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette returns a color for a category key. The same key always gets the
// same color for the lifetime of the palette.
type Palette interface {
	Color(key string) string
}

// DefaultColors is the base categorical palette.
var DefaultColors = []string{
	"#01B8AA", "#374649", "#FD625E", "#F2C80F", "#5F6B6D",
	"#8AD4EB", "#FE9666", "#A66999", "#3599B8", "#DFBFBF",
}

// Fixed hands out colors from a base list in first-seen key order. Once the
// base list is exhausted it cycles through it again, each round blended a
// little further toward black in Lab space so colors stay distinct.
type Fixed struct {
	mu       sync.Mutex
	base     []colorful.Color
	assigned map[string]string
}

// New builds a palette from hex colors. Invalid entries are skipped; an empty
// result falls back to [DefaultColors].
func New(colors ...string) *Fixed {
	p := &Fixed{assigned: make(map[string]string)}
	for _, hex := range colors {
		if c, err := colorful.Hex(hex); err == nil {
			p.base = append(p.base, c)
		}
	}
	if len(p.base) == 0 {
		for _, hex := range DefaultColors {
			c, _ := colorful.Hex(hex)
			p.base = append(p.base, c)
		}
	}
	return p
}

// Color implements [Palette].
func (p *Fixed) Color(key string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.assigned[key]; ok {
		return c
	}
	n := len(p.assigned)
	c := p.base[n%len(p.base)]
	if round := n / len(p.base); round > 0 {
		t := 0.2 * float64(round)
		if t > 0.8 {
			t = 0.8
		}
		c = c.BlendLab(colorful.Color{}, t).Clamped()
	}
	hex := c.Hex()
	p.assigned[key] = hex
	return hex
}

// Reset forgets every assignment.
func (p *Fixed) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assigned = make(map[string]string)
}
