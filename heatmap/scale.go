package heatmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// emptyFill is the fill of days without a value.
const emptyFill = "#ffffff"

// Scale maps values linearly onto a list of color stops.
type Scale struct {
	min    float64
	max    float64
	valid  bool
	colors []colorful.Color
}

// NewScale builds a scale whose domain is the [min, max] of the valid values in data.
func NewScale(colors []string, data []Data) (*Scale, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("at least one color is required")
	}

	s := &Scale{colors: make([]colorful.Color, 0, len(colors))}
	for _, hex := range colors {
		c, err := parseColor(hex)
		if err != nil {
			return nil, err
		}
		s.colors = append(s.colors, c)
	}

	s.min, s.max = math.Inf(1), math.Inf(-1)
	for _, d := range data {
		if !d.Valid || math.IsNaN(d.Value) || math.IsInf(d.Value, 0) {
			continue
		}
		s.valid = true
		s.min = math.Min(s.min, d.Value)
		s.max = math.Max(s.max, d.Value)
	}
	return s, nil
}

// parseColor accepts #rgb, #rrggbb and #rrggbbaa (alpha is ignored).
func parseColor(hex string) (colorful.Color, error) {
	h := strings.TrimSpace(hex)
	if len(h) == 9 {
		h = h[:7]
	}
	c, err := colorful.Hex(strings.ToLower(h))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

// Domain returns the value range and whether any value was seen.
func (s *Scale) Domain() (float64, float64, bool) {
	return s.min, s.max, s.valid
}

// Color returns the hex color for v.
func (s *Scale) Color(v float64) string {
	if !s.valid || len(s.colors) == 1 || s.max == s.min {
		return s.colors[0].Hex()
	}

	return s.ColorAt((v - s.min) / (s.max - s.min))
}

// ColorAt returns the hex color at position t in [0, 1] along the color stops.
func (s *Scale) ColorAt(t float64) string {
	if len(s.colors) == 1 || math.IsNaN(t) {
		return s.colors[0].Hex()
	}
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(len(s.colors)-1)
	i := int(math.Floor(pos))
	if i >= len(s.colors)-1 {
		return s.colors[len(s.colors)-1].Hex()
	}
	return s.colors[i].BlendRgb(s.colors[i+1], pos-float64(i)).Clamped().Hex()
}

// Stops returns the color stops as hex strings.
func (s *Scale) Stops() []string {
	out := make([]string, len(s.colors))
	for i, c := range s.colors {
		out[i] = c.Hex()
	}
	return out
}
