package canvas

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
)

// Args carries the named arguments of one drawing command. Values are kept
// loosely typed so that command dispatch stays primitive-agnostic: the same
// slot may hold a geographic coordinate before translation and a pixel
// coordinate after.
type Args map[string]interface{}

// Clone returns a shallow copy.
func (a Args) Clone() Args {
	c := make(Args, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// Merge returns a copy of a with all entries of other added, other winning
// on conflicting keys.
func (a Args) Merge(other Args) Args {
	c := a.Clone()
	for k, v := range other {
		c[k] = v
	}
	return c
}

// Int reads an integer slot, accepting int and float64 values.
func (a Args) Int(key string) (int, bool) {
	switch v := a[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// Float reads a float slot, accepting float64 and int values.
func (a Args) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (a Args) String(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

func (a Args) Bool(key string, def bool) bool {
	if b, ok := a[key].(bool); ok {
		return b
	}
	return def
}

// Ints reads an array slot, accepting []int and []float64.
func (a Args) Ints(key string) ([]int, bool) {
	switch v := a[key].(type) {
	case []int:
		return v, true
	case []float64:
		out := make([]int, len(v))
		for i, f := range v {
			out[i] = int(f)
		}
		return out, true
	default:
		return nil, false
	}
}

// PointList reads a slot holding canvas-local points.
func (a Args) PointList(key string) ([]image.Point, bool) {
	pts, ok := a[key].([]image.Point)
	return pts, ok
}

// Color reads a colour slot, accepting color values and hex strings.
// Missing or unparseable slots yield opaque black.
func (a Args) Color(key string) color.NRGBA {
	switch v := a[key].(type) {
	case color.NRGBA:
		return v
	case color.Color:
		r, g, b, al := v.RGBA()
		return color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(al >> 8)}
	case string:
		if c, err := ParseColor(v); err == nil {
			return c
		}
	}
	return color.NRGBA{A: 0xff}
}

// ParseColor parses a "#rrggbb" or "#rrggbbaa" hex colour.
func ParseColor(s string) (color.NRGBA, error) {
	if len(s) == 0 || s[0] != '#' || (len(s) != 7 && len(s) != 9) {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	if len(s) == 7 {
		return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}
