// Package palette resolves color names against the central color
// source file. The compiler treats that file as an opaque name to
// color-value table; theme generation features of the palette format
// are out of scope here.
package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type Color struct {
	Name  string
	RGB   colorful.Color
	Alpha uint8
}

// Parse reads a "#rrggbb" or "#rrggbbaa" color value.
func Parse(name, value string) (*Color, error) {
	if !strings.HasPrefix(value, "#") {
		return nil, fmt.Errorf("color value for '%s' must start with '#', got %q", name, value)
	}

	digits := value[1:]
	alpha := uint8(255)

	switch len(digits) {
	case 6:
	case 8:
		parsed, err := strconv.ParseUint(digits[6:8], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid alpha in color value %q for '%s'", value, name)
		}
		alpha = uint8(parsed)
		digits = digits[:6]
	default:
		return nil, fmt.Errorf("color value %q for '%s' must have 6 or 8 hex digits", value, name)
	}

	rgb, err := colorful.Hex("#" + strings.ToLower(digits))
	if err != nil {
		return nil, fmt.Errorf("invalid color value %q for '%s'", value, name)
	}

	return &Color{Name: name, RGB: rgb, Alpha: alpha}, nil
}

// MustParse is a test helper, it panics on malformed values.
func MustParse(name, value string) *Color {
	color, err := Parse(name, value)
	if err != nil {
		panic(err)
	}
	return color
}

func (c *Color) Hex() string {
	if c.Alpha != 255 {
		r, g, b := c.RGB.RGB255()
		return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, c.Alpha)
	}
	return c.RGB.Hex()
}

func (c *Color) RGBA8() (uint8, uint8, uint8, uint8) {
	r, g, b := c.RGB.RGB255()
	return r, g, b, c.Alpha
}

// Source answers color lookups during value resolution. The file
// backed palette implements it, tests substitute a Map.
type Source interface {
	ResolveColor(name string) (*Color, bool)
}

// Map is an in-memory Source for tests.
type Map map[string]*Color

func (m Map) ResolveColor(name string) (*Color, bool) {
	color, ok := m[name]
	return color, ok
}
