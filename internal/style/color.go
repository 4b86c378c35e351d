package style

import (
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA color with 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// Black is opaque black, the fallback text color.
var Black = Color{0, 0, 0, 255}

// RGBA builds a Color from channel values.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// WithAlpha returns a copy of c with a different alpha channel.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// colorful converts the RGB channels for go-colorful.
func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ColorToHex renders the RGB channels of c as six lowercase hex digits.
// The alpha channel is not part of the result.
func ColorToHex(c Color) string {
	return strings.TrimPrefix(c.colorful().Hex(), "#")
}

// HexToColor parses a six digit hex string and combines it with alpha.
// Alpha is clamped to [0, 255] and rounded. Input of any other length,
// including a "#rrggbb" form, yields black with the clamped alpha; the
// function never fails.
func HexToColor(s string, alpha float64) Color {
	a := ClampAlpha(alpha)

	if !isHex6(s) {
		return Color{0, 0, 0, a}
	}

	parsed, err := colorful.Hex("#" + s)
	if err != nil {
		return Color{0, 0, 0, a}
	}

	r, g, b := parsed.RGB255()
	return Color{R: r, G: g, B: b, A: a}
}

// ClampAlpha clamps an alpha value to [0, 255] and rounds it to the
// nearest integer. NaN maps to 0.
func ClampAlpha(alpha float64) uint8 {
	if math.IsNaN(alpha) {
		return 0
	}
	return uint8(math.Round(math.Max(0, math.Min(255, alpha))))
}

// IsHexColor reports whether s is exactly six hex digits.
func IsHexColor(s string) bool {
	return isHex6(s)
}

func isHex6(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
