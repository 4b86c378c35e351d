package style

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestColorToHex(t *testing.T) {
	tests := []struct {
		color    Color
		expected string
	}{
		{Black, "000000"},
		{RGBA(255, 255, 255, 0), "ffffff"},
		{RGBA(18, 52, 86, 128), "123456"},
		{RGBA(171, 205, 239, 255), "abcdef"},
	}

	for _, tt := range tests {
		if got := ColorToHex(tt.color); got != tt.expected {
			t.Errorf("ColorToHex(%v) = %q, want %q", tt.color, got, tt.expected)
		}
	}
}

func TestHexToColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		alpha    float64
		expected Color
	}{
		{"lowercase", "ff8000", 255, RGBA(255, 128, 0, 255)},
		{"uppercase", "FF8000", 255, RGBA(255, 128, 0, 255)},
		{"hash prefix is wrong length", "#00ff00", 10, RGBA(0, 0, 0, 10)},
		{"alpha rounds", "010203", 127.5, RGBA(1, 2, 3, 128)},
		{"alpha clamps high", "010203", 300, RGBA(1, 2, 3, 255)},
		{"alpha clamps low", "010203", -4, RGBA(1, 2, 3, 0)},
		{"too short", "fff", 200, RGBA(0, 0, 0, 200)},
		{"too long", "1234567", 200, RGBA(0, 0, 0, 200)},
		{"non hex", "zz0000", 255, RGBA(0, 0, 0, 255)},
		{"empty", "", 99.4, RGBA(0, 0, 0, 99)},
		{"sign", "+12345", 255, RGBA(0, 0, 0, 255)},
		{"malformed clamps alpha", "nothex", 1e9, RGBA(0, 0, 0, 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HexToColor(tt.input, tt.alpha); got != tt.expected {
				t.Errorf("HexToColor(%q, %v) = %v, want %v", tt.input, tt.alpha, got, tt.expected)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	// Walk a spread of channel values rather than all 16M colors.
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 51 {
			for b := 0; b < 256; b += 85 {
				hex := fmt.Sprintf("%02X%02x%02X", r, g, b)
				got := ColorToHex(HexToColor(hex, 255))
				if !strings.EqualFold(got, hex) {
					t.Fatalf("round trip %q = %q", hex, got)
				}
			}
		}
	}
}

func TestClampAlpha(t *testing.T) {
	tests := []struct {
		in  float64
		out uint8
	}{
		{0, 0},
		{255, 255},
		{0.49, 0},
		{0.5, 1},
		{254.6, 255},
		{-1, 0},
		{1000, 255},
		{math.Inf(1), 255},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := ClampAlpha(tt.in); got != tt.out {
			t.Errorf("ClampAlpha(%v) = %d, want %d", tt.in, got, tt.out)
		}
	}
}

func TestColorWithAlpha(t *testing.T) {
	c := RGBA(1, 2, 3, 4).WithAlpha(200)
	if c != RGBA(1, 2, 3, 200) {
		t.Errorf("WithAlpha = %v", c)
	}
}

func TestIsHexColor(t *testing.T) {
	tests := map[string]bool{
		"ff0000":   true,
		"A1b2C3":   true,
		"#A1b2C3":  false,
		"":         false,
		"fff":      false,
		"##ff0000": false,
		"gg0000":   false,
	}
	for in, want := range tests {
		if got := IsHexColor(in); got != want {
			t.Errorf("IsHexColor(%q) = %v, want %v", in, got, want)
		}
	}
}
