package config

import (
	"fmt"
	"maps"
	"math"
	"strings"

	"github.com/dshills/textstyle/internal/hyphenation"
	"github.com/dshills/textstyle/internal/logging"
	"github.com/dshills/textstyle/internal/style"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration.

// StyleConfig holds the global default style settings.
type StyleConfig struct {
	// Fonts is the default font family list, primary first.
	Fonts []string

	// FontSize is the default size in points; zero means fit to box.
	FontSize float64

	// Color is the default text color as six hex digits.
	Color string

	// Opacity is the alpha of Color, 0-255.
	Opacity float64

	// Effect is the default text effect.
	Effect style.Effect

	// RenderEffect is the effect applied by the renderer to the whole canvas.
	RenderEffect style.Effect
}

// HyphenationConfig holds hyphenation settings.
type HyphenationConfig struct {
	// Language is the default hyphenation code, normalized against the
	// registry. "none" disables hyphenation.
	Language string

	// Patterns maps registry codes to TeX pattern files.
	Patterns map[string]string

	// LeftMin and RightMin are the shortest fragments kept before the
	// first and after the last hyphen.
	LeftMin  int
	RightMin int

	// Exceptions are words with explicit hyphens, e.g. "ta-ble", that
	// override the patterns of every language.
	Exceptions []string
}

// PatternOptions returns the hyphenator options for these settings; nil
// when they are all defaults.
func (h HyphenationConfig) PatternOptions() []hyphenation.PatternOption {
	var opts []hyphenation.PatternOption
	if h.LeftMin != hyphenation.DefaultLeftMin || h.RightMin != hyphenation.DefaultRightMin {
		opts = append(opts, hyphenation.WithMinimums(h.LeftMin, h.RightMin))
	}
	if len(h.Exceptions) > 0 {
		opts = append(opts, hyphenation.WithExceptions(h.Exceptions...))
	}
	return opts
}

// FontsConfig holds font discovery settings.
type FontsConfig struct {
	// Dirs are scanned for font files; empty means the platform defaults.
	Dirs []string

	// Fallback lists families offered when scanning is disabled or fails.
	Fallback []string

	// Scan enables scanning Dirs.
	Scan bool
}

// LocaleConfig holds localisation settings.
type LocaleConfig struct {
	// Language is the BCP 47 tag of the UI language.
	Language string
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level logging.Level
}

// PresetsConfig holds Lua preset settings.
type PresetsConfig struct {
	// File is the preset script; empty disables presets.
	File string

	// Apply names a preset to apply at startup.
	Apply string
}

// Style returns the default style settings.
func (c *Config) Style() StyleConfig {
	return StyleConfig{
		Fonts:        style.UniqueStrings(c.getStringSliceOr("style.fonts", style.DefaultFontFamilies())),
		FontSize:     c.getPositiveFloatOr("style.fontSize", 0),
		Color:        c.getColorOr("style.color", "000000"),
		Opacity:      c.getFloatOr("style.opacity", 255),
		Effect:       c.getEffectOr("style.effect", style.EffectNormal),
		RenderEffect: c.getEffectOr("style.renderEffect", style.EffectNormal),
	}
}

// Hyphenation returns the hyphenation settings.
func (c *Config) Hyphenation() HyphenationConfig {
	lang := c.getStringOr("hyphenation.language", hyphenation.CodeNone)
	code, ok := hyphenation.Normalize(lang)
	if !ok {
		c.recordConfigError("hyphenation.language", &ValueError{
			Path:    "hyphenation.language",
			Value:   lang,
			Message: "unknown hyphenation language",
		})
		code = hyphenation.CodeNone
	}
	return HyphenationConfig{
		Language:   code,
		Patterns:   c.getStringMapOr("hyphenation.patterns"),
		LeftMin:    c.getMinimumOr("hyphenation.leftMin", hyphenation.DefaultLeftMin),
		RightMin:   c.getMinimumOr("hyphenation.rightMin", hyphenation.DefaultRightMin),
		Exceptions: c.getStringSliceOr("hyphenation.exceptions", nil),
	}
}

// Fonts returns the font discovery settings.
func (c *Config) Fonts() FontsConfig {
	return FontsConfig{
		Dirs:     c.getStringSliceOr("fonts.dirs", nil),
		Fallback: style.UniqueStrings(c.getStringSliceOr("fonts.fallback", nil)),
		Scan:     c.getBoolOr("fonts.scan", true),
	}
}

// Locale returns the localisation settings.
func (c *Config) Locale() LocaleConfig {
	return LocaleConfig{
		Language: c.getStringOr("locale.language", "en"),
	}
}

// Logging returns the logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: logging.ParseLevel(c.getStringOr("logging.level", "info")),
	}
}

// Presets returns the preset settings.
func (c *Config) Presets() PresetsConfig {
	return PresetsConfig{
		File:  c.getStringOr("presets.file", ""),
		Apply: c.getStringOr("presets.apply", ""),
	}
}

// DefaultStyle builds the global default style record from the style and
// hyphenation sections.
func (c *Config) DefaultStyle() style.Record {
	s := c.Style()
	h := c.Hyphenation()

	p := style.HyphenationPatch(h.Language)
	if len(s.Fonts) > 0 {
		p.FontFamilies = style.Set(s.Fonts)
	}
	if s.FontSize > 0 {
		p.FontSize = style.Set(s.FontSize)
	}
	p.Color = style.Set(style.HexToColor(s.Color, s.Opacity))
	p.Effect = style.Set(s.Effect)

	return style.Build(nil, p, style.Record{})
}

// These methods only return the default for ErrSettingNotFound.
// Other errors are recorded and also fall back to the default.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getFloatOr(path string, defaultValue float64) float64 {
	v, err := c.GetFloat(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getPositiveFloatOr(path string, defaultValue float64) float64 {
	v := c.getFloatOr(path, defaultValue)
	if v < 0 {
		c.recordConfigError(path, &ValueError{Path: path, Value: v, Message: "must not be negative"})
		return defaultValue
	}
	return v
}

func (c *Config) getMinimumOr(path string, defaultValue int) int {
	v := c.getFloatOr(path, float64(defaultValue))
	if v < 1 || v != math.Trunc(v) {
		c.recordConfigError(path, &ValueError{Path: path, Value: v, Message: "must be a positive whole number"})
		return defaultValue
	}
	return int(v)
}

func (c *Config) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return append([]string(nil), defaultValue...)
	}
	return v
}

func (c *Config) getStringMapOr(path string) map[string]string {
	v, err := c.GetStringMap(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return map[string]string{}
	}
	return maps.Clone(v)
}

func (c *Config) getColorOr(path string, defaultValue string) string {
	v := c.getStringOr(path, defaultValue)
	hex := strings.TrimPrefix(v, "#")
	if !style.IsHexColor(hex) {
		c.recordConfigError(path, &ValueError{Path: path, Value: v, Message: "expected six hex digits"})
		return defaultValue
	}
	return strings.ToLower(hex)
}

func (c *Config) getEffectOr(path string, defaultValue style.Effect) style.Effect {
	v, err := c.GetString(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	e, err := style.ParseEffect(v)
	if err != nil {
		c.recordConfigError(path, &ValueError{Path: path, Value: v, Message: fmt.Sprint(err)})
		return defaultValue
	}
	return e
}
