// Package preset loads named style presets from Lua scripts.
//
// A preset script runs in a restricted Lua state and returns a table
// of presets keyed by name:
//
//	return {
//	  headline = { font = "Georgia", size = 48, color = "aa0000", effect = "metal" },
//	  caption  = { fonts = { "Verdana", "Arial" }, size = false, hyphenation = "de" },
//	}
//
// Fields: font (moved to the front of the target's families), fonts
// (replaces the list), size, color ("rrggbb"), opacity (0-255, with
// color), effect, autoWordBreak, hyphenation (language code or "none").
// Setting size, fonts or color to false clears the value.
package preset

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textstyle/internal/hyphenation"
	"github.com/dshills/textstyle/internal/style"
)

// Preset is a named partial style.
type Preset struct {
	Name string

	// Font, when set, is merged into the target's font families with
	// move-to-front semantics rather than replacing them.
	Font string

	Patch style.Patch
}

// Set is a collection of presets ordered by name.
type Set struct {
	presets []Preset
}

// Names returns the preset names in order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.presets))
	for i, p := range s.presets {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of presets.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.presets)
}

// Get returns the preset with the given name.
func (s *Set) Get(name string) (Preset, bool) {
	if s == nil {
		return Preset{}, false
	}
	i := sort.Search(len(s.presets), func(i int) bool { return s.presets[i].Name >= name })
	if i < len(s.presets) && s.presets[i].Name == name {
		return s.presets[i], true
	}
	return Preset{}, false
}

// Lookup is like Get but returns ErrNotFound for a missing name.
func (s *Set) Lookup(name string) (Preset, error) {
	if p, ok := s.Get(name); ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Loader runs preset scripts.
type Loader struct {
	timeout time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTimeout bounds script execution.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = d
	}
}

// NewLoader creates a preset loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile runs the script at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	return l.LoadString(ctx, path, string(data))
}

// Load runs the script read from r. name identifies it in errors.
func (l *Loader) Load(ctx context.Context, name string, r io.Reader) (*Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	return l.LoadString(ctx, name, string(data))
}

// LoadString runs src. name identifies the script in errors.
func (l *Loader) LoadString(ctx context.Context, name, src string) (*Set, error) {
	var set *Set
	err := run(ctx, name, src, l.timeout, func(v lua.LValue) error {
		tbl, ok := v.(*lua.LTable)
		if !ok {
			return &Error{Source: name, Err: fmt.Errorf("%w, got %s", ErrNotTable, v.Type())}
		}
		var err error
		set, err = convertSet(name, tbl)
		return err
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func convertSet(source string, tbl *lua.LTable) (*Set, error) {
	set := &Set{}
	var firstErr error

	tbl.ForEach(func(k, v lua.LValue) {
		if firstErr != nil {
			return
		}
		name, ok := k.(lua.LString)
		if !ok {
			firstErr = &Error{Source: source, Err: fmt.Errorf("%w: preset key %v is not a string", ErrInvalidValue, k)}
			return
		}
		fields, ok := v.(*lua.LTable)
		if !ok {
			firstErr = &Error{Source: source, Preset: string(name), Err: fmt.Errorf("%w: expected table, got %s", ErrInvalidValue, v.Type())}
			return
		}
		p, err := convertPreset(source, string(name), fields)
		if err != nil {
			firstErr = err
			return
		}
		set.presets = append(set.presets, p)
	})
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(set.presets, func(i, j int) bool {
		return set.presets[i].Name < set.presets[j].Name
	})
	return set, nil
}

// fieldConverter applies one Lua field to a preset under construction.
type fieldConverter func(b *builder, v lua.LValue) error

type builder struct {
	preset  Preset
	color   string
	opacity float64
	hasOpac bool
}

var converters = map[string]fieldConverter{
	"font":          convertFont,
	"fonts":         convertFonts,
	"size":          convertSize,
	"color":         convertColor,
	"opacity":       convertOpacity,
	"effect":        convertEffect,
	"autoWordBreak": convertAutoWordBreak,
	"hyphenation":   convertHyphenation,
}

func convertPreset(source, name string, fields *lua.LTable) (Preset, error) {
	b := &builder{preset: Preset{Name: name}, opacity: 255}

	keys := make([]string, 0)
	values := make(map[string]lua.LValue)
	var keyErr error
	fields.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			if keyErr == nil {
				keyErr = &Error{Source: source, Preset: name, Err: fmt.Errorf("%w: non-string key %v", ErrUnknownField, k)}
			}
			return
		}
		keys = append(keys, string(ks))
		values[string(ks)] = v
	})
	if keyErr != nil {
		return Preset{}, keyErr
	}
	sort.Strings(keys)

	for _, key := range keys {
		conv, ok := converters[key]
		if !ok {
			return Preset{}, &Error{Source: source, Preset: name, Field: key, Err: ErrUnknownField}
		}
		if err := conv(b, values[key]); err != nil {
			return Preset{}, &Error{Source: source, Preset: name, Field: key, Err: err}
		}
	}

	if b.hasOpac && b.color == "" {
		return Preset{}, &Error{Source: source, Preset: name, Field: "opacity", Err: fmt.Errorf("%w: opacity requires color", ErrInvalidValue)}
	}
	if b.color != "" {
		b.preset.Patch.Color = style.Set(style.HexToColor(b.color, b.opacity))
	}
	return b.preset, nil
}

func invalid(want string, v lua.LValue) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrInvalidValue, want, v.Type())
}

func isFalse(v lua.LValue) bool {
	b, ok := v.(lua.LBool)
	return ok && !bool(b)
}

func convertFont(b *builder, v lua.LValue) error {
	s, ok := v.(lua.LString)
	if !ok || s == "" {
		return invalid("non-empty string", v)
	}
	b.preset.Font = string(s)
	return nil
}

func convertFonts(b *builder, v lua.LValue) error {
	if isFalse(v) {
		b.preset.Patch.FontFamilies = style.Clear[[]string]()
		return nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return invalid("array of strings", v)
	}
	families := make([]string, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		s, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			return invalid("array of strings", tbl.RawGetInt(i))
		}
		families = append(families, string(s))
	}
	families = style.UniqueStrings(families)
	if len(families) == 0 {
		return fmt.Errorf("%w: empty font list", ErrInvalidValue)
	}
	b.preset.Patch.FontFamilies = style.Set(families)
	return nil
}

func convertSize(b *builder, v lua.LValue) error {
	if isFalse(v) {
		b.preset.Patch.FontSize = style.Clear[float64]()
		return nil
	}
	n, ok := v.(lua.LNumber)
	if !ok || n <= 0 {
		return invalid("positive number", v)
	}
	b.preset.Patch.FontSize = style.Set(float64(n))
	return nil
}

func convertColor(b *builder, v lua.LValue) error {
	if isFalse(v) {
		b.preset.Patch.Color = style.Clear[style.Color]()
		return nil
	}
	s, ok := v.(lua.LString)
	if !ok || !style.IsHexColor(string(s)) {
		return fmt.Errorf("%w: expected six hex digits, got %s", ErrInvalidValue, v.String())
	}
	b.color = string(s)
	return nil
}

func convertOpacity(b *builder, v lua.LValue) error {
	n, ok := v.(lua.LNumber)
	if !ok || n < 0 || n > 255 {
		return invalid("number in [0, 255]", v)
	}
	b.opacity = float64(n)
	b.hasOpac = true
	return nil
}

func convertEffect(b *builder, v lua.LValue) error {
	s, ok := v.(lua.LString)
	if !ok {
		return invalid("string", v)
	}
	e, err := style.ParseEffect(string(s))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	b.preset.Patch.Effect = style.Set(e)
	return nil
}

func convertAutoWordBreak(b *builder, v lua.LValue) error {
	bv, ok := v.(lua.LBool)
	if !ok {
		return invalid("boolean", v)
	}
	b.preset.Patch.AutoWordBreak = style.Set(bool(bv))
	return nil
}

func convertHyphenation(b *builder, v lua.LValue) error {
	var code string
	switch val := v.(type) {
	case lua.LString:
		code = string(val)
	case lua.LBool:
		if val {
			return invalid("language code or false", v)
		}
		code = hyphenation.CodeNone
	default:
		return invalid("language code", v)
	}

	normalized, ok := hyphenation.Normalize(code)
	if !ok {
		return fmt.Errorf("%w: unknown hyphenation language %q", ErrInvalidValue, code)
	}
	hp := style.HyphenationPatch(normalized)
	if b.preset.Patch.AutoWordBreak.IsSet() {
		hp.AutoWordBreak = style.Field[bool]{}
	}
	b.preset.Patch = b.preset.Patch.Merge(hp)
	return nil
}
