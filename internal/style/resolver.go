// Package style computes effective text styles and derives updated style
// records from partial updates.
//
// Two scopes exist: the style of a single selected item and the global
// default applied to every item that does not override it. An item's own
// values always win over the global default.
package style

import (
	"slices"

	"github.com/dshills/textstyle/internal/hyphenation"
)

// Scope identifies which style an update was written to.
type Scope uint8

const (
	// ScopeNone means the update was not applied.
	ScopeNone Scope = iota

	// ScopeItem is the style of the selected item.
	ScopeItem

	// ScopeGlobal is the global default style (and every item's style).
	ScopeGlobal
)

// String returns the string representation of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeNone:
		return "none"
	case ScopeItem:
		return "item"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Resolved is the effective style of an item, with every fallback applied.
type Resolved struct {
	FontFamilies []string

	// FontSize is nil when no scope sets a size; the renderer then fits
	// the text to its box.
	FontSize *float64

	Color               Color
	Effect              Effect
	AutoWordBreak       bool
	HyphenationLanguage string
}

// PrimaryFont returns the first font family.
func (r Resolved) PrimaryFont() string {
	if len(r.FontFamilies) == 0 {
		return DefaultFontFamily
	}
	return r.FontFamilies[0]
}

// HexColor returns the color as six hex digits.
func (r Resolved) HexColor() string {
	return ColorToHex(r.Color)
}

// HyphenationCode returns the selected hyphenation code, or the "none"
// sentinel when hyphenation is disabled.
func (r Resolved) HyphenationCode() string {
	if r.HyphenationLanguage == "" {
		return hyphenation.CodeNone
	}
	return r.HyphenationLanguage
}

// Resolve computes the effective style for display. Each field resolves
// independently: the item's value if present, else the global default's,
// else a fixed fallback. The item may be nil.
func Resolve(item *Record, global Record) Resolved {
	var it Record
	if item != nil {
		it = *item
	}

	res := Resolved{
		FontFamilies: DefaultFontFamilies(),
		Color:        Black,
		Effect:       EffectNormal,
	}

	switch {
	case len(it.FontFamilies) > 0:
		res.FontFamilies = slices.Clone(it.FontFamilies)
	case len(global.FontFamilies) > 0:
		res.FontFamilies = slices.Clone(global.FontFamilies)
	}

	res.FontSize = clonePtr(firstPtr(it.FontSize, global.FontSize))

	if c := firstPtr(it.Color, global.Color); c != nil {
		res.Color = *c
	}
	if e := firstPtr(it.Effect, global.Effect); e != nil {
		res.Effect = *e
	}
	if b := firstPtr(it.AutoWordBreak, global.AutoWordBreak); b != nil {
		res.AutoWordBreak = *b
	}
	if l := firstPtr(it.HyphenationLanguage, global.HyphenationLanguage); l != nil {
		res.HyphenationLanguage = *l
	}

	return res
}

// Build produces the next record from an existing one and a patch.
//
// For each field the patch wins when Set, removes the value when Clear and
// otherwise the existing value is kept. When neither provides a value,
// FontFamilies and Color fall back to the global default; the remaining
// fields stay absent. Existing may be nil.
func Build(existing *Record, p Patch, global Record) Record {
	var ex Record
	if existing != nil {
		ex = *existing
	}

	var out Record

	switch {
	case p.FontFamilies.IsSet():
		v, _ := p.FontFamilies.Value()
		out.FontFamilies = UniqueStrings(v)
	case p.FontFamilies.IsClear():
		out.FontFamilies = nil
	case len(ex.FontFamilies) > 0:
		out.FontFamilies = slices.Clone(ex.FontFamilies)
	case len(global.FontFamilies) > 0:
		out.FontFamilies = slices.Clone(global.FontFamilies)
	}

	out.Color = p.Color.apply(ex.Color)
	if out.Color == nil && p.Color.IsUnset() {
		out.Color = clonePtr(global.Color)
	}

	out.FontSize = p.FontSize.apply(ex.FontSize)
	out.Effect = p.Effect.apply(ex.Effect)
	out.AutoWordBreak = p.AutoWordBreak.apply(ex.AutoWordBreak)
	out.HyphenationLanguage = p.HyphenationLanguage.apply(ex.HyphenationLanguage)

	return out
}

// MergeFontFamilies moves next to the front of current, dropping any other
// occurrence of it and keeping the order of the rest. An empty current
// starts from defaults, or from the built-in fallback when defaults is
// empty too.
func MergeFontFamilies(next string, current, defaults []string) []string {
	base := current
	if len(base) == 0 {
		base = defaults
	}
	if len(base) == 0 {
		base = DefaultFontFamilies()
	}

	out := make([]string, 0, len(base)+1)
	out = append(out, next)
	for _, f := range base {
		if f != next {
			out = append(out, f)
		}
	}

	return UniqueStrings(out)
}

// UniqueStrings returns values without empty strings and repeats, in order
// of first occurrence.
func UniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// HyphenationPatch returns the patch for selecting a hyphenation code.
// The code is resolved against the language registry and stored in its
// canonical form, which turns word breaking on. The "none" sentinel, an
// empty code and codes the registry does not know turn word breaking off
// and clear the language.
func HyphenationPatch(code string) Patch {
	canonical, ok := hyphenation.Normalize(code)
	if !ok || hyphenation.IsNone(canonical) {
		return Patch{
			AutoWordBreak:       Set(false),
			HyphenationLanguage: Clear[string](),
		}
	}
	return Patch{
		AutoWordBreak:       Set(true),
		HyphenationLanguage: Set(canonical),
	}
}

func firstPtr[T any](ptrs ...*T) *T {
	for _, p := range ptrs {
		if p != nil {
			return p
		}
	}
	return nil
}
