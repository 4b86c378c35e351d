package style

import "slices"

// DefaultFontFamily is the font used when neither an item nor the global
// default names one.
const DefaultFontFamily = "Arial"

// DefaultFontFamilies returns the fallback font list.
func DefaultFontFamilies() []string {
	return []string{DefaultFontFamily}
}

// Record is the set of typographic and visual attributes of one text item
// or of the global default. Nil fields are absent.
//
// Records are treated as values: Build and Clone never share slices or
// pointers with their inputs.
type Record struct {
	// FontFamilies lists the primary font first, then fallbacks.
	FontFamilies []string

	// FontSize is the font size in points.
	FontSize *float64

	// Color is the text color.
	Color *Color

	// Effect is the visual effect.
	Effect *Effect

	// AutoWordBreak enables splitting long words across lines.
	AutoWordBreak *bool

	// HyphenationLanguage is the language code used for word breaking.
	// Nil means hyphenation is disabled.
	HyphenationLanguage *string
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	return Record{
		FontFamilies:        slices.Clone(r.FontFamilies),
		FontSize:            clonePtr(r.FontSize),
		Color:               clonePtr(r.Color),
		Effect:              clonePtr(r.Effect),
		AutoWordBreak:       clonePtr(r.AutoWordBreak),
		HyphenationLanguage: clonePtr(r.HyphenationLanguage),
	}
}

// IsZero reports whether no field of r is present.
func (r Record) IsZero() bool {
	return len(r.FontFamilies) == 0 &&
		r.FontSize == nil &&
		r.Color == nil &&
		r.Effect == nil &&
		r.AutoWordBreak == nil &&
		r.HyphenationLanguage == nil
}

// Equal reports whether two records hold the same values.
func (r Record) Equal(o Record) bool {
	return slices.Equal(r.FontFamilies, o.FontFamilies) &&
		ptrEqual(r.FontSize, o.FontSize) &&
		ptrEqual(r.Color, o.Color) &&
		ptrEqual(r.Effect, o.Effect) &&
		ptrEqual(r.AutoWordBreak, o.AutoWordBreak) &&
		ptrEqual(r.HyphenationLanguage, o.HyphenationLanguage)
}

// Ptr returns a pointer to v. It is a helper for building Records.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
