package style

// fieldState distinguishes the three states of a patch field.
type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldClear
	fieldSet
)

// Field is one entry of a Patch. The zero value is Unset: the patch says
// nothing about the field and the existing value is kept. Clear removes
// the value; Set replaces it.
type Field[T any] struct {
	state fieldState
	value T
}

// Set returns a field that replaces the value with v.
func Set[T any](v T) Field[T] {
	return Field[T]{state: fieldSet, value: v}
}

// Clear returns a field that removes the value.
func Clear[T any]() Field[T] {
	return Field[T]{state: fieldClear}
}

// IsUnset reports whether the field is absent from the patch.
func (f Field[T]) IsUnset() bool { return f.state == fieldUnset }

// IsClear reports whether the field explicitly removes the value.
func (f Field[T]) IsClear() bool { return f.state == fieldClear }

// IsSet reports whether the field carries a value.
func (f Field[T]) IsSet() bool { return f.state == fieldSet }

// Value returns the value and whether the field is Set.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.state == fieldSet
}

// apply resolves the field against the existing pointer value.
// Unset keeps existing, Clear yields nil, Set yields a fresh pointer.
func (f Field[T]) apply(existing *T) *T {
	switch f.state {
	case fieldSet:
		v := f.value
		return &v
	case fieldClear:
		return nil
	default:
		if existing == nil {
			return nil
		}
		v := *existing
		return &v
	}
}

// Patch is a partial update to a Record.
type Patch struct {
	FontFamilies        Field[[]string]
	FontSize            Field[float64]
	Color               Field[Color]
	Effect              Field[Effect]
	AutoWordBreak       Field[bool]
	HyphenationLanguage Field[string]
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.FontFamilies.IsUnset() &&
		p.FontSize.IsUnset() &&
		p.Color.IsUnset() &&
		p.Effect.IsUnset() &&
		p.AutoWordBreak.IsUnset() &&
		p.HyphenationLanguage.IsUnset()
}

// Merge returns p with every non-Unset field of other layered on top.
func (p Patch) Merge(other Patch) Patch {
	if !other.FontFamilies.IsUnset() {
		p.FontFamilies = other.FontFamilies
	}
	if !other.FontSize.IsUnset() {
		p.FontSize = other.FontSize
	}
	if !other.Color.IsUnset() {
		p.Color = other.Color
	}
	if !other.Effect.IsUnset() {
		p.Effect = other.Effect
	}
	if !other.AutoWordBreak.IsUnset() {
		p.AutoWordBreak = other.AutoWordBreak
	}
	if !other.HyphenationLanguage.IsUnset() {
		p.HyphenationLanguage = other.HyphenationLanguage
	}
	return p
}
