package style

import (
	"slices"
	"strconv"
	"testing"

	"github.com/dshills/textstyle/internal/hyphenation"
)

func TestScopeString(t *testing.T) {
	tests := []struct {
		scope    Scope
		expected string
	}{
		{ScopeNone, "none"},
		{ScopeItem, "item"},
		{ScopeGlobal, "global"},
		{Scope(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.scope.String(); got != tt.expected {
			t.Errorf("%d.String() = %q, want %q", tt.scope, got, tt.expected)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("fallbacks when nothing is set", func(t *testing.T) {
		res := Resolve(nil, Record{})

		if !slices.Equal(res.FontFamilies, []string{"Arial"}) {
			t.Errorf("FontFamilies = %v, want [Arial]", res.FontFamilies)
		}
		if res.Color != Black {
			t.Errorf("Color = %v, want opaque black", res.Color)
		}
		if res.FontSize != nil {
			t.Errorf("FontSize = %v, want nil", *res.FontSize)
		}
		if res.Effect != EffectNormal {
			t.Errorf("Effect = %v, want normal", res.Effect)
		}
		if res.AutoWordBreak {
			t.Error("AutoWordBreak should default to false")
		}
		if res.HyphenationCode() != hyphenation.CodeNone {
			t.Errorf("HyphenationCode = %q, want none", res.HyphenationCode())
		}
	})

	t.Run("global default applies", func(t *testing.T) {
		global := Record{
			FontFamilies: []string{"Georgia"},
			FontSize:     Ptr(24.0),
			Color:        Ptr(RGBA(10, 20, 30, 255)),
			Effect:       Ptr(EffectManga),
		}

		res := Resolve(nil, global)

		if res.PrimaryFont() != "Georgia" {
			t.Errorf("PrimaryFont = %q", res.PrimaryFont())
		}
		if res.FontSize == nil || *res.FontSize != 24 {
			t.Errorf("FontSize = %v", res.FontSize)
		}
		if res.HexColor() != "0a141e" {
			t.Errorf("HexColor = %q", res.HexColor())
		}
		if res.Effect != EffectManga {
			t.Errorf("Effect = %v", res.Effect)
		}
	})

	t.Run("item fields win independently", func(t *testing.T) {
		global := Record{
			FontFamilies: []string{"Georgia"},
			Color:        Ptr(RGBA(10, 20, 30, 255)),
			Effect:       Ptr(EffectManga),
		}
		item := &Record{
			Color:               Ptr(RGBA(255, 0, 0, 128)),
			HyphenationLanguage: Ptr("de"),
			AutoWordBreak:       Ptr(true),
		}

		res := Resolve(item, global)

		if res.PrimaryFont() != "Georgia" {
			t.Errorf("font should come from global, got %q", res.PrimaryFont())
		}
		if res.Color != RGBA(255, 0, 0, 128) {
			t.Errorf("color should come from item, got %v", res.Color)
		}
		if res.Effect != EffectManga {
			t.Errorf("effect should come from global, got %v", res.Effect)
		}
		if !res.AutoWordBreak || res.HyphenationCode() != "de" {
			t.Errorf("hyphenation = %v/%q", res.AutoWordBreak, res.HyphenationCode())
		}
	})

	t.Run("result does not alias inputs", func(t *testing.T) {
		global := Record{FontFamilies: []string{"Georgia", "Arial"}}
		res := Resolve(nil, global)
		res.FontFamilies[0] = "Changed"

		if global.FontFamilies[0] != "Georgia" {
			t.Error("Resolve must copy font families")
		}
	})
}

func TestBuild(t *testing.T) {
	global := Record{
		FontFamilies: []string{"Global"},
		Color:        Ptr(RGBA(1, 2, 3, 255)),
		FontSize:     Ptr(30.0),
		Effect:       Ptr(EffectAntique),
	}

	t.Run("keeps existing and sets update", func(t *testing.T) {
		existing := &Record{FontFamilies: []string{"X"}}
		got := Build(existing, Patch{Effect: Set(EffectMetal)}, Record{})

		if !slices.Equal(got.FontFamilies, []string{"X"}) {
			t.Errorf("FontFamilies = %v, want [X]", got.FontFamilies)
		}
		if got.Effect == nil || *got.Effect != EffectMetal {
			t.Errorf("Effect = %v, want metal", got.Effect)
		}
		if got.FontSize != nil {
			t.Errorf("FontSize should be absent, got %v", *got.FontSize)
		}
	})

	t.Run("fonts and color fall back to global only", func(t *testing.T) {
		got := Build(nil, Patch{}, global)

		if !slices.Equal(got.FontFamilies, []string{"Global"}) {
			t.Errorf("FontFamilies = %v", got.FontFamilies)
		}
		if got.Color == nil || *got.Color != RGBA(1, 2, 3, 255) {
			t.Errorf("Color = %v", got.Color)
		}
		if got.FontSize != nil {
			t.Error("FontSize must not fall back to global")
		}
		if got.Effect != nil {
			t.Error("Effect must not fall back to global")
		}
		if got.AutoWordBreak != nil || got.HyphenationLanguage != nil {
			t.Error("behavioral flags must stay absent")
		}
	})

	t.Run("patch wins over existing", func(t *testing.T) {
		existing := &Record{
			FontFamilies: []string{"Old"},
			FontSize:     Ptr(10.0),
			Color:        Ptr(Black),
		}
		got := Build(existing, Patch{
			FontFamilies: Set([]string{"New", "", "New", "Old"}),
			FontSize:     Set(12.0),
			Color:        Set(RGBA(9, 9, 9, 9)),
		}, global)

		if !slices.Equal(got.FontFamilies, []string{"New", "Old"}) {
			t.Errorf("FontFamilies = %v", got.FontFamilies)
		}
		if *got.FontSize != 12 {
			t.Errorf("FontSize = %v", *got.FontSize)
		}
		if *got.Color != RGBA(9, 9, 9, 9) {
			t.Errorf("Color = %v", *got.Color)
		}
	})

	t.Run("clear removes without fallback", func(t *testing.T) {
		existing := &Record{
			FontFamilies:        []string{"Old"},
			FontSize:            Ptr(10.0),
			Color:               Ptr(Black),
			HyphenationLanguage: Ptr("fr"),
		}
		got := Build(existing, Patch{
			FontFamilies:        Clear[[]string](),
			FontSize:            Clear[float64](),
			Color:               Clear[Color](),
			HyphenationLanguage: Clear[string](),
		}, global)

		if got.FontFamilies != nil || got.FontSize != nil || got.Color != nil || got.HyphenationLanguage != nil {
			t.Errorf("cleared fields should be absent, got %+v", got)
		}
	})

	t.Run("does not alias existing", func(t *testing.T) {
		existing := &Record{FontFamilies: []string{"A"}, FontSize: Ptr(5.0)}
		got := Build(existing, Patch{}, global)

		got.FontFamilies[0] = "B"
		*got.FontSize = 99

		if existing.FontFamilies[0] != "A" || *existing.FontSize != 5 {
			t.Error("Build must not share memory with existing")
		}
	})
}

func TestMergeFontFamilies(t *testing.T) {
	tests := []struct {
		name     string
		next     string
		current  []string
		defaults []string
		expected []string
	}{
		{
			name:     "move to front",
			next:     "Times",
			current:  []string{"Arial", "Times", "Georgia"},
			expected: []string{"Times", "Arial", "Georgia"},
		},
		{
			name:     "new font prepended",
			next:     "Comic",
			current:  []string{"Arial", "Georgia"},
			expected: []string{"Comic", "Arial", "Georgia"},
		},
		{
			name:     "already first",
			next:     "Arial",
			current:  []string{"Arial", "Georgia"},
			expected: []string{"Arial", "Georgia"},
		},
		{
			name:     "empty current uses defaults",
			next:     "Times",
			defaults: []string{"Noto", "Times"},
			expected: []string{"Times", "Noto"},
		},
		{
			name:     "empty current and defaults uses fallback",
			next:     "Times",
			expected: []string{"Times", "Arial"},
		},
		{
			name:     "duplicates in current collapse",
			next:     "A",
			current:  []string{"B", "C", "B", "", "A"},
			expected: []string{"A", "B", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeFontFamilies(tt.next, tt.current, tt.defaults)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("MergeFontFamilies(%q, %v) = %v, want %v", tt.next, tt.current, got, tt.expected)
			}
		})
	}
}

func TestUniqueStrings(t *testing.T) {
	got := UniqueStrings([]string{"a", "", "b", "a", "c"})
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("UniqueStrings = %v", got)
	}

	if got := UniqueStrings(nil); len(got) != 0 {
		t.Errorf("UniqueStrings(nil) = %v", got)
	}
}

func TestHyphenationPatch(t *testing.T) {
	t.Run("none disables", func(t *testing.T) {
		p := HyphenationPatch(hyphenation.CodeNone)
		got := Build(&Record{HyphenationLanguage: Ptr("de"), AutoWordBreak: Ptr(true)}, p, Record{})

		if got.AutoWordBreak == nil || *got.AutoWordBreak {
			t.Error("AutoWordBreak should be false")
		}
		if got.HyphenationLanguage != nil {
			t.Errorf("HyphenationLanguage = %q, want absent", *got.HyphenationLanguage)
		}
	})

	t.Run("code enables", func(t *testing.T) {
		got := Build(nil, HyphenationPatch("fr"), Record{})

		if got.AutoWordBreak == nil || !*got.AutoWordBreak {
			t.Error("AutoWordBreak should be true")
		}
		if got.HyphenationLanguage == nil || *got.HyphenationLanguage != "fr" {
			t.Errorf("HyphenationLanguage = %v", got.HyphenationLanguage)
		}
	})

	t.Run("canonical code stored", func(t *testing.T) {
		got := Build(nil, HyphenationPatch("EN-us"), Record{})

		if got.HyphenationLanguage == nil || *got.HyphenationLanguage != "en-US" {
			t.Errorf("HyphenationLanguage = %v, want en-US", got.HyphenationLanguage)
		}
	})

	for _, code := range []string{"xx-unknown", "", "  "} {
		t.Run("unknown "+strconv.Quote(code)+" disables", func(t *testing.T) {
			p := HyphenationPatch(code)
			got := Build(&Record{HyphenationLanguage: Ptr("de"), AutoWordBreak: Ptr(true)}, p, Record{})

			if got.AutoWordBreak == nil || *got.AutoWordBreak {
				t.Error("AutoWordBreak should be false")
			}
			if got.HyphenationLanguage != nil {
				t.Errorf("HyphenationLanguage = %q, want absent", *got.HyphenationLanguage)
			}
		})
	}
}

func TestPatch(t *testing.T) {
	var p Patch
	if !p.IsEmpty() {
		t.Error("zero Patch should be empty")
	}

	p = p.Merge(Patch{FontSize: Set(10.0)})
	p = p.Merge(Patch{Effect: Set(EffectMetal)})
	p = p.Merge(Patch{FontSize: Clear[float64]()})

	if !p.FontSize.IsClear() {
		t.Error("later Clear should override earlier Set")
	}
	if v, ok := p.Effect.Value(); !ok || v != EffectMetal {
		t.Errorf("Effect = %v, %v", v, ok)
	}
	if p.IsEmpty() {
		t.Error("patch should not be empty")
	}
}

func TestRecordCloneAndEqual(t *testing.T) {
	r := Record{
		FontFamilies: []string{"A"},
		FontSize:     Ptr(3.0),
		Color:        Ptr(Black),
	}
	c := r.Clone()

	if !r.Equal(c) {
		t.Fatal("clone should equal original")
	}
	*c.FontSize = 4
	if r.Equal(c) {
		t.Error("clone must not share pointers")
	}
	if !(Record{}).IsZero() || r.IsZero() {
		t.Error("IsZero mismatch")
	}
}
