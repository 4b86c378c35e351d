package panel

import (
	"strconv"

	"github.com/dshills/textstyle/internal/hyphenation"
	"github.com/dshills/textstyle/internal/i18n"
	"github.com/dshills/textstyle/internal/style"
)

// Choice is one entry of a selection widget.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// FontOptions returns the font families to offer: the available fonts,
// then the current families, then the defaults, without repeats.
func (p *Panel) FontOptions() []string {
	current := p.Current().FontFamilies
	global := p.store.DefaultStyle().FontFamilies

	all := make([]string, 0)
	all = append(all, p.store.Fonts()...)
	all = append(all, current...)
	all = append(all, global...)
	all = append(all, style.DefaultFontFamilies()...)
	return style.UniqueStrings(all)
}

// HyphenationOptions returns every registry language labelled through
// loc, with the current language selected.
func (p *Panel) HyphenationOptions(loc i18n.Localizer) []Choice {
	selected := p.Current().HyphenationCode()

	entries := hyphenation.Languages()
	out := make([]Choice, len(entries))
	for i, e := range entries {
		out[i] = Choice{
			Value:    e.Code,
			Label:    loc.Label(e.LabelKey),
			Selected: e.Code == selected,
		}
	}
	return out
}

// EffectOptions returns every effect labelled through loc, with the
// current effect selected.
func (p *Panel) EffectOptions(loc i18n.Localizer) []Choice {
	return effectChoices(loc, p.Current().Effect)
}

// RenderEffectOptions is like EffectOptions for the render effect.
func (p *Panel) RenderEffectOptions(loc i18n.Localizer) []Choice {
	return effectChoices(loc, p.store.RenderEffect())
}

func effectChoices(loc i18n.Localizer, selected style.Effect) []Choice {
	effects := style.Effects()
	out := make([]Choice, len(effects))
	for i, e := range effects {
		out[i] = Choice{
			Value:    e.String(),
			Label:    loc.Label(i18n.EffectKey(e)),
			Selected: e == selected,
		}
	}
	return out
}

// ScopeLabel describes where updates currently go.
func (p *Panel) ScopeLabel(loc i18n.Localizer) string {
	if scope, _ := p.Target(); scope == style.ScopeItem {
		return loc.Label(i18n.KeyScopeItem)
	}
	return loc.Label(i18n.KeyScopeGlobal, len(p.store.Items()))
}

// FontSizeLabel describes the current font size.
func (p *Panel) FontSizeLabel(loc i18n.Localizer) string {
	size := p.Current().FontSize
	if size == nil {
		return loc.Label(i18n.KeyFontSizeAuto)
	}
	return loc.Label(i18n.KeyFontSize, strconv.FormatFloat(*size, 'f', -1, 64))
}
