// Package panel implements the text style settings panel: it reads the
// effective style for the current target and writes partial updates to
// the most specific scope.
//
// An update goes to the selected item when there is one. Otherwise it goes
// to the global default and to every item's own style.
package panel

import (
	"context"
	"math"
	"sync"

	"github.com/dshills/textstyle/internal/fonts"
	"github.com/dshills/textstyle/internal/logging"
	"github.com/dshills/textstyle/internal/preset"
	"github.com/dshills/textstyle/internal/store"
	"github.com/dshills/textstyle/internal/style"
)

// Store is the state the panel reads and writes.
type Store interface {
	DefaultStyle() style.Record
	SetDefaultStyle(r style.Record)

	Items() []store.Item
	Item(id store.ItemID) (store.Item, bool)
	Selected() (store.ItemID, bool)
	ReplaceItem(id store.ItemID, r *style.Record) error
	ReplaceItems(items []store.Item)

	RenderEffect() style.Effect
	SetRenderEffect(e style.Effect)

	Fonts() []string
	FontsLoaded() bool
	RequestFonts(ctx context.Context, src fonts.Source) bool
}

// Panel dispatches style updates to the right scope.
type Panel struct {
	store  Store
	fonts  fonts.Source
	logger *logging.Logger

	mu        sync.Mutex
	activated bool
}

// Option configures a Panel.
type Option func(*Panel)

// WithFontSource sets the source queried on first activation.
func WithFontSource(src fonts.Source) Option {
	return func(p *Panel) {
		p.fonts = src
	}
}

// WithLogger sets the panel logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Panel) {
		p.logger = l
	}
}

// New creates a panel over s.
func New(s Store, opts ...Option) *Panel {
	p := &Panel{store: s}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrNop(p.logger).WithComponent("panel")
	return p
}

// Activate is called when the panel is shown. The first activation
// requests the font list unless one is already loaded; the fetch runs in
// the background. It reports whether a fetch was started.
func (p *Panel) Activate(ctx context.Context) bool {
	p.mu.Lock()
	first := !p.activated
	p.activated = true
	p.mu.Unlock()

	if !first || p.store.FontsLoaded() || p.fonts == nil {
		return false
	}
	started := p.store.RequestFonts(ctx, p.fonts)
	if started {
		p.logger.Debug("requested font list")
	}
	return started
}

// Target returns the scope updates currently go to and, for ScopeItem,
// the selected item.
func (p *Panel) Target() (style.Scope, store.Item) {
	if id, ok := p.store.Selected(); ok {
		if it, ok := p.store.Item(id); ok {
			return style.ScopeItem, it
		}
	}
	return style.ScopeGlobal, store.Item{}
}

// Current returns the effective style of the selected item, or of the
// global default when nothing is selected.
func (p *Panel) Current() style.Resolved {
	global := p.store.DefaultStyle()
	if scope, it := p.Target(); scope == style.ScopeItem {
		return style.Resolve(it.Style, global)
	}
	return style.Resolve(nil, global)
}

// ApplyToSelected merges patch into the selected item's style. It reports
// false, changing nothing, when no item is selected.
func (p *Panel) ApplyToSelected(patch style.Patch) bool {
	scope, it := p.Target()
	if scope != style.ScopeItem {
		return false
	}

	next := style.Build(it.Style, patch, p.store.DefaultStyle())
	if err := p.store.ReplaceItem(it.ID, &next); err != nil {
		p.logger.Warn("updating item %s: %v", it.ID, err)
		return false
	}
	return true
}

// ApplyToAll merges patch into the global default and, when items exist,
// into every item's own style.
func (p *Panel) ApplyToAll(patch style.Patch) {
	current := p.store.DefaultStyle()
	global := style.Build(&current, patch, current)
	p.store.SetDefaultStyle(global)

	items := p.store.Items()
	if len(items) == 0 {
		return
	}
	for i := range items {
		next := style.Build(items[i].Style, patch, global)
		items[i].Style = &next
	}
	p.store.ReplaceItems(items)
}

// Apply writes patch to the most specific scope and returns it.
func (p *Panel) Apply(patch style.Patch) style.Scope {
	if patch.IsEmpty() {
		return style.ScopeNone
	}
	if p.ApplyToSelected(patch) {
		return style.ScopeItem
	}
	p.ApplyToAll(patch)
	return style.ScopeGlobal
}

// targetFamilies returns the font list of the current target scope,
// without fallbacks, and the global default list.
func (p *Panel) targetFamilies() (current, defaults []string) {
	global := p.store.DefaultStyle()
	if scope, it := p.Target(); scope == style.ScopeItem {
		if it.Style != nil {
			current = it.Style.FontFamilies
		}
		return current, global.FontFamilies
	}
	return global.FontFamilies, global.FontFamilies
}

// SetFontFamily makes name the primary font, keeping the previous
// families as fallbacks.
func (p *Panel) SetFontFamily(name string) style.Scope {
	if name == "" {
		return style.ScopeNone
	}
	current, defaults := p.targetFamilies()
	return p.Apply(style.Patch{
		FontFamilies: style.Set(style.MergeFontFamilies(name, current, defaults)),
	})
}

// SetFontSize sets the font size in points. A size that is not a positive
// finite number, NaN included, clears it.
func (p *Panel) SetFontSize(size float64) style.Scope {
	if !(size > 0) || math.IsInf(size, 1) {
		return p.ClearFontSize()
	}
	return p.Apply(style.Patch{FontSize: style.Set(size)})
}

// ClearFontSize removes the font size so the text fits its box.
func (p *Panel) ClearFontSize() style.Scope {
	return p.Apply(style.Patch{FontSize: style.Clear[float64]()})
}

// SetColorHex sets the color from six hex digits, keeping the current
// opacity. Malformed input yields black.
func (p *Panel) SetColorHex(hex string) style.Scope {
	alpha := p.Current().Color.A
	return p.Apply(style.Patch{Color: style.Set(style.HexToColor(hex, float64(alpha)))})
}

// SetOpacity sets the color alpha, clamped to [0, 255].
func (p *Panel) SetOpacity(alpha float64) style.Scope {
	c := p.Current().Color.WithAlpha(style.ClampAlpha(alpha))
	return p.Apply(style.Patch{Color: style.Set(c)})
}

// SetEffect sets the text effect.
func (p *Panel) SetEffect(e style.Effect) style.Scope {
	if !e.Valid() {
		return style.ScopeNone
	}
	return p.Apply(style.Patch{Effect: style.Set(e)})
}

// SetHyphenation selects a hyphenation language. "none" disables
// hyphenation and automatic word breaking.
func (p *Panel) SetHyphenation(code string) style.Scope {
	return p.Apply(style.HyphenationPatch(code))
}

// SetRenderEffect changes the render effect setting.
func (p *Panel) SetRenderEffect(e style.Effect) {
	if e.Valid() {
		p.store.SetRenderEffect(e)
	}
}

// RenderEffect returns the render effect setting.
func (p *Panel) RenderEffect() style.Effect {
	return p.store.RenderEffect()
}

// ApplyPreset applies a preset. Its Font is moved to the front of the
// target's families, or of the preset's own list when it has one.
func (p *Panel) ApplyPreset(pr preset.Preset) style.Scope {
	patch := pr.Patch
	if pr.Font != "" {
		current, defaults := p.targetFamilies()
		if list, ok := patch.FontFamilies.Value(); ok {
			current = list
		}
		patch.FontFamilies = style.Set(style.MergeFontFamilies(pr.Font, current, defaults))
	}
	scope := p.Apply(patch)
	p.logger.Debug("applied preset %q to %s", pr.Name, scope)
	return scope
}
