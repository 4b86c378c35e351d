// Package i18n maps label keys to display strings.
//
// Labels are looked up in an x/text message catalog. English is always
// present and serves as fallback; hyphenation language names are seeded
// from CLDR display names in every language the catalog is built for.
package i18n

import (
	"fmt"
	"sync"

	"golang.org/x/text/message/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"

	"github.com/dshills/textstyle/internal/hyphenation"
	"github.com/dshills/textstyle/internal/style"
)

// Localizer resolves a label key, with optional interpolation arguments,
// to a display string. Unknown keys resolve to the key itself.
type Localizer interface {
	Label(key string, args ...any) string
}

// Panel label keys.
const (
	KeyTitle         = "panel.title"
	KeyFont          = "panel.font"
	KeyFontSize      = "panel.fontSize"
	KeyFontSizeLabel = "panel.fontSize.label"
	KeyFontSizeAuto  = "panel.fontSize.auto"
	KeyColor         = "panel.color"
	KeyEffect        = "panel.effect"
	KeyHyphenation   = "panel.hyphenation"
	KeyRenderEffect  = "panel.renderEffect"
	KeyScopeItem     = "panel.scope.item"
	KeyScopeGlobal   = "panel.scope.global"
	KeyFontsLoading  = "panel.fonts.loading"
	effectKeyPrefix  = "panel.effect."
	disabledLanguage = "Disabled"
)

// EffectKey returns the label key of an effect.
func EffectKey(e style.Effect) string {
	return effectKeyPrefix + e.String()
}

var englishLabels = map[string]string{
	KeyTitle:         "Text style",
	KeyFont:          "Font",
	KeyFontSize:      "Size: %v pt",
	KeyFontSizeAuto:  "Size: auto",
	KeyFontSizeLabel: "Size",
	KeyColor:         "Color",
	KeyEffect:        "Effect",
	KeyHyphenation:   "Hyphenation",
	KeyRenderEffect:  "Render effect",
	KeyScopeItem:     "Editing the selected item",
	KeyScopeGlobal:   "Editing all items (%d)",
	KeyFontsLoading:  "Loading fonts…",

	EffectKey(style.EffectNormal):     "Normal",
	EffectKey(style.EffectAntique):    "Antique",
	EffectKey(style.EffectMetal):      "Metal",
	EffectKey(style.EffectManga):      "Manga",
	EffectKey(style.EffectMotionBlur): "Motion blur",
}

// Catalog is a Localizer backed by an x/text catalog. It is safe for
// concurrent use.
type Catalog struct {
	mu      sync.Mutex
	builder *catalog.Builder
	tag     language.Tag
	printer *message.Printer
}

// NewCatalog creates a catalog with English labels plus hyphenation
// language names for each extra tag. The active language is English.
func NewCatalog(tags ...language.Tag) (*Catalog, error) {
	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
		tag:     language.English,
	}

	for key, msg := range englishLabels {
		if err := c.builder.SetString(language.English, key, msg); err != nil {
			return nil, fmt.Errorf("seeding label %s: %w", key, err)
		}
	}

	for _, tag := range append([]language.Tag{language.English}, tags...) {
		if err := c.seedLanguageNames(tag); err != nil {
			return nil, err
		}
	}

	c.printer = message.NewPrinter(c.tag, message.Catalog(c.builder))
	return c, nil
}

// seedLanguageNames adds CLDR names of every hyphenation language as seen
// from tag. Names CLDR does not know are left to the English fallback.
func (c *Catalog) seedLanguageNames(tag language.Tag) error {
	namer := display.Tags(tag)

	for _, e := range hyphenation.Languages() {
		name := disabledLanguage
		if !e.IsNone() {
			name = namer.Name(e.Tag())
		} else if tag != language.English {
			continue
		}
		if name == "" && tag == language.English {
			base, _ := e.Tag().Base()
			if name = namer.Name(base); name == "" {
				name = e.Code
			}
		}
		if name == "" {
			continue
		}
		if err := c.builder.SetString(tag, e.LabelKey, name); err != nil {
			return fmt.Errorf("seeding %s for %s: %w", e.LabelKey, tag, err)
		}
	}
	return nil
}

// Add registers or overrides a message.
func (c *Catalog) Add(tag language.Tag, key, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.builder.SetString(tag, key, msg); err != nil {
		return fmt.Errorf("adding label %s: %w", key, err)
	}
	c.printer = message.NewPrinter(c.tag, message.Catalog(c.builder))
	return nil
}

// AddAll registers a set of messages for one language.
func (c *Catalog) AddAll(tag language.Tag, msgs map[string]string) error {
	for key, msg := range msgs {
		if err := c.Add(tag, key, msg); err != nil {
			return err
		}
	}
	return nil
}

// SetLanguage switches the active language.
func (c *Catalog) SetLanguage(tag language.Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tag = tag
	c.printer = message.NewPrinter(tag, message.Catalog(c.builder))
}

// Language returns the active language.
func (c *Catalog) Language() language.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tag
}

// Label implements Localizer.
func (c *Catalog) Label(key string, args ...any) string {
	c.mu.Lock()
	p := c.printer
	c.mu.Unlock()

	return p.Sprintf(key, args...)
}

// Identity is a Localizer that returns keys unchanged.
type Identity struct{}

// Label implements Localizer.
func (Identity) Label(key string, _ ...any) string {
	return key
}
