// Package preview shows a resolved style on a terminal.
//
// Terminals cannot change fonts or apply image effects, so effects map to
// text attributes and fonts are only named. Hyphenation is applied to the
// longest word when the style enables automatic word breaking.
package preview

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/textstyle/internal/hyphenation"
	"github.com/dshills/textstyle/internal/style"
)

// faintAlpha is the alpha below which text is drawn dim.
const faintAlpha = 128

// effectAttrs maps each effect to the closest terminal attributes.
var effectAttrs = map[style.Effect]tcell.AttrMask{
	style.EffectNormal:     tcell.AttrNone,
	style.EffectAntique:    tcell.AttrItalic,
	style.EffectMetal:      tcell.AttrBold,
	style.EffectManga:      tcell.AttrBold | tcell.AttrUnderline,
	style.EffectMotionBlur: tcell.AttrItalic | tcell.AttrDim,
}

// Attributes returns the terminal attributes for a resolved style.
func Attributes(r style.Resolved) tcell.AttrMask {
	attrs := effectAttrs[r.Effect]
	if r.Color.A < faintAlpha {
		attrs |= tcell.AttrDim
	}
	return attrs
}

// TerminalStyle converts a resolved style to a tcell style.
func TerminalStyle(r style.Resolved) tcell.Style {
	s := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(r.Color.R), int32(r.Color.G), int32(r.Color.B)))

	attrs := Attributes(r)
	if attrs&tcell.AttrBold != 0 {
		s = s.Bold(true)
	}
	if attrs&tcell.AttrDim != 0 {
		s = s.Dim(true)
	}
	if attrs&tcell.AttrItalic != 0 {
		s = s.Italic(true)
	}
	if attrs&tcell.AttrUnderline != 0 {
		s = s.Underline(true)
	}
	return s
}

// Hyphenate splits the longest word of text when r enables automatic word
// breaking and h is available.
func Hyphenate(text string, r style.Resolved, h hyphenation.Hyphenator) string {
	if !r.AutoWordBreak || h == nil {
		return text
	}
	return hyphenation.SplitLongestWord(text, hyphenation.FindLongestWord(text), h)
}

// Draw writes text at (x, y) on screen in the resolved style and returns
// the number of cells used. Each grapheme cluster takes one cell run, with
// combining marks kept on its base rune. Text past the right edge is cut.
func Draw(screen tcell.Screen, x, y int, text string, r style.Resolved) int {
	st := TerminalStyle(r)
	width, _ := screen.Size()

	col := x
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Runes()
		w := runewidth.StringWidth(g.Str())
		if w == 0 {
			continue
		}
		if col+w > width {
			break
		}
		screen.SetContent(col, y, cluster[0], cluster[1:], st)
		col += w
	}
	return col - x
}
