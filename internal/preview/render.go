package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textstyle/internal/style"
)

// Styles used for CLI output.
var (
	// Title is used for section headers.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Label is used for field names.
	Label = lipgloss.NewStyle().
		Bold(true).
		Width(14)

	// Muted is used for de-emphasized values.
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Box frames a rendered sample.
	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)
)

// TextStyle converts a resolved style to a lipgloss style.
func TextStyle(r style.Resolved) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color("#" + r.HexColor()))

	attrs := Attributes(r)
	return s.
		Bold(attrs&tcell.AttrBold != 0).
		Italic(attrs&tcell.AttrItalic != 0).
		Underline(attrs&tcell.AttrUnderline != 0).
		Faint(attrs&tcell.AttrDim != 0)
}

// Render renders text in the resolved style.
func Render(text string, r style.Resolved) string {
	return TextStyle(r).Render(text)
}

// Field is one labelled line of a summary.
type Field struct {
	Label string
	Value string
}

// Summary renders labelled fields followed by a boxed sample.
func Summary(title string, fields []Field, sample string) string {
	var b strings.Builder
	b.WriteString(Title.Render(title))
	b.WriteByte('\n')
	for _, f := range fields {
		fmt.Fprintf(&b, "%s%s\n", Label.Render(f.Label), f.Value)
	}
	if sample != "" {
		b.WriteString(Box.Render(sample))
		b.WriteByte('\n')
	}
	return b.String()
}
