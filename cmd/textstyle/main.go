// Package main is the entry point for the textstyle command.
//
// textstyle loads the style configuration, applies command line settings
// to a sample item through the style panel and prints the resolved style.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dshills/textstyle/internal/app"
	"github.com/dshills/textstyle/internal/hyphenation"
	"github.com/dshills/textstyle/internal/i18n"
	"github.com/dshills/textstyle/internal/notify"
	"github.com/dshills/textstyle/internal/panel"
	"github.com/dshills/textstyle/internal/preview"
	"github.com/dshills/textstyle/internal/style"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultText = "The quick brown fox jumps over the lazy hyphenation"

// fontWait bounds how long the command waits for the font scan.
const fontWait = 5 * time.Second

// errHelp signals that usage or version output was requested.
var errHelp = errors.New("help requested")

type cliOptions struct {
	app app.Options

	font         string
	size         string
	color        string
	opacity      string
	effect       string
	renderEffect string
	hyphenation  string
	preset       string
	text         string
	global       bool

	listFonts     bool
	listLanguages bool
	listEffects   bool
	listRender    bool
	listPresets   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stdout, stderr)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.app.LogOutput == nil {
		opts.app.LogOutput = stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, opts.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if err := apply(ctx, application, opts); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case opts.listFonts:
		for _, f := range application.Panel().FontOptions() {
			fmt.Fprintln(stdout, f)
		}
		return 0
	case opts.listLanguages:
		printChoices(stdout, application.Panel().HyphenationOptions(application.Catalog()))
		return 0
	case opts.listEffects:
		printChoices(stdout, application.Panel().EffectOptions(application.Catalog()))
		return 0
	case opts.listRender:
		printChoices(stdout, application.Panel().RenderEffectOptions(application.Catalog()))
		return 0
	case opts.listPresets:
		for _, name := range application.Presets().Names() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}

	fmt.Fprint(stdout, summary(application, opts.text))

	if !opts.app.Watch {
		return 0
	}

	sub := application.Notifier().Subscribe(func(c notify.Change) {
		if c.Kind == notify.KindReload {
			fmt.Fprint(stdout, summary(application, opts.text))
		}
	})
	defer sub.Unsubscribe()

	<-ctx.Done()
	return 0
}

// apply selects a sample item and applies the requested settings to it,
// or to every item and the default when -global is given.
func apply(ctx context.Context, application *app.Application, opts cliOptions) error {
	st := application.Store()
	id := st.Add(opts.text, nil)
	if !opts.global {
		if err := st.Select(id); err != nil {
			return err
		}
	}

	p := application.Panel()
	if p.Activate(ctx) {
		waitCtx, cancel := context.WithTimeout(ctx, fontWait)
		defer cancel()
		if err := st.WaitFonts(waitCtx); err != nil {
			application.Logger().Warn("fonts not loaded: %v", err)
		}
	}

	if opts.preset != "" {
		if err := application.ApplyPreset(opts.preset); err != nil {
			return err
		}
	}
	if opts.font != "" {
		p.SetFontFamily(opts.font)
	}
	if opts.size != "" {
		if opts.size == "auto" {
			p.ClearFontSize()
		} else {
			size, err := strconv.ParseFloat(opts.size, 64)
			if err != nil {
				return fmt.Errorf("invalid -size %q: %w", opts.size, err)
			}
			p.SetFontSize(size)
		}
	}
	if opts.color != "" {
		hex := strings.TrimPrefix(opts.color, "#")
		if !style.IsHexColor(hex) {
			return fmt.Errorf("invalid -color %q: expected six hex digits", opts.color)
		}
		p.SetColorHex(hex)
	}
	if opts.opacity != "" {
		alpha, err := strconv.ParseFloat(opts.opacity, 64)
		if err != nil {
			return fmt.Errorf("invalid -opacity %q: %w", opts.opacity, err)
		}
		p.SetOpacity(alpha)
	}
	if opts.effect != "" {
		e, err := style.ParseEffect(opts.effect)
		if err != nil {
			return fmt.Errorf("invalid -effect: %w", err)
		}
		p.SetEffect(e)
	}
	if opts.renderEffect != "" {
		e, err := style.ParseEffect(opts.renderEffect)
		if err != nil {
			return fmt.Errorf("invalid -render-effect: %w", err)
		}
		p.SetRenderEffect(e)
	}
	if opts.hyphenation != "" {
		code, ok := hyphenation.Normalize(opts.hyphenation)
		if !ok {
			return fmt.Errorf("unknown hyphenation language %q", opts.hyphenation)
		}
		p.SetHyphenation(code)
	}
	return nil
}

// summary renders the resolved style of the panel's target and a sample.
func summary(application *app.Application, text string) string {
	p := application.Panel()
	cat := application.Catalog()
	r := p.Current()

	fonts := strings.Join(r.FontFamilies, ", ")
	code := r.HyphenationCode()

	fields := []preview.Field{
		{Label: cat.Label(i18n.KeyFont), Value: fonts},
		{Label: cat.Label(i18n.KeyFontSizeLabel), Value: sizeValue(r)},
		{Label: cat.Label(i18n.KeyColor), Value: "#" + r.HexColor() + preview.Muted.Render(fmt.Sprintf(" alpha %d", r.Color.A))},
		{Label: cat.Label(i18n.KeyEffect), Value: cat.Label(i18n.EffectKey(r.Effect))},
		{Label: cat.Label(i18n.KeyHyphenation), Value: selectedLabel(p.HyphenationOptions(cat), code)},
		{Label: cat.Label(i18n.KeyRenderEffect), Value: selectedLabel(p.RenderEffectOptions(cat), p.RenderEffect().String())},
	}

	sample := text
	if h, ok := application.Hyphenator(code); ok {
		sample = preview.Hyphenate(text, r, h)
	}

	title := cat.Label(i18n.KeyTitle) + " " + preview.Muted.Render(p.ScopeLabel(cat))
	return preview.Summary(title, fields, preview.Render(sample, r))
}

func sizeValue(r style.Resolved) string {
	if r.FontSize == nil {
		return "auto"
	}
	return strconv.FormatFloat(*r.FontSize, 'f', -1, 64) + " pt"
}

func selectedLabel(choices []panel.Choice, fallback string) string {
	for _, c := range choices {
		if c.Selected {
			return c.Label
		}
	}
	return fallback
}

func printChoices(w io.Writer, choices []panel.Choice) {
	for _, c := range choices {
		mark := " "
		if c.Selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-10s %s\n", mark, c.Value, c.Label)
	}
}

func parseFlags(args []string, stdout, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	var showVersion bool

	fs := flag.NewFlagSet("textstyle", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.BoolVar(&opts.app.NoEnv, "no-env", false, "Ignore TEXTSTYLE_* environment variables")
	fs.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.app.Watch, "watch", false, "Reprint the style when the configuration file changes")
	locale := fs.String("locale", "", "UI language (BCP 47 tag)")

	fs.StringVar(&opts.font, "font", "", "Font family to move to the front")
	fs.StringVar(&opts.size, "size", "", "Font size in points, or \"auto\"")
	fs.StringVar(&opts.color, "color", "", "Text color as six hex digits, with or without a leading #")
	fs.StringVar(&opts.opacity, "opacity", "", "Text alpha, 0-255")
	fs.StringVar(&opts.effect, "effect", "", "Text effect (normal, antique, metal, manga, motionBlur)")
	fs.StringVar(&opts.renderEffect, "render-effect", "", "Canvas render effect")
	fs.StringVar(&opts.hyphenation, "hyphenation", "", "Hyphenation language code, or \"none\"")
	fs.StringVar(&opts.preset, "preset", "", "Preset to apply before the other settings")
	fs.StringVar(&opts.text, "text", defaultText, "Sample text")
	fs.BoolVar(&opts.global, "global", false, "Edit the default style of all items")

	fs.BoolVar(&opts.listFonts, "list-fonts", false, "List font options and exit")
	fs.BoolVar(&opts.listLanguages, "list-languages", false, "List hyphenation languages and exit")
	fs.BoolVar(&opts.listEffects, "list-effects", false, "List text effects and exit")
	fs.BoolVar(&opts.listRender, "list-render-effects", false, "List render effects and exit")
	fs.BoolVar(&opts.listPresets, "list-presets", false, "List presets and exit")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "textstyle - text style settings\n\n")
		fmt.Fprintf(stderr, "Usage: textstyle [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  textstyle -font Georgia -size 24      Style the sample item\n")
		fmt.Fprintf(stderr, "  textstyle -global -color aa0000        Change the default color\n")
		fmt.Fprintf(stderr, "  textstyle -hyphenation de -text Silbentrennung\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	if showVersion {
		fmt.Fprintf(stdout, "textstyle %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, errHelp
	}

	if opts.app.LogLevel != "" {
		switch opts.app.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.app.LogLevel)
		}
	}

	if *locale != "" {
		opts.app.Overrides = map[string]any{"locale.language": *locale}
	}

	if fs.NArg() > 0 {
		opts.text = strings.Join(fs.Args(), " ")
	}
	return opts, nil
}
