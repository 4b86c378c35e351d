package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dshills/textstyle/internal/fonts"
	"github.com/dshills/textstyle/internal/logging"
	"github.com/dshills/textstyle/internal/notify"
	"github.com/dshills/textstyle/internal/preset"
	"github.com/dshills/textstyle/internal/style"
)

const testPresets = `
return {
  headline = { font = "Georgia", size = 48, effect = "metal" },
}
`

const testPatterns = `% test patterns
hy3ph he2n hena4 hen5at 1na n2at 1tio 2io o2n
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestApp(t *testing.T, cfg string, mutate func(*Options)) (*Application, string) {
	t.Helper()
	dir := t.TempDir()
	opts := Options{
		ConfigPath: writeFile(t, dir, "textstyle.toml", cfg),
		NoEnv:      true,
		LogOutput:  &bytes.Buffer{},
		FontSource: fonts.StaticSource{"Arial", "Georgia", "Verdana"},
	}
	if mutate != nil {
		mutate(&opts)
	}
	app, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app, dir
}

func TestNewAppliesConfiguredDefaults(t *testing.T) {
	app, _ := newTestApp(t, `
[style]
fonts = ["Georgia", "Arial"]
fontSize = 14
color = "AA0000"
opacity = 200
effect = "manga"
renderEffect = "metal"

[hyphenation]
language = "german"
`, nil)

	def := app.Store().DefaultStyle()
	if got := def.FontFamilies; len(got) != 2 || got[0] != "Georgia" {
		t.Errorf("FontFamilies = %v, want [Georgia Arial]", got)
	}
	if def.FontSize == nil || *def.FontSize != 14 {
		t.Errorf("FontSize = %v, want 14", def.FontSize)
	}
	if def.Color == nil || *def.Color != style.RGBA(0xaa, 0, 0, 200) {
		t.Errorf("Color = %v, want aa0000/200", def.Color)
	}
	if def.Effect == nil || *def.Effect != style.EffectManga {
		t.Errorf("Effect = %v, want manga", def.Effect)
	}
	if def.HyphenationLanguage == nil || *def.HyphenationLanguage != "de" {
		t.Errorf("HyphenationLanguage = %v, want de", def.HyphenationLanguage)
	}
	if def.AutoWordBreak == nil || !*def.AutoWordBreak {
		t.Errorf("AutoWordBreak = %v, want true", def.AutoWordBreak)
	}
	if got := app.Store().RenderEffect(); got != style.EffectMetal {
		t.Errorf("RenderEffect() = %v, want metal", got)
	}

	cur := app.Panel().Current()
	if cur.FontFamilies[0] != "Georgia" {
		t.Errorf("Current().FontFamilies = %v", cur.FontFamilies)
	}
}

func TestNewOverridesBeatFile(t *testing.T) {
	app, _ := newTestApp(t, "[style]\ncolor = \"aa0000\"\n", func(o *Options) {
		o.Overrides = map[string]any{"style.color": "00ff00"}
	})

	def := app.Store().DefaultStyle()
	if got := style.ColorToHex(*def.Color); got != "00ff00" {
		t.Errorf("color = %q, want 00ff00", got)
	}
}

func TestNewLogLevel(t *testing.T) {
	app, _ := newTestApp(t, "[logging]\nlevel = \"warn\"\n", nil)
	if got := app.Logger().Level(); got != logging.LevelWarn {
		t.Errorf("Level() = %v, want warn", got)
	}

	app, _ = newTestApp(t, "[logging]\nlevel = \"warn\"\n", func(o *Options) {
		o.LogLevel = "debug"
	})
	if got := app.Logger().Level(); got != logging.LevelDebug {
		t.Errorf("Level() = %v, want debug", got)
	}
}

func TestNewLoadsPresetsAndApplies(t *testing.T) {
	dir := t.TempDir()
	presets := writeFile(t, dir, "presets.lua", testPresets)

	app, _ := newTestApp(t, "[presets]\nfile = '"+presets+"'\napply = \"headline\"\n", nil)

	if got := app.Presets().Names(); len(got) != 1 || got[0] != "headline" {
		t.Fatalf("Presets().Names() = %v", got)
	}
	cur := app.Panel().Current()
	if cur.FontFamilies[0] != "Georgia" {
		t.Errorf("FontFamilies = %v, want Georgia first", cur.FontFamilies)
	}
	if cur.FontSize == nil || *cur.FontSize != 48 {
		t.Errorf("FontSize = %v, want 48", cur.FontSize)
	}
	if cur.Effect != style.EffectMetal {
		t.Errorf("Effect = %v, want metal", cur.Effect)
	}
}

func TestApplyPresetUnknown(t *testing.T) {
	app, _ := newTestApp(t, "", nil)

	err := app.ApplyPreset("missing")
	if !errors.Is(err, preset.ErrNotFound) {
		t.Fatalf("ApplyPreset() error = %v, want ErrNotFound", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Target != "missing" {
		t.Errorf("ApplyPreset() error = %#v, want OperationError for missing", err)
	}
}

func TestNewFailsOnBadPresetFile(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.lua", "return 42")
	cfg := writeFile(t, dir, "textstyle.toml", "[presets]\nfile = '"+bad+"'\n")

	_, err := New(context.Background(), Options{ConfigPath: cfg, NoEnv: true, LogOutput: &bytes.Buffer{}})
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "presets" {
		t.Fatalf("New() error = %v, want presets InitError", err)
	}
}

func TestNewFailsOnUnsupportedConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "textstyle.ini", "x=1")

	_, err := New(context.Background(), Options{ConfigPath: cfg, NoEnv: true, LogOutput: &bytes.Buffer{}})
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Fatalf("New() error = %v, want config InitError", err)
	}
}

func TestHyphenatorFromPatternFile(t *testing.T) {
	dir := t.TempDir()
	patterns := writeFile(t, dir, "en.pat", testPatterns)

	app, _ := newTestApp(t, "[hyphenation.patterns]\n\"en-US\" = '"+patterns+"'\n", nil)

	h, ok := app.Hyphenator("en-US")
	if !ok {
		t.Fatal("Hyphenator(en-US) not loaded")
	}
	if len(h.Points("hyphenation")) == 0 {
		t.Error("Points(hyphenation) is empty")
	}
	if h2, _ := app.Hyphenator("EN-us"); h2 != h {
		t.Error("Hyphenator(EN-us) should resolve to the en-US pattern file")
	}
}

func TestHyphenatorBuiltinFallback(t *testing.T) {
	app, _ := newTestApp(t, "", nil)

	for _, code := range []string{"en-US", "de"} {
		h, ok := app.Hyphenator(code)
		if !ok {
			t.Fatalf("Hyphenator(%q) not available", code)
		}
		if got := h.Points("hyphenation"); !reflect.DeepEqual(got, []int{2, 6, 7}) {
			t.Errorf("Hyphenator(%q).Points(hyphenation) = %v, want [2 6 7]", code, got)
		}
	}
	for _, code := range []string{"none", "xx-unknown", ""} {
		if _, ok := app.Hyphenator(code); ok {
			t.Errorf("Hyphenator(%q) available, want none", code)
		}
	}
}

func TestHyphenatorConfiguredExceptions(t *testing.T) {
	app, _ := newTestApp(t, "[hyphenation]\nexceptions = [\"hyphen-ation\"]\nleftMin = 3\n", nil)

	h, ok := app.Hyphenator("en-GB")
	if !ok {
		t.Fatal("Hyphenator(en-GB) not available")
	}
	if got := h.Points("hyphenation"); !reflect.DeepEqual(got, []int{6}) {
		t.Errorf("Points(hyphenation) = %v, want [6]", got)
	}
	if got := h.Points("typography"); !reflect.DeepEqual(got, []int{5, 7}) {
		t.Errorf("Points(typography) = %v, want [5 7] with leftMin 3", got)
	}
}

func TestHyphenatorMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "textstyle.toml", "[hyphenation.patterns]\nde = '"+filepath.Join(dir, "nope.pat")+"'\n")

	_, err := New(context.Background(), Options{ConfigPath: cfg, NoEnv: true, LogOutput: &bytes.Buffer{}})
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "load patterns" {
		t.Fatalf("New() error = %v, want load patterns OperationError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("New() error = %v, want os.ErrNotExist", err)
	}
}

func TestReloadConfig(t *testing.T) {
	app, dir := newTestApp(t, "[style]\ncolor = \"aa0000\"\n", nil)

	var reloads int
	app.Notifier().Subscribe(func(c notify.Change) {
		if c.Kind == notify.KindReload {
			reloads++
		}
	})

	writeFile(t, dir, "textstyle.toml", "[style]\ncolor = \"0000ff\"\nrenderEffect = \"antique\"\n[logging]\nlevel = \"error\"\n")
	if err := app.ReloadConfig(context.Background()); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}

	if got := style.ColorToHex(*app.Store().DefaultStyle().Color); got != "0000ff" {
		t.Errorf("color = %q, want 0000ff", got)
	}
	if got := app.Store().RenderEffect(); got != style.EffectAntique {
		t.Errorf("RenderEffect() = %v, want antique", got)
	}
	if got := app.Logger().Level(); got != logging.LevelError {
		t.Errorf("Level() = %v, want error", got)
	}
	if reloads != 1 {
		t.Errorf("reload notifications = %d, want 1", reloads)
	}

	// Unchanged file: nothing to push.
	if err := app.ReloadConfig(context.Background()); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if reloads != 1 {
		t.Errorf("reload notifications = %d, want 1", reloads)
	}
}

func TestReloadConfigKeepsItemStyles(t *testing.T) {
	app, dir := newTestApp(t, "[style]\ncolor = \"aa0000\"\n", nil)

	id := app.Store().Add("caption", nil)
	if err := app.Store().Select(id); err != nil {
		t.Fatal(err)
	}
	app.Panel().SetColorHex("00ff00")

	writeFile(t, dir, "textstyle.toml", "[style]\ncolor = \"0000ff\"\n")
	if err := app.ReloadConfig(context.Background()); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}

	if got := style.ColorToHex(app.Panel().Current().Color); got != "00ff00" {
		t.Errorf("item color = %q, want 00ff00", got)
	}
}

func TestReloadConfigInvalidKeepsPrevious(t *testing.T) {
	app, dir := newTestApp(t, "[style]\ncolor = \"aa0000\"\n", nil)

	writeFile(t, dir, "textstyle.toml", "[style\ncolor = ")
	err := app.ReloadConfig(context.Background())
	if err == nil {
		t.Fatal("ReloadConfig() error = nil, want parse error")
	}
	if got := style.ColorToHex(*app.Store().DefaultStyle().Color); got != "aa0000" {
		t.Errorf("color = %q, want aa0000", got)
	}
}

func TestReloadConfigPresets(t *testing.T) {
	app, dir := newTestApp(t, "", nil)
	if app.Presets().Len() != 0 {
		t.Fatalf("Presets().Len() = %d, want 0", app.Presets().Len())
	}

	presets := writeFile(t, dir, "presets.lua", testPresets)
	writeFile(t, dir, "textstyle.toml", "[presets]\nfile = '"+presets+"'\n")
	if err := app.ReloadConfig(context.Background()); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if err := app.ApplyPreset("headline"); err != nil {
		t.Errorf("ApplyPreset() error = %v", err)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	app, dir := newTestApp(t, "[style]\ncolor = \"aa0000\"\n", func(o *Options) {
		o.Watch = true
	})

	writeFile(t, dir, "textstyle.toml", "[style]\ncolor = \"123456\"\n")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if style.ColorToHex(*app.Store().DefaultStyle().Color) == "123456" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("color = %q after write, want 123456", style.ColorToHex(*app.Store().DefaultStyle().Color))
}

func TestCloseIdempotent(t *testing.T) {
	app, _ := newTestApp(t, "", func(o *Options) { o.Watch = true })

	if err := app.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := app.ReloadConfig(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("ReloadConfig() after Close error = %v, want ErrClosed", err)
	}
}

func TestInvalidSettingsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	newTestApp(t, "[style]\ncolor = \"nothex\"\n", func(o *Options) {
		o.LogOutput = &buf
	})
	if !strings.Contains(buf.String(), "style.color") {
		t.Errorf("log = %q, want a style.color warning", buf.String())
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	if list.AsError() != nil {
		t.Fatal("empty AsError() != nil")
	}

	list.Add(nil)
	list.Add(NewOperationError("load patterns", "de.pat", os.ErrNotExist))
	list.Add(errors.New("second"))

	if list.Len() != 2 {
		t.Errorf("Len() = %d, want 2", list.Len())
	}
	err := list.AsError()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("errors.Is(ErrNotExist) = false for %v", err)
	}
	if got := err.Error(); !strings.HasPrefix(got, "2 errors: first: load patterns de.pat") {
		t.Errorf("Error() = %q", got)
	}
}

func TestOperationErrorMessage(t *testing.T) {
	tests := []struct {
		err  *OperationError
		want string
	}{
		{NewOperationError("reload config", "", nil), "reload config"},
		{NewOperationError("apply preset", "bold", nil), "apply preset bold"},
		{NewOperationError("apply preset", "bold", preset.ErrNotFound), "apply preset bold: " + preset.ErrNotFound.Error()},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
