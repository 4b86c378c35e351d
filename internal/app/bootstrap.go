package app

import (
	"context"
	"fmt"
	"os"
	"sort"

	"golang.org/x/text/language"

	"github.com/dshills/textstyle/internal/config"
	"github.com/dshills/textstyle/internal/config/watcher"
	"github.com/dshills/textstyle/internal/fonts"
	"github.com/dshills/textstyle/internal/hyphenation"
	"github.com/dshills/textstyle/internal/i18n"
	"github.com/dshills/textstyle/internal/logging"
	"github.com/dshills/textstyle/internal/notify"
	"github.com/dshills/textstyle/internal/panel"
	"github.com/dshills/textstyle/internal/preset"
	"github.com/dshills/textstyle/internal/store"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		initOrder: make([]string, 0, 10),
	}
}

// bootstrap initializes all components in dependency order.
func (b *bootstrapper) bootstrap(ctx context.Context) error {
	steps := []func(context.Context) error{
		b.initConfig,      // 1. configuration layers
		b.initLogger,      // 2. logging at the configured level
		b.initNotifier,    // 3. change notification
		b.initStore,       // 4. state store seeded from config
		b.initFonts,       // 5. font source
		b.initCatalog,     // 6. labels
		b.initHyphenation, // 7. pattern files
		b.initPresets,     // 8. Lua presets
		b.initPanel,       // 9. panel, startup preset
		b.initWatcher,     // 10. live reload
	}

	for _, step := range steps {
		if err := step(ctx); err != nil {
			b.cleanup()
			return err
		}
	}
	reportConfigErrors(b.app.config, b.app.logger)
	return nil
}

func (b *bootstrapper) initConfig(ctx context.Context) error {
	path := b.app.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg := config.New(config.WithFile(path), config.WithEnv(!b.app.opts.NoEnv))
	if err := cfg.Load(ctx); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	keys := make([]string, 0, len(b.app.opts.Overrides))
	for k := range b.app.opts.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := cfg.Set(k, b.app.opts.Overrides[k]); err != nil {
			return &InitError{Component: "config", Err: fmt.Errorf("override %s: %w", k, err)}
		}
	}

	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

func (b *bootstrapper) initLogger(context.Context) error {
	lc := logging.DefaultConfig()
	lc.Level = b.app.config.Logging().Level
	if b.app.opts.LogLevel != "" {
		lc.Level = logging.ParseLevel(b.app.opts.LogLevel)
	}
	if b.app.opts.LogOutput != nil {
		lc.Output = b.app.opts.LogOutput
	}
	b.app.logger = logging.New(lc)
	b.app.logger.Debug("configuration loaded from %s", b.app.config.Path())
	return nil
}

func (b *bootstrapper) initNotifier(context.Context) error {
	b.app.notifier = notify.New()
	b.initOrder = append(b.initOrder, "notifier")
	return nil
}

func (b *bootstrapper) initStore(context.Context) error {
	b.app.store = store.New(
		store.WithNotifier(b.app.notifier),
		store.WithLogger(b.app.logger),
		store.WithDefaultStyle(b.app.config.DefaultStyle()),
	)
	b.app.store.SetRenderEffect(b.app.config.Style().RenderEffect)
	return nil
}

func (b *bootstrapper) initFonts(context.Context) error {
	if b.app.opts.FontSource != nil {
		b.app.fontSource = b.app.opts.FontSource
		return nil
	}
	b.app.fontSource = fontSourceFor(b.app.config.Fonts(), b.app.logger)
	return nil
}

// fontSourceFor scans the configured directories and falls back to the
// configured list when scanning is off, fails or finds nothing.
func fontSourceFor(fc config.FontsConfig, logger *logging.Logger) fonts.Source {
	fallback := fonts.StaticSource(fc.Fallback)
	if !fc.Scan {
		return fallback
	}

	dirs := fc.Dirs
	if len(dirs) == 0 {
		dirs = fonts.DefaultDirs()
	}
	scan := fonts.NewDirSource(dirs, fonts.WithLogger(logger))

	return fonts.SourceFunc(func(ctx context.Context) ([]string, error) {
		families, err := scan.Families(ctx)
		if err != nil || len(families) == 0 {
			if err != nil {
				logger.Warn("font scan failed, using fallback list: %v", err)
			}
			return fallback.Families(ctx)
		}
		return families, nil
	})
}

func (b *bootstrapper) initCatalog(context.Context) error {
	tag, err := language.Parse(b.app.config.Locale().Language)
	if err != nil {
		b.app.logger.Warn("invalid locale %q, using English: %v", b.app.config.Locale().Language, err)
		tag = language.English
	}

	cat, err := i18n.NewCatalog(tag)
	if err != nil {
		return &InitError{Component: "catalog", Err: err}
	}
	cat.SetLanguage(tag)
	b.app.catalog = cat
	return nil
}

func (b *bootstrapper) initHyphenation(context.Context) error {
	hc := b.app.config.Hyphenation()
	builtin, err := hyphenation.EnglishUS(hc.PatternOptions()...)
	if err != nil {
		return &InitError{Component: "hyphenation", Err: err}
	}
	hyph, err := loadHyphenators(hc)
	if err != nil {
		return &InitError{Component: "hyphenation", Err: err}
	}
	b.app.builtin = builtin
	b.app.hyphenators = hyph
	return nil
}

// loadHyphenators reads the configured pattern file of each code.
func loadHyphenators(hc config.HyphenationConfig) (map[string]hyphenation.Hyphenator, error) {
	out := make(map[string]hyphenation.Hyphenator, len(hc.Patterns))
	var errs ErrorList

	codes := make([]string, 0, len(hc.Patterns))
	for code := range hc.Patterns {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, raw := range codes {
		path := hc.Patterns[raw]
		code, ok := hyphenation.Normalize(raw)
		if !ok || hyphenation.IsNone(code) {
			errs.Add(NewOperationError("load patterns", path, fmt.Errorf("unknown language %q", raw)))
			continue
		}
		h, err := loadPatternFile(path, hc.PatternOptions()...)
		if err != nil {
			errs.Add(NewOperationError("load patterns", path, err))
			continue
		}
		out[code] = h
	}
	return out, errs.AsError()
}

func loadPatternFile(path string, opts ...hyphenation.PatternOption) (*hyphenation.Patterns, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return hyphenation.LoadPatterns(f, opts...)
}

func (b *bootstrapper) initPresets(ctx context.Context) error {
	file := b.app.config.Presets().File
	if file == "" {
		return nil
	}
	set, err := preset.NewLoader().LoadFile(ctx, file)
	if err != nil {
		return &InitError{Component: "presets", Err: err}
	}
	b.app.presets = set
	b.app.logger.Debug("loaded %d presets from %s", set.Len(), file)
	return nil
}

func (b *bootstrapper) initPanel(context.Context) error {
	b.app.panel = panel.New(b.app.store,
		panel.WithFontSource(b.app.fontSource),
		panel.WithLogger(b.app.logger),
	)

	if name := b.app.config.Presets().Apply; name != "" {
		if err := b.app.ApplyPreset(name); err != nil {
			return &InitError{Component: "panel", Err: err}
		}
	}
	return nil
}

func (b *bootstrapper) initWatcher(context.Context) error {
	if !b.app.opts.Watch {
		return nil
	}

	w, err := watcher.New(watcher.WithLogger(b.app.logger))
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	if err := w.Watch(b.app.config.Path()); err != nil {
		_ = w.Close()
		return &InitError{Component: "watcher", Err: err}
	}
	w.OnChange(func(ev watcher.Event) {
		b.app.logger.Info("config file %s: %s", ev.Op, ev.Path)
		if err := b.app.ReloadConfig(context.Background()); err != nil {
			b.app.logger.Error("reloading config: %v", err)
		}
	})

	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// reportConfigErrors logs settings that fell back to defaults.
func reportConfigErrors(cfg *config.Config, logger *logging.Logger) {
	errs := cfg.ConfigErrors()
	paths := make([]string, 0, len(errs))
	for p := range errs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		logger.Warn("config %s: %v", p, errs[p])
	}
}

// cleanup performs cleanup in reverse initialization order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "watcher":
			if b.app.watcher != nil {
				_ = b.app.watcher.Close()
				b.app.watcher = nil
			}
		case "notifier":
			if b.app.notifier != nil {
				b.app.notifier.Close()
				b.app.notifier = nil
			}
		case "config":
			b.app.config = nil
		}
	}
}
