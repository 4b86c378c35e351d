package app

import (
	"context"
	"io"
	"sync"

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

// Options configures an Application.
type Options struct {
	// ConfigPath is the configuration file; empty means the default path.
	ConfigPath string

	// NoEnv disables TEXTSTYLE_* environment overrides.
	NoEnv bool

	// Overrides are setting paths applied above file and environment,
	// typically from command line flags.
	Overrides map[string]any

	// LogLevel overrides the configured logging level when set.
	LogLevel string

	// LogOutput receives log lines; nil means stderr.
	LogOutput io.Writer

	// Watch reloads the configuration when its file changes.
	Watch bool

	// FontSource replaces the directory scan configured in the file.
	FontSource fonts.Source
}

// Application holds the wired components.
type Application struct {
	opts Options

	mu          sync.RWMutex
	logger      *logging.Logger
	config      *config.Config
	notifier    *notify.Notifier
	store       *store.Store
	fontSource  fonts.Source
	catalog     *i18n.Catalog
	hyphenators map[string]hyphenation.Hyphenator
	builtin     hyphenation.Hyphenator
	presets     *preset.Set
	panel       *panel.Panel
	watcher     *watcher.Watcher

	closed bool
}

// New creates an Application, initializing components in dependency
// order. On failure already initialized components are released.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{
		opts:        opts,
		hyphenators: make(map[string]hyphenation.Hyphenator),
	}
	if err := newBootstrapper(app).bootstrap(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger { return app.logger }

// Config returns the configuration.
func (app *Application) Config() *config.Config { return app.config }

// Notifier returns the change notifier shared by all components.
func (app *Application) Notifier() *notify.Notifier { return app.notifier }

// Store returns the state store.
func (app *Application) Store() *store.Store { return app.store }

// Panel returns the style panel.
func (app *Application) Panel() *panel.Panel { return app.panel }

// Catalog returns the label catalog.
func (app *Application) Catalog() *i18n.Catalog { return app.catalog }

// Presets returns the loaded presets; nil when none are configured.
func (app *Application) Presets() *preset.Set {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.presets
}

// Hyphenator returns the hyphenator for a registry code: the code's
// pattern file when one is configured, otherwise the built-in American
// English patterns. It reports false for "none" and unknown codes.
func (app *Application) Hyphenator(code string) (hyphenation.Hyphenator, bool) {
	code, ok := hyphenation.Normalize(code)
	if !ok || hyphenation.IsNone(code) {
		return nil, false
	}
	app.mu.RLock()
	defer app.mu.RUnlock()
	if h, ok := app.hyphenators[code]; ok {
		return h, true
	}
	return app.builtin, app.builtin != nil
}

// ApplyPreset applies a named preset through the panel.
func (app *Application) ApplyPreset(name string) error {
	p, err := app.Presets().Lookup(name)
	if err != nil {
		return NewOperationError("apply preset", name, err)
	}
	app.panel.ApplyPreset(p)
	return nil
}

// Close releases the watcher and the notifier. It is safe to call more
// than once.
func (app *Application) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	w := app.watcher
	app.watcher = nil
	app.mu.Unlock()

	var errs ErrorList
	if w != nil {
		errs.Add(w.Close())
	}
	if app.notifier != nil {
		app.notifier.Close()
	}
	return errs.AsError()
}
