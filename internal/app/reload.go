package app

import (
	"context"
	"strings"

	"github.com/dshills/textstyle/internal/hyphenation"
	"github.com/dshills/textstyle/internal/preset"
)

// ReloadConfig re-reads the configuration file and pushes changed
// settings into the running components. The returned error aggregates
// failures of individual components; settings that applied cleanly stay
// applied.
func (app *Application) ReloadConfig(ctx context.Context) error {
	app.mu.RLock()
	closed := app.closed
	app.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if app.config.Path() == "" {
		return ErrNoConfigFile
	}

	changed, err := app.config.Reload()
	if err != nil {
		return NewOperationError("reload config", app.config.Path(), err)
	}
	if len(changed) == 0 {
		return nil
	}
	app.logger.Debug("config reload changed %d settings", len(changed))

	var errs ErrorList
	if touches(changed, "style") || touches(changed, "hyphenation.language") {
		app.store.SetDefaultStyle(app.config.DefaultStyle())
	}
	if touches(changed, "style.renderEffect") {
		app.store.SetRenderEffect(app.config.Style().RenderEffect)
	}
	if touches(changed, "logging.level") {
		app.logger.SetLevel(app.config.Logging().Level)
	}
	if touchesAny(changed, "hyphenation.patterns", "hyphenation.leftMin", "hyphenation.rightMin", "hyphenation.exceptions") {
		errs.Add(app.reloadHyphenators())
	}
	if touches(changed, "presets.file") {
		errs.Add(app.reloadPresets(ctx))
	}

	reportConfigErrors(app.config, app.logger)
	app.notifier.Reload("config")
	return errs.AsError()
}

func (app *Application) reloadHyphenators() error {
	hc := app.config.Hyphenation()
	builtin, err := hyphenation.EnglishUS(hc.PatternOptions()...)
	if err != nil {
		return NewOperationError("load patterns", "built-in en-US", err)
	}
	hyph, err := loadHyphenators(hc)
	app.mu.Lock()
	app.builtin = builtin
	app.hyphenators = hyph
	app.mu.Unlock()
	return err
}

func (app *Application) reloadPresets(ctx context.Context) error {
	var set *preset.Set
	if file := app.config.Presets().File; file != "" {
		var err error
		if set, err = preset.NewLoader().LoadFile(ctx, file); err != nil {
			return NewOperationError("load presets", file, err)
		}
	}
	app.mu.Lock()
	app.presets = set
	app.mu.Unlock()
	return nil
}

// touches reports whether any changed path equals key or lies below it.
func touches(changed []string, key string) bool {
	for _, p := range changed {
		if p == key || strings.HasPrefix(p, key+".") {
			return true
		}
	}
	return false
}

func touchesAny(changed []string, keys ...string) bool {
	for _, key := range keys {
		if touches(changed, key) {
			return true
		}
	}
	return false
}
