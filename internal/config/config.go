// Package config provides the layered configuration of textstyle.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Overrides (flags)       │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← TEXTSTYLE_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← textstyle.toml / textstyle.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Section accessors (Style, Hyphenation, Fonts, ...) return snapshot
// structs; type problems are recorded and the default is used instead.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dshills/textstyle/internal/config/loader"
)

// Config provides unified access to the textstyle configuration.
type Config struct {
	mu sync.RWMutex

	fs        loader.FileSystem
	path      string
	envPrefix string
	useEnv    bool

	defaults  map[string]any
	file      map[string]any
	env       map[string]any
	overrides map[string]any
	merged    map[string]any

	// configErrors stores errors encountered during configuration access.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the configuration file. Its extension selects the format.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFS sets the file system used to read the configuration file.
func WithFS(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithEnv enables or disables the environment layer.
func WithEnv(enable bool) Option {
	return func(c *Config) {
		c.useEnv = enable
	}
}

// New creates a Config holding the built-in defaults. Call Load to read
// the file and environment layers.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
		defaults:  defaultConfig(),
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.merged = c.mergeLocked()
	return c
}

// DefaultPath returns the first existing config file in the user config
// directory, or the TOML path there when none exists.
func DefaultPath() string {
	dir := defaultUserConfigDir()
	for _, name := range []string{"textstyle.toml", "textstyle.yaml", "textstyle.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, "textstyle.toml")
}

func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "textstyle")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "textstyle")
}

// Path returns the configuration file path, if any.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Load reads the file and environment layers. A missing file is not an error.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := c.readFile()
	if err != nil {
		return err
	}

	var env map[string]any
	if c.useEnv {
		if env, err = loader.NewEnvLoader(c.envPrefix).Load(); err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = file
	c.env = env
	c.merged = c.mergeLocked()
	c.configErrors = nil
	return nil
}

// Reload re-reads the configuration file and returns the setting paths
// whose effective value changed, sorted. On error the previous
// configuration stays in effect.
func (c *Config) Reload() ([]string, error) {
	file, err := c.readFile()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.merged
	c.file = file
	c.merged = c.mergeLocked()
	c.configErrors = nil
	return diffPaths(old, c.merged), nil
}

func (c *Config) readFile() (map[string]any, error) {
	c.mu.RLock()
	path, fsys := c.path, c.fs
	c.mu.RUnlock()

	if path == "" {
		return nil, nil
	}
	l, err := loader.ForPath(fsys, path)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

func (c *Config) mergeLocked() map[string]any {
	merged := loader.Clone(c.defaults)
	for _, layer := range []map[string]any{c.file, c.env, c.overrides} {
		merged = loader.DeepMerge(merged, loader.Clone(layer))
	}
	return merged
}

// Set stores value in the override layer, above file and environment.
func (c *Config) Set(path string, value any) error {
	if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") {
		return ErrInvalidPath
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	loader.SetByPath(c.overrides, path, value)
	c.merged = c.mergeLocked()
	delete(c.configErrors, path)
	return nil
}

// Merged returns a copy of the effective configuration map.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.GetByPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetFloat returns a float64 value at the given path. Strings, as set by
// environment variables, are parsed.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "float64", Actual: "string"}
		}
		return f, nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
	}
	return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
}

// GetStringSlice returns a string slice at the given path. A string value
// is split on commas.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}

	switch val := v.(type) {
	case []string:
		return slices.Clone(val), nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return []string{}, nil
		}
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// GetStringMap returns a map of strings at the given path.
func (c *Config) GetStringMap(path string) (map[string]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "map", Actual: typeName(v)}
	}
	result := make(map[string]string, len(m))
	for k, item := range m {
		s, ok := item.(string)
		if !ok {
			return nil, &TypeError{Path: path + "." + k, Expected: "string", Actual: typeName(item)}
		}
		result[k] = s
	}
	return result, nil
}

// recordConfigError stores the first error seen for path.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns the configuration errors encountered during access.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

func defaultConfig() map[string]any {
	return map[string]any{
		"style": map[string]any{
			"fonts":        []any{"Arial"},
			"color":        "000000",
			"opacity":      255.0,
			"effect":       "normal",
			"renderEffect": "normal",
		},
		"hyphenation": map[string]any{
			"language":   "none",
			"patterns":   map[string]any{},
			"leftMin":    2.0,
			"rightMin":   3.0,
			"exceptions": []any{},
		},
		"fonts": map[string]any{
			"dirs":     []any{},
			"fallback": []any{"Arial", "Helvetica", "Times New Roman", "Courier New", "Georgia", "Verdana"},
			"scan":     true,
		},
		"locale": map[string]any{
			"language": "en",
		},
		"logging": map[string]any{
			"level": "info",
		},
		"presets": map[string]any{
			"file":  "",
			"apply": "",
		},
	}
}

// diffPaths returns the sorted leaf paths that differ between two maps.
func diffPaths(old, next map[string]any) []string {
	oldFlat := flatten(old)
	newFlat := flatten(next)

	var changed []string
	for path, nv := range newFlat {
		if ov, ok := oldFlat[path]; !ok || !valuesEqual(ov, nv) {
			changed = append(changed, path)
		}
	}
	for path := range oldFlat {
		if _, ok := newFlat[path]; !ok {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

func flatten(data map[string]any) map[string]any {
	result := make(map[string]any)
	var walk func(m map[string]any, prefix string)
	walk = func(m map[string]any, prefix string) {
		for key, val := range m {
			full := key
			if prefix != "" {
				full = prefix + "." + key
			}
			if nested, ok := val.(map[string]any); ok && len(nested) > 0 {
				walk(nested, full)
				continue
			}
			result[full] = val
		}
	}
	walk(data, "")
	return result
}

func valuesEqual(a, b any) bool {
	switch va := a.(type) {
	case map[string]any:
		vb, ok := b.(map[string]any)
		return ok && len(va) == 0 && len(vb) == 0
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !valuesEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	case []string:
		vb, ok := b.([]string)
		return ok && slices.Equal(va, vb)
	default:
		return a == b
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
