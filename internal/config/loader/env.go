package loader

import (
	"os"
	"strings"
)

// DefaultEnvPrefix is the prefix of environment variables read by default.
const DefaultEnvPrefix = "TEXTSTYLE_"

// EnvLoader loads configuration from environment variables.
//
// Values are kept as strings; typed accessors in the config package
// convert them. This keeps values such as "000000" intact as colors.
type EnvLoader struct {
	prefix  string            // e.g. "TEXTSTYLE_"
	mapping map[string]string // env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "TEXTSTYLE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, defaultEnvMapping(prefix))
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":     "logging.level",
		prefix + "FONT":          "style.fonts",
		prefix + "FONT_SIZE":     "style.fontSize",
		prefix + "COLOR":         "style.color",
		prefix + "OPACITY":       "style.opacity",
		prefix + "EFFECT":        "style.effect",
		prefix + "RENDER_EFFECT": "style.renderEffect",
		prefix + "HYPHENATION":   "hyphenation.language",
		prefix + "LOCALE":        "locale.language",
		prefix + "FONT_DIRS":     "fonts.dirs",
		prefix + "PRESETS":       "presets.file",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty values are kept; they are valid settings, not unset ones.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		SetByPath(config, path, value)
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts TEXTSTYLE_STYLE_FONT_SIZE to style.fontSize.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}

	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + setting
}
