// Package fonts discovers the font families offered for selection.
package fonts

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/image/font/sfnt"

	"github.com/dshills/textstyle/internal/logging"
)

// Source lists available font families.
type Source interface {
	Families(ctx context.Context) ([]string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]string, error)

// Families implements Source.
func (f SourceFunc) Families(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// StaticSource returns a fixed list.
type StaticSource []string

// Families implements Source.
func (s StaticSource) Families(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

// ErrNoDirectories is returned by DirSource when it has nothing to scan.
var ErrNoDirectories = errors.New("no font directories configured")

var fontExtensions = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
	".otc": true,
}

// DirSource scans directories for TrueType and OpenType files and reads
// their family names.
type DirSource struct {
	dirs   []string
	logger *logging.Logger
}

// DirOption configures a DirSource.
type DirOption func(*DirSource)

// WithLogger sets the logger used to report unreadable files.
func WithLogger(l *logging.Logger) DirOption {
	return func(s *DirSource) {
		s.logger = l
	}
}

// NewDirSource creates a source scanning dirs. Missing directories are
// skipped.
func NewDirSource(dirs []string, opts ...DirOption) *DirSource {
	s := &DirSource{dirs: append([]string(nil), dirs...)}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger).WithComponent("fonts")
	return s
}

// Families implements Source. The result is sorted and has no repeats.
func (s *DirSource) Families(ctx context.Context) ([]string, error) {
	if len(s.dirs) == 0 {
		return nil, ErrNoDirectories
	}

	seen := make(map[string]struct{})
	var buf sfnt.Buffer

	for _, dir := range s.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				s.logger.Debug("skipping %s: %v", path, err)
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() || !fontExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			names, err := familiesInFile(path, &buf)
			if err != nil {
				s.logger.Debug("unreadable font %s: %v", path, err)
				return nil
			}
			for _, n := range names {
				seen[n] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// familiesInFile parses a font or font collection file.
func familiesInFile(path string, buf *sfnt.Buffer) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, err
	}

	var names []string
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			return nil, err
		}
		if name := familyName(f, buf); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// familyName prefers the typographic family over the legacy family name.
func familyName(f *sfnt.Font, buf *sfnt.Buffer) string {
	for _, id := range []sfnt.NameID{sfnt.NameIDTypographicFamily, sfnt.NameIDFamily} {
		name, err := f.Name(buf, id)
		if err == nil && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

// DefaultDirs returns the usual font directories of the running OS.
func DefaultDirs() []string {
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs,
				filepath.Join(home, ".local", "share", "fonts"),
				filepath.Join(home, ".fonts"),
			)
		}
		return dirs
	}
}
