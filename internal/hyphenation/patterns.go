package hyphenation

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Hyphenator finds hyphenation points in a word.
type Hyphenator interface {
	// Points returns the rune indices at which word may be split, in
	// increasing order. A point p splits word into word[:p] and word[p:].
	Points(word string) []int
}

// Default minimum fragment lengths, as used by TeX for English.
const (
	DefaultLeftMin  = 2
	DefaultRightMin = 3
)

// Patterns is a Knuth-Liang hyphenator built from TeX style patterns such
// as "hy3ph" or ".ach4". It is safe for concurrent use once built.
type Patterns struct {
	patterns   map[string][]int
	exceptions map[string][]int
	maxLen     int
	leftMin    int
	rightMin   int
}

// PatternOption configures Patterns.
type PatternOption func(*Patterns)

// WithMinimums sets the shortest fragments allowed before the first and
// after the last split point.
func WithMinimums(left, right int) PatternOption {
	return func(p *Patterns) {
		if left > 0 {
			p.leftMin = left
		}
		if right > 0 {
			p.rightMin = right
		}
	}
}

// WithExceptions adds words with explicit split points written with
// hyphens, e.g. "ta-ble".
func WithExceptions(words ...string) PatternOption {
	return func(p *Patterns) {
		for _, w := range words {
			key, points := parseException(w)
			if key != "" {
				p.exceptions[key] = points
			}
		}
	}
}

// NewPatterns builds a hyphenator from pattern strings.
func NewPatterns(patterns []string, opts ...PatternOption) (*Patterns, error) {
	p := &Patterns{
		patterns:   make(map[string][]int, len(patterns)),
		exceptions: make(map[string][]int),
		leftMin:    DefaultLeftMin,
		rightMin:   DefaultRightMin,
	}

	for _, opt := range opts {
		opt(p)
	}

	for _, pat := range patterns {
		if err := p.add(pat); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// LoadPatterns reads whitespace separated patterns from r. Text after a
// '%' is a comment. Words inside a "\hyphenation{...}" block are added
// as exceptions; "\patterns{...}" blocks and bare fields are patterns.
// Other TeX commands are skipped together with their braced argument.
func LoadPatterns(r io.Reader, opts ...PatternOption) (*Patterns, error) {
	var patterns, exceptions []string
	block := blockNone

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '%'); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.Fields(line) {
			if strings.HasPrefix(field, `\`) {
				name, rest, open := strings.Cut(field[1:], "{")
				if !open {
					continue
				}
				block = blockFor(name)
				field = rest
			}
			word, closed := strings.CutSuffix(field, "}")
			switch {
			case word == "":
			case block == blockExceptions:
				exceptions = append(exceptions, word)
			case block == blockPatterns, block == blockNone:
				patterns = append(patterns, word)
			}
			if closed {
				block = blockNone
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading patterns: %w", err)
	}

	// Caller exceptions come last so they win over the file's.
	opts = append([]PatternOption{WithExceptions(exceptions...)}, opts...)
	return NewPatterns(patterns, opts...)
}

type texBlock int

const (
	blockNone texBlock = iota
	blockPatterns
	blockExceptions
	blockSkipped
)

func blockFor(command string) texBlock {
	switch command {
	case "patterns":
		return blockPatterns
	case "hyphenation":
		return blockExceptions
	default:
		return blockSkipped
	}
}

// Len returns the number of patterns.
func (p *Patterns) Len() int {
	return len(p.patterns)
}

// add parses one pattern into its letters and inter-letter values.
func (p *Patterns) add(pattern string) error {
	var letters []rune
	values := []int{0}

	for _, r := range pattern {
		if r >= '0' && r <= '9' {
			values[len(values)-1] = int(r - '0')
			continue
		}
		letters = append(letters, unicode.ToLower(r))
		values = append(values, 0)
	}

	if len(letters) == 0 {
		return fmt.Errorf("invalid hyphenation pattern %q", pattern)
	}

	p.patterns[string(letters)] = values
	if len(letters) > p.maxLen {
		p.maxLen = len(letters)
	}
	return nil
}

// Points implements Hyphenator.
func (p *Patterns) Points(word string) []int {
	lower := []rune(strings.ToLower(word))
	n := len(lower)
	if n < p.leftMin+p.rightMin {
		return nil
	}

	if points, ok := p.exceptions[string(lower)]; ok {
		out := make([]int, len(points))
		copy(out, points)
		return out
	}

	w := make([]rune, 0, n+2)
	w = append(w, '.')
	w = append(w, lower...)
	w = append(w, '.')

	values := make([]int, len(w)+1)
	for i := 0; i < len(w); i++ {
		for j := i + 1; j <= len(w) && j-i <= p.maxLen; j++ {
			pat, ok := p.patterns[string(w[i:j])]
			if !ok {
				continue
			}
			for k, v := range pat {
				if v > values[i+k] {
					values[i+k] = v
				}
			}
		}
	}

	// values[p+1] sits between word[p-1] and word[p].
	var points []int
	for pos := p.leftMin; pos <= n-p.rightMin; pos++ {
		if values[pos+1]%2 == 1 {
			points = append(points, pos)
		}
	}
	return points
}

// parseException turns "hy-phen-ation" into ("hyphenation", [2 6]).
func parseException(word string) (string, []int) {
	var letters []rune
	var points []int

	for _, r := range strings.ToLower(strings.TrimSpace(word)) {
		if r == '-' {
			if len(letters) > 0 {
				points = append(points, len(letters))
			}
			continue
		}
		letters = append(letters, r)
	}

	return string(letters), points
}
