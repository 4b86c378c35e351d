package hyphenation

import (
	"bytes"
	_ "embed"
	"sync"
)

//go:embed data/hyph-en-us.tex
var englishUSData []byte

var (
	englishUSOnce     sync.Once
	englishUSPatterns *Patterns
	englishUSErr      error
)

// EnglishUS returns the built-in American English patterns, parsed on
// first use. Options, when given, build a separate hyphenator instead of
// the shared one.
func EnglishUS(opts ...PatternOption) (*Patterns, error) {
	if len(opts) > 0 {
		return LoadPatterns(bytes.NewReader(englishUSData), opts...)
	}
	englishUSOnce.Do(func() {
		englishUSPatterns, englishUSErr = LoadPatterns(bytes.NewReader(englishUSData))
	})
	return englishUSPatterns, englishUSErr
}
