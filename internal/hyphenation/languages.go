// Package hyphenation holds the catalog of supported hyphenation languages
// and the word-splitting helpers used by automatic word breaking.
//
// The catalog is static and ordered. Its first entry is the "none"
// sentinel, which stands for "hyphenation disabled".
package hyphenation

import (
	"strings"

	"golang.org/x/text/language"
)

// CodeNone is the sentinel code meaning hyphenation is disabled.
const CodeNone = "none"

// labelPrefix prefixes every language label key.
const labelPrefix = "hyphenation.language."

// Entry is a supported hyphenation language.
type Entry struct {
	// Code is a BCP 47 language code, or CodeNone.
	Code string

	// LabelKey is the localization key for the display name.
	LabelKey string
}

// IsNone reports whether the entry is the disabled sentinel.
func (e Entry) IsNone() bool {
	return e.Code == CodeNone
}

// Tag returns the language tag of the entry; language.Und for the sentinel.
func (e Entry) Tag() language.Tag {
	return Tag(e.Code)
}

// registry is the ordered language catalog. It is never mutated.
var registry = func() []Entry {
	codes := []string{
		CodeNone,
		"en-US",
		"en-GB",
		"de",
		"de-1901",
		"de-CH",
		"fr",
		"es",
		"it",
		"pt",
		"nl",
		"pl",
		"ru",
		"sv",
		"da",
		"fi",
		"cs",
		"hu",
		"tr",
		"el",
		"uk",
		"hr",
		"ro",
		"sk",
		"sl",
		"bg",
		"ca",
		"et",
		"lv",
		"lt",
		"id",
		"la",
	}

	entries := make([]Entry, len(codes))
	for i, code := range codes {
		entries[i] = Entry{Code: code, LabelKey: LabelKey(code)}
	}
	return entries
}()

// Languages returns the catalog in display order. The first entry is the
// disabled sentinel. The returned slice is a copy.
func Languages() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry)
	return out
}

// Len returns the number of catalog entries, the sentinel included.
func Len() int {
	return len(registry)
}

// Lookup returns the entry with the given code. Codes compare
// case-insensitively.
func Lookup(code string) (Entry, bool) {
	for _, e := range registry {
		if strings.EqualFold(e.Code, code) {
			return e, true
		}
	}
	return Entry{}, false
}

// IsNone reports whether code is the disabled sentinel.
func IsNone(code string) bool {
	return strings.EqualFold(code, CodeNone)
}

// LabelKey returns the localization key for a code.
func LabelKey(code string) string {
	return labelPrefix + strings.ToLower(code)
}

// Tag returns the language tag for a code; language.Und for the sentinel
// or an unparseable code.
func Tag(code string) language.Tag {
	if IsNone(code) {
		return language.Und
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und
	}
	return tag
}
