package hyphenation

import (
	"strings"
	"unicode/utf8"
)

// FindSplitPoint returns the hyphenation point of word closest to its
// centre. The earliest point wins a tie. The second result is false when
// the word has no point.
func FindSplitPoint(h Hyphenator, word string) (int, bool) {
	if h == nil {
		return 0, false
	}
	points := h.Points(word)
	if len(points) == 0 {
		return 0, false
	}

	target := len([]rune(word)) / 2
	best := points[0]
	for _, p := range points[1:] {
		if abs(p-target) < abs(best-target) {
			best = p
		}
	}
	return best, true
}

// FindLongestWord returns the longest whitespace separated word of text,
// measured in runes like split points are. The last of several equally
// long words wins; an empty text yields "".
func FindLongestWord(text string) string {
	var longest string
	longestLen := -1

	for _, word := range strings.Fields(text) {
		if n := utf8.RuneCountInString(word); n >= longestLen {
			longest = word
			longestLen = n
		}
	}
	return longest
}

// SplitLongestWord replaces the first occurrence of word in text with the
// word split at its best hyphenation point, as "part1- part2". Leading and
// trailing punctuation stays attached to the outer parts. The text is
// returned unchanged when the word cannot be split.
func SplitLongestWord(text, word string, h Hyphenator) string {
	if word == "" {
		return text
	}

	prefix, core, suffix := StripPunctuation(word)
	chars := []rune(core)
	if len(chars) < 2 {
		return text
	}

	pos, ok := FindSplitPoint(h, core)
	if !ok || pos <= 0 || pos >= len(chars) {
		return text
	}

	replacement := prefix + string(chars[:pos]) + "- " + string(chars[pos:]) + suffix
	return strings.Replace(text, word, replacement, 1)
}

// StripPunctuation splits word into leading punctuation, the word itself
// and trailing punctuation. A word made only of punctuation is returned
// whole as the prefix.
func StripPunctuation(word string) (prefix, core, suffix string) {
	chars := []rune(word)
	if len(chars) == 0 {
		return "", "", ""
	}

	start := 0
	for start < len(chars) && isWordPunctuation(chars[start]) {
		start++
	}
	end := len(chars)
	for end > start && isWordPunctuation(chars[end-1]) {
		end--
	}

	if start >= end {
		return word, "", ""
	}
	return string(chars[:start]), string(chars[start:end]), string(chars[end:])
}

func isWordPunctuation(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ':', ';', '"', '\'',
		'(', ')', '[', ']', '{', '}',
		'«', '»', '„', '“', '”', '‘', '’',
		'…', '–', '—':
		return true
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
