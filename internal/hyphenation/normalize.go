package hyphenation

import (
	"strings"

	"golang.org/x/text/language"
)

// aliases maps English language names onto catalog codes.
var aliases = map[string]string{
	"english":      "en-US",
	"english-us":   "en-US",
	"english-gb":   "en-GB",
	"english-uk":   "en-GB",
	"german":       "de",
	"german-1901":  "de-1901",
	"german-swiss": "de-CH",
	"french":       "fr",
	"spanish":      "es",
	"italian":      "it",
	"portuguese":   "pt",
	"dutch":        "nl",
	"polish":       "pl",
	"russian":      "ru",
	"swedish":      "sv",
	"danish":       "da",
	"finnish":      "fi",
	"czech":        "cs",
	"hungarian":    "hu",
	"turkish":      "tr",
	"greek":        "el",
	"ukrainian":    "uk",
	"croatian":     "hr",
	"romanian":     "ro",
	"slovak":       "sk",
	"slovenian":    "sl",
	"bulgarian":    "bg",
	"catalan":      "ca",
	"estonian":     "et",
	"latvian":      "lv",
	"lithuanian":   "lt",
	"indonesian":   "id",
	"latin":        "la",
}

// Normalize maps a user supplied language code or name onto a catalog
// code. It accepts catalog codes in any case, BCP 47 tags with regions
// ("de-DE", "pt-BR") and English names ("german", "english-uk"). The second
// result is false when nothing in the catalog matches.
func Normalize(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	if IsNone(code) {
		return CodeNone, true
	}
	if e, ok := Lookup(code); ok {
		return e.Code, true
	}

	lower := strings.ToLower(strings.ReplaceAll(code, "_", "-"))
	if c, ok := aliases[lower]; ok {
		return c, true
	}

	tag, err := language.Parse(lower)
	if err != nil {
		return "", false
	}
	if e, ok := Lookup(tag.String()); ok {
		return e.Code, true
	}

	return matchBase(tag)
}

// matchBase finds the catalog entry sharing the tag's base language.
// An entry whose explicit region or variant matches wins; otherwise the
// plain entry, otherwise the first entry with that base.
func matchBase(tag language.Tag) (string, bool) {
	base, _ := tag.Base()
	region, regionConf := tag.Region()
	variants := tag.Variants()

	var plain, first string
	for _, e := range registry[1:] {
		et := e.Tag()
		eb, _ := et.Base()
		if eb != base {
			continue
		}
		if first == "" {
			first = e.Code
		}

		er, erConf := et.Region()
		ev := et.Variants()
		switch {
		case erConf == language.Exact && regionConf == language.Exact && er == region:
			return e.Code, true
		case len(ev) > 0 && len(variants) > 0 && ev[0] == variants[0]:
			return e.Code, true
		case erConf != language.Exact && len(ev) == 0 && plain == "":
			plain = e.Code
		}
	}

	if plain != "" {
		return plain, true
	}
	if first != "" {
		return first, true
	}
	return "", false
}
