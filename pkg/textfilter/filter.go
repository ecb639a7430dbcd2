// Package textfilter softens generated narrative for family-friendly
// content ratings. The generation service is instructed to stay clean,
// but it is not trusted to.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps words to filter to tamer alternatives.
var replacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"ass":          "butt",
	"bitch":        "jerk",
	"bastard":      "scoundrel",
	"crap":         "crud",
	"goddamn":      "gosh-dang",
	"asshole":      "jerk",
	"bullshit":     "nonsense",
	"dickhead":     "jerk",
	"piss":         "ticked",
	"prick":        "jerk",
	"douchebag":    "jerk",
	"jackass":      "mule",
	"dumbass":      "dummy",
	"horseshit":    "nonsense",
	"motherfucker": "villain",
}

// Filter rewrites profanity in narrative text.
type Filter struct {
	regexes map[string]*regexp.Regexp
}

// New creates a Filter with patterns precompiled per word.
func New() *Filter {
	f := &Filter{regexes: make(map[string]*regexp.Regexp, len(replacements))}
	for word := range replacements {
		f.regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return f
}

// Apply replaces each filtered word with its alternative, preserving the
// case pattern of the original.
func (f *Filter) Apply(text string) string {
	result := text
	for word, replacement := range replacements {
		result = f.regexes[word].ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return result
}

// Contains reports whether the text holds any filterable word.
func (f *Filter) Contains(text string) bool {
	for _, re := range f.regexes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ShouldFilter reports whether a content rating requires filtering.
func ShouldFilter(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}

// preserveCase applies the case pattern of the original word to the
// replacement.
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}

	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: mirror the original character by character.
	originalRunes := []rune(original)
	out := make([]rune, 0, len(replacement))
	for i, r := range []rune(replacement) {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			out = append(out, unicode.ToUpper(r))
		} else {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}
