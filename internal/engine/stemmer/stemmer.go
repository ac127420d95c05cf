// Package stemmer reduces English words to canonical stems using the classic
// five-step Porter suffix-reduction algorithm, with an irregular-form table
// consulted first for known verb forms.
//
// Stem is deterministic: the same input always yields the same output. It is
// NOT guaranteed idempotent on arbitrary re-stemming; callers must not assume
// Stem(Stem(w)) == Stem(w).
package stemmer

import "strings"

// irregularForms short-circuits the algorithm for common irregular verbs and
// plurals whose stems no suffix rule can reach.
var irregularForms = map[string]string{
	"went":       "go",
	"gone":       "go",
	"ran":        "run",
	"ate":        "eat",
	"saw":        "see",
	"came":       "come",
	"knew":       "know",
	"took":       "take",
	"gave":       "give",
	"made":       "make",
	"said":       "say",
	"told":       "tell",
	"found":      "find",
	"thought":    "think",
	"brought":    "bring",
	"bought":     "buy",
	"felt":       "feel",
	"kept":       "keep",
	"left":       "leave",
	"meant":      "mean",
	"met":        "meet",
	"paid":       "pay",
	"sold":       "sell",
	"sent":       "send",
	"spoke":      "speak",
	"stood":      "stand",
	"understood": "understand",
	"wrote":      "write",
	"drove":      "drive",
	"grew":       "grow",
	"heard":      "hear",
	"held":       "hold",
	"children":   "child",
	"mice":       "mouse",
	"feet":       "foot",
	"geese":      "goose",
	"men":        "man",
	"women":      "woman",
	"teeth":      "tooth",
}

type rule struct {
	suffix      string
	replacement string
}

// Ordered so that no earlier suffix is a proper suffix of a later entry that
// should win (e.g. "ization" before "ation", "ement" before "ment").
var step2Rules = []rule{
	{"ational", "ate"}, {"tional", "tion"}, {"enci", "ence"}, {"anci", "ance"},
	{"izer", "ize"}, {"abli", "able"}, {"alli", "al"}, {"entli", "ent"},
	{"eli", "e"}, {"ousli", "ous"}, {"ization", "ize"}, {"ation", "ate"},
	{"ator", "ate"}, {"alism", "al"}, {"iveness", "ive"}, {"fulness", "ful"},
	{"ousness", "ous"}, {"aliti", "al"}, {"iviti", "ive"}, {"biliti", "ble"},
}

var step3Rules = []rule{
	{"icate", "ic"}, {"ative", ""}, {"alize", "al"}, {"iciti", "ic"},
	{"ical", "ic"}, {"ful", ""}, {"ness", ""},
}

var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant", "ement",
	"ment", "ent", "ion", "ou", "ism", "ate", "iti", "ous", "ive", "ize",
}

// Stem returns the canonical stem of word. Input is lowercased first; words
// of two letters or fewer are returned unchanged.
func Stem(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if root, ok := irregularForms[w]; ok {
		return root
	}
	if len(w) <= 2 {
		return w
	}
	w = step1a(w)
	w = step1b(w)
	w = step1c(w)
	w = step2(w)
	w = step3(w)
	w = step4(w)
	w = step5(w)
	return w
}

// step1a normalizes plurals: sses -> ss, ies -> i, ss -> ss, s -> "".
func step1a(w string) string {
	switch {
	case strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ies"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ss"):
		return w
	case strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}

// step1b normalizes past tense and gerunds, with post-fixups when a raw
// ed/ing removal exposed an incomplete stem.
func step1b(w string) string {
	if strings.HasSuffix(w, "eed") {
		if measure(w[:len(w)-3]) > 0 {
			return w[:len(w)-1]
		}
		return w
	}
	var stem string
	switch {
	case strings.HasSuffix(w, "ed") && hasVowel(w[:len(w)-2]):
		stem = w[:len(w)-2]
	case strings.HasSuffix(w, "ing") && hasVowel(w[:len(w)-3]):
		stem = w[:len(w)-3]
	default:
		return w
	}
	switch {
	case strings.HasSuffix(stem, "at"), strings.HasSuffix(stem, "bl"), strings.HasSuffix(stem, "iz"):
		return stem + "e"
	case endsDoubleConsonant(stem) && !strings.HasSuffix(stem, "l") &&
		!strings.HasSuffix(stem, "s") && !strings.HasSuffix(stem, "z"):
		return stem[:len(stem)-1]
	case measure(stem) == 1 && endsCVC(stem):
		return stem + "e"
	}
	return stem
}

// step1c turns a trailing y into i when the stem contains another vowel.
func step1c(w string) string {
	if strings.HasSuffix(w, "y") && hasVowel(w[:len(w)-1]) {
		return w[:len(w)-1] + "i"
	}
	return w
}

// step2 simplifies double derivational suffixes, gated on m > 0.
func step2(w string) string {
	for _, r := range step2Rules {
		if strings.HasSuffix(w, r.suffix) {
			stem := w[:len(w)-len(r.suffix)]
			if measure(stem) > 0 {
				return stem + r.replacement
			}
			return w
		}
	}
	return w
}

// step3 strips residual derivational suffixes, gated on m > 0.
func step3(w string) string {
	for _, r := range step3Rules {
		if strings.HasSuffix(w, r.suffix) {
			stem := w[:len(w)-len(r.suffix)]
			if measure(stem) > 0 {
				return stem + r.replacement
			}
			return w
		}
	}
	return w
}

// step4 removes remaining suffixes from longer words, gated on m > 1. The
// suffix "ion" is removed only when the remaining stem ends in s or t.
func step4(w string) string {
	for _, suffix := range step4Suffixes {
		if !strings.HasSuffix(w, suffix) {
			continue
		}
		stem := w[:len(w)-len(suffix)]
		if measure(stem) <= 1 {
			return w
		}
		if suffix == "ion" && !strings.HasSuffix(stem, "s") && !strings.HasSuffix(stem, "t") {
			return w
		}
		return stem
	}
	return w
}

// step5 drops a trailing e (m > 1, or m == 1 when the stem is not CVC-shaped)
// and collapses a trailing double l when m > 1.
func step5(w string) string {
	if strings.HasSuffix(w, "e") {
		stem := w[:len(w)-1]
		m := measure(stem)
		if m > 1 || (m == 1 && !endsCVC(stem)) {
			w = stem
		}
	}
	if measure(w) > 1 && endsDoubleConsonant(w) && strings.HasSuffix(w, "l") {
		w = w[:len(w)-1]
	}
	return w
}

// isVowelAt reports whether w[i] acts as a vowel: a, e, i, o, u always do,
// and y does when it follows a consonant.
func isVowelAt(w string, i int) bool {
	switch w[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	case 'y':
		return i > 0 && !isVowelAt(w, i-1)
	}
	return false
}

// measure counts vowel-to-consonant transitions after the leading consonant
// cluster: the m in Porter's [C](VC)^m[V] decomposition.
func measure(stem string) int {
	i, n := 0, 0
	for i < len(stem) && !isVowelAt(stem, i) {
		i++
	}
	for i < len(stem) {
		for i < len(stem) && isVowelAt(stem, i) {
			i++
		}
		if i >= len(stem) {
			break
		}
		n++
		for i < len(stem) && !isVowelAt(stem, i) {
			i++
		}
	}
	return n
}

func hasVowel(stem string) bool {
	for i := range stem {
		if isVowelAt(stem, i) {
			return true
		}
	}
	return false
}

func endsDoubleConsonant(w string) bool {
	n := len(w)
	return n >= 2 && w[n-1] == w[n-2] && !isVowelAt(w, n-1)
}

// endsCVC reports whether w ends consonant-vowel-consonant where the final
// consonant is not w, x, or y.
func endsCVC(w string) bool {
	n := len(w)
	if n < 3 {
		return false
	}
	last := w[n-1]
	if last == 'w' || last == 'x' || last == 'y' {
		return false
	}
	return !isVowelAt(w, n-3) && isVowelAt(w, n-2) && !isVowelAt(w, n-1)
}
