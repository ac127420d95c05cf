// Package tokenizer provides text cleaning and word/sentence extraction for
// the frequency engine. It lower-cases input, strips punctuation while
// preserving internal apostrophes, and filters candidates through a
// word-shape rule and a stop-word set.
package tokenizer

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "their": {}, "if": {}, "each": {},
	"do": {}, "not": {}, "no": {}, "so": {}, "can": {}, "she": {},
	"her": {}, "his": {}, "him": {}, "you": {}, "your": {}, "we": {},
	"our": {}, "out": {}, "all": {}, "more": {}, "some": {}, "than": {},
	"then": {}, "there": {}, "these": {}, "those": {}, "into": {},
	"about": {}, "been": {}, "would": {}, "could": {}, "should": {},
}

// Fragments left behind when a contraction loses its leading apostrophe
// ("don't" -> "don" + "t"). Never valid words on their own.
var contractionFragments = map[string]struct{}{
	"s": {}, "t": {}, "d": {}, "m": {}, "ll": {}, "re": {}, "ve": {}, "em": {},
}

// Options controls word extraction.
type Options struct {
	IncludeStopwords bool
	MinLength        int
}

// IsStopword reports whether word is in the stop-word set.
func IsStopword(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// CleanText lowercases text, strips all punctuation except apostrophes that
// sit between two letters, and collapses whitespace runs to single spaces.
func CleanText(text string) string {
	runes := []rune(strings.ToLower(text))
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case r == '\'' || r == '’':
			if i > 0 && i < len(runes)-1 &&
				unicode.IsLetter(runes[i-1]) && unicode.IsLetter(runes[i+1]) {
				b.WriteRune('\'')
				lastSpace = false
			}
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// SplitIntoSentences splits text on runs of '.', '!' and '?'. Abbreviations
// are not special-cased, so "Dr. Smith" yields two sentences.
func SplitIntoSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// ExtractWords returns every valid token in text in order of appearance.
// A candidate survives if it meets the minimum length, matches the
// word-shape rule, is not a bare contraction fragment, and (unless
// opts.IncludeStopwords) is not a stop word. Pure function: a fresh slice
// is returned on every call.
func ExtractWords(text string, opts Options) []string {
	minLen := opts.MinLength
	if minLen <= 0 {
		minLen = 1
	}
	words := make([]string, 0, len(text)/8)
	for _, sentence := range SplitIntoSentences(text) {
		for _, candidate := range strings.Fields(CleanText(sentence)) {
			if len([]rune(candidate)) < minLen {
				continue
			}
			if !IsWordShaped(candidate) {
				continue
			}
			if _, bare := contractionFragments[candidate]; bare {
				continue
			}
			if !opts.IncludeStopwords {
				if _, stop := stopWords[candidate]; stop {
					continue
				}
			}
			words = append(words, candidate)
		}
	}
	return words
}

// IsWordShaped reports whether s starts and ends with a letter with only
// letters and internal apostrophes in between. A single letter qualifies.
func IsWordShaped(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	if !unicode.IsLetter(runes[0]) || !unicode.IsLetter(runes[len(runes)-1]) {
		return false
	}
	for _, r := range runes[1 : len(runes)-1] {
		if !unicode.IsLetter(r) && r != '\'' {
			return false
		}
	}
	return true
}
