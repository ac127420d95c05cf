// Package lexicon holds the engine's tiny static dictionary tables:
// definitions, synonyms, and parts of speech for a handful of common words.
// Real dictionary coverage is a collaborator concern; these tables only feed
// the deep-analysis panel and the part-of-speech search filter.
package lexicon

import "strings"

var definitions = map[string]string{
	"dog":      "a domesticated carnivorous mammal kept as a pet or for work",
	"cat":      "a small domesticated carnivorous mammal with soft fur",
	"run":      "to move at a speed faster than a walk",
	"jump":     "to push oneself off a surface into the air",
	"quick":    "moving fast or doing something in a short time",
	"house":    "a building for human habitation",
	"word":     "a single distinct meaningful element of speech or writing",
	"search":   "to look for information or an item carefully and thoroughly",
	"analysis": "a detailed examination of the elements or structure of something",
	"data":     "facts and statistics collected together for reference",
}

var synonyms = map[string][]string{
	"dog":    {"hound", "canine", "pup"},
	"cat":    {"feline", "kitty"},
	"run":    {"sprint", "dash", "jog"},
	"jump":   {"leap", "hop", "bound"},
	"quick":  {"fast", "rapid", "swift"},
	"house":  {"home", "dwelling", "residence"},
	"search": {"seek", "hunt", "query"},
	"big":    {"large", "huge", "great"},
	"small":  {"little", "tiny", "minor"},
	"good":   {"fine", "excellent", "solid"},
}

var partsOfSpeech = map[string]string{
	"dog":      "noun",
	"cat":      "noun",
	"house":    "noun",
	"word":     "noun",
	"data":     "noun",
	"analysis": "noun",
	"run":      "verb",
	"jump":     "verb",
	"search":   "verb",
	"bark":     "verb",
	"quick":    "adjective",
	"lazy":     "adjective",
	"big":      "adjective",
	"small":    "adjective",
	"good":     "adjective",
	"quickly":  "adverb",
	"slowly":   "adverb",
}

// Definition returns the static definition for word, if one exists.
func Definition(word string) (string, bool) {
	d, ok := definitions[strings.ToLower(word)]
	return d, ok
}

// Synonyms returns the static synonym list for word, if one exists.
func Synonyms(word string) ([]string, bool) {
	s, ok := synonyms[strings.ToLower(word)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(s))
	copy(out, s)
	return out, true
}

// PartOfSpeech returns the static part-of-speech tag for word, if one exists.
func PartOfSpeech(word string) (string, bool) {
	p, ok := partsOfSpeech[strings.ToLower(word)]
	return p, ok
}
