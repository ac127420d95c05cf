// Package search parses queries and matches them against an aggregation
// run's word entries. Two modes exist: Exact matches words literally
// (case-insensitive), Intelligent additionally matches by shared stem and by
// substring containment. Quoted phrases and * wildcards are recognised in
// both modes.
package search

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lexiscope/wordfreq/internal/corpus"
	"github.com/lexiscope/wordfreq/internal/engine/aggregator"
	"github.com/lexiscope/wordfreq/internal/engine/lexicon"
	"github.com/lexiscope/wordfreq/internal/engine/stemmer"
	"github.com/lexiscope/wordfreq/internal/engine/tokenizer"
	apperrors "github.com/lexiscope/wordfreq/pkg/errors"
)

// Mode selects the matching strategy.
type Mode int

const (
	ModeIntelligent Mode = iota
	ModeExact
)

func (m Mode) String() string {
	if m == ModeExact {
		return "exact"
	}
	return "intelligent"
}

// Filters narrows matched entries before results are built.
type Filters struct {
	MinLength     int
	ExcludeCommon bool
	PartOfSpeech  []string
	ArticleScope  []string
}

// Query is a parsed-input search request.
type Query struct {
	Query   string
	Mode    Mode
	Filters Filters
}

// ArticleMatch describes one document a term matched in.
type ArticleMatch struct {
	ArticleID  string   `json:"article_id"`
	Title      string   `json:"title"`
	MatchCount int      `json:"match_count"`
	Contexts   []string `json:"contexts"`
}

// Result aggregates all entries a single term matched.
type Result struct {
	Term           string         `json:"term"`
	Frequency      int            `json:"frequency"`
	ArticleMatches []ArticleMatch `json:"article_matches"`
	Contexts       []string       `json:"contexts"`
}

// Config bounds context extraction and backs the named article scopes.
type Config struct {
	ContextsPerArticle int
	MaxContexts        int
	PopularThreshold   int
	RecentArticleIDs   []string
	BookmarkedIDs      []string
}

// Matcher executes searches over a built aggregate. It is synchronous and
// read-only; the aggregate is never mutated.
type Matcher struct {
	cfg        Config
	recent     map[string]struct{}
	bookmarked map[string]struct{}
	logger     *slog.Logger
}

func NewMatcher(cfg Config) *Matcher {
	if cfg.ContextsPerArticle <= 0 {
		cfg.ContextsPerArticle = 3
	}
	if cfg.MaxContexts <= 0 {
		cfg.MaxContexts = 10
	}
	if cfg.PopularThreshold <= 0 {
		cfg.PopularThreshold = 10
	}
	return &Matcher{
		cfg:        cfg,
		recent:     toSet(cfg.RecentArticleIDs),
		bookmarked: toSet(cfg.BookmarkedIDs),
		logger:     slog.Default().With("component", "search-matcher"),
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

type termKind int

const (
	termPlain termKind = iota
	termPhrase
	termWildcard
)

type term struct {
	text    string
	stemmed string
	kind    termKind
	pattern *regexp.Regexp
}

// Search matches the query against the aggregate and returns results sorted
// by aggregated frequency descending. An empty or unparseable query yields
// ErrInvalidQuery.
func (m *Matcher) Search(q Query, agg *aggregator.Aggregate, docs map[string]corpus.Document) ([]Result, error) {
	start := time.Now()
	terms, err := m.parse(q)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(terms))
	for _, t := range terms {
		matched := m.matchEntries(t, q.Mode, agg)
		matched = m.applyFilters(matched, q.Filters)
		if len(matched) == 0 {
			continue
		}
		results = append(results, m.buildResult(t, matched, docs))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Frequency > results[j].Frequency
	})
	m.logger.Debug("search executed",
		"query", q.Query,
		"mode", q.Mode.String(),
		"terms", len(terms),
		"results", len(results),
		"duration", time.Since(start),
	)
	return results, nil
}

var phrasePattern = regexp.MustCompile(`"([^"]+)"`)

// parse extracts terms by priority: quoted phrases, then a wildcard pattern,
// then whitespace-separated words. Intelligent mode adds the stemmed form of
// each plain word as an extra term.
func (m *Matcher) parse(q Query) ([]term, error) {
	raw := strings.TrimSpace(strings.ToLower(q.Query))
	if raw == "" {
		return nil, apperrors.New(apperrors.ErrInvalidQuery, "query must not be empty")
	}

	if quoted := phrasePattern.FindAllStringSubmatch(raw, -1); len(quoted) > 0 {
		terms := make([]term, 0, len(quoted))
		for _, match := range quoted {
			phrase := strings.TrimSpace(match[1])
			if phrase == "" {
				continue
			}
			terms = append(terms, term{text: phrase, kind: termPhrase})
		}
		if len(terms) == 0 {
			return nil, apperrors.New(apperrors.ErrInvalidQuery, "quoted phrase is empty")
		}
		return terms, nil
	}

	if strings.Contains(raw, "*") {
		pattern, err := compileWildcard(raw)
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrInvalidQuery, "bad wildcard pattern %q", raw)
		}
		return []term{{text: raw, kind: termWildcard, pattern: pattern}}, nil
	}

	words := strings.Fields(raw)
	terms := make([]term, 0, len(words)*2)
	seen := make(map[string]struct{})
	for _, w := range words {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, term{text: w, stemmed: stemmer.Stem(w), kind: termPlain})
		if q.Mode == ModeIntelligent {
			if s := stemmer.Stem(w); s != w {
				if _, dup := seen[s]; !dup {
					seen[s] = struct{}{}
					terms = append(terms, term{text: s, stemmed: s, kind: termPlain})
				}
			}
		}
	}
	return terms, nil
}

// compileWildcard turns a *-pattern into an anchored case-insensitive regexp
// where * matches any run of characters.
func compileWildcard(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.Compile(`(?i)^` + strings.Join(parts, `.*`) + `$`)
}

// matchEntries returns every entry the term matches under the given mode.
// Exact matches are a subset of intelligent matches for the same term.
func (m *Matcher) matchEntries(t term, mode Mode, agg *aggregator.Aggregate) []*aggregator.WordEntry {
	matched := make([]*aggregator.WordEntry, 0)
	for _, entry := range agg.Entries {
		switch t.kind {
		case termWildcard:
			if t.pattern.MatchString(entry.Word) {
				matched = append(matched, entry)
			}
		case termPhrase:
			if entry.Word == t.text {
				matched = append(matched, entry)
			}
		default:
			if entry.Word == t.text {
				matched = append(matched, entry)
				continue
			}
			if mode == ModeIntelligent {
				if t.stemmed != "" && entry.Stemmed == t.stemmed {
					matched = append(matched, entry)
					continue
				}
				if strings.Contains(entry.Word, t.text) {
					matched = append(matched, entry)
				}
			}
		}
	}
	return matched
}

// applyFilters runs the filter chain in order: minimum length, stop-word
// exclusion, part of speech, then article scope. Entries with no static
// part-of-speech tag pass the part-of-speech filter.
func (m *Matcher) applyFilters(entries []*aggregator.WordEntry, f Filters) []*aggregator.WordEntry {
	filtered := entries
	if f.MinLength > 0 {
		filtered = keep(filtered, func(e *aggregator.WordEntry) bool {
			return len(e.Word) >= f.MinLength
		})
	}
	if f.ExcludeCommon {
		filtered = keep(filtered, func(e *aggregator.WordEntry) bool {
			return !tokenizer.IsStopword(e.Word)
		})
	}
	if len(f.PartOfSpeech) > 0 {
		wanted := toSet(f.PartOfSpeech)
		filtered = keep(filtered, func(e *aggregator.WordEntry) bool {
			pos, known := lexicon.PartOfSpeech(e.Word)
			if !known {
				return true
			}
			_, ok := wanted[pos]
			return ok
		})
	}
	for _, scope := range f.ArticleScope {
		pred := m.scopePredicate(scope)
		if pred == nil {
			continue
		}
		filtered = keep(filtered, pred)
	}
	return filtered
}

func keep(entries []*aggregator.WordEntry, pred func(*aggregator.WordEntry) bool) []*aggregator.WordEntry {
	out := entries[:0:0]
	for _, e := range entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// scopePredicate maps a named article scope to an entry predicate. Unknown
// scopes are ignored by the caller.
func (m *Matcher) scopePredicate(scope string) func(*aggregator.WordEntry) bool {
	switch strings.ToLower(scope) {
	case "popular":
		return func(e *aggregator.WordEntry) bool {
			return e.Frequency >= m.cfg.PopularThreshold
		}
	case "recent":
		return func(e *aggregator.WordEntry) bool {
			return intersects(e.Articles, m.recent)
		}
	case "bookmarked":
		return func(e *aggregator.WordEntry) bool {
			return intersects(e.Articles, m.bookmarked)
		}
	}
	return nil
}

func intersects(articles map[string]struct{}, ids map[string]struct{}) bool {
	for id := range articles {
		if _, ok := ids[id]; ok {
			return true
		}
	}
	return false
}

// buildResult aggregates the matched entries into one Result: summed
// frequency, per-article boundary-match counts and titles, and capped
// context sentences.
func (m *Matcher) buildResult(t term, matched []*aggregator.WordEntry, docs map[string]corpus.Document) Result {
	result := Result{
		Term:           t.text,
		ArticleMatches: make([]ArticleMatch, 0),
		Contexts:       make([]string, 0),
	}
	perArticle := make(map[string]*ArticleMatch)
	articleOrder := make([]string, 0)

	for _, entry := range matched {
		result.Frequency += entry.Frequency
		boundary := wordBoundaryPattern(entry.Word)
		for _, articleID := range entry.ArticleIDs() {
			doc, ok := docs[articleID]
			if !ok {
				continue
			}
			am, ok := perArticle[articleID]
			if !ok {
				am = &ArticleMatch{ArticleID: articleID, Title: doc.Title}
				perArticle[articleID] = am
				articleOrder = append(articleOrder, articleID)
			}
			am.MatchCount += len(boundary.FindAllStringIndex(doc.Content, -1))
			am.Contexts = appendContexts(am.Contexts, doc.Content, boundary, m.cfg.ContextsPerArticle)
		}
	}

	for _, articleID := range articleOrder {
		am := perArticle[articleID]
		for _, ctx := range am.Contexts {
			if len(result.Contexts) >= m.cfg.MaxContexts {
				break
			}
			result.Contexts = append(result.Contexts, ctx)
		}
		result.ArticleMatches = append(result.ArticleMatches, *am)
	}
	return result
}

// wordBoundaryPattern compiles a case-insensitive whole-word matcher.
func wordBoundaryPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\b`, regexp.QuoteMeta(word)))
}

// appendContexts adds sentences containing a boundary match, up to perDoc
// per document, skipping duplicates.
func appendContexts(existing []string, content string, boundary *regexp.Regexp, perDoc int) []string {
	if len(existing) >= perDoc {
		return existing
	}
	for _, sentence := range tokenizer.SplitIntoSentences(content) {
		if len(existing) >= perDoc {
			break
		}
		if !boundary.MatchString(sentence) {
			continue
		}
		dup := false
		for _, prior := range existing {
			if prior == sentence {
				dup = true
				break
			}
		}
		if !dup {
			existing = append(existing, sentence)
		}
	}
	return existing
}
