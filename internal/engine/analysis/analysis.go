// Package analysis builds and memoizes deep per-word analyses: per-article
// occurrence breakdowns, context sentences, related words scored by edit
// distance, a synthetic frequency trend, and static dictionary lookups.
// Analyses are immutable once cached; concurrent requests for the same word
// are collapsed through a singleflight group.
package analysis

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lexiscope/wordfreq/internal/corpus"
	"github.com/lexiscope/wordfreq/internal/engine/aggregator"
	"github.com/lexiscope/wordfreq/internal/engine/lexicon"
	"github.com/lexiscope/wordfreq/internal/engine/tokenizer"
	apperrors "github.com/lexiscope/wordfreq/pkg/errors"
)

// State tracks a word's analysis lifecycle for presentation layers.
type State int

const (
	StateNotRequested State = iota
	StateLoading
	StateCached
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateCached:
		return "cached"
	case StateFailed:
		return "failed"
	default:
		return "not_requested"
	}
}

// ArticleBreakdown counts a word's boundary matches in one document.
type ArticleBreakdown struct {
	ArticleID   string `json:"article_id"`
	Title       string `json:"title"`
	Occurrences int    `json:"occurrences"`
}

// RelatedWord is a corpus word judged similar to the analyzed one. Score is
// 1.0 for a shared stem, otherwise normalized Levenshtein similarity.
type RelatedWord struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
}

// TrendPoint is one bucket of the synthetic frequency trend. Values are a
// presentation stand-in derived deterministically from the real frequency,
// not measured temporal data.
type TrendPoint struct {
	Bucket string `json:"bucket"`
	Value  int    `json:"value"`
}

// WordAnalysis is the deep record built on demand for a single word.
type WordAnalysis struct {
	Word           string             `json:"word"`
	Frequency      int                `json:"frequency"`
	Stemmed        string             `json:"stemmed"`
	Articles       []ArticleBreakdown `json:"articles"`
	Contexts       []string           `json:"contexts"`
	Definition     string             `json:"definition,omitempty"`
	Synonyms       []string           `json:"synonyms,omitempty"`
	PartOfSpeech   string             `json:"part_of_speech,omitempty"`
	RelatedWords   []RelatedWord      `json:"related_words"`
	FrequencyTrend []TrendPoint       `json:"frequency_trend"`
}

var trendBuckets = []string{"w-6", "w-5", "w-4", "w-3", "w-2", "w-1"}

// Config bounds the analysis output.
type Config struct {
	ContextsPerArticle  int
	MaxContexts         int
	RelatedLimit        int
	SimilarityThreshold float64
}

// Analyzer builds analyses and memoizes them in a Store.
type Analyzer struct {
	cfg    Config
	store  Store
	group  singleflight.Group
	mu     sync.Mutex
	states map[string]State
	logger *slog.Logger
}

func NewAnalyzer(cfg Config, store Store) *Analyzer {
	if cfg.ContextsPerArticle <= 0 {
		cfg.ContextsPerArticle = 3
	}
	if cfg.MaxContexts <= 0 {
		cfg.MaxContexts = 10
	}
	if cfg.RelatedLimit <= 0 {
		cfg.RelatedLimit = 8
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.5
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Analyzer{
		cfg:    cfg,
		store:  store,
		states: make(map[string]State),
		logger: slog.Default().With("component", "analysis"),
	}
}

// State returns the analysis lifecycle state for word.
func (a *Analyzer) State(word string) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.states[strings.ToLower(word)]
}

func (a *Analyzer) setState(word string, s State) {
	a.mu.Lock()
	a.states[word] = s
	a.mu.Unlock()
}

// Analyze returns the memoized analysis for word, building it on first
// request. A word absent from the aggregate yields ErrWordNotFound. The
// returned analysis must be treated as read-only. The second return reports
// whether the analysis was served from cache.
func (a *Analyzer) Analyze(ctx context.Context, word string, agg *aggregator.Aggregate, docs map[string]corpus.Document) (*WordAnalysis, bool, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return nil, false, apperrors.New(apperrors.ErrInvalidQuery, "word must not be empty")
	}
	if cached, ok := a.store.Get(ctx, key); ok {
		return cached, true, nil
	}

	a.setState(key, StateLoading)
	val, err, _ := a.group.Do(key, func() (interface{}, error) {
		if cached, ok := a.store.Get(ctx, key); ok {
			return cached, nil
		}
		built, err := a.build(key, agg, docs)
		if err != nil {
			return nil, err
		}
		a.store.Set(ctx, key, built)
		return built, nil
	})
	if err != nil {
		a.setState(key, StateFailed)
		return nil, false, err
	}
	a.setState(key, StateCached)
	return val.(*WordAnalysis), false, nil
}

// Clear empties the memo table and forgets all lifecycle states.
func (a *Analyzer) Clear(ctx context.Context) error {
	a.mu.Lock()
	a.states = make(map[string]State)
	a.mu.Unlock()
	return a.store.Clear(ctx)
}

func (a *Analyzer) build(word string, agg *aggregator.Aggregate, docs map[string]corpus.Document) (*WordAnalysis, error) {
	entry, ok := agg.Lookup(word)
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrWordNotFound, "no entry for %q", word)
	}

	analysis := &WordAnalysis{
		Word:           entry.Word,
		Frequency:      entry.Frequency,
		Stemmed:        entry.Stemmed,
		Articles:       make([]ArticleBreakdown, 0, len(entry.Articles)),
		Contexts:       make([]string, 0),
		RelatedWords:   a.relatedWords(entry, agg),
		FrequencyTrend: frequencyTrend(entry.Word, entry.Frequency),
	}

	boundary := regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\b`, regexp.QuoteMeta(entry.Word)))
	for _, articleID := range entry.ArticleIDs() {
		doc, ok := docs[articleID]
		if !ok {
			continue
		}
		analysis.Articles = append(analysis.Articles, ArticleBreakdown{
			ArticleID:   articleID,
			Title:       doc.Title,
			Occurrences: len(boundary.FindAllStringIndex(doc.Content, -1)),
		})
		perDoc := 0
		for _, sentence := range tokenizer.SplitIntoSentences(doc.Content) {
			if perDoc >= a.cfg.ContextsPerArticle || len(analysis.Contexts) >= a.cfg.MaxContexts {
				break
			}
			if boundary.MatchString(sentence) {
				analysis.Contexts = append(analysis.Contexts, sentence)
				perDoc++
			}
		}
	}

	if def, ok := lexicon.Definition(entry.Word); ok {
		analysis.Definition = def
	}
	if syns, ok := lexicon.Synonyms(entry.Word); ok {
		analysis.Synonyms = syns
	}
	if pos, ok := lexicon.PartOfSpeech(entry.Word); ok {
		analysis.PartOfSpeech = pos
	}

	a.logger.Debug("analysis built",
		"word", entry.Word,
		"articles", len(analysis.Articles),
		"related", len(analysis.RelatedWords),
	)
	return analysis, nil
}

// relatedWords scores other corpus words against the target: a shared stem
// scores 1.0, otherwise candidates passing a prefix/length prefilter are
// scored by normalized Levenshtein similarity.
func (a *Analyzer) relatedWords(target *aggregator.WordEntry, agg *aggregator.Aggregate) []RelatedWord {
	related := make([]RelatedWord, 0, a.cfg.RelatedLimit)
	for _, entry := range agg.Entries {
		if entry.Word == target.Word {
			continue
		}
		var score float64
		switch {
		case entry.Stemmed == target.Stemmed:
			score = 1.0
		case similarShape(entry.Word, target.Word):
			score = similarity(entry.Word, target.Word)
		default:
			continue
		}
		if score < a.cfg.SimilarityThreshold {
			continue
		}
		related = append(related, RelatedWord{Word: entry.Word, Similarity: score})
	}
	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Similarity > related[j].Similarity
	})
	if len(related) > a.cfg.RelatedLimit {
		related = related[:a.cfg.RelatedLimit]
	}
	return related
}

// similarShape is the cheap prefilter: shared 3-letter prefix and a length
// difference of at most 3.
func similarShape(a, b string) bool {
	if len(a) < 3 || len(b) < 3 {
		return false
	}
	if a[:3] != b[:3] {
		return false
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 3
}

// similarity normalizes Levenshtein distance into [0,1].
func similarity(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes edit distance with a rolling single-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			insert := row[j-1] + 1
			remove := row[j] + 1
			replace := prev
			if a[i-1] != b[j-1] {
				replace++
			}
			prev = row[j]
			min := insert
			if remove < min {
				min = remove
			}
			if replace < min {
				min = replace
			}
			row[j] = min
		}
	}
	return row[len(b)]
}

// frequencyTrend derives the presentation trend deterministically: each
// bucket jitters the real frequency by up to ±30% using an FNV hash of
// word+bucket, so repeated calls render the same curve.
func frequencyTrend(word string, frequency int) []TrendPoint {
	trend := make([]TrendPoint, 0, len(trendBuckets))
	for _, bucket := range trendBuckets {
		h := fnv.New32a()
		h.Write([]byte(word))
		h.Write([]byte(bucket))
		jitter := 0.7 + 0.6*float64(h.Sum32()%1000)/999.0
		value := int(float64(frequency) * jitter)
		if value < 0 {
			value = 0
		}
		trend = append(trend, TrendPoint{Bucket: bucket, Value: value})
	}
	return trend
}
