// Package aggregator builds the corpus-wide word frequency map. A run
// tokenizes every document, stems each distinct word once, and merges
// per-token updates into WordEntry records. Runs execute as cancellable,
// progress-reporting batch jobs over fixed-size document batches.
package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/lexiscope/wordfreq/internal/corpus"
	"github.com/lexiscope/wordfreq/internal/engine/job"
	"github.com/lexiscope/wordfreq/internal/engine/stemmer"
	"github.com/lexiscope/wordfreq/internal/engine/tokenizer"
)

// WordEntry is the aggregated record for one distinct word across the corpus.
// Frequency counts raw occurrences; Articles is the deduplicated set of
// source document ids; Stemmed is computed once and is a pure function of
// Word.
type WordEntry struct {
	Word      string
	Frequency int
	Articles  map[string]struct{}
	Stemmed   string
}

// ArticleIDs returns the article set as a sorted slice.
func (e *WordEntry) ArticleIDs() []string {
	ids := make([]string, 0, len(e.Articles))
	for id := range e.Articles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Aggregate is the immutable result of one aggregation run. Entries are
// sorted by frequency descending, stable on first-seen order for ties.
type Aggregate struct {
	Entries    []*WordEntry
	TokenCount int
	Documents  int
	BuiltAt    time.Time

	byWord map[string]*WordEntry
}

// Lookup returns the entry for the exact (lowercased) word, if present.
func (a *Aggregate) Lookup(word string) (*WordEntry, bool) {
	e, ok := a.byWord[word]
	return e, ok
}

// Config controls batching, yielding, and the optimize pass.
type Config struct {
	BatchSize     int
	YieldInterval time.Duration
	OptimizeCap   int
	Tokenizer     tokenizer.Options
}

// Aggregator runs frequency-aggregation batch jobs.
type Aggregator struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config) *Aggregator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Aggregator{
		cfg:    cfg,
		logger: slog.Default().With("component", "aggregator"),
	}
}

// Run processes the corpus in batches, reporting progress after each batch
// and yielding between batches so the job never monopolizes its caller.
// Batches are processed in corpus order, so reported percentages are
// monotonically non-decreasing; per-token map updates are commutative, so
// batch boundaries never change the final entries.
func (a *Aggregator) Run(ctx context.Context, docs []corpus.Document, report func(job.Progress)) (*Aggregate, error) {
	start := time.Now()
	byWord := make(map[string]*WordEntry)
	order := make([]*WordEntry, 0)
	tokenCount := 0

	total := len(docs)
	for batchStart := 0; batchStart < total; batchStart += a.cfg.BatchSize {
		if err := a.yield(ctx); err != nil {
			return nil, err
		}
		batchEnd := batchStart + a.cfg.BatchSize
		if batchEnd > total {
			batchEnd = total
		}
		for _, doc := range docs[batchStart:batchEnd] {
			for _, word := range tokenizer.ExtractWords(doc.Content, a.cfg.Tokenizer) {
				tokenCount++
				entry, ok := byWord[word]
				if !ok {
					entry = &WordEntry{
						Word:     word,
						Articles: make(map[string]struct{}),
						Stemmed:  stemmer.Stem(word),
					}
					byWord[word] = entry
					order = append(order, entry)
				}
				entry.Frequency++
				entry.Articles[doc.ID] = struct{}{}
			}
		}
		if report != nil {
			report(job.Progress{
				Processed: batchEnd,
				Total:     total,
				Percent:   batchEnd * 100 / total,
			})
		}
	}
	if total == 0 && report != nil {
		report(job.Progress{Percent: 100})
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Frequency > order[j].Frequency
	})
	order = a.optimize(order, byWord)

	agg := &Aggregate{
		Entries:    order,
		TokenCount: tokenCount,
		Documents:  total,
		BuiltAt:    time.Now(),
		byWord:     byWord,
	}
	a.logger.Info("aggregation complete",
		"documents", total,
		"tokens", tokenCount,
		"distinct_words", len(order),
		"duration", time.Since(start),
	)
	return agg, nil
}

// yield hands control back between batches: it honours cancellation and,
// when a cadence is configured, parks until the next tick.
func (a *Aggregator) yield(ctx context.Context) error {
	if a.cfg.YieldInterval <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	timer := time.NewTimer(a.cfg.YieldInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// optimize bounds memory for presentation layers: entries beyond the cap
// that occurred at most once in a single article are dropped. Entries within
// the cap are always kept.
func (a *Aggregator) optimize(sorted []*WordEntry, byWord map[string]*WordEntry) []*WordEntry {
	limit := a.cfg.OptimizeCap
	if limit <= 0 || len(sorted) <= limit {
		return sorted
	}
	kept := sorted[:limit:limit]
	dropped := 0
	for _, entry := range sorted[limit:] {
		if entry.Frequency <= 1 && len(entry.Articles) <= 1 {
			delete(byWord, entry.Word)
			dropped++
			continue
		}
		kept = append(kept, entry)
	}
	if dropped > 0 {
		a.logger.Debug("optimize pass dropped rare entries",
			"dropped", dropped,
			"kept", len(kept),
		)
	}
	return kept
}
