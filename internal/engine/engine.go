// Package engine wires the word-frequency subsystem together: corpus
// loading, the aggregation batch job, search, deep analysis, and export. An
// Engine is an explicit value constructed once by the host and passed by
// reference; it owns the aggregate and caches exclusively, and callers only
// read through its public operations.
package engine

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lexiscope/wordfreq/internal/corpus"
	"github.com/lexiscope/wordfreq/internal/engine/aggregator"
	"github.com/lexiscope/wordfreq/internal/engine/analysis"
	"github.com/lexiscope/wordfreq/internal/engine/export"
	"github.com/lexiscope/wordfreq/internal/engine/job"
	"github.com/lexiscope/wordfreq/internal/engine/search"
	"github.com/lexiscope/wordfreq/internal/engine/tokenizer"
	"github.com/lexiscope/wordfreq/pkg/config"
	apperrors "github.com/lexiscope/wordfreq/pkg/errors"
	"github.com/lexiscope/wordfreq/pkg/logger"
	"github.com/lexiscope/wordfreq/pkg/metrics"
)

// SessionState is the search session lifecycle for presentation layers.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionSearching
	SessionResults
	SessionEmpty
	SessionError
)

func (s SessionState) String() string {
	switch s {
	case SessionSearching:
		return "searching"
	case SessionResults:
		return "results"
	case SessionEmpty:
		return "empty"
	case SessionError:
		return "error"
	default:
		return "idle"
	}
}

// Engine is the word-frequency analysis engine facade.
type Engine struct {
	cfg    config.EngineConfig
	source corpus.Source

	runner   job.Runner
	agg      *aggregator.Aggregator
	matcher  *search.Matcher
	analyzer *analysis.Analyzer
	exporter *export.Exporter
	sink     EventSink
	metrics  *metrics.Metrics
	logger   *slog.Logger

	group singleflight.Group

	mu           sync.RWMutex
	docs         []corpus.Document
	docsByID     map[string]corpus.Document
	aggregate    *aggregator.Aggregate
	initialized  bool
	running      bool
	sessionState SessionState
}

// Option customises engine construction.
type Option func(*Engine)

// WithRunner overrides the job runner (used by tests to count submissions).
func WithRunner(r job.Runner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithEventSink routes engine events to the given sink.
func WithEventSink(s EventSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithAnalysisStore overrides the deep-analysis cache backend.
func WithAnalysisStore(s analysis.Store) Option {
	return func(e *Engine) {
		e.analyzer = analysis.NewAnalyzer(analysis.Config{}, s)
	}
}

// New constructs an Engine over the given corpus source. The execution
// strategy (background goroutine vs inline) is selected once here from
// cfg.Engine.Background.
func New(cfg *config.Config, source corpus.Source, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg.Engine,
		source: source,
		agg: aggregator.New(aggregator.Config{
			BatchSize:     cfg.Engine.BatchSize,
			YieldInterval: cfg.Engine.YieldInterval,
			OptimizeCap:   cfg.Engine.OptimizeCap,
			Tokenizer: tokenizer.Options{
				IncludeStopwords: cfg.Engine.IncludeStopword,
				MinLength:        cfg.Engine.MinWordLength,
			},
		}),
		matcher: search.NewMatcher(search.Config{
			ContextsPerArticle: cfg.Search.ContextsPerArticle,
			MaxContexts:        cfg.Search.MaxContexts,
			PopularThreshold:   cfg.Search.PopularThreshold,
			RecentArticleIDs:   cfg.Search.RecentArticleIDs,
			BookmarkedIDs:      cfg.Search.BookmarkedIDs,
		}),
		analyzer:     analysis.NewAnalyzer(analysis.Config{}, nil),
		exporter:     export.New(),
		sink:         NopSink{},
		logger:       slog.Default().With("component", "engine"),
		sessionState: SessionIdle,
	}
	if cfg.Engine.Background {
		e.runner = job.NewBackgroundRunner()
	} else {
		e.runner = job.NewInlineRunner()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialized reports whether a completed aggregation run is cached.
func (e *Engine) Initialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// SessionState returns the current search session state.
func (e *Engine) SessionState() SessionState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sessionState
}

// AnalysisState returns the per-word deep-analysis lifecycle state.
func (e *Engine) AnalysisState(word string) analysis.State {
	return e.analyzer.State(word)
}

// AnalyzeAll builds (or returns the cached) corpus-wide aggregate. The run
// executes as a batch job on the configured runner; progress and completion
// events flow to the event sink. Concurrent callers share a single run. A
// failed run leaves any previously cached aggregate intact.
func (e *Engine) AnalyzeAll(ctx context.Context) (*aggregator.Aggregate, error) {
	e.mu.RLock()
	if e.initialized {
		cached := e.aggregate
		e.mu.RUnlock()
		if e.metrics != nil {
			e.metrics.AggregationRunsTotal.WithLabelValues("cached").Inc()
		}
		return cached, nil
	}
	e.mu.RUnlock()

	val, err, _ := e.group.Do("analyze_all", func() (interface{}, error) {
		return e.runAggregation(ctx)
	})
	if err != nil {
		return nil, err
	}
	return val.(*aggregator.Aggregate), nil
}

func (e *Engine) runAggregation(ctx context.Context) (*aggregator.Aggregate, error) {
	start := time.Now()
	logger.FromContext(ctx).Info("aggregation run starting")
	e.setRunning(true)
	defer e.setRunning(false)
	docs, err := e.loadCorpus(ctx)
	if err != nil {
		e.recordRun("failed", start)
		return nil, apperrors.Newf(apperrors.ErrProcessing, "loading corpus: %v", err)
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if e.cfg.JobDeadline > 0 {
		runCtx, cancel = context.WithTimeout(ctx, e.cfg.JobDeadline)
		defer cancel()
	}

	var result *aggregator.Aggregate
	handle := e.runner.Submit(runCtx, "analyze-all", func(jobCtx context.Context, report func(job.Progress)) error {
		agg, runErr := e.agg.Run(jobCtx, docs, report)
		if runErr != nil {
			return runErr
		}
		result = agg
		return nil
	})

	for p := range handle.Progress() {
		e.sink.Publish(ctx, Event{Type: EventAggregationProgress, At: time.Now(), Data: p})
	}
	if err := <-handle.Done(); err != nil {
		e.sink.Publish(ctx, Event{Type: EventAggregationFailed, At: time.Now(), Data: err.Error()})
		if stderrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			e.recordRun("timeout", start)
			return nil, apperrors.Newf(apperrors.ErrTimeout, "aggregation exceeded %v", e.cfg.JobDeadline)
		}
		e.recordRun("failed", start)
		return nil, apperrors.Newf(apperrors.ErrProcessing, "aggregation aborted: %v", err)
	}

	e.mu.Lock()
	e.aggregate = result
	e.initialized = true
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.DocsProcessedTotal.Add(float64(result.Documents))
		e.metrics.TokensExtractedTotal.Add(float64(result.TokenCount))
		e.metrics.DistinctWords.Set(float64(len(result.Entries)))
		e.metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	}
	e.recordRun("completed", start)
	e.sink.Publish(ctx, Event{Type: EventAggregationComplete, At: time.Now(), Data: map[string]int{
		"documents":      result.Documents,
		"tokens":         result.TokenCount,
		"distinct_words": len(result.Entries),
	}})
	return result, nil
}

func (e *Engine) recordRun(status string, start time.Time) {
	if e.metrics != nil {
		e.metrics.AggregationRunsTotal.WithLabelValues(status).Inc()
	}
	e.logger.Debug("aggregation run finished", "status", status, "duration", time.Since(start))
}

// loadCorpus loads the source once; the corpus is static for the session.
func (e *Engine) loadCorpus(ctx context.Context) ([]corpus.Document, error) {
	e.mu.RLock()
	if e.docs != nil {
		docs := e.docs
		e.mu.RUnlock()
		return docs, nil
	}
	e.mu.RUnlock()

	docs, err := e.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]corpus.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	e.mu.Lock()
	e.docs = docs
	e.docsByID = byID
	e.mu.Unlock()
	return docs, nil
}

// Search matches the query against the cached aggregate. The engine must be
// initialized first. A failed search surfaces as an error state, never as a
// partial result.
func (e *Engine) Search(q search.Query) ([]search.Result, error) {
	start := time.Now()
	e.setSessionState(SessionSearching)

	e.mu.RLock()
	agg := e.aggregate
	docs := e.docsByID
	initialized := e.initialized
	e.mu.RUnlock()

	if !initialized {
		e.setSessionState(SessionError)
		e.recordSearch(q.Mode, "error", start, 0)
		return nil, apperrors.New(apperrors.ErrProcessing, "engine not initialized: run AnalyzeAll first")
	}

	results, err := e.matcher.Search(q, agg, docs)
	if err != nil {
		e.setSessionState(SessionError)
		e.recordSearch(q.Mode, "error", start, 0)
		return nil, err
	}
	if len(results) == 0 {
		e.setSessionState(SessionEmpty)
		e.recordSearch(q.Mode, "zero_result", start, 0)
		return results, nil
	}
	e.setSessionState(SessionResults)
	e.recordSearch(q.Mode, "hit", start, len(results))
	return results, nil
}

func (e *Engine) recordSearch(mode search.Mode, resultType string, start time.Time, count int) {
	if e.metrics == nil {
		return
	}
	e.metrics.SearchQueriesTotal.WithLabelValues(mode.String(), resultType).Inc()
	e.metrics.SearchLatency.WithLabelValues(mode.String()).Observe(time.Since(start).Seconds())
	e.metrics.SearchResultsCount.Observe(float64(count))
}

// ClearSearch returns the search session to idle.
func (e *Engine) ClearSearch() {
	e.setSessionState(SessionIdle)
}

func (e *Engine) setSessionState(s SessionState) {
	e.mu.Lock()
	e.sessionState = s
	e.mu.Unlock()
}

// Analyze builds (or serves from cache) the deep analysis for word.
func (e *Engine) Analyze(ctx context.Context, word string) (*analysis.WordAnalysis, error) {
	e.mu.RLock()
	agg := e.aggregate
	docs := e.docsByID
	initialized := e.initialized
	e.mu.RUnlock()

	if !initialized {
		return nil, apperrors.New(apperrors.ErrProcessing, "engine not initialized: run AnalyzeAll first")
	}
	result, cached, err := e.analyzer.Analyze(ctx, word, agg, docs)
	if e.metrics != nil && err == nil {
		if cached {
			e.metrics.AnalysisCacheHits.Inc()
		} else {
			e.metrics.AnalysisCacheMisses.Inc()
		}
	}
	return result, err
}

// Export serialises the cached aggregate to w. A failed export is logged and
// aborted without touching engine state.
func (e *Engine) Export(w io.Writer, format export.Format) error {
	e.mu.RLock()
	agg := e.aggregate
	initialized := e.initialized
	e.mu.RUnlock()

	if !initialized {
		return apperrors.New(apperrors.ErrProcessing, "engine not initialized: run AnalyzeAll first")
	}
	if err := e.exporter.Export(w, format, agg); err != nil {
		e.logger.Error("export failed", "format", format, "error", err)
		if e.metrics != nil {
			e.metrics.ExportsTotal.WithLabelValues(string(format), "failed").Inc()
		}
		return err
	}
	if e.metrics != nil {
		e.metrics.ExportsTotal.WithLabelValues(string(format), "ok").Inc()
	}
	return nil
}

func (e *Engine) setRunning(v bool) {
	e.mu.Lock()
	e.running = v
	e.mu.Unlock()
}

// ClearCache drops the aggregate and all memoized analyses and resets the
// initialized flag, so the next AnalyzeAll re-executes the batch job.
// Clearing while an aggregation run is in flight is refused.
func (e *Engine) ClearCache(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return apperrors.New(apperrors.ErrRunInFlight, "cannot clear caches while an aggregation run is active")
	}
	e.aggregate = nil
	e.initialized = false
	e.sessionState = SessionIdle
	e.mu.Unlock()

	if err := e.analyzer.Clear(ctx); err != nil {
		return apperrors.Newf(apperrors.ErrProcessing, "clearing analysis cache: %v", err)
	}
	e.sink.Publish(ctx, Event{Type: EventCacheCleared, At: time.Now()})
	e.logger.Info("engine cache cleared")
	return nil
}
