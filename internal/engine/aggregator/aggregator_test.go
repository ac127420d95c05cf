package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/lexiscope/wordfreq/internal/corpus"
	"github.com/lexiscope/wordfreq/internal/engine/job"
	"github.com/lexiscope/wordfreq/internal/engine/tokenizer"
)

func testConfig() Config {
	return Config{
		BatchSize: 10,
		Tokenizer: tokenizer.Options{MinLength: 3},
	}
}

func TestRunCountsAndFiltersStopwords(t *testing.T) {
	docs := []corpus.Document{{
		ID:      "a1",
		Title:   "Foxes",
		Content: "The quick brown fox jumps over the lazy dog. The dog barks.",
	}}

	agg, err := New(testConfig()).Run(context.Background(), docs, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, ok := agg.Lookup("the"); ok {
		t.Error("stop word 'the' appeared in the aggregate")
	}
	dog, ok := agg.Lookup("dog")
	if !ok {
		t.Fatal("expected an entry for 'dog'")
	}
	if dog.Frequency != 2 {
		t.Errorf("dog frequency = %d, want 2", dog.Frequency)
	}
	if agg.Entries[0].Word != "dog" {
		t.Errorf("top entry = %q, want dog", agg.Entries[0].Word)
	}

	// Token conservation: every counted token is attributed to exactly one entry.
	sum := 0
	for _, e := range agg.Entries {
		sum += e.Frequency
	}
	if sum != agg.TokenCount {
		t.Errorf("frequency sum %d != token count %d", sum, agg.TokenCount)
	}
}

func TestRunStableTieOrder(t *testing.T) {
	docs := []corpus.Document{{ID: "a1", Content: "alpha gamma beta. alpha gamma beta."}}
	agg, err := New(testConfig()).Run(context.Background(), docs, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []string{"alpha", "gamma", "beta"}
	for i, w := range want {
		if agg.Entries[i].Word != w {
			t.Errorf("entry %d = %q, want %q (ties keep first-seen order)", i, agg.Entries[i].Word, w)
		}
	}
}

func TestRunDeduplicatesArticles(t *testing.T) {
	docs := []corpus.Document{
		{ID: "a2", Content: "shared words everywhere. shared again."},
		{ID: "a1", Content: "shared once more."},
	}
	agg, err := New(testConfig()).Run(context.Background(), docs, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	entry, ok := agg.Lookup("shared")
	if !ok {
		t.Fatal("expected an entry for 'shared'")
	}
	if entry.Frequency != 3 {
		t.Errorf("frequency = %d, want 3", entry.Frequency)
	}
	ids := entry.ArticleIDs()
	if len(ids) != 2 || ids[0] != "a1" || ids[1] != "a2" {
		t.Errorf("ArticleIDs = %v, want [a1 a2]", ids)
	}
}

func TestRunStemsEachWordOnce(t *testing.T) {
	docs := []corpus.Document{{ID: "a1", Content: "running dogs keep running."}}
	agg, err := New(testConfig()).Run(context.Background(), docs, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	entry, _ := agg.Lookup("running")
	if entry == nil || entry.Stemmed != "run" {
		t.Errorf("stemmed form for 'running' = %+v, want run", entry)
	}
}

func TestRunProgressMonotoneAndComplete(t *testing.T) {
	docs := make([]corpus.Document, 25)
	for i := range docs {
		docs[i] = corpus.Document{ID: string(rune('a' + i)), Content: "words appear here."}
	}

	var events []job.Progress
	_, err := New(testConfig()).Run(context.Background(), docs, func(p job.Progress) {
		events = append(events, p)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected progress events")
	}
	prev := -1
	for _, p := range events {
		if p.Percent < prev {
			t.Errorf("progress went backwards: %d after %d", p.Percent, prev)
		}
		prev = p.Percent
	}
	if events[len(events)-1].Percent != 100 {
		t.Errorf("final percent = %d, want 100", events[len(events)-1].Percent)
	}
}

func TestRunEmptyCorpus(t *testing.T) {
	var events []job.Progress
	agg, err := New(testConfig()).Run(context.Background(), nil, func(p job.Progress) {
		events = append(events, p)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(agg.Entries) != 0 || agg.TokenCount != 0 {
		t.Errorf("expected empty aggregate, got %d entries / %d tokens", len(agg.Entries), agg.TokenCount)
	}
	if len(events) != 1 || events[0].Percent != 100 {
		t.Errorf("expected a single 100%% event, got %v", events)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	docs := []corpus.Document{{ID: "a1", Content: "never processed."}}
	agg, err := New(testConfig()).Run(ctx, docs, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if agg != nil {
		t.Error("expected nil aggregate on cancellation")
	}
}

func TestOptimizeDropsRareEntriesBeyondCap(t *testing.T) {
	a := New(Config{BatchSize: 10, OptimizeCap: 2})
	byWord := make(map[string]*WordEntry)
	mk := func(word string, freq, articles int) *WordEntry {
		e := &WordEntry{Word: word, Frequency: freq, Articles: make(map[string]struct{})}
		for i := 0; i < articles; i++ {
			e.Articles[string(rune('a'+i))] = struct{}{}
		}
		byWord[word] = e
		return e
	}
	sorted := []*WordEntry{
		mk("first", 9, 2),
		mk("second", 5, 1),
		mk("spread", 1, 2), // beyond cap but spans two articles: kept
		mk("rare", 1, 1),   // beyond cap, single use: dropped
	}

	kept := a.optimize(sorted, byWord)
	if len(kept) != 3 {
		t.Fatalf("kept %d entries, want 3", len(kept))
	}
	for _, e := range kept {
		if e.Word == "rare" {
			t.Error("rare entry survived the optimize pass")
		}
	}
	if _, ok := byWord["rare"]; ok {
		t.Error("dropped entry still resolvable by word")
	}
	if _, ok := byWord["spread"]; !ok {
		t.Error("kept entry removed from the lookup map")
	}
}
