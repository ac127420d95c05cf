// Package benchmark contains Go benchmarks for the tokenizer, stemmer,
// aggregation pipeline, and search matcher, measuring throughput and
// allocation behaviour.
package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/lexiscope/wordfreq/internal/corpus"
	"github.com/lexiscope/wordfreq/internal/engine/aggregator"
	"github.com/lexiscope/wordfreq/internal/engine/search"
	"github.com/lexiscope/wordfreq/internal/engine/stemmer"
	"github.com/lexiscope/wordfreq/internal/engine/tokenizer"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Word frequency analysis tokenizes article text into candidate
        words, filters stop words and short tokens, and merges the survivors
        into a corpus-wide frequency map. Each distinct word is stemmed once
        so queries can match by shared root. Deep analysis adds per-article
        breakdowns, context sentences, and related words scored by edit
        distance over the same aggregate.`,
	"long": strings.Repeat(`Aggregation runs as a cancellable batch job over
        fixed-size document batches, yielding between batches so the host is
        never starved. Entries sort by frequency descending with ties kept in
        first-seen order, and an optimize pass bounds memory by dropping rare
        single-article words beyond a configured cap. Search parses quoted
        phrases, wildcard patterns, and plain terms, then filters matches by
        length, part of speech, and article scope before building results. `, 20),
}

func benchmarkDocs(n int) []corpus.Document {
	docs := make([]corpus.Document, n)
	for i := range docs {
		docs[i] = corpus.Document{
			ID:      fmt.Sprintf("doc-%d", i),
			Title:   "benchmark article",
			Content: sampleTexts["medium"],
		}
	}
	return docs
}

func buildAggregate(b *testing.B, n int) *aggregator.Aggregate {
	b.Helper()
	agg, err := aggregator.New(aggregator.Config{
		BatchSize: 10,
		Tokenizer: tokenizer.Options{MinLength: 3},
	}).Run(context.Background(), benchmarkDocs(n), nil)
	if err != nil {
		b.Fatalf("aggregation failed: %v", err)
	}
	return agg
}

func BenchmarkExtractWords(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				words := tokenizer.ExtractWords(text, tokenizer.Options{MinLength: 3})
				_ = words
			}
		})
	}
}

func BenchmarkExtractWordsParallel(b *testing.B) {
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			words := tokenizer.ExtractWords(text, tokenizer.Options{MinLength: 3})
			_ = words
		}
	})
}

func BenchmarkStem(b *testing.B) {
	words := []string{
		"running", "frequencies", "analysis", "tokenization",
		"aggregation", "searching", "caresses", "ponies",
		"relational", "adjustment",
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		stemmed := stemmer.Stem(words[i%len(words)])
		_ = stemmed
	}
}

func BenchmarkAggregate(b *testing.B) {
	sizes := []int{10, 100, 1000}
	for _, n := range sizes {
		docs := benchmarkDocs(n)
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			agg := aggregator.New(aggregator.Config{
				BatchSize: 10,
				Tokenizer: tokenizer.Options{MinLength: 3},
			})
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				result, err := agg.Run(context.Background(), docs, nil)
				if err != nil {
					b.Fatal(err)
				}
				_ = result
			}
		})
	}
}

func BenchmarkSearch(b *testing.B) {
	agg := buildAggregate(b, 1000)
	docs := make(map[string]corpus.Document)
	for _, d := range benchmarkDocs(1000) {
		docs[d.ID] = d
	}
	matcher := search.NewMatcher(search.Config{})

	queries := []struct {
		name  string
		query search.Query
	}{
		{"exact", search.Query{Query: "frequency", Mode: search.ModeExact}},
		{"intelligent", search.Query{Query: "frequency", Mode: search.ModeIntelligent}},
		{"wildcard", search.Query{Query: "agg*", Mode: search.ModeExact}},
		{"phrase", search.Query{Query: `"distinct"`, Mode: search.ModeIntelligent}},
	}
	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				results, err := matcher.Search(q.query, agg, docs)
				if err != nil {
					b.Fatal(err)
				}
				_ = results
			}
		})
	}
}

func BenchmarkSearchParallel(b *testing.B) {
	agg := buildAggregate(b, 1000)
	docs := make(map[string]corpus.Document)
	for _, d := range benchmarkDocs(1000) {
		docs[d.ID] = d
	}
	matcher := search.NewMatcher(search.Config{})
	query := search.Query{Query: "frequency", Mode: search.ModeIntelligent}

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			results, err := matcher.Search(query, agg, docs)
			if err != nil {
				b.Fatal(err)
			}
			_ = results
		}
	})
}
