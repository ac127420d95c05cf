package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lexiscope/wordfreq/internal/corpus"
	"github.com/lexiscope/wordfreq/internal/engine/aggregator"
	"github.com/lexiscope/wordfreq/internal/engine/tokenizer"
	apperrors "github.com/lexiscope/wordfreq/pkg/errors"
)

func buildAggregate(t *testing.T, docs []corpus.Document) *aggregator.Aggregate {
	t.Helper()
	agg, err := aggregator.New(aggregator.Config{
		BatchSize: 10,
		Tokenizer: tokenizer.Options{MinLength: 3},
	}).Run(context.Background(), docs, nil)
	if err != nil {
		t.Fatalf("aggregation failed: %v", err)
	}
	return agg
}

func TestExportCSVRoundTrips(t *testing.T) {
	agg := buildAggregate(t, []corpus.Document{
		{ID: "a1", Content: "falcon falcon heron."},
		{ID: "a2", Content: "falcon again."},
	})

	var buf bytes.Buffer
	if err := New().Export(&buf, FormatCSV, agg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported csv does not parse: %v", err)
	}
	header := records[0]
	want := []string{"word", "frequency", "articles", "stemmed"}
	for i, col := range want {
		if header[i] != col {
			t.Errorf("header[%d] = %q, want %q", i, header[i], col)
		}
	}
	if len(records) != len(agg.Entries)+1 {
		t.Fatalf("got %d rows, want %d", len(records), len(agg.Entries)+1)
	}
	// Top entry is falcon with 3 occurrences across both articles.
	row := records[1]
	if row[0] != "falcon" || row[1] != "3" || row[2] != "a1,a2" {
		t.Errorf("top row = %v, want falcon,3,\"a1,a2\"", row)
	}
}

func TestExportJSONShape(t *testing.T) {
	agg := buildAggregate(t, []corpus.Document{
		{ID: "a1", Content: "falcon falcon heron."},
	})

	var buf bytes.Buffer
	if err := New().Export(&buf, FormatJSON, agg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc struct {
		ExportedAt string `json:"exportedAt"`
		Statistics struct {
			DistinctWords int `json:"distinct_words"`
			TotalTokens   int `json:"total_tokens"`
			Documents     int `json:"documents"`
		} `json:"statistics"`
		Words []struct {
			Word      string   `json:"word"`
			Frequency int      `json:"frequency"`
			Articles  []string `json:"articles"`
			Stemmed   string   `json:"stemmed"`
		} `json:"words"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("exported json does not parse: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, doc.ExportedAt); err != nil {
		t.Errorf("exportedAt %q is not RFC3339: %v", doc.ExportedAt, err)
	}
	if doc.Statistics.DistinctWords != 2 || doc.Statistics.TotalTokens != 3 || doc.Statistics.Documents != 1 {
		t.Errorf("statistics = %+v, want 2 words / 3 tokens / 1 document", doc.Statistics)
	}
	if len(doc.Words) != 2 || doc.Words[0].Word != "falcon" || doc.Words[0].Frequency != 2 {
		t.Errorf("words = %+v, want falcon first with frequency 2", doc.Words)
	}
}

func TestExportJSONCapsWordList(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < jsonWordCap+20; i++ {
		fmt.Fprintf(&sb, "word%c%c ", 'a'+i/26, 'a'+i%26)
	}
	agg := buildAggregate(t, []corpus.Document{{ID: "a1", Content: sb.String()}})

	var buf bytes.Buffer
	if err := New().Export(&buf, FormatJSON, agg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	var doc struct {
		Statistics struct {
			DistinctWords int `json:"distinct_words"`
		} `json:"statistics"`
		Words []json.RawMessage `json:"words"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("exported json does not parse: %v", err)
	}
	if len(doc.Words) != jsonWordCap {
		t.Errorf("word list has %d entries, want the %d cap", len(doc.Words), jsonWordCap)
	}
	if doc.Statistics.DistinctWords <= jsonWordCap {
		t.Errorf("statistics should count all %d distinct words, got %d", jsonWordCap+20, doc.Statistics.DistinctWords)
	}
}

func TestExportUnsupportedFormats(t *testing.T) {
	agg := buildAggregate(t, nil)
	var buf bytes.Buffer
	for _, format := range []Format{FormatPDF, Format("xml")} {
		err := New().Export(&buf, format, agg)
		if !errors.Is(err, apperrors.ErrUnsupportedFormat) {
			t.Errorf("Export(%q) err = %v, want ErrUnsupportedFormat", format, err)
		}
		if buf.Len() != 0 {
			t.Errorf("Export(%q) wrote %d bytes despite failing", format, buf.Len())
		}
	}
}
