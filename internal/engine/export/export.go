// Package export serialises a built aggregate to CSV or JSON. PDF is a
// declared format with no implementation and always returns
// ErrUnsupportedFormat.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lexiscope/wordfreq/internal/engine/aggregator"
	apperrors "github.com/lexiscope/wordfreq/pkg/errors"
)

// Format identifies an export serialisation.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// jsonWordCap bounds the JSON payload for presentation layers.
const jsonWordCap = 100

type jsonWord struct {
	Word      string   `json:"word"`
	Frequency int      `json:"frequency"`
	Articles  []string `json:"articles"`
	Stemmed   string   `json:"stemmed"`
}

type jsonStatistics struct {
	DistinctWords int `json:"distinct_words"`
	TotalTokens   int `json:"total_tokens"`
	Documents     int `json:"documents"`
}

type jsonDocument struct {
	ExportedAt string         `json:"exportedAt"`
	Statistics jsonStatistics `json:"statistics"`
	Words      []jsonWord     `json:"words"`
}

// Exporter serialises aggregates.
type Exporter struct {
	logger *slog.Logger
}

func New() *Exporter {
	return &Exporter{
		logger: slog.Default().With("component", "exporter"),
	}
}

// Export writes the aggregate to w in the given format. Unknown formats and
// the PDF stub fail with ErrUnsupportedFormat; the aggregate is never
// mutated.
func (e *Exporter) Export(w io.Writer, format Format, agg *aggregator.Aggregate) error {
	switch format {
	case FormatCSV:
		return e.exportCSV(w, agg)
	case FormatJSON:
		return e.exportJSON(w, agg)
	case FormatPDF:
		return apperrors.New(apperrors.ErrUnsupportedFormat, "pdf export is not implemented")
	default:
		return apperrors.Newf(apperrors.ErrUnsupportedFormat, "unknown export format %q", format)
	}
}

// exportCSV writes word,frequency,articles,stemmed rows. Article ids are
// comma-joined inside one field, so the csv writer quotes it.
func (e *Exporter) exportCSV(w io.Writer, agg *aggregator.Aggregate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"word", "frequency", "articles", "stemmed"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, entry := range agg.Entries {
		record := []string{
			entry.Word,
			strconv.Itoa(entry.Frequency),
			strings.Join(entry.ArticleIDs(), ","),
			entry.Stemmed,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record for %q: %w", entry.Word, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	e.logger.Debug("csv export complete", "entries", len(agg.Entries))
	return nil
}

func (e *Exporter) exportJSON(w io.Writer, agg *aggregator.Aggregate) error {
	doc := jsonDocument{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Statistics: jsonStatistics{
			DistinctWords: len(agg.Entries),
			TotalTokens:   agg.TokenCount,
			Documents:     agg.Documents,
		},
		Words: make([]jsonWord, 0, jsonWordCap),
	}
	for i, entry := range agg.Entries {
		if i >= jsonWordCap {
			break
		}
		doc.Words = append(doc.Words, jsonWord{
			Word:      entry.Word,
			Frequency: entry.Frequency,
			Articles:  entry.ArticleIDs(),
			Stemmed:   entry.Stemmed,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding json export: %w", err)
	}
	e.logger.Debug("json export complete", "entries", len(doc.Words))
	return nil
}
