package corpus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexiscope/wordfreq/pkg/postgres"
)

// PostgresSource reads documents from a collaborator-owned articles table.
// The engine only ever reads; corpus persistence stays with the collaborator.
type PostgresSource struct {
	client *postgres.Client
	table  string
	logger *slog.Logger
}

func NewPostgresSource(client *postgres.Client, table string) *PostgresSource {
	if table == "" {
		table = "articles"
	}
	return &PostgresSource{
		client: client,
		table:  table,
		logger: slog.Default().With("component", "corpus-postgres"),
	}
}

func (s *PostgresSource) Load(ctx context.Context) ([]Document, error) {
	query := fmt.Sprintf(
		"SELECT id, title, content, category FROM %s ORDER BY id", s.table,
	)
	rows, err := s.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying corpus table %s: %w", s.table, err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Category); err != nil {
			return nil, fmt.Errorf("scanning corpus row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating corpus rows: %w", err)
	}
	s.logger.Info("corpus loaded", "table", s.table, "documents", len(docs))
	return docs, nil
}
