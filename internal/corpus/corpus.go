// Package corpus defines the documents the engine analyzes and the sources
// that supply them. The corpus is static per session: a Source is loaded
// once and the resulting slice is treated as immutable.
package corpus

import "context"

// Document is a single unit of analyzable text supplied by the collaborator.
type Document struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Source supplies an ordered document sequence.
type Source interface {
	Load(ctx context.Context) ([]Document, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Document, error)

func (f SourceFunc) Load(ctx context.Context) ([]Document, error) {
	return f(ctx)
}

// StaticSource wraps an in-memory document slice.
type StaticSource struct {
	docs []Document
}

// NewStaticSource creates a Source over the given documents. The slice is
// copied so later caller mutations cannot leak into the engine.
func NewStaticSource(docs []Document) *StaticSource {
	copied := make([]Document, len(docs))
	copy(copied, docs)
	return &StaticSource{docs: copied}
}

func (s *StaticSource) Load(ctx context.Context) ([]Document, error) {
	out := make([]Document, len(s.docs))
	copy(out, s.docs)
	return out, nil
}
