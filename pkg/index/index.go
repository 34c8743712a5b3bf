// Package index ties an embedder and a vector driver together into a
// document-level search index over session knowledge.
package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LouisB739/thehook/pkg/embeddings"
	"github.com/LouisB739/thehook/pkg/vector"
)

// Document is a piece of text to index, keyed by a stable ID.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Result is a document returned from a similarity search.
type Result struct {
	ID       string
	Content  string
	Metadata map[string]string
	Score    float32
}

// Index embeds document text and stores the vectors in a driver.
type Index struct {
	driver   vector.Driver
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// New creates an Index over the given driver and embedder.
func New(driver vector.Driver, embedder embeddings.Embedder, logger *slog.Logger) *Index {
	return &Index{
		driver:   driver,
		embedder: embedder,
		logger:   logger,
	}
}

// Upsert embeds and stores a single document, replacing any existing
// document with the same ID.
func (i *Index) Upsert(ctx context.Context, doc Document) error {
	return i.AddBatch(ctx, []Document{doc})
}

// AddBatch embeds and stores documents, replacing any that share an ID.
func (i *Index) AddBatch(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	vecDocs := make([]vector.Document, 0, len(docs))
	for _, doc := range docs {
		embedding, err := i.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("embedding document %s: %w", doc.ID, err)
		}
		vecDocs = append(vecDocs, vector.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: embedding,
		})
	}

	if err := i.driver.Add(ctx, vecDocs); err != nil {
		return fmt.Errorf("storing documents: %w", err)
	}

	i.logger.Debug("indexed documents", "count", len(vecDocs))

	return nil
}

// Query embeds the query text and returns up to limit similar documents.
// The limit is clamped to the number of stored documents, so asking for
// more results than exist is not an error.
func (i *Index) Query(ctx context.Context, query string, limit int) ([]Result, error) {
	count, err := i.driver.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}
	if limit <= 0 {
		return nil, nil
	}

	embedding, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	queryResults, err := i.driver.Query(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	results := make([]Result, 0, len(queryResults))
	for _, qr := range queryResults {
		results = append(results, Result{
			ID:       qr.ID,
			Content:  qr.Content,
			Metadata: qr.Metadata,
			Score:    qr.Score,
		})
	}

	return results, nil
}

// Count returns the number of indexed documents.
func (i *Index) Count(ctx context.Context) (int, error) {
	return i.driver.Count(ctx)
}

// Reset drops every indexed document. The durable session records are
// the source of truth, so a reset index can always be rebuilt.
func (i *Index) Reset(ctx context.Context) error {
	return i.driver.Reset(ctx)
}

// Close releases the underlying driver and embedder.
func (i *Index) Close() error {
	if err := i.embedder.Close(); err != nil {
		i.driver.Close()
		return err
	}
	return i.driver.Close()
}
