// Package vector provides interfaces and implementations for vector storage
// over knowledge documents.
package vector

import "context"

// Document represents a stored item with its text, metadata, and embedding.
type Document struct {
	// ID is a unique identifier for the document (typically the session id).
	ID string

	// Content is the document text.
	Content string

	// Metadata carries provenance fields (session_id, type, timestamp).
	Metadata map[string]string

	// Embedding is the vector representation of the document content.
	Embedding []float32
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score represents the similarity score (higher = more similar).
	Score float32
}

// Driver handles storage and retrieval of embedded documents.
type Driver interface {
	// Add stores documents with their embeddings. A document whose ID
	// already exists is replaced.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK most similar documents to the given embedding.
	// An empty store yields an empty result, not an error.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Reset drops all stored documents and recreates the collection.
	// A collection that does not exist yet is not an error.
	Reset(ctx context.Context) error

	// Close releases any resources held by the driver.
	Close() error
}
