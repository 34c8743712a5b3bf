package knowledge

import (
	"context"
	"fmt"

	"github.com/LouisB739/thehook/pkg/index"
)

// Rebuild drops the index and repopulates it from every valid record on
// disk. It returns the number of documents indexed. A missing or empty
// sessions directory rebuilds to an empty index without error.
func (s *Store) Rebuild(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, fmt.Errorf("no index configured")
	}

	if err := s.index.Reset(ctx); err != nil {
		return 0, fmt.Errorf("resetting index: %w", err)
	}

	records, err := s.List()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]index.Document, 0, len(records))
	for _, stored := range records {
		docs = append(docs, index.Document{
			ID:       stored.Record.DocID(stored.Stem()),
			Content:  stored.Record.Body,
			Metadata: stored.Record.Metadata(),
		})
	}

	if err := s.index.AddBatch(ctx, docs); err != nil {
		return 0, fmt.Errorf("indexing records: %w", err)
	}

	s.logger.Info("rebuilt knowledge index", "documents", len(docs))

	return len(docs), nil
}
