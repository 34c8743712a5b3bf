package testutils

import (
	"context"

	"github.com/LouisB739/thehook/pkg/vector"
)

// MockVectorDriver is a test vector driver keeping documents in memory
// with replace-by-ID semantics.
type MockVectorDriver struct {
	Documents []vector.Document

	// Results, when set, is returned from Query instead of the stored
	// documents.
	Results []vector.QueryResult

	// ResetCalls counts Reset invocations.
	ResetCalls int

	// AddErr causes Add to fail when set.
	AddErr error
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Documents: make([]vector.Document, 0),
	}
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	for _, doc := range docs {
		replaced := false
		for i, existing := range m.Documents {
			if existing.ID == doc.ID {
				m.Documents[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			m.Documents = append(m.Documents, doc)
		}
	}
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, _ []float32, topK int) ([]vector.QueryResult, error) {
	results := m.Results
	if results == nil {
		for _, doc := range m.Documents {
			results = append(results, vector.QueryResult{Document: doc, Score: 1.0})
		}
	}
	if len(results) < topK {
		return results, nil
	}
	return results[:topK], nil
}

func (m *MockVectorDriver) Count(_ context.Context) (int, error) {
	return len(m.Documents), nil
}

func (m *MockVectorDriver) Delete(_ context.Context, ids []string) error {
	for _, id := range ids {
		for i, doc := range m.Documents {
			if doc.ID == id {
				m.Documents = append(m.Documents[:i], m.Documents[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (m *MockVectorDriver) Reset(_ context.Context) error {
	m.ResetCalls++
	m.Documents = m.Documents[:0]
	return nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}
