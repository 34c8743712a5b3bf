package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LouisB739/thehook/pkg/extract"
	"github.com/LouisB739/thehook/pkg/index"
)

// Store writes knowledge records to disk and mirrors them into the index.
type Store struct {
	sessionsDir  string
	knowledgeDir string
	index        *index.Index
	logger       *slog.Logger
}

// NewStore creates a Store over the given directories. The index may be
// nil; records are then written durably without being searchable until the
// next rebuild.
func NewStore(sessionsDir, knowledgeDir string, idx *index.Index, logger *slog.Logger) *Store {
	return &Store{
		sessionsDir:  sessionsDir,
		knowledgeDir: knowledgeDir,
		index:        idx,
		logger:       logger,
	}
}

// Capture writes a session record durably, then upserts it into the index.
// The index upsert is best effort: a write that lands on disk but misses
// the index is recovered by reindex, so index failures are logged and
// swallowed rather than failing the capture.
func (s *Store) Capture(ctx context.Context, record Record) (string, error) {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	path, err := s.write(record)
	if err != nil {
		return "", err
	}

	if s.index == nil {
		return path, nil
	}

	stem := strings.TrimSuffix(filepath.Base(path), ".md")
	err = s.index.Upsert(ctx, index.Document{
		ID:       record.DocID(stem),
		Content:  record.Body,
		Metadata: record.Metadata(),
	})
	if err != nil {
		s.logger.Warn("session written but not indexed, run reindex to recover",
			"path", path,
			"err", err,
		)
	}

	return path, nil
}

// IndexRecord upserts an already-persisted record into the index. The
// fallback stem keys records whose frontmatter carries no ID.
func (s *Store) IndexRecord(ctx context.Context, record Record, stem string) error {
	if s.index == nil {
		return fmt.Errorf("no index configured")
	}
	return s.index.Upsert(ctx, index.Document{
		ID:       record.DocID(stem),
		Content:  record.Body,
		Metadata: record.Metadata(),
	})
}

// write renders the record and writes it under the sessions directory with
// a date-prefixed filename. Capturing the same session again overwrites
// its existing file, so the store holds one record per session. The
// caller has already set the timestamp; the same record feeds the index
// metadata, so it must not diverge here.
func (s *Store) write(record Record) (string, error) {
	if err := os.MkdirAll(s.sessionsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating sessions directory: %w", err)
	}

	data, err := record.Marshal()
	if err != nil {
		return "", err
	}

	path := s.existingSessionPath(record.SessionID)
	if path == "" {
		name := fmt.Sprintf("%s-%s.md",
			record.Timestamp.Format("2006-01-02"),
			fileSuffix(record.SessionID),
		)
		path = filepath.Join(s.sessionsDir, name)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing session file: %w", err)
	}

	s.logger.Debug("wrote session record", "path", path, "session_id", record.SessionID)

	return path, nil
}

// existingSessionPath returns the path of the record already written for
// this session id, or "" when there is none.
func (s *Store) existingSessionPath(sessionID string) string {
	if sessionID == "" {
		return ""
	}

	records, err := listDir(s.sessionsDir, TypeSession)
	if err != nil {
		return ""
	}
	for _, stored := range records {
		if stored.Record.SessionID == sessionID {
			return stored.Path
		}
	}
	return ""
}

// fileSuffix derives a short filename suffix from the session id, falling
// back to a random one for records without an id.
func fileSuffix(sessionID string) string {
	if sessionID == "" {
		return uuid.NewString()[:8]
	}
	if len(sessionID) > 8 {
		return sessionID[:8]
	}
	return sessionID
}

// StubBody renders the degraded-session body: all four sections present so
// downstream consumers see a uniform shape, with the failure reason and
// message count in the summary.
func StubBody(reason extract.Reason, messageCount int) string {
	return fmt.Sprintf(`## SUMMARY
Extraction %s. Session had %d messages.

## CONVENTIONS
None this session.

## DECISIONS
None this session.

## GOTCHAS
None this session.
`, reason, messageCount)
}

// List parses every readable record under the store's directories, sessions
// first, sorted by filename within each directory. Malformed and empty
// files are skipped.
func (s *Store) List() ([]StoredRecord, error) {
	var out []StoredRecord
	for _, dir := range []dirSpec{
		{s.sessionsDir, TypeSession},
		{s.knowledgeDir, TypeKnowledge},
	} {
		records, err := listDir(dir.path, dir.defaultType)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

// SessionFileCount returns the number of markdown files under the sessions
// directory. A missing directory counts as zero.
func (s *Store) SessionFileCount() int {
	entries, err := os.ReadDir(s.sessionsDir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
			count++
		}
	}
	return count
}

// LastCapture returns the most recently captured session record, by
// frontmatter timestamp. The second return is false when no session
// records exist.
func (s *Store) LastCapture() (StoredRecord, bool) {
	records, err := listDir(s.sessionsDir, TypeSession)
	if err != nil || len(records) == 0 {
		return StoredRecord{}, false
	}

	last := records[0]
	for _, r := range records[1:] {
		if r.Record.Timestamp.After(last.Record.Timestamp) {
			last = r
		}
	}
	return last, true
}

// StoredRecord pairs a parsed record with the file it came from.
type StoredRecord struct {
	Record Record
	Path   string
}

// Stem returns the record's filename without extension, the fallback
// document ID for files whose frontmatter carries none.
func (r StoredRecord) Stem() string {
	return strings.TrimSuffix(filepath.Base(r.Path), ".md")
}

type dirSpec struct {
	path        string
	defaultType string
}

func listDir(dir, defaultType string) ([]StoredRecord, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var out []StoredRecord
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		record, err := ParseRecord(data)
		if err != nil {
			continue
		}
		if record.Type == "" {
			record.Type = defaultType
		}
		out = append(out, StoredRecord{Record: record, Path: path})
	}

	return out, nil
}
