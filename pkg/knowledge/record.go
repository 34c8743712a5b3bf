// Package knowledge is the durable store for extracted session knowledge.
// Markdown files under .thehook/sessions/ are the source of truth; the
// vector index is a derived cache that can always be rebuilt from them.
package knowledge

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Record types stored in the knowledge base.
const (
	TypeSession   = "session"
	TypeKnowledge = "knowledge"
)

// Record is one durable knowledge document: YAML frontmatter plus a
// markdown body.
type Record struct {
	SessionID      string    `yaml:"session_id,omitempty"`
	KnowledgeID    string    `yaml:"knowledge_id,omitempty"`
	Type           string    `yaml:"type,omitempty"`
	TranscriptPath string    `yaml:"transcript_path,omitempty"`
	Timestamp      time.Time `yaml:"timestamp,omitempty"`

	Body string `yaml:"-"`
}

// DocID returns the stable index document ID for the record. Session
// records key on their session ID so re-capturing the same session
// overwrites instead of duplicating. The fallback is used for records
// whose frontmatter carries no ID, typically the filename stem.
func (r Record) DocID(fallback string) string {
	if r.Type == TypeKnowledge && r.KnowledgeID != "" {
		return r.KnowledgeID
	}
	if r.SessionID != "" {
		return r.SessionID
	}
	return fallback
}

// Degraded reports whether the body is a failure stub rather than
// extracted knowledge. Stubs open with the failure annotation StubBody
// renders.
func (r Record) Degraded() bool {
	return strings.HasPrefix(strings.TrimSpace(r.Body), "## SUMMARY\nExtraction ")
}

// Metadata returns the index metadata for the record.
func (r Record) Metadata() map[string]string {
	meta := map[string]string{
		"type": r.recordType(),
	}
	if !r.Timestamp.IsZero() {
		meta["timestamp"] = r.Timestamp.Format(time.RFC3339)
	}
	if r.SessionID != "" {
		meta["session_id"] = r.SessionID
	}
	if r.KnowledgeID != "" {
		meta["knowledge_id"] = r.KnowledgeID
	}
	return meta
}

func (r Record) recordType() string {
	if r.Type != "" {
		return r.Type
	}
	return TypeSession
}

// Marshal renders the record as a markdown document with YAML frontmatter.
func (r Record) Marshal() ([]byte, error) {
	fm, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(r.Body)
	if !strings.HasSuffix(r.Body, "\n") {
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// ParseRecord parses a markdown document with YAML frontmatter. It returns
// an error when the frontmatter delimiters are missing, the frontmatter is
// not valid YAML, or the body is empty after trimming.
func ParseRecord(data []byte) (Record, error) {
	parts := strings.SplitN(string(data), "---", 3)
	if len(parts) < 3 {
		return Record{}, fmt.Errorf("missing frontmatter delimiters")
	}

	var r Record
	if err := yaml.Unmarshal([]byte(parts[1]), &r); err != nil {
		return Record{}, fmt.Errorf("parsing frontmatter: %w", err)
	}

	body := strings.TrimSpace(parts[2])
	if body == "" {
		return Record{}, fmt.Errorf("empty body")
	}
	r.Body = body

	return r, nil
}
