// Package transcript parses coding-agent JSONL transcripts into normalized
// messages and assembles them into bounded prompt text.
package transcript

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

const (
	// RoleUser is the role tag for user messages.
	RoleUser = "user"

	// RoleAssistant is the role tag for assistant messages.
	RoleAssistant = "assistant"
)

// Message is a normalized transcript message. Content-shape branching
// happens once at parse time; downstream code never re-inspects raw JSON.
type Message struct {
	Role      string
	Text      string
	UUID      string
	Timestamp string
}

// entry represents a single line in a JSONL transcript.
type entry struct {
	Type      string        `json:"type"`
	UUID      string        `json:"uuid"`
	Timestamp string        `json:"timestamp"`
	Message   *entryMessage `json:"message"`
}

// entryMessage is the message field within a JSONL entry. Content is kept
// raw because its shape differs by role: a plain string for user turns, a
// list of typed blocks for assistant turns.
type entryMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// block is a content block in an assistant message.
type block struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Parse reads a JSONL transcript and returns its user and assistant
// messages in order. Malformed or irrelevant lines are skipped. A missing
// or unreadable file yields an empty slice, not an error; the capture
// path treats that as an empty transcript.
func Parse(path string) []Message {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var messages []Message

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB max line

	for scanner.Scan() {
		var e entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue // skip malformed lines
		}

		if e.Type != RoleUser && e.Type != RoleAssistant {
			continue
		}
		if e.Message == nil {
			continue
		}

		messages = append(messages, Message{
			Role:      e.Type,
			Text:      contentText(e.Message.Content),
			UUID:      e.UUID,
			Timestamp: e.Timestamp,
		})
	}

	// A scanner error means a partially read file; keep what parsed.
	return messages
}

// contentText resolves the two content shapes: a plain JSON string is used
// verbatim, a block list contributes only its text blocks joined by single
// newlines. Tool invocations and tool results are discarded.
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var blocks []block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}

	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
