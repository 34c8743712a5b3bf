package transcript

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxChars bounds assembled prompt text.
	DefaultMaxChars = 50_000

	// TruncationMarker prefixes assembled text that lost its oldest content
	// to the length bound.
	TruncationMarker = "...[truncated]...\n\n"
)

// Assemble joins messages into a single prompt string with role labels.
// Each message renders as "[ROLE]: text"; messages whose text is empty
// after trimming are skipped. When the result exceeds maxChars, only the
// trailing maxChars characters are kept, prefixed with TruncationMarker,
// so retention is biased toward recency.
func Assemble(messages []Message, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s]: %s", strings.ToUpper(m.Role), text))
	}

	joined := strings.Join(parts, "\n\n")
	if len(joined) <= maxChars {
		return joined
	}

	// Advance to a rune boundary so the cut never emits invalid UTF-8.
	start := len(joined) - maxChars
	for start < len(joined) && !utf8.RuneStart(joined[start]) {
		start++
	}

	return TruncationMarker + joined[start:]
}
