// Package retrieve assembles stored knowledge into a bounded context
// string for session start and recall queries.
package retrieve

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LouisB739/thehook/pkg/hook"
	"github.com/LouisB739/thehook/pkg/index"
)

const (
	// DefaultTokenBudget caps assembled context size.
	DefaultTokenBudget = 2000

	// Separator joins retrieved documents in the assembled context.
	Separator = "\n\n---\n\n"

	// charsPerToken is the standard approximation for ASCII markdown.
	charsPerToken = 4
)

// Options holds retrieval tuning.
type Options struct {
	// NResults is the number of candidate documents per query.
	NResults int

	// RecencyDays, when positive, prefers sessions newer than this many
	// days.
	RecencyDays int

	// RecencyFallbackGlobal reruns the query without the recency filter
	// when it matches nothing.
	RecencyFallbackGlobal bool

	// Query is the fallback query text used when the hook payload
	// carries no prompt.
	Query string

	// TokenBudget caps the assembled hook context. Zero means
	// DefaultTokenBudget.
	TokenBudget int
}

// Retriever queries the knowledge index. It is the read path of the
// pipeline and must never break a session: every failure degrades to an
// empty result.
type Retriever struct {
	index  *index.Index
	opts   Options
	logger *slog.Logger
}

// New creates a Retriever over the given index.
func New(idx *index.Index, opts Options, logger *slog.Logger) *Retriever {
	if opts.NResults < 1 {
		opts.NResults = 1
	}
	return &Retriever{
		index:  idx,
		opts:   opts,
		logger: logger,
	}
}

// Query returns the bodies of documents matching the query text, most
// similar first. An empty index, a failed embedding, or a failed search
// all return nil.
func (r *Retriever) Query(ctx context.Context, queryText string) []string {
	results, err := r.index.Query(ctx, queryText, r.opts.NResults)
	if err != nil {
		r.logger.Debug("retrieval degraded to empty", "err", err)
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	if r.opts.RecencyDays > 0 {
		recent := filterRecent(results, r.opts.RecencyDays)
		if len(recent) > 0 || !r.opts.RecencyFallbackGlobal {
			return documents(recent)
		}
	}

	return documents(results)
}

// HookResponse runs the hook read path end to end: choose the query from
// the payload, retrieve and format context under the token budget, and
// write a single response object to w. Nothing is written when no context
// was found, so an empty knowledge base stays silent to the host agent.
func (r *Retriever) HookResponse(ctx context.Context, in *hook.Input, w io.Writer) error {
	queryText := QueryText(in.Prompt, r.opts.Query)
	docs := r.Query(ctx, queryText)

	contextText := FormatContext(docs, r.opts.TokenBudget)
	if contextText == "" {
		return nil
	}

	eventName := in.HookEventName
	if eventName == "" {
		eventName = "SessionStart"
	}
	return hook.WriteOutput(w, eventName, contextText)
}

// filterRecent keeps results whose timestamp metadata is newer than the
// cutoff. Results without a parseable timestamp are dropped by the filter.
func filterRecent(results []index.Result, recencyDays int) []index.Result {
	cutoff := time.Now().UTC().AddDate(0, 0, -recencyDays)

	var recent []index.Result
	for _, result := range results {
		raw, ok := result.Metadata["timestamp"]
		if !ok {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}
		if !ts.Before(cutoff) {
			recent = append(recent, result)
		}
	}
	return recent
}

func documents(results []index.Result) []string {
	docs := make([]string, 0, len(results))
	for _, result := range results {
		docs = append(docs, result.Content)
	}
	return docs
}

// FormatContext assembles documents into one context string capped at
// tokenBudget tokens, estimated as four characters per token. Documents
// are joined with Separator; the document that would cross the budget is
// trimmed to the remaining space and later ones are dropped.
func FormatContext(docs []string, tokenBudget int) string {
	if tokenBudget <= 0 {
		tokenBudget = DefaultTokenBudget
	}
	maxChars := tokenBudget * charsPerToken

	var parts []string
	total := 0
	for _, doc := range docs {
		if total+len(doc) > maxChars {
			if cut := truncateToRune(doc, maxChars-total); cut != "" {
				parts = append(parts, cut)
			}
			break
		}
		parts = append(parts, doc)
		total += len(doc)
	}

	return strings.Join(parts, Separator)
}

// truncateToRune cuts s to at most n bytes, backing off to the previous
// rune boundary so the cut never emits invalid UTF-8.
func truncateToRune(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// QueryText picks the retrieval query: the user's prompt when one exists,
// otherwise the configured fallback.
func QueryText(prompt, fallback string) string {
	if trimmed := strings.TrimSpace(prompt); trimmed != "" {
		return trimmed
	}
	return fallback
}
