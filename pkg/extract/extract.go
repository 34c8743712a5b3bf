// Package extract turns a parsed transcript into a structured knowledge
// document by invoking an external text-generation executable under a hard
// wall-clock budget.
package extract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/LouisB739/thehook/pkg/runner"
	"github.com/LouisB739/thehook/pkg/transcript"
)

// DefaultTimeout is the wall-clock budget for one extraction attempt.
// It fits inside the 120s budget the session-end hook runs under, with
// margin for transcript parsing and the durable write on either side.
const DefaultTimeout = 85 * time.Second

// Config holds the extraction settings resolved from configuration.
type Config struct {
	// Command is the external executable, e.g. "claude".
	Command string

	// Args are passed before the prompt argument, e.g. ["-p"].
	Args []string

	// Timeout bounds the external call. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxPromptChars bounds the assembled transcript text.
	MaxPromptChars int
}

// Extractor composes transcript text into a prompt and interprets the
// runner's result as an Outcome.
type Extractor struct {
	config Config
	runner runner.Runner
	logger *slog.Logger
}

// New creates an Extractor. The runner is injected so tests can count
// invocations without spawning processes.
func New(config Config, r runner.Runner, logger *slog.Logger) *Extractor {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxPromptChars <= 0 {
		config.MaxPromptChars = transcript.DefaultMaxChars
	}

	return &Extractor{
		config: config,
		runner: r,
		logger: logger,
	}
}

// Extract runs one extraction pass over the messages. An empty transcript
// short-circuits to a degraded outcome without invoking the external
// process. Every runner failure maps to a degraded outcome; Extract itself
// never returns an error.
func (e *Extractor) Extract(ctx context.Context, messages []transcript.Message) Outcome {
	if len(messages) == 0 {
		return Degraded(ReasonEmptyTranscript, 0)
	}

	text := transcript.Assemble(messages, e.config.MaxPromptChars)
	if text == "" {
		return Degraded(ReasonEmptyTranscript, len(messages))
	}

	prompt := PromptTemplate + text
	args := append(append([]string{}, e.config.Args...), prompt)

	e.logger.Debug("invoking extraction process",
		"command", e.config.Command,
		"prompt_chars", len(prompt),
		"timeout", e.config.Timeout,
	)

	out, err := e.runner.Run(ctx, e.config.Command, args, e.config.Timeout)
	if err != nil {
		reason := classify(err)
		e.logger.Debug("extraction degraded", "reason", reason, "err", err)
		return Degraded(reason, len(messages))
	}

	return Success(out, len(messages))
}

// classify maps runner failures onto degraded reasons.
func classify(err error) Reason {
	switch {
	case errors.Is(err, runner.ErrTimeout):
		return ReasonTimeout
	case errors.Is(err, runner.ErrEmptyOutput):
		return ReasonEmptyOutput
	default:
		return ReasonProcessError
	}
}
