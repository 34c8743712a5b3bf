// Package hook defines the lifecycle-hook protocol between thehook and the
// invoking coding agent: a JSON payload read once from stdin, and an optional
// single JSON response object written to stdout.
//
// Stdout discipline matters here. The caller parses everything written to
// stdout as the hook response, so commands on the hook path log to stderr
// and emit at most one JSON object.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
)

// Input is the JSON payload delivered once per hook invocation.
// Fields not sent by a given event stay zero-valued.
type Input struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	CWD            string `json:"cwd"`
	HookEventName  string `json:"hook_event_name"`

	// Prompt is present on UserPromptSubmit events and enables
	// query-aware retrieval.
	Prompt string `json:"prompt"`

	// WorkspaceRoots is a fallback for callers that send workspace roots
	// instead of a cwd.
	WorkspaceRoots []string `json:"workspace_roots"`
}

// ProjectDir resolves the project directory from the payload: cwd first,
// then the first workspace root, then ".".
func (in *Input) ProjectDir() string {
	if in.CWD != "" {
		return in.CWD
	}
	if len(in.WorkspaceRoots) > 0 && in.WorkspaceRoots[0] != "" {
		return in.WorkspaceRoots[0]
	}
	return "."
}

// ReadInput reads the hook payload from r. Empty input yields a zero-value
// Input without error; malformed JSON is an error the caller decides how to
// swallow.
func ReadInput(r io.Reader) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading hook input: %w", err)
	}
	if len(data) == 0 {
		return &Input{}, nil
	}

	in := &Input{}
	if err := json.Unmarshal(data, in); err != nil {
		return nil, fmt.Errorf("parsing hook input: %w", err)
	}
	return in, nil
}

// Output is the response envelope for context-injecting hook events.
type Output struct {
	HookSpecificOutput SpecificOutput `json:"hookSpecificOutput"`
}

// SpecificOutput carries the context string back to the caller.
type SpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// WriteOutput emits exactly one response object to w. Nothing else may be
// written on the same channel by the calling command.
func WriteOutput(w io.Writer, eventName, context string) error {
	out := Output{
		HookSpecificOutput: SpecificOutput{
			HookEventName:     eventName,
			AdditionalContext: context,
		},
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing hook output: %w", err)
	}
	return nil
}
