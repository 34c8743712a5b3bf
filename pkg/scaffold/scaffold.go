// Package scaffold initializes a project for knowledge capture: the
// .thehook directory tree plus hook registration for Claude Code and
// Cursor.
package scaffold

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/LouisB739/thehook/pkg/dotdir"
)

// gitignoreEntries are kept out of version control under .thehook/. The
// vector index is derived state, rebuilt with reindex.
var gitignoreEntries = []string{
	dotdir.VectorDirName + "/",
	"serve.log",
}

// hookCommand is one command entry in a hook configuration.
type hookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Async   bool   `json:"async,omitempty"`
	Timeout int    `json:"timeout"`
}

// hookMatcher groups commands under an optional matcher.
type hookMatcher struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []hookCommand `json:"hooks"`
}

// claudeHooks is the hook registration written into
// .claude/settings.local.json. Capture runs async with a budget wide
// enough for the extraction timeout; retrieval budgets are tight since
// they block session start.
func claudeHooks() map[string][]hookMatcher {
	return map[string][]hookMatcher{
		"SessionEnd": {{
			Hooks: []hookCommand{{
				Type:    "command",
				Command: "thehook capture",
				Async:   true,
				Timeout: 120,
			}},
		}},
		"SessionStart": {{
			Matcher: "startup",
			Hooks: []hookCommand{{
				Type:    "command",
				Command: "thehook retrieve",
				Timeout: 30,
			}},
		}},
		"UserPromptSubmit": {{
			Hooks: []hookCommand{{
				Type:    "command",
				Command: "thehook retrieve",
				Timeout: 30,
			}},
		}},
	}
}

// cursorHooksFile is the .cursor/hooks.json layout.
type cursorHooksFile struct {
	Version int                      `json:"version"`
	Hooks   map[string][]hookCommand `json:"hooks"`
}

func cursorHooks() cursorHooksFile {
	return cursorHooksFile{
		Version: 1,
		Hooks: map[string][]hookCommand{
			"sessionEnd": {{
				Type:    "command",
				Command: "thehook capture",
				Timeout: 120,
			}},
			"sessionStart": {{
				Type:    "command",
				Command: "thehook retrieve",
				Timeout: 30,
			}},
			"beforeSubmitPrompt": {{
				Type:    "command",
				Command: "thehook retrieve",
				Timeout: 30,
			}},
		},
	}
}

// Init sets up the project: directory tree, .gitignore, and hook
// registration. It is idempotent and preserves unrelated settings in
// existing files.
func Init(projectDir string, logger *slog.Logger) error {
	base := filepath.Join(projectDir, dotdir.DirName)
	for _, dir := range []string{
		filepath.Join(base, dotdir.SessionsDirName),
		filepath.Join(base, dotdir.KnowledgeDirName),
		filepath.Join(base, dotdir.VectorDirName),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	if err := writeGitignore(filepath.Join(base, ".gitignore")); err != nil {
		return err
	}

	if err := registerClaudeHooks(projectDir); err != nil {
		return err
	}

	if err := registerCursorHooks(projectDir); err != nil {
		return err
	}

	logger.Debug("initialized project", "dir", base)

	return nil
}

// writeGitignore creates or merges .thehook/.gitignore so derived state
// stays out of version control.
func writeGitignore(path string) error {
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		content := strings.Join(gitignoreEntries, "\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing gitignore: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading gitignore: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(existing), "\n"), "\n")
	present := make(map[string]bool, len(lines))
	for _, line := range lines {
		present[line] = true
	}
	for _, entry := range gitignoreEntries {
		if !present[entry] {
			lines = append(lines, entry)
		}
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing gitignore: %w", err)
	}
	return nil
}

// registerClaudeHooks merges the hook registration into
// .claude/settings.local.json, replacing the hooks key and leaving every
// other key untouched.
func registerClaudeHooks(projectDir string) error {
	claudeDir := filepath.Join(projectDir, ".claude")
	if err := os.MkdirAll(claudeDir, 0o755); err != nil {
		return fmt.Errorf("creating .claude directory: %w", err)
	}

	settingsPath := filepath.Join(claudeDir, "settings.local.json")

	settings := map[string]json.RawMessage{}
	if data, err := os.ReadFile(settingsPath); err == nil {
		if err := json.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("parsing %s: %w", settingsPath, err)
		}
	}

	hooksJSON, err := json.Marshal(claudeHooks())
	if err != nil {
		return fmt.Errorf("marshaling hooks: %w", err)
	}
	settings["hooks"] = hooksJSON

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.WriteFile(settingsPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", settingsPath, err)
	}
	return nil
}

// registerCursorHooks writes .cursor/hooks.json.
func registerCursorHooks(projectDir string) error {
	cursorDir := filepath.Join(projectDir, ".cursor")
	if err := os.MkdirAll(cursorDir, 0o755); err != nil {
		return fmt.Errorf("creating .cursor directory: %w", err)
	}

	hooksPath := filepath.Join(cursorDir, "hooks.json")

	data, err := json.MarshalIndent(cursorHooks(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cursor hooks: %w", err)
	}

	if err := os.WriteFile(hooksPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", hooksPath, err)
	}
	return nil
}
