package scaffold_test

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/LouisB739/thehook/pkg/logger"
	"github.com/LouisB739/thehook/pkg/scaffold"
)

var _ = Describe("Init", func() {
	var projectDir string

	BeforeEach(func() {
		projectDir = GinkgoT().TempDir()
	})

	readJSON := func(path string) map[string]any {
		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		var out map[string]any
		Expect(json.Unmarshal(data, &out)).To(Succeed())
		return out
	}

	It("creates the directory structure", func() {
		Expect(scaffold.Init(projectDir, logger.Nop())).To(Succeed())

		Expect(filepath.Join(projectDir, ".thehook", "sessions")).To(BeADirectory())
		Expect(filepath.Join(projectDir, ".thehook", "knowledge")).To(BeADirectory())
		Expect(filepath.Join(projectDir, ".thehook", "vector")).To(BeADirectory())
	})

	It("writes a gitignore excluding the derived index", func() {
		Expect(scaffold.Init(projectDir, logger.Nop())).To(Succeed())

		data, err := os.ReadFile(filepath.Join(projectDir, ".thehook", ".gitignore"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("vector/"))
	})

	It("merges into an existing gitignore without duplicating entries", func() {
		base := filepath.Join(projectDir, ".thehook")
		Expect(os.MkdirAll(base, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(base, ".gitignore"), []byte("custom/\nvector/\nserve.log\n"), 0o644)).To(Succeed())

		Expect(scaffold.Init(projectDir, logger.Nop())).To(Succeed())

		data, err := os.ReadFile(filepath.Join(base, ".gitignore"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("custom/\nvector/\nserve.log\n"))
	})

	It("registers the capture and retrieve hooks for Claude Code", func() {
		Expect(scaffold.Init(projectDir, logger.Nop())).To(Succeed())

		settings := readJSON(filepath.Join(projectDir, ".claude", "settings.local.json"))
		hooks, ok := settings["hooks"].(map[string]any)
		Expect(ok).To(BeTrue())

		Expect(hooks).To(HaveKey("SessionEnd"))
		Expect(hooks).To(HaveKey("SessionStart"))
		Expect(hooks).To(HaveKey("UserPromptSubmit"))

		sessionEnd := hooks["SessionEnd"].([]any)[0].(map[string]any)
		cmd := sessionEnd["hooks"].([]any)[0].(map[string]any)
		Expect(cmd["command"]).To(Equal("thehook capture"))
		Expect(cmd["async"]).To(Equal(true))
		Expect(cmd["timeout"]).To(BeNumerically("==", 120))

		sessionStart := hooks["SessionStart"].([]any)[0].(map[string]any)
		Expect(sessionStart["matcher"]).To(Equal("startup"))
	})

	It("preserves unrelated keys in existing settings", func() {
		claudeDir := filepath.Join(projectDir, ".claude")
		Expect(os.MkdirAll(claudeDir, 0o755)).To(Succeed())
		existing := `{"permissions": {"allow": ["Bash(ls:*)"]}}`
		Expect(os.WriteFile(filepath.Join(claudeDir, "settings.local.json"), []byte(existing), 0o644)).To(Succeed())

		Expect(scaffold.Init(projectDir, logger.Nop())).To(Succeed())

		settings := readJSON(filepath.Join(claudeDir, "settings.local.json"))
		Expect(settings).To(HaveKey("permissions"))
		Expect(settings).To(HaveKey("hooks"))
	})

	It("writes the Cursor hook registration", func() {
		Expect(scaffold.Init(projectDir, logger.Nop())).To(Succeed())

		cursor := readJSON(filepath.Join(projectDir, ".cursor", "hooks.json"))
		Expect(cursor["version"]).To(BeNumerically("==", 1))

		hooks := cursor["hooks"].(map[string]any)
		Expect(hooks).To(HaveKey("sessionEnd"))
		Expect(hooks).To(HaveKey("sessionStart"))
		Expect(hooks).To(HaveKey("beforeSubmitPrompt"))
	})

	It("is idempotent", func() {
		Expect(scaffold.Init(projectDir, logger.Nop())).To(Succeed())
		Expect(scaffold.Init(projectDir, logger.Nop())).To(Succeed())
	})
})
