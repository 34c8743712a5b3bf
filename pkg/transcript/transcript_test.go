package transcript_test

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/LouisB739/thehook/pkg/transcript"
)

func writeTranscript(dir string, lines ...string) string {
	path := filepath.Join(dir, "transcript.jsonl")
	content := strings.Join(lines, "\n") + "\n"
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Parse", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "transcript-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("extracts string content from user messages verbatim", func() {
		path := writeTranscript(tmpDir,
			`{"type":"user","uuid":"u1","timestamp":"2026-08-30T10:00:00Z","message":{"role":"user","content":"fix the bug"}}`,
		)

		messages := transcript.Parse(path)
		Expect(messages).To(HaveLen(1))
		Expect(messages[0].Role).To(Equal("user"))
		Expect(messages[0].Text).To(Equal("fix the bug"))
		Expect(messages[0].UUID).To(Equal("u1"))
	})

	It("keeps text blocks and drops tool-use blocks from assistant messages", func() {
		path := writeTranscript(tmpDir,
			`{"type":"user","uuid":"u1","timestamp":"t1","message":{"role":"user","content":"fix the bug"}}`,
			`{"type":"assistant","uuid":"a1","timestamp":"t2","message":{"role":"assistant","content":[{"type":"text","text":"Fixed it by adding a null check"},{"type":"tool_use","id":"toolu_1","name":"Edit","input":{}}]}}`,
		)

		messages := transcript.Parse(path)
		Expect(messages).To(HaveLen(2))
		Expect(messages[0].Role).To(Equal("user"))
		Expect(messages[0].Text).To(Equal("fix the bug"))
		Expect(messages[1].Role).To(Equal("assistant"))
		Expect(messages[1].Text).To(Equal("Fixed it by adding a null check"))
	})

	It("joins multiple text blocks with single newlines", func() {
		path := writeTranscript(tmpDir,
			`{"type":"assistant","uuid":"a1","timestamp":"t1","message":{"role":"assistant","content":[{"type":"text","text":"Here is the plan:"},{"type":"text","text":"Step 1: create the module"}]}}`,
		)

		messages := transcript.Parse(path)
		Expect(messages).To(HaveLen(1))
		Expect(messages[0].Text).To(Equal("Here is the plan:\nStep 1: create the module"))
	})

	It("skips records with other type tags", func() {
		path := writeTranscript(tmpDir,
			`{"type":"system","uuid":"s1","timestamp":"t0","message":{"role":"system","content":"boot"}}`,
			`{"type":"summary","summary":"earlier context"}`,
			`{"type":"user","uuid":"u1","timestamp":"t1","message":{"role":"user","content":"hi"}}`,
		)

		messages := transcript.Parse(path)
		Expect(messages).To(HaveLen(1))
		Expect(messages[0].Role).To(Equal("user"))
	})

	It("skips malformed lines without failing", func() {
		path := writeTranscript(tmpDir,
			`this is not json`,
			`{"type":"user","uuid":"u1","timestamp":"t1","message":{"role":"user","content":"still here"}}`,
			`{"type":"assistant"`,
		)

		messages := transcript.Parse(path)
		Expect(messages).To(HaveLen(1))
		Expect(messages[0].Text).To(Equal("still here"))
	})

	It("returns an empty slice for a missing file", func() {
		messages := transcript.Parse(filepath.Join(tmpDir, "nope.jsonl"))
		Expect(messages).To(BeEmpty())
	})

	It("returns an empty slice for an empty file", func() {
		path := filepath.Join(tmpDir, "empty.jsonl")
		Expect(os.WriteFile(path, nil, 0o644)).To(Succeed())
		Expect(transcript.Parse(path)).To(BeEmpty())
	})
})

var _ = Describe("Assemble", func() {
	It("renders role labels and joins with blank lines", func() {
		messages := Msg("user", "Hello there", "assistant", "Hi back")
		result := transcript.Assemble(messages, 0)

		Expect(result).To(Equal("[USER]: Hello there\n\n[ASSISTANT]: Hi back"))
	})

	It("skips messages with whitespace-only content", func() {
		messages := Msg("user", "  \n\t ", "assistant", "kept")
		result := transcript.Assemble(messages, 0)

		Expect(result).To(Equal("[ASSISTANT]: kept"))
	})

	It("keeps the trailing maxChars with a truncation marker", func() {
		messages := Msg("user", strings.Repeat("A", 30), "assistant", strings.Repeat("B", 30))
		result := transcript.Assemble(messages, 50)

		Expect(result).To(HavePrefix(transcript.TruncationMarker))
		Expect(len(result)).To(BeNumerically("<=", 50+len(transcript.TruncationMarker)))
		Expect(result).To(HaveSuffix(strings.Repeat("B", 30)))
	})

	It("truncates on a rune boundary", func() {
		messages := Msg("user", strings.Repeat("é", 20))

		// A 5-byte tail lands mid-rune; the cut must advance past it.
		result := transcript.Assemble(messages, 5)

		Expect(utf8.ValidString(result)).To(BeTrue())
		Expect(result).To(Equal(transcript.TruncationMarker + strings.Repeat("é", 2)))
	})

	It("bounds output length for any input", func() {
		var messages []transcript.Message
		for range 40 {
			messages = append(messages, transcript.Message{Role: "user", Text: strings.Repeat("x", 997)})
		}

		for _, max := range []int{1, 10, 100, 5000} {
			result := transcript.Assemble(messages, max)
			Expect(len(result)).To(BeNumerically("<=", max+len(transcript.TruncationMarker)))
		}
	})
})

// Msg builds alternating role/text pairs into messages.
func Msg(pairs ...string) []transcript.Message {
	messages := make([]transcript.Message, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		messages = append(messages, transcript.Message{Role: pairs[i], Text: pairs[i+1]})
	}
	return messages
}
