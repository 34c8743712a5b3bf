package hook_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/LouisB739/thehook/pkg/hook"
)

var _ = Describe("Hook", func() {
	Describe("ReadInput", func() {
		It("parses a full payload", func() {
			payload := `{"session_id":"abc","transcript_path":"/tmp/t.jsonl","cwd":"/proj","hook_event_name":"SessionEnd"}`
			in, err := hook.ReadInput(strings.NewReader(payload))
			Expect(err).NotTo(HaveOccurred())
			Expect(in.SessionID).To(Equal("abc"))
			Expect(in.TranscriptPath).To(Equal("/tmp/t.jsonl"))
			Expect(in.CWD).To(Equal("/proj"))
			Expect(in.HookEventName).To(Equal("SessionEnd"))
		})

		It("returns a zero value for empty input", func() {
			in, err := hook.ReadInput(strings.NewReader(""))
			Expect(err).NotTo(HaveOccurred())
			Expect(in.SessionID).To(BeEmpty())
		})

		It("errors on malformed JSON", func() {
			_, err := hook.ReadInput(strings.NewReader("not json"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ProjectDir", func() {
		It("prefers cwd", func() {
			in := &hook.Input{CWD: "/a", WorkspaceRoots: []string{"/b"}}
			Expect(in.ProjectDir()).To(Equal("/a"))
		})

		It("falls back to the first workspace root", func() {
			in := &hook.Input{WorkspaceRoots: []string{"/b", "/c"}}
			Expect(in.ProjectDir()).To(Equal("/b"))
		})

		It("defaults to the current directory", func() {
			in := &hook.Input{}
			Expect(in.ProjectDir()).To(Equal("."))
		})
	})

	Describe("WriteOutput", func() {
		It("emits a single hookSpecificOutput object", func() {
			var buf bytes.Buffer
			err := hook.WriteOutput(&buf, "SessionStart", "remembered context")
			Expect(err).NotTo(HaveOccurred())

			var parsed map[string]map[string]string
			Expect(json.Unmarshal(buf.Bytes(), &parsed)).To(Succeed())
			Expect(parsed["hookSpecificOutput"]["hookEventName"]).To(Equal("SessionStart"))
			Expect(parsed["hookSpecificOutput"]["additionalContext"]).To(Equal("remembered context"))

			// Exactly one JSON object, one trailing newline.
			Expect(strings.Count(buf.String(), "\n")).To(Equal(1))
		})
	})
})
