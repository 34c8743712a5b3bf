package retrieve_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/LouisB739/thehook/pkg/hook"
	"github.com/LouisB739/thehook/pkg/index"
	"github.com/LouisB739/thehook/pkg/logger"
	"github.com/LouisB739/thehook/pkg/retrieve"
	testutils "github.com/LouisB739/thehook/pkg/utils/test"
)

var _ = Describe("Retriever", func() {
	var (
		driver *testutils.MockVectorDriver
		idx    *index.Index
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = testutils.NewMockVectorDriver()
		idx = index.New(driver, testutils.NewMockEmbedder(), logger.Nop())
		ctx = context.Background()
	})

	Describe("HookResponse", func() {
		It("emits nothing when no context is found", func() {
			r := retrieve.New(idx, retrieve.Options{NResults: 5}, logger.Nop())

			var buf bytes.Buffer
			Expect(r.HookResponse(ctx, &hook.Input{}, &buf)).To(Succeed())
			Expect(buf.Len()).To(BeZero())
		})

		It("writes exactly one response object carrying the context", func() {
			Expect(idx.Upsert(ctx, index.Document{ID: "a", Content: "alpha knowledge"})).To(Succeed())

			r := retrieve.New(idx, retrieve.Options{NResults: 5}, logger.Nop())

			var buf bytes.Buffer
			Expect(r.HookResponse(ctx, &hook.Input{
				HookEventName: "UserPromptSubmit",
				Prompt:        "knowledge",
			}, &buf)).To(Succeed())

			dec := json.NewDecoder(&buf)
			var out hook.Output
			Expect(dec.Decode(&out)).To(Succeed())
			Expect(out.HookSpecificOutput.HookEventName).To(Equal("UserPromptSubmit"))
			Expect(out.HookSpecificOutput.AdditionalContext).To(ContainSubstring("alpha knowledge"))
			Expect(dec.More()).To(BeFalse())
		})

		It("defaults the event name when the payload omits it", func() {
			Expect(idx.Upsert(ctx, index.Document{ID: "a", Content: "alpha knowledge"})).To(Succeed())

			r := retrieve.New(idx, retrieve.Options{
				NResults: 5,
				Query:    "project conventions",
			}, logger.Nop())

			var buf bytes.Buffer
			Expect(r.HookResponse(ctx, &hook.Input{}, &buf)).To(Succeed())

			var out hook.Output
			Expect(json.Unmarshal(buf.Bytes(), &out)).To(Succeed())
			Expect(out.HookSpecificOutput.HookEventName).To(Equal("SessionStart"))
		})
	})

	Describe("Query", func() {
		It("returns document bodies most similar first", func() {
			Expect(idx.AddBatch(ctx, []index.Document{
				{ID: "a", Content: "alpha knowledge"},
				{ID: "b", Content: "beta knowledge"},
			})).To(Succeed())

			r := retrieve.New(idx, retrieve.Options{NResults: 5}, logger.Nop())
			docs := r.Query(ctx, "knowledge")

			Expect(docs).To(ConsistOf("alpha knowledge", "beta knowledge"))
		})

		It("returns nil from an empty index", func() {
			r := retrieve.New(idx, retrieve.Options{NResults: 5}, logger.Nop())
			Expect(r.Query(ctx, "anything")).To(BeNil())
		})

		It("degrades to nil when the query embedding fails", func() {
			Expect(idx.Upsert(ctx, index.Document{ID: "a", Content: "alpha"})).To(Succeed())

			embedder := testutils.NewMockEmbedder()
			embedder.FailOn = "boom"
			failing := index.New(driver, embedder, logger.Nop())

			r := retrieve.New(failing, retrieve.Options{NResults: 5}, logger.Nop())
			Expect(r.Query(ctx, "boom")).To(BeNil())
		})

		Context("with a recency filter", func() {
			now := time.Now().UTC()

			addDoc := func(id string, age time.Duration) {
				Expect(idx.Upsert(ctx, index.Document{
					ID:      id,
					Content: id + " content",
					Metadata: map[string]string{
						"timestamp": now.Add(-age).Format(time.RFC3339),
					},
				})).To(Succeed())
			}

			It("keeps only recent documents", func() {
				addDoc("fresh", 24*time.Hour)
				addDoc("stale", 90*24*time.Hour)

				r := retrieve.New(idx, retrieve.Options{
					NResults:    5,
					RecencyDays: 7,
				}, logger.Nop())

				Expect(r.Query(ctx, "content")).To(ConsistOf("fresh content"))
			})

			It("falls back to a global query when nothing is recent", func() {
				addDoc("stale", 90*24*time.Hour)

				r := retrieve.New(idx, retrieve.Options{
					NResults:              5,
					RecencyDays:           7,
					RecencyFallbackGlobal: true,
				}, logger.Nop())

				Expect(r.Query(ctx, "content")).To(ConsistOf("stale content"))
			})

			It("returns nothing when the fallback is disabled", func() {
				addDoc("stale", 90*24*time.Hour)

				r := retrieve.New(idx, retrieve.Options{
					NResults:    5,
					RecencyDays: 7,
				}, logger.Nop())

				Expect(r.Query(ctx, "content")).To(BeEmpty())
			})
		})
	})
})

var _ = Describe("FormatContext", func() {
	It("joins documents with the separator", func() {
		out := retrieve.FormatContext([]string{"one", "two"}, 2000)
		Expect(out).To(Equal("one" + retrieve.Separator + "two"))
	})

	It("trims the document that crosses the budget and drops the rest", func() {
		docs := []string{
			strings.Repeat("a", 30),
			strings.Repeat("b", 30),
			strings.Repeat("c", 30),
		}

		// 10 tokens = 40 chars: first doc fits, second is trimmed to 10.
		out := retrieve.FormatContext(docs, 10)

		parts := strings.Split(out, retrieve.Separator)
		Expect(parts).To(HaveLen(2))
		Expect(parts[0]).To(Equal(strings.Repeat("a", 30)))
		Expect(parts[1]).To(Equal(strings.Repeat("b", 10)))
	})

	It("backs off to a rune boundary when trimming", func() {
		docs := []string{
			strings.Repeat("a", 29),
			strings.Repeat("é", 10),
		}

		// 10 tokens = 40 chars: 11 bytes remain for the second doc, which
		// would split the sixth two-byte rune.
		out := retrieve.FormatContext(docs, 10)

		Expect(utf8.ValidString(out)).To(BeTrue())
		parts := strings.Split(out, retrieve.Separator)
		Expect(parts).To(HaveLen(2))
		Expect(parts[1]).To(Equal(strings.Repeat("é", 5)))
	})

	It("returns empty for no documents", func() {
		Expect(retrieve.FormatContext(nil, 2000)).To(Equal(""))
	})
})

var _ = Describe("QueryText", func() {
	It("prefers a non-empty prompt", func() {
		Expect(retrieve.QueryText("how do we paginate", "fallback")).To(Equal("how do we paginate"))
	})

	It("falls back when the prompt is whitespace", func() {
		Expect(retrieve.QueryText("   \n", "fallback")).To(Equal("fallback"))
	})
})
