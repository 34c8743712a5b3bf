package index_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/LouisB739/thehook/pkg/index"
	"github.com/LouisB739/thehook/pkg/logger"
	testutils "github.com/LouisB739/thehook/pkg/utils/test"
)

var _ = Describe("Index", func() {
	var (
		driver   *testutils.MockVectorDriver
		embedder *testutils.MockEmbedder
		idx      *index.Index
		ctx      context.Context
	)

	BeforeEach(func() {
		driver = testutils.NewMockVectorDriver()
		embedder = testutils.NewMockEmbedder()
		idx = index.New(driver, embedder, logger.Nop())
		ctx = context.Background()
	})

	Describe("Upsert", func() {
		It("embeds the content and stores the document", func() {
			err := idx.Upsert(ctx, index.Document{
				ID:       "2026-01-05-abc123",
				Content:  "## SUMMARY\nFixed the login flow.",
				Metadata: map[string]string{"session_id": "abc123"},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(driver.Documents).To(HaveLen(1))
			Expect(driver.Documents[0].ID).To(Equal("2026-01-05-abc123"))
			Expect(driver.Documents[0].Embedding).NotTo(BeEmpty())
			Expect(embedder.Calls).To(ConsistOf("## SUMMARY\nFixed the login flow."))
		})

		It("replaces a document with the same ID", func() {
			Expect(idx.Upsert(ctx, index.Document{ID: "doc", Content: "first"})).To(Succeed())
			Expect(idx.Upsert(ctx, index.Document{ID: "doc", Content: "second"})).To(Succeed())

			Expect(driver.Documents).To(HaveLen(1))
			Expect(driver.Documents[0].Content).To(Equal("second"))
		})

		It("propagates embedding failures", func() {
			embedder.FailOn = "bad"
			err := idx.Upsert(ctx, index.Document{ID: "doc", Content: "bad"})
			Expect(err).To(HaveOccurred())
			Expect(driver.Documents).To(BeEmpty())
		})
	})

	Describe("AddBatch", func() {
		It("stores every document in one driver call", func() {
			err := idx.AddBatch(ctx, []index.Document{
				{ID: "a", Content: "alpha"},
				{ID: "b", Content: "beta"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.Documents).To(HaveLen(2))
		})

		It("is a no-op for an empty batch", func() {
			Expect(idx.AddBatch(ctx, nil)).To(Succeed())
			Expect(embedder.Calls).To(BeEmpty())
		})
	})

	Describe("Query", func() {
		It("returns nothing from an empty index without embedding the query", func() {
			results, err := idx.Query(ctx, "anything", 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeNil())
			Expect(embedder.Calls).To(BeEmpty())
		})

		It("clamps the limit to the stored document count", func() {
			Expect(idx.AddBatch(ctx, []index.Document{
				{ID: "a", Content: "alpha"},
				{ID: "b", Content: "beta"},
			})).To(Succeed())

			results, err := idx.Query(ctx, "alpha", 50)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("carries content and metadata through to results", func() {
			Expect(idx.Upsert(ctx, index.Document{
				ID:       "doc",
				Content:  "the content",
				Metadata: map[string]string{"session_id": "s1"},
			})).To(Succeed())

			results, err := idx.Query(ctx, "content", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Content).To(Equal("the content"))
			Expect(results[0].Metadata).To(HaveKeyWithValue("session_id", "s1"))
		})
	})

	Describe("Reset", func() {
		It("drops every stored document", func() {
			Expect(idx.Upsert(ctx, index.Document{ID: "doc", Content: "x"})).To(Succeed())
			Expect(idx.Reset(ctx)).To(Succeed())

			count, err := idx.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))
			Expect(driver.ResetCalls).To(Equal(1))
		})
	})
})
