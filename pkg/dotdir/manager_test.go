package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/LouisB739/thehook/pkg/dotdir"
)

var _ = Describe("dotdir", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())

		// Resolve symlinks so paths match filepath.Abs results
		// (e.g. on macOS /var -> /private/var).
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("Target", func() {
		It("creates .thehook under the override project dir", func() {
			result, err := m.Target(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(filepath.Join(tmpDir, ".thehook")))

			info, err := os.Stat(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("returns an existing directory without error", func() {
			first, err := m.Target(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			second, err := m.Target(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})
	})

	Describe("SessionsDir", func() {
		It("joins the sessions subdirectory", func() {
			Expect(dotdir.SessionsDir("/p/.thehook")).To(Equal("/p/.thehook/sessions"))
		})
	})

	Describe("VectorDir", func() {
		It("joins the vector subdirectory", func() {
			Expect(dotdir.VectorDir("/p/.thehook")).To(Equal("/p/.thehook/vector"))
		})
	})
})
