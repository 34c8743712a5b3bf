//go:build unix

package runner_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/LouisB739/thehook/pkg/logger"
	"github.com/LouisB739/thehook/pkg/runner"
)

var _ = Describe("ExecRunner", func() {
	var r *runner.ExecRunner
	var ctx context.Context

	BeforeEach(func() {
		r = runner.NewExecRunner(logger.Nop())
		ctx = context.Background()
	})

	It("returns trimmed stdout on success", func() {
		out, err := r.Run(ctx, "/bin/sh", []string{"-c", "echo '  hello  '"}, 5*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("hello"))
	})

	It("returns ErrEmptyOutput on a zero exit with no stdout", func() {
		_, err := r.Run(ctx, "/bin/sh", []string{"-c", "true"}, 5*time.Second)
		Expect(err).To(MatchError(runner.ErrEmptyOutput))
	})

	It("treats whitespace-only stdout as empty", func() {
		_, err := r.Run(ctx, "/bin/sh", []string{"-c", "echo '   '"}, 5*time.Second)
		Expect(err).To(MatchError(runner.ErrEmptyOutput))
	})

	It("returns ErrProcess on a non-zero exit", func() {
		_, err := r.Run(ctx, "/bin/sh", []string{"-c", "echo oops >&2; exit 3"}, 5*time.Second)
		Expect(err).To(MatchError(runner.ErrProcess))
	})

	It("returns ErrSpawn for a missing executable", func() {
		_, err := r.Run(ctx, "/nonexistent/binary", nil, 5*time.Second)
		Expect(err).To(MatchError(runner.ErrSpawn))
	})

	It("kills the process group on timeout and returns within a bound", func() {
		start := time.Now()
		_, err := r.Run(ctx, "/bin/sh", []string{"-c", "sleep 30"}, 200*time.Millisecond)
		elapsed := time.Since(start)

		Expect(err).To(MatchError(runner.ErrTimeout))
		Expect(elapsed).To(BeNumerically("<", 2*time.Second))
	})

	It("kills forked grandchildren along with the child", func() {
		// The shell forks a background sleep; a leaf-only kill would leave
		// it running and Wait on the pipe would never unblock in time.
		start := time.Now()
		_, err := r.Run(ctx, "/bin/sh", []string{"-c", "sleep 30 & sleep 30"}, 200*time.Millisecond)
		elapsed := time.Since(start)

		Expect(err).To(MatchError(runner.ErrTimeout))
		Expect(elapsed).To(BeNumerically("<", 2*time.Second))
	})

	It("honors context cancellation like a deadline", func() {
		cancelCtx, cancel := context.WithCancel(ctx)
		go func() {
			time.Sleep(100 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		_, err := r.Run(cancelCtx, "/bin/sh", []string{"-c", "sleep 30"}, 10*time.Second)
		Expect(err).To(MatchError(runner.ErrTimeout))
		Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
	})
})
