// Package runner spawns external executables under a wall-clock deadline.
//
// The spawned process is placed in its own process group so a deadline kill
// reaches any workers it forked, not just the direct child. Every failure
// mode is a typed error; nothing escapes the Run boundary as a panic.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

var (
	// ErrTimeout is returned when the process group was killed at the
	// wall-clock deadline.
	ErrTimeout = errors.New("process timed out")

	// ErrSpawn is returned when the executable could not be started
	// (not found, permission denied).
	ErrSpawn = errors.New("process spawn failed")

	// ErrProcess is returned on a non-zero exit status.
	ErrProcess = errors.New("process exited with error")

	// ErrEmptyOutput is returned on a zero exit whose trimmed stdout is
	// empty. Callers must not treat empty success as a usable result.
	ErrEmptyOutput = errors.New("process produced no output")
)

// Runner runs an executable and returns its trimmed stdout.
type Runner interface {
	Run(ctx context.Context, executable string, args []string, timeout time.Duration) (string, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates an ExecRunner.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// Run spawns the executable in its own process group, waits up to timeout,
// and returns trimmed stdout on a zero exit. On deadline expiry the entire
// process group receives SIGKILL and the child is reaped with a blocking
// wait before Run returns, so no zombie entry is left in the process table.
func (r *ExecRunner) Run(ctx context.Context, executable string, args []string, timeout time.Duration) (string, error) {
	cmd := exec.Command(executable, args...)
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSpawn, executable, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case waitErr := <-done:
		if waitErr != nil {
			r.logger.Debug("process failed",
				"executable", executable,
				"elapsed", time.Since(start),
				"stderr", excerpt(stderr.String()),
			)
			return "", fmt.Errorf("%w: %v", ErrProcess, waitErr)
		}

		out := strings.TrimSpace(stdout.String())
		if out == "" {
			return "", ErrEmptyOutput
		}
		return out, nil

	case <-timer.C:
		r.killAndReap(cmd, done, executable)
		return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)

	case <-ctx.Done():
		r.killAndReap(cmd, done, executable)
		return "", fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	}
}

// killAndReap kills the whole process group and blocks until the direct
// child is reaped.
func (r *ExecRunner) killAndReap(cmd *exec.Cmd, done <-chan error, executable string) {
	killProcessGroup(cmd)
	<-done

	r.logger.Debug("killed process group", "executable", executable, "pid", cmd.Process.Pid)
}

// excerpt bounds stderr text for log output.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
