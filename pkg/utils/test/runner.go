package testutils

import (
	"context"
	"time"
)

// MockRunner is a test runner with scripted output.
type MockRunner struct {
	// Output is returned from Run when Err is nil.
	Output string

	// Err, when set, is returned from Run.
	Err error

	// Calls records every invocation.
	Calls []MockRunnerCall
}

// MockRunnerCall captures the arguments of one Run invocation.
type MockRunnerCall struct {
	Executable string
	Args       []string
	Timeout    time.Duration
}

func NewMockRunner(output string, err error) *MockRunner {
	return &MockRunner{
		Output: output,
		Err:    err,
	}
}

func (m *MockRunner) Run(_ context.Context, executable string, args []string, timeout time.Duration) (string, error) {
	m.Calls = append(m.Calls, MockRunnerCall{
		Executable: executable,
		Args:       args,
		Timeout:    timeout,
	})
	if m.Err != nil {
		return "", m.Err
	}
	return m.Output, nil
}
