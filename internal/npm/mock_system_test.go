package npm

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// errNotMocked is returned when a testSystem method is called without a mock function set.
var errNotMocked = errors.New("testSystem: method not mocked")

// testSystem provides a mock System for unit tests.
// Run fails fast unless RunFunc is set; Environ returns EnvironValue.
type testSystem struct {
	RunFunc      func(cmd Command) error
	EnvironValue []string

	calls []Command
}

func (s *testSystem) Run(_ context.Context, cmd Command) error {
	s.calls = append(s.calls, cmd)
	if s.RunFunc != nil {
		return s.RunFunc(cmd)
	}
	return fmt.Errorf("%w: Run", errNotMocked)
}

func (s *testSystem) Environ() []string {
	return s.EnvironValue
}

// respond returns a RunFunc writing stdout/stderr and returning err.
func respond(stdout string, stderr string, err error) func(Command) error {
	return func(cmd Command) error {
		_, _ = io.WriteString(cmd.Stdout, stdout)
		_, _ = io.WriteString(cmd.Stderr, stderr)
		return err
	}
}
