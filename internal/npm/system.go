package npm

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// System abstracts the process operations npm invocations need.
// Tests substitute a fake to record commands without running npm.
type System interface {
	Run(ctx context.Context, cmd Command) error
	Environ() []string
}

// Command describes one child process.
type Command struct {
	Path   string
	Args   []string
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// RealSystem implements System with os/exec.
type RealSystem struct{}

// Run starts cmd and waits for it to exit.
func (RealSystem) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr
	return c.Run()
}

// Environ returns a copy of strings representing the environment.
func (RealSystem) Environ() []string {
	return os.Environ()
}
