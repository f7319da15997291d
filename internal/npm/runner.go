// Package npm runs the npm commands a check-and-install run needs: listing
// the installed tree and installing a batch of packages.
package npm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/conn-castle/npm-check-install/internal/envfile"
	"github.com/conn-castle/npm-check-install/internal/messages"
	"github.com/conn-castle/npm-check-install/internal/reconcile"
)

// DefaultPath is the npm executable used when none is configured.
const DefaultPath = "npm"

// stderrTailBytes bounds how much captured stderr is appended to an error.
const stderrTailBytes = 2048

// Options configures a Runner.
type Options struct {
	// Path is the npm executable; DefaultPath when empty.
	Path string
	// Dir is the project directory npm runs in. Passed through unchanged.
	Dir        string
	Registry   string
	Proxy      string
	HTTPSProxy string
	// Env holds variables added to the inherited environment.
	Env []envfile.Var
	// Stdout and Stderr receive the output of npm install. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Runner issues npm commands in one project directory.
type Runner struct {
	sys    System
	opts   Options
	logger *slog.Logger
}

// NewRunner returns a Runner using sys for process execution.
func NewRunner(sys System, opts Options, logger *slog.Logger) (*Runner, error) {
	if sys == nil {
		return nil, errors.New(messages.NpmSystemRequired)
	}
	if logger == nil {
		return nil, errors.New(messages.NpmLoggerRequired)
	}
	if strings.TrimSpace(opts.Path) == "" {
		opts.Path = DefaultPath
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	return &Runner{sys: sys, opts: opts, logger: logger}, nil
}

// ListInstalled runs `npm ls --json` and returns its standard output.
// A non-zero exit is an error even when npm printed a document.
func (r *Runner) ListInstalled(ctx context.Context) ([]byte, error) {
	args := append([]string{"ls", "--json"}, r.commonArgs()...)
	r.logger.Debug(messages.LogNpmCommand, "command", r.describe(args), "dir", r.opts.Dir)

	var stdout, stderr bytes.Buffer
	if err := r.run(ctx, args, &stdout, &stderr); err != nil {
		return nil, r.commandError(args, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// Install runs a single `npm install` covering every package of delta.
func (r *Runner) Install(ctx context.Context, delta reconcile.Delta) error {
	if delta.Empty() {
		return errors.New(messages.InstallEmptyDelta)
	}
	args := append([]string{"install"}, delta.Args()...)
	args = append(args, r.commonArgs()...)
	r.logger.Info(messages.LogNpmCommand, "command", r.describe(args), "dir", r.opts.Dir)

	var stderr bytes.Buffer
	err := r.run(ctx, args, r.opts.Stdout, io.MultiWriter(r.opts.Stderr, &stderr))
	if err != nil {
		return r.commandError(args, err, stderr.String())
	}
	return nil
}

func (r *Runner) run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) error {
	return r.sys.Run(ctx, Command{
		Path:   r.opts.Path,
		Args:   args,
		Dir:    r.opts.Dir,
		Env:    BuildEnv(r.sys.Environ(), r.opts.Env),
		Stdout: stdout,
		Stderr: stderr,
	})
}

// commonArgs returns the registry and proxy flags shared by every command.
func (r *Runner) commonArgs() []string {
	var args []string
	if r.opts.Registry != "" {
		args = append(args, "--registry="+r.opts.Registry)
	}
	if r.opts.Proxy != "" {
		args = append(args, "--proxy="+r.opts.Proxy)
	}
	if r.opts.HTTPSProxy != "" {
		args = append(args, "--https-proxy="+r.opts.HTTPSProxy)
	}
	return args
}

func (r *Runner) describe(args []string) string {
	return r.opts.Path + " " + strings.Join(args, " ")
}

func (r *Runner) commandError(args []string, err error, stderr string) error {
	detail := tail(strings.TrimSpace(stderr), stderrTailBytes)
	if detail == "" {
		return fmt.Errorf(messages.NpmCommandFailedFmt, r.opts.Path, strings.Join(args, " "), err)
	}
	return fmt.Errorf(messages.NpmCommandFailedStderrFmt, r.opts.Path, strings.Join(args, " "), err, detail)
}

// tail returns the last n bytes of s, starting at a line boundary when one is available.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[len(s)-n:]
	if idx := strings.IndexByte(cut, '\n'); idx >= 0 && idx+1 < len(cut) {
		return cut[idx+1:]
	}
	return cut
}
