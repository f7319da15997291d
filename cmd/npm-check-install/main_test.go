package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conn-castle/npm-check-install/internal/config"
	"github.com/conn-castle/npm-check-install/internal/failure"
)

func TestMainVersion(t *testing.T) {
	var out bytes.Buffer
	if err := execute(context.Background(), []string{"npm-check-install", "--version"}, &out, &out); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestMainUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	err := execute(context.Background(), []string{"npm-check-install", "--bogus"}, &out, &out)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunMainSuccess(t *testing.T) {
	var out bytes.Buffer
	called := false
	runMain([]string{"npm-check-install", "--version"}, &out, &out, func(code int) {
		called = true
	})
	if called {
		t.Fatalf("unexpected exit")
	}
}

func TestRunMainError(t *testing.T) {
	var out bytes.Buffer
	code := 0
	runMain([]string{"npm-check-install", "--bogus"}, &out, &out, func(exitCode int) {
		code = exitCode
	})
	if code != exitError {
		t.Fatalf("expected exit code %d, got %d", exitError, code)
	}
	if !strings.Contains(out.String(), "unknown flag") {
		t.Fatalf("expected error output, got %q", out.String())
	}
}

func TestRunMainMissingArgv0(t *testing.T) {
	orig := executeFunc
	defer func() { executeFunc = orig }()
	var gotArgs []string
	executeFunc = func(_ context.Context, args []string, _ io.Writer, _ io.Writer) error {
		gotArgs = args
		return nil
	}
	runMain(nil, &bytes.Buffer{}, &bytes.Buffer{}, func(int) { t.Fatal("unexpected exit") })
	assert.Equal(t, []string{binaryName}, gotArgs)
}

func TestRunMainExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "malformed spec", err: failure.MalformedSpec(errors.New("bad")), want: exitMalformedInput},
		{name: "config validation", err: fmt.Errorf("%w: bad level", config.ErrConfigValidation), want: exitMalformedInput},
		{name: "installed state", err: failure.InstalledStateUnavailable(errors.New("ls")), want: exitInstalledUnknown},
		{name: "install", err: fmt.Errorf("run: %w", failure.InstallFailed(errors.New("install"))), want: exitInstallFailed},
		{name: "other", err: errors.New("other"), want: exitError},
	}
	orig := executeFunc
	defer func() { executeFunc = orig }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executeFunc = func(context.Context, []string, io.Writer, io.Writer) error { return tt.err }
			var stderr bytes.Buffer
			code := -1
			runMain([]string{"npm-check-install"}, &bytes.Buffer{}, &stderr, func(c int) { code = c })
			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.err.Error()+"\n", stderr.String())
		})
	}
	assert.Equal(t, exitOK, exitCode(nil))
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origBuild := Version, Commit, BuildDate
	defer func() { Version, Commit, BuildDate = origVersion, origCommit, origBuild }()

	Version, Commit, BuildDate = "1.2.3", "unknown", "unknown"
	assert.Equal(t, "1.2.3", versionString())

	Commit, BuildDate = "abc123", "2026-01-02"
	assert.Equal(t, "1.2.3 (commit abc123, built 2026-01-02)", versionString())
}

func TestMainCallsExecute(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	os.Args = []string{"npm-check-install", "--version"}
	main()
}
