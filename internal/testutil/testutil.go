package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteStubWithExit writes an executable shell stub that exits with the provided code.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) string {
	t.Helper()
	return writeScript(t, dir, name, fmt.Sprintf("#!/bin/sh\nexit %d\n", exitCode))
}

// NpmStub describes the behavior of a fake npm executable.
type NpmStub struct {
	// LsOutput is printed to stdout by `npm ls`.
	LsOutput string
	// LsExit is the exit code of `npm ls`.
	LsExit int
	// InstallExit is the exit code of `npm install`.
	InstallExit int
	// InstallStderr is printed to stderr by `npm install`.
	InstallStderr string
}

// WriteNpmStub writes an executable fake npm into dir and returns its path and the path of the call log.
// Every invocation appends its working directory and arguments, one line per call, to the log.
func WriteNpmStub(t *testing.T, dir string, stub NpmStub) (string, string) {
	t.Helper()
	logPath := filepath.Join(dir, "npm-calls.log")
	lsPath := filepath.Join(dir, "npm-ls.json")
	if err := os.WriteFile(lsPath, []byte(stub.LsOutput), 0o644); err != nil {
		t.Fatalf("write ls output: %v", err)
	}
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "echo \"$(pwd) $*\" >> %q\n", logPath)
	b.WriteString("case \"$1\" in\n")
	fmt.Fprintf(&b, "  ls) cat %q; exit %d ;;\n", lsPath, stub.LsExit)
	fmt.Fprintf(&b, "  install) printf '%%s' %q >&2; exit %d ;;\n", stub.InstallStderr, stub.InstallExit)
	b.WriteString("esac\nexit 127\n")
	return writeScript(t, dir, "npm", b.String()), logPath
}

// ReadCalls returns the lines recorded by a stub written with WriteNpmStub.
// A missing log means the stub was never run.
func ReadCalls(t *testing.T, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read call log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func writeScript(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
// t is the active test; dir is the temporary working directory for fn.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
