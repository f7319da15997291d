package npm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/npm-check-install/internal/envfile"
	"github.com/conn-castle/npm-check-install/internal/pkgspec"
	"github.com/conn-castle/npm-check-install/internal/reconcile"
	"github.com/conn-castle/npm-check-install/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRunner(t *testing.T, sys System, opts Options) *Runner {
	t.Helper()
	runner, err := NewRunner(sys, opts, discardLogger())
	require.NoError(t, err)
	return runner
}

func TestNewRunnerValidation(t *testing.T) {
	_, err := NewRunner(nil, Options{}, discardLogger())
	assert.EqualError(t, err, "npm system is required")

	_, err = NewRunner(&testSystem{}, Options{}, nil)
	assert.EqualError(t, err, "logger is required")

	runner, err := NewRunner(&testSystem{}, Options{Path: "  "}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultPath, runner.opts.Path)
}

func TestListInstalled(t *testing.T) {
	sys := &testSystem{
		RunFunc:      respond(`{"dependencies":{}}`, "", nil),
		EnvironValue: []string{"PATH=/bin"},
	}
	runner := newTestRunner(t, sys, Options{
		Dir:      "/work/app",
		Registry: "https://registry.example.com/",
		Env:      []envfile.Var{{Key: "NPM_CONFIG_FUND", Value: "false"}},
	})

	out, err := runner.ListInstalled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"dependencies":{}}`, string(out))

	require.Len(t, sys.calls, 1)
	call := sys.calls[0]
	assert.Equal(t, "npm", call.Path)
	assert.Equal(t, []string{"ls", "--json", "--registry=https://registry.example.com/"}, call.Args)
	assert.Equal(t, "/work/app", call.Dir)
	assert.Equal(t, []string{"PATH=/bin", "NPM_CONFIG_FUND=false"}, call.Env)
}

func TestListInstalledFailure(t *testing.T) {
	sys := &testSystem{RunFunc: respond(`{"error":{}}`, "npm ERR! code ELSPROBLEMS\n", errors.New("exit status 1"))}
	runner := newTestRunner(t, sys, Options{})

	out, err := runner.ListInstalled(context.Background())
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, "npm ls --json: exit status 1: npm ERR! code ELSPROBLEMS", err.Error())
}

func TestInstallSingleBatchedCall(t *testing.T) {
	sys := &testSystem{RunFunc: respond("added 2 packages\n", "", nil)}
	var stdout bytes.Buffer
	runner := newTestRunner(t, sys, Options{
		Path:       "/opt/node/bin/npm",
		Dir:        "/work/app",
		Proxy:      "http://proxy:3128",
		HTTPSProxy: "http://proxy:3129",
		Stdout:     &stdout,
	})

	delta := reconcile.Delta{{Name: "a", Version: "1.0.0"}, {Name: "b", Version: "2.0.0"}}
	require.NoError(t, runner.Install(context.Background(), delta))

	require.Len(t, sys.calls, 1)
	assert.Equal(t, "/opt/node/bin/npm", sys.calls[0].Path)
	assert.Equal(t, []string{
		"install", "a@1.0.0", "b@2.0.0",
		"--proxy=http://proxy:3128", "--https-proxy=http://proxy:3129",
	}, sys.calls[0].Args)
	assert.Equal(t, "added 2 packages\n", stdout.String())
}

func TestInstallFailurePreservesStderr(t *testing.T) {
	sys := &testSystem{RunFunc: respond("", "npm ERR! 404 Not Found - GET https://registry.npmjs.org/nope\n", errors.New("exit status 1"))}
	var stderr bytes.Buffer
	runner := newTestRunner(t, sys, Options{Stderr: &stderr})

	err := runner.Install(context.Background(), reconcile.Delta{{Name: "nope", Version: "1.0.0"}})
	require.Error(t, err)
	assert.Equal(t, "npm install nope@1.0.0: exit status 1: npm ERR! 404 Not Found - GET https://registry.npmjs.org/nope", err.Error())
	assert.Contains(t, stderr.String(), "404 Not Found", "stderr is streamed as well as captured")
}

func TestInstallEmptyDelta(t *testing.T) {
	sys := &testSystem{}
	runner := newTestRunner(t, sys, Options{})

	err := runner.Install(context.Background(), nil)
	assert.EqualError(t, err, "npm install called without packages")
	assert.Empty(t, sys.calls)
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("short", 10))
	assert.Equal(t, "last line", tail("first line\nlast line", 12))
	assert.Equal(t, "abc", tail("xxxxabc", 3))
}

func TestRealSystemWithStub(t *testing.T) {
	dir := t.TempDir()
	npmPath, logPath := testutil.WriteNpmStub(t, dir, testutil.NpmStub{
		LsOutput: `{"dependencies":{"lodash":{"version":"4.0.0"}}}`,
	})
	runner := newTestRunner(t, RealSystem{}, Options{Path: npmPath, Dir: dir})

	out, err := runner.ListInstalled(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"lodash"`)

	spec, err := pkgspec.Parse("lodash@4.17.21 left-pad@1.3.0")
	require.NoError(t, err)
	require.NoError(t, runner.Install(context.Background(), reconcile.Delta(spec.Packages())))

	calls := testutil.ReadCalls(t, logPath)
	require.Len(t, calls, 2)
	assert.Equal(t, filepath.Clean(dir)+" ls --json", calls[0])
	assert.Equal(t, filepath.Clean(dir)+" install lodash@4.17.21 left-pad@1.3.0", calls[1])
}

func TestRealSystemStubFailure(t *testing.T) {
	dir := t.TempDir()
	npmPath, _ := testutil.WriteNpmStub(t, dir, testutil.NpmStub{
		LsOutput:      "{}",
		InstallExit:   1,
		InstallStderr: "npm ERR! network",
	})
	runner := newTestRunner(t, RealSystem{}, Options{Path: npmPath, Dir: dir})

	err := runner.Install(context.Background(), reconcile.Delta{{Name: "a", Version: "1"}})
	require.Error(t, err)
	assert.True(t, strings.HasSuffix(err.Error(), "exit status 1: npm ERR! network"), err.Error())
}
