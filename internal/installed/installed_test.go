package installed

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/npm-check-install/internal/failure"
)

type fakeLister struct {
	out   []byte
	err   error
	calls int
}

func (f *fakeLister) ListInstalled(context.Context) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

const npmLsOutput = `{
  "version": "1.0.0",
  "name": "webapp",
  "dependencies": {
    "lodash": {
      "version": "4.17.21",
      "resolved": "https://registry.npmjs.org/lodash/-/lodash-4.17.21.tgz",
      "overridden": false
    },
    "left-pad": {
      "version": "1.3.0",
      "dependencies": {
        "nested": { "version": "9.9.9" }
      }
    }
  }
}`

func TestDecode(t *testing.T) {
	set, err := Decode([]byte(npmLsOutput))
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"left-pad", "lodash"}, set.Names())

	version, ok := set.Version("lodash")
	assert.True(t, ok)
	assert.Equal(t, "4.17.21", version)

	_, ok = set.Version("nested")
	assert.False(t, ok, "only top-level dependencies are read")
}

func TestDecodeEmptyProject(t *testing.T) {
	for _, input := range []string{`{}`, `{"name":"empty","version":"1.0.0"}`, `{"dependencies":null}`, " {}\n"} {
		set, err := Decode([]byte(input))
		require.NoError(t, err, input)
		assert.Equal(t, 0, set.Len(), input)
	}
}

func TestDecodeMissingOrInvalidVersion(t *testing.T) {
	input := `{"dependencies":{
		"missing": {"invalid": true},
		"number": {"version": 1},
		"object": {"version": {"major": 1}},
		"null-dep": null,
		"ok": {"version": "2.0.0"}
	}}`
	set, err := Decode([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, 5, set.Len())

	for _, name := range []string{"missing", "number", "object", "null-dep"} {
		version, ok := set.Version(name)
		assert.True(t, ok, name)
		assert.Equal(t, "", version, name)
	}
	version, _ := set.Version("ok")
	assert.Equal(t, "2.0.0", version)
}

func TestDecodeShapeMismatch(t *testing.T) {
	inputs := map[string]string{
		"empty":              "",
		"array":              `[]`,
		"null":               `null`,
		"text":               `npm ERR! missing script`,
		"truncated":          `{"dependencies": {"a": {"version": "1"`,
		"dependencies array": `{"dependencies": []}`,
		"dependency string":  `{"dependencies": {"a": "1.0.0"}}`,
		"trailing data":      `{"dependencies": {}} {}`,
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			set, err := Decode([]byte(input))
			assert.Error(t, err)
			assert.Nil(t, set)
		})
	}
}

func TestNewSetCopies(t *testing.T) {
	source := map[string]string{"a": "1.0.0"}
	set := NewSet(source)
	source["a"] = "changed"

	version, _ := set.Version("a")
	assert.Equal(t, "1.0.0", version)

	var nilSet *Set
	assert.Equal(t, 0, nilSet.Len())
	assert.Nil(t, nilSet.Names())
	_, ok := nilSet.Version("a")
	assert.False(t, ok)
}

func TestReaderRead(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	lister := &fakeLister{out: []byte(npmLsOutput)}

	set, err := NewReader(lister, logger).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, lister.calls)
	assert.Equal(t, 2, set.Len())
	assert.Contains(t, logs.String(), "package=lodash version=4.17.21")
}

func TestReaderListFailure(t *testing.T) {
	lister := &fakeLister{err: errors.New("npm ls --json: exit status 1")}

	set, err := NewReader(lister, nil).Read(context.Background())
	require.Error(t, err)
	assert.Nil(t, set)
	assert.Equal(t, failure.KindInstalledStateUnavailable, failure.KindOf(err))
	assert.Contains(t, err.Error(), "npm ls --json: exit status 1")
}

func TestReaderDecodeFailure(t *testing.T) {
	lister := &fakeLister{out: []byte("not json")}

	_, err := NewReader(lister, nil).Read(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.KindInstalledStateUnavailable, failure.KindOf(err))
	assert.Contains(t, err.Error(), "decode npm ls output")
}

func TestReaderNilLister(t *testing.T) {
	_, err := NewReader(nil, nil).Read(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.KindInstalledStateUnavailable, failure.KindOf(err))
}
