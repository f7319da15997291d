// Package installed reads the packages currently installed in a project from
// the package manager's structured listing.
package installed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/conn-castle/npm-check-install/internal/failure"
	"github.com/conn-castle/npm-check-install/internal/logging"
	"github.com/conn-castle/npm-check-install/internal/messages"
)

// Set maps installed package names to their versions. It is immutable.
type Set struct {
	versions map[string]string
}

// NewSet builds a Set from a name->version map. The map is copied.
func NewSet(versions map[string]string) *Set {
	copied := make(map[string]string, len(versions))
	for name, version := range versions {
		copied[name] = version
	}
	return &Set{versions: copied}
}

// Version returns the installed version for name and whether it is installed.
func (s *Set) Version(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	version, ok := s.versions[name]
	return version, ok
}

// Len returns the number of installed packages.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.versions)
}

// Names returns the installed package names sorted lexically.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lsDocument is the part of `npm ls --json` output this package reads.
type lsDocument struct {
	Dependencies map[string]lsDependency `json:"dependencies"`
}

// lsDependency keeps version raw so non-string values decode as empty instead of failing.
type lsDependency struct {
	Version json.RawMessage `json:"version"`
}

// Decode parses `npm ls --json` output into a Set.
// The document must be a JSON object, and its optional "dependencies" member an
// object whose values are objects. A missing or non-string "version" decodes as "".
func Decode(data []byte) (*Set, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New(messages.InstalledNotObject)
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	var doc lsDocument
	if err := decoder.Decode(&doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf(messages.InstalledDependenciesFmt, err)
		}
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New(messages.InstalledTrailingData)
	}

	versions := make(map[string]string, len(doc.Dependencies))
	for name, dep := range doc.Dependencies {
		versions[name] = dep.version()
	}
	return &Set{versions: versions}, nil
}

func (d lsDependency) version() string {
	if len(d.Version) == 0 {
		return ""
	}
	var version string
	if err := json.Unmarshal(d.Version, &version); err != nil {
		return ""
	}
	return version
}

// Lister runs the package manager's list-installed command and returns its raw output.
type Lister interface {
	ListInstalled(ctx context.Context) ([]byte, error)
}

// Reader produces the installed Set for a project.
type Reader struct {
	lister Lister
	logger *slog.Logger
}

// NewReader returns a Reader that lists packages through lister.
// A nil logger discards log output.
func NewReader(lister Lister, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reader{lister: lister, logger: logger}
}

// Read lists and decodes the installed packages.
// Both list and decode failures return a failure.KindInstalledStateUnavailable error.
func (r *Reader) Read(ctx context.Context) (*Set, error) {
	if r.lister == nil {
		return nil, failure.InstalledStateUnavailable(errors.New(messages.CheckInstallListerRequired))
	}
	out, err := r.lister.ListInstalled(ctx)
	if err != nil {
		return nil, failure.InstalledStateUnavailable(fmt.Errorf(messages.InstalledListFailedFmt, err))
	}
	set, err := Decode(out)
	if err != nil {
		return nil, failure.InstalledStateUnavailable(fmt.Errorf(messages.InstalledDecodeFailedFmt, err))
	}
	for _, name := range set.Names() {
		version, _ := set.Version(name)
		r.logger.Debug(messages.LogInstalledPackage, "package", name, "version", version)
	}
	return set, nil
}
