// Package pkgspec parses the requested package list, a space-separated
// sequence of name@version tokens, into an ordered, immutable Spec.
package pkgspec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/npm-check-install/internal/failure"
	"github.com/conn-castle/npm-check-install/internal/messages"
)

// Package is a single name/version pair.
type Package struct {
	Name    string
	Version string
}

// String formats the package as name@version.
func (p Package) String() string {
	return p.Name + "@" + p.Version
}

// Spec maps package names to exact versions.
// Iteration order is the order in which each name first appeared.
type Spec struct {
	names    []string
	versions map[string]string
}

// Parse parses raw into a Spec.
// A repeated name keeps its first position and takes the last version given.
// Any token that is not exactly name@version, or an empty argument, fails
// with a failure.KindMalformedSpec error.
func Parse(raw string) (*Spec, error) {
	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return nil, failure.MalformedSpec(errors.New(messages.SpecRequired))
	}

	spec := &Spec{
		names:    make([]string, 0, len(tokens)),
		versions: make(map[string]string, len(tokens)),
	}
	for _, token := range tokens {
		pkg, ok := parseToken(token)
		if !ok {
			return nil, failure.MalformedSpec(fmt.Errorf(messages.SpecMalformedTokenFmt, token))
		}
		if _, seen := spec.versions[pkg.Name]; !seen {
			spec.names = append(spec.names, pkg.Name)
		}
		spec.versions[pkg.Name] = pkg.Version
	}
	return spec, nil
}

// tokenize splits raw on single spaces after trimming the whole argument.
// Runs of spaces produce empty tokens, which parseToken rejects.
func tokenize(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, " ")
}

// parseToken validates a single name@version token.
func parseToken(token string) (Package, bool) {
	parts := strings.Split(token, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Package{}, false
	}
	return Package{Name: parts[0], Version: parts[1]}, true
}

// Len returns the number of distinct packages.
func (s *Spec) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Version returns the requested version for name.
func (s *Spec) Version(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	version, ok := s.versions[name]
	return version, ok
}

// Packages returns the packages in iteration order. The slice is a copy.
func (s *Spec) Packages() []Package {
	if s == nil {
		return nil
	}
	out := make([]Package, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, Package{Name: name, Version: s.versions[name]})
	}
	return out
}

// String renders the spec in the same name@version format Parse accepts.
func (s *Spec) String() string {
	pkgs := s.Packages()
	tokens := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		tokens = append(tokens, pkg.String())
	}
	return strings.Join(tokens, " ")
}
