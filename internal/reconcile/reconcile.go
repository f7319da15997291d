// Package reconcile computes which requested packages still need installing.
package reconcile

import (
	"strings"

	"github.com/conn-castle/npm-check-install/internal/installed"
	"github.com/conn-castle/npm-check-install/internal/pkgspec"
)

// Delta is the ordered list of packages that are missing or installed at a different version.
type Delta []pkgspec.Package

// Reconcile returns the packages of desired whose installed version is absent
// or not byte-for-byte equal to the requested one, in desired's order.
// Installed packages that are not requested are ignored.
func Reconcile(desired *pkgspec.Spec, current *installed.Set) Delta {
	var delta Delta
	for _, pkg := range desired.Packages() {
		version, ok := current.Version(pkg.Name)
		if ok && version == pkg.Version {
			continue
		}
		delta = append(delta, pkg)
	}
	return delta
}

// Empty reports whether there is nothing to install.
func (d Delta) Empty() bool {
	return len(d) == 0
}

// Args returns one name@version argument per package.
func (d Delta) Args() []string {
	args := make([]string, 0, len(d))
	for _, pkg := range d {
		args = append(args, pkg.String())
	}
	return args
}

// String returns the combined install request, name@version tokens joined by single spaces.
func (d Delta) String() string {
	return strings.Join(d.Args(), " ")
}
