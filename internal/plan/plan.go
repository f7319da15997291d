// Package plan renders a preview of the packages a run would install.
package plan

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/npm-check-install/internal/installed"
	"github.com/conn-castle/npm-check-install/internal/reconcile"
)

// Labels of the two sides of the diff.
const (
	InstalledLabel = "installed"
	RequestedLabel = "requested"
)

// Render returns a unified diff from the installed state of delta's packages
// to the requested versions. Packages that are not installed only appear on
// the requested side. An empty delta renders as "".
func Render(delta reconcile.Delta, current *installed.Set) string {
	if delta.Empty() {
		return ""
	}
	var from, to strings.Builder
	for _, pkg := range delta {
		if version, ok := current.Version(pkg.Name); ok {
			from.WriteString(pkg.Name + "@" + version + "\n")
		}
		to.WriteString(pkg.String() + "\n")
	}
	return udiff.Unified(InstalledLabel, RequestedLabel, from.String(), to.String())
}
