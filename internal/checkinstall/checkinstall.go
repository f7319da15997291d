// Package checkinstall runs one check-and-install pass: parse the requested
// packages, read the installed ones, reconcile, and install the difference
// with a single package-manager call.
package checkinstall

import (
	"context"
	"errors"
	"log/slog"

	"github.com/conn-castle/npm-check-install/internal/failure"
	"github.com/conn-castle/npm-check-install/internal/installed"
	"github.com/conn-castle/npm-check-install/internal/logging"
	"github.com/conn-castle/npm-check-install/internal/messages"
	"github.com/conn-castle/npm-check-install/internal/pkgspec"
	"github.com/conn-castle/npm-check-install/internal/reconcile"
)

// Outcome is the terminal state of a successful run.
type Outcome int

const (
	// OutcomeNothingToInstall means every requested package was already installed.
	OutcomeNothingToInstall Outcome = iota + 1
	// OutcomeInstalled means the install command ran and succeeded.
	OutcomeInstalled
	// OutcomePlanned means a dry run found packages to install and skipped the install.
	OutcomePlanned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNothingToInstall:
		return "nothing to install"
	case OutcomeInstalled:
		return "installed"
	case OutcomePlanned:
		return "planned"
	default:
		return "unknown"
	}
}

// Installer installs a non-empty delta with a single package-manager call.
type Installer interface {
	Install(ctx context.Context, delta reconcile.Delta) error
}

// Options configures Run.
type Options struct {
	// Packages is the raw name@version list. Ignored when Spec is set.
	Packages string
	// Spec is an already parsed package list.
	Spec      *pkgspec.Spec
	Lister    installed.Lister
	Installer Installer
	// Logger receives progress records; nil discards them.
	Logger *slog.Logger
	// DryRun stops after reconciling.
	DryRun bool
}

// Result describes a successful run.
type Result struct {
	Outcome   Outcome
	Delta     reconcile.Delta
	Installed *installed.Set
}

// Run performs one pass. The package list, unless given as Spec, is parsed
// before any external command runs. Errors are *failure.Error values tagged
// with the failing step, and nothing is retried.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Lister == nil {
		return Result{}, errors.New(messages.CheckInstallListerRequired)
	}
	if opts.Installer == nil {
		return Result{}, errors.New(messages.CheckInstallInstallerRequired)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	desired := opts.Spec
	if desired == nil {
		parsed, err := pkgspec.Parse(opts.Packages)
		if err != nil {
			return Result{}, err
		}
		desired = parsed
	}
	logger.Debug(messages.LogRequested, "packages", desired.String())

	current, err := installed.NewReader(opts.Lister, logger).Read(ctx)
	if err != nil {
		return Result{}, err
	}

	delta := reconcile.Reconcile(desired, current)
	logDecisions(logger, desired, delta)
	result := Result{Delta: delta, Installed: current}

	if delta.Empty() {
		logger.Info(messages.LogNothingToInstall)
		result.Outcome = OutcomeNothingToInstall
		return result, nil
	}
	if opts.DryRun {
		logger.Info(messages.LogDryRun, "packages", delta.String())
		result.Outcome = OutcomePlanned
		return result, nil
	}

	if err := opts.Installer.Install(ctx, delta); err != nil {
		var tagged *failure.Error
		if errors.As(err, &tagged) {
			return Result{}, err
		}
		return Result{}, failure.InstallFailed(err)
	}
	result.Outcome = OutcomeInstalled
	return result, nil
}

func logDecisions(logger *slog.Logger, desired *pkgspec.Spec, delta reconcile.Delta) {
	pending := make(map[string]bool, len(delta))
	for _, pkg := range delta {
		pending[pkg.Name] = true
	}
	for _, pkg := range desired.Packages() {
		msg := messages.LogSkipping
		if pending[pkg.Name] {
			msg = messages.LogToInstall
		}
		logger.Debug(msg, "package", pkg.Name, "version", pkg.Version)
	}
}
