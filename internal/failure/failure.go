// Package failure tags the fatal errors of a check-and-install run with the
// step that produced them, so callers can branch on the kind instead of
// matching message text.
package failure

import "errors"

// Kind identifies which step of a run failed.
type Kind int

const (
	// KindUnknown is reported for errors that carry no kind.
	KindUnknown Kind = iota
	// KindMalformedSpec marks a package argument that is not a name@version list.
	KindMalformedSpec
	// KindInstalledStateUnavailable marks a failed or unparsable list-installed call.
	KindInstalledStateUnavailable
	// KindInstallFailed marks a failed install call.
	KindInstallFailed
)

func (k Kind) String() string {
	switch k {
	case KindMalformedSpec:
		return "malformed spec"
	case KindInstalledStateUnavailable:
		return "installed state unavailable"
	case KindInstallFailed:
		return "install failed"
	default:
		return "unknown"
	}
}

// Error is a run failure tagged with its Kind.
// Error() returns the wrapped message unchanged.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MalformedSpec tags err as KindMalformedSpec.
func MalformedSpec(err error) error {
	return &Error{Kind: KindMalformedSpec, Err: err}
}

// InstalledStateUnavailable tags err as KindInstalledStateUnavailable.
func InstalledStateUnavailable(err error) error {
	return &Error{Kind: KindInstalledStateUnavailable, Err: err}
}

// InstallFailed tags err as KindInstallFailed.
func InstallFailed(err error) error {
	return &Error{Kind: KindInstallFailed, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
