package messages

// System messages for package spec parsing and npm process invocations.
const (
	// SpecFormat is the accepted package argument format.
	SpecFormat            = "'name1@version1[ name2@version2[ ...]]'"
	SpecMalformedTokenFmt = "invalid argument format for packages: must be " + SpecFormat + " (got %q)"
	SpecRequired          = "packages are required: pass " + SpecFormat + " as arguments, with --packages, or as packages in the config file"

	// InstalledListFailedFmt wraps failures of the list-installed command.
	InstalledListFailedFmt   = "read installed packages: %w"
	InstalledDecodeFailedFmt = "read installed packages: decode npm ls output: %w"
	InstalledNotObject       = "expected a JSON object"
	InstalledDependenciesFmt = "dependencies: expected an object of package objects: %w"
	InstalledTrailingData    = "unexpected data after JSON document"

	// InstallEmptyDelta rejects an install request without packages.
	InstallEmptyDelta = "npm install called without packages"

	NpmCommandFailedFmt       = "%s %s: %w"
	NpmCommandFailedStderrFmt = "%s %s: %w: %s"
	NpmSystemRequired         = "npm system is required"
	NpmLoggerRequired         = "logger is required"

	CheckInstallListerRequired    = "installed-state lister is required"
	CheckInstallInstallerRequired = "installer is required"

	// LockOpenFmt formats project lock open errors.
	LockOpenFmt    = "open project lock %s: %w"
	LockDirFmt     = "locate project lock directory: %w"
	LockAcquireFmt = "acquire project lock %s: %w"
	LockTimeoutFmt = "timed out after %s waiting for another npm-check-install run"
)
