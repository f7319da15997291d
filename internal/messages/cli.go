package messages

// CLI messages for the root command, its flags, and run outcomes.
const (
	// RootUse is the CLI command usage line.
	RootUse = "npm-check-install [flags] [name@version ...]"
	// RootShort is the short description for the root command.
	RootShort = "Install npm packages at exact versions, skipping the ones already installed"
	// RootLong is the long description for the root command.
	RootLong = "npm-check-install reads the installed dependency tree with 'npm ls --json', compares it with the\n" +
		"requested name@version list, and runs a single 'npm install' for the packages that are missing\n" +
		"or installed at a different version. When nothing differs, npm install is not run."

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	FlagPackages     = "Packages to install, formatted as 'name1@version1[ name2@version2[ ...]]'"
	FlagWorkingDir   = "Directory to run npm in (default: nearest directory containing package.json)"
	FlagConfig       = "Path to a TOML config file (default: <working dir>/.npm-check-install.toml when present)"
	FlagNpm          = "npm executable to run"
	FlagRegistry     = "npm registry URL passed as --registry"
	FlagProxy        = "HTTP proxy passed to npm as --proxy"
	FlagHTTPSProxy   = "HTTPS proxy passed to npm as --https-proxy"
	FlagLogLevel     = "Log level (debug, info, warn, error)"
	FlagLogFormat    = "Log format (text, json)"
	FlagDryRun       = "Show which packages would be installed without running npm install"
	FlagPackagesBoth = "pass packages either with --packages or as arguments, not both"

	// OutcomeNothingToInstall is printed when every requested package is already installed.
	OutcomeNothingToInstall = "npm-check-install: nothing to install."
	OutcomeInstalledFmt     = "npm-check-install: installed %s\n"
	OutcomePlannedFmt       = "npm-check-install: would install %s\n"
	OutcomePlanHeader       = "Planned changes (installed -> requested):"

	// LogNothingToInstall is the structured log message for a no-op run.
	LogNothingToInstall = "nothing to install"
	LogInstalledPackage = "installed"
	LogToInstall        = "to install"
	LogRequested        = "requested"
	LogSkipping         = "skipping"
	LogNpmCommand       = "npm command"
	LogResolvedRun      = "resolved run"
	LogDryRun           = "dry run, npm install skipped"
	LogWaitingForLock   = "waiting for project lock"
)
