package messages

// Config messages for loading and validating .npm-check-install.toml.
const (
	// ConfigMissingFileFmt formats missing config file errors.
	ConfigMissingFileFmt      = "missing config file %s: %w"
	ConfigReadFileFmt         = "read config file %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %w"
	ConfigExpandPathFmt       = "expand %s: %w"

	ConfigLogLevelInvalidFmt  = "%s: log.level %q must be one of debug, info, warn, error"
	ConfigLogFormatInvalidFmt = "%s: log.format %q must be one of text, json"
	ConfigNpmPathBlankFmt     = "%s: npm.path must not be blank"
	ConfigNpmEnvKeyInvalidFmt = "%s: npm.env key %q must not be empty or contain '='"
	ConfigURLInvalidFmt       = "%s: %s %q must be an absolute http(s) URL"

	// ConfigValidationGuidance is appended to validation errors.
	ConfigValidationGuidance = "(see npm-check-install --help for the supported settings)"

	RootFindProjectFmt      = "find project root from %s: %w"
	RootPackageJSONIsDirFmt = "%s is a directory, expected a package.json file"

	// EnvfileLineErrorFmt formats envfile line errors.
	EnvfileLineErrorFmt            = "line %d: %w"
	EnvfileReadFailedFmt           = "failed to read env content: %w"
	EnvfileLoadFailedFmt           = "load npm env file %s: %w"
	EnvfileExpectedKeyValue        = "expected KEY=VALUE"
	EnvfileUnterminatedQuotedValue = "unterminated quoted value"
	EnvfileInvalidQuotedSuffix     = "invalid trailing characters after quoted value"
)
