// Package config loads .npm-check-install.toml and merges it with command-line
// overrides into the Settings of one run.
package config

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".npm-check-install.toml"

// Config is the on-disk configuration.
type Config struct {
	// Packages is the default package argument, name@version tokens separated by spaces.
	Packages string `toml:"packages"`
	// WorkingDirectory is resolved relative to the config file's directory.
	WorkingDirectory string    `toml:"working_directory"`
	Npm              NpmConfig `toml:"npm"`
	Log              LogConfig `toml:"log"`
}

// NpmConfig configures the npm executable and the environment it runs in.
type NpmConfig struct {
	Path       string `toml:"path"`
	Registry   string `toml:"registry"`
	Proxy      string `toml:"proxy"`
	HTTPSProxy string `toml:"https_proxy"`
	// EnvFile is a dotenv file resolved relative to the working directory.
	EnvFile string            `toml:"env_file"`
	Env     map[string]string `toml:"env"`
}

// LogConfig configures the run logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Log levels and formats accepted in config and flags.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LogFormatText = "text"
	LogFormatJSON = "json"
)
