package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/npm-check-install/internal/envfile"
	"github.com/conn-castle/npm-check-install/internal/messages"
	"github.com/conn-castle/npm-check-install/internal/root"
)

// flagSource names command-line overrides in validation errors.
const flagSource = "command-line flags"

// Overrides holds values given on the command line. Empty strings are unset.
type Overrides struct {
	ConfigPath string
	WorkingDir string
	Packages   string
	NpmPath    string
	Registry   string
	Proxy      string
	HTTPSProxy string
	LogLevel   string
	LogFormat  string
}

// Settings is the fully resolved configuration of one run.
type Settings struct {
	Packages   string
	WorkingDir string
	// ConfigPath is the loaded config file, or "" when none was loaded.
	ConfigPath string
	NpmPath    string
	Registry   string
	Proxy      string
	HTTPSProxy string
	// EnvFile is an absolute path, or "" when unset.
	EnvFile string
	// Env holds the [npm.env] table sorted by key.
	Env       []envfile.Var
	LogLevel  string
	LogFormat string
}

// Resolve loads the config file and applies overrides on top of it.
// cwd anchors relative flag paths and the project root search.
//
// The config file is --config when given, else DefaultFileName in the
// --working-dir directory, else in the nearest directory containing package.json.
// The working directory is --working-dir, else working_directory from the config
// file (relative to the file), else the nearest package.json directory, else cwd.
func Resolve(cwd string, o Overrides) (*Settings, error) {
	if err := (&Config{
		Npm: NpmConfig{Path: o.NpmPath, Registry: o.Registry, Proxy: o.Proxy, HTTPSProxy: o.HTTPSProxy},
		Log: LogConfig{Level: o.LogLevel, Format: o.LogFormat},
	}).Validate(flagSource); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	flagDir := ""
	if o.WorkingDir != "" {
		dir, err := absPath(cwd, o.WorkingDir, "--working-dir")
		if err != nil {
			return nil, err
		}
		flagDir = dir
	}

	cfg, configPath, err := loadFor(cwd, flagDir, o.ConfigPath)
	if err != nil {
		return nil, err
	}

	workingDir := flagDir
	switch {
	case workingDir != "":
	case cfg.WorkingDirectory != "":
		workingDir, err = absPath(filepath.Dir(configPath), cfg.WorkingDirectory, "working_directory")
	default:
		workingDir, err = root.ResolveWorkingDir(cwd)
	}
	if err != nil {
		return nil, err
	}

	settings := &Settings{
		Packages:   firstNonEmpty(o.Packages, cfg.Packages),
		WorkingDir: workingDir,
		ConfigPath: configPath,
		NpmPath:    firstNonEmpty(o.NpmPath, cfg.Npm.Path),
		Registry:   firstNonEmpty(o.Registry, cfg.Npm.Registry),
		Proxy:      firstNonEmpty(o.Proxy, cfg.Npm.Proxy),
		HTTPSProxy: firstNonEmpty(o.HTTPSProxy, cfg.Npm.HTTPSProxy),
		Env:        sortedVars(cfg.Npm.Env),
		LogLevel:   firstNonEmpty(o.LogLevel, cfg.Log.Level, LogLevelInfo),
		LogFormat:  firstNonEmpty(o.LogFormat, cfg.Log.Format, LogFormatText),
	}
	if cfg.Npm.EnvFile != "" {
		settings.EnvFile, err = absPath(workingDir, cfg.Npm.EnvFile, "npm.env_file")
		if err != nil {
			return nil, err
		}
	}
	if settings.NpmPath != "" {
		expanded, err := homedir.Expand(settings.NpmPath)
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigExpandPathFmt, "npm path", err)
		}
		settings.NpmPath = expanded
	}
	return settings, nil
}

// NpmEnv returns the variables added to npm's environment: the env file's
// assignments followed by the [npm.env] table, the table winning on conflicts.
func (s *Settings) NpmEnv() ([]envfile.Var, error) {
	var vars []envfile.Var
	if s.EnvFile != "" {
		loaded, err := envfile.Load(s.EnvFile)
		if err != nil {
			return nil, err
		}
		vars = loaded
	}
	index := make(map[string]int, len(vars))
	for i, v := range vars {
		index[v.Key] = i
	}
	for _, v := range s.Env {
		if i, ok := index[v.Key]; ok {
			vars[i].Value = v.Value
			continue
		}
		index[v.Key] = len(vars)
		vars = append(vars, v)
	}
	return vars, nil
}

// loadFor loads the explicit config path, or the optional default file.
func loadFor(cwd string, flagDir string, configFlag string) (*Config, string, error) {
	if configFlag != "" {
		path, err := absPath(cwd, configFlag, "--config")
		if err != nil {
			return nil, "", err
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	base := flagDir
	if base == "" {
		dir, err := root.ResolveWorkingDir(cwd)
		if err != nil {
			return nil, "", err
		}
		base = dir
	}
	path := filepath.Join(base, DefaultFileName)
	cfg, found, err := LoadOptionalConfig(path)
	if err != nil {
		return nil, "", err
	}
	if !found {
		return cfg, "", nil
	}
	return cfg, path, nil
}

// absPath expands ~ in p and resolves it against base when relative.
func absPath(base string, p string, field string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFmt, field, err)
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(base, expanded)
	}
	return filepath.Clean(expanded), nil
}

func sortedVars(env map[string]string) []envfile.Var {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	vars := make([]envfile.Var, 0, len(keys))
	for _, key := range keys {
		vars = append(vars, envfile.Var{Key: key, Value: env[key]})
	}
	return vars
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
