package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/conn-castle/npm-check-install/internal/messages"
)

// Validate checks the values that can be checked without touching the filesystem.
// Package syntax is checked when the run parses it so that the error carries its kind.
func (c *Config) Validate(source string) error {
	if c.Log.Level != "" && !IsValidLogLevel(c.Log.Level) {
		return fmt.Errorf(messages.ConfigLogLevelInvalidFmt, source, c.Log.Level)
	}
	if c.Log.Format != "" && !IsValidLogFormat(c.Log.Format) {
		return fmt.Errorf(messages.ConfigLogFormatInvalidFmt, source, c.Log.Format)
	}
	if c.Npm.Path != "" && strings.TrimSpace(c.Npm.Path) == "" {
		return fmt.Errorf(messages.ConfigNpmPathBlankFmt, source)
	}
	for key := range c.Npm.Env {
		if key == "" || strings.Contains(key, "=") {
			return fmt.Errorf(messages.ConfigNpmEnvKeyInvalidFmt, source, key)
		}
	}
	urls := []struct {
		field string
		value string
	}{
		{field: "npm.registry", value: c.Npm.Registry},
		{field: "npm.proxy", value: c.Npm.Proxy},
		{field: "npm.https_proxy", value: c.Npm.HTTPSProxy},
	}
	for _, u := range urls {
		if u.value != "" && !isHTTPURL(u.value) {
			return fmt.Errorf(messages.ConfigURLInvalidFmt, source, u.field, u.value)
		}
	}
	return nil
}

// IsValidLogLevel reports whether level is a supported log level.
func IsValidLogLevel(level string) bool {
	switch level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	}
	return false
}

// IsValidLogFormat reports whether format is a supported log format.
func IsValidLogFormat(format string) bool {
	return format == LogFormatText || format == LogFormatJSON
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
