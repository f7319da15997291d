package npm

import (
	"strings"

	"github.com/conn-castle/npm-check-install/internal/envfile"
)

// BuildEnv returns base with each extra variable set, in order.
// base is not modified.
func BuildEnv(base []string, extra []envfile.Var) []string {
	env := make([]string, len(base))
	copy(env, base)
	for _, v := range extra {
		env = SetEnv(env, v.Key, v.Value)
	}
	return env
}

// SetEnv sets or appends a key=value entry in an env slice.
// Every existing entry for key is replaced by a single one; env's backing array is reused.
func SetEnv(env []string, key string, value string) []string {
	prefix := key + "="
	entry := prefix + value
	out := env[:0]
	replaced := false
	for _, existing := range env {
		if !strings.HasPrefix(existing, prefix) {
			out = append(out, existing)
			continue
		}
		if !replaced {
			out = append(out, entry)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, entry)
	}
	return out
}
